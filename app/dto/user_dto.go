package dto

// UserDTO represents a user account in API responses
type UserDTO struct {
	ID          uint     `json:"id" example:"123"`
	UUID        string   `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Email       string   `json:"email" example:"user@example.com"`
	Roles       []string `json:"roles" example:"USER"`
	IsActive    bool     `json:"is_active" example:"true"`
	CreatedAt   string   `json:"created_at" example:"2024-01-15T10:30:00Z"`
	LastLoginAt string   `json:"last_login_at,omitempty" example:"2024-01-15T16:30:00Z"`
}

// ListUsersResponse represents a page of user accounts
type ListUsersResponse struct {
	Users      []UserDTO `json:"users"`
	Page       int       `json:"page" example:"1"`
	PerPage    int       `json:"per_page" example:"10"`
	Total      int64     `json:"total" example:"42"`
	TotalPages int       `json:"total_pages" example:"5"`
}

// UpdateRolesRequest represents the request payload for replacing a user's
// role set
type UpdateRolesRequest struct {
	Roles []string `json:"roles" validate:"required,dive,oneof=USER ADMIN" example:"USER,ADMIN"`
}

// SetActiveRequest represents the request payload for toggling an account's
// active flag
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required" example:"false"`
}

// ResetPasswordRequest represents the request payload for an administrative
// password reset
type ResetPasswordRequest struct {
	NewPassword     string `json:"new_password" validate:"required,min=8,max=100" example:"NewSecurePass123!"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword" example:"NewSecurePass123!"`
}
