package dto

// RegisterRequest represents the request payload for account registration
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email,max=180" example:"user@example.com"`
	Password        string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password" example:"SecurePass123!"`
}

// LoginRequest represents the request payload for user login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=180" example:"user@example.com"`
	Password string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
}

// RefreshRequest represents the request payload for session refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// ChangePasswordRequest represents the request payload for a password change
// by the account owner
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required,min=8,max=100" example:"OldPass123!"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=100,nefield=CurrentPassword" example:"NewSecurePass123!"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword" example:"NewSecurePass123!"`
}

// SessionDTO represents the token pair returned on login, register, and
// refresh
type SessionDTO struct {
	SessionToken string `json:"session_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string `json:"refresh_token,omitempty" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType    string `json:"token_type" example:"Bearer"`
	ExpiresIn    int    `json:"expires_in" example:"86400"`
	CreatedAt    string `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// AuthResponse represents the payload returned by authentication operations
type AuthResponse struct {
	User    UserDTO    `json:"user"`
	Session SessionDTO `json:"session"`
}
