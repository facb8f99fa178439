package dto

// CategoryDTO represents a category in API responses
type CategoryDTO struct {
	ID        uint   `json:"id" example:"3"`
	Title     string `json:"title" example:"Work"`
	Slug      string `json:"slug" example:"work"`
	CreatedAt string `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt string `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

// CreateCategoryRequest represents the request payload for creating a category
type CreateCategoryRequest struct {
	Title string `json:"title" validate:"required,min=3,max=64" example:"Work"`
}

// UpdateCategoryRequest represents the request payload for renaming a category
type UpdateCategoryRequest struct {
	Title string `json:"title" validate:"required,min=3,max=64" example:"Work"`
}

// ListCategoriesResponse represents a page of categories
type ListCategoriesResponse struct {
	Items      []CategoryDTO `json:"items"`
	Page       int           `json:"page" example:"1"`
	PerPage    int           `json:"per_page" example:"5"`
	Total      int64         `json:"total" example:"12"`
	TotalPages int           `json:"total_pages" example:"3"`
}
