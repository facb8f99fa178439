package dto

// TagDTO represents a tag in API responses
type TagDTO struct {
	ID        uint   `json:"id" example:"7"`
	Title     string `json:"title" example:"family"`
	Slug      string `json:"slug" example:"family"`
	CreatedAt string `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt string `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

// CreateTagRequest represents the request payload for creating a tag
type CreateTagRequest struct {
	Title string `json:"title" validate:"required,min=1,max=64" example:"family"`
}

// UpdateTagRequest represents the request payload for renaming a tag
type UpdateTagRequest struct {
	Title string `json:"title" validate:"required,min=1,max=64" example:"family"`
}

// ListTagsResponse represents a page of tags
type ListTagsResponse struct {
	Items      []TagDTO `json:"items"`
	Page       int      `json:"page" example:"1"`
	PerPage    int      `json:"per_page" example:"5"`
	Total      int64    `json:"total" example:"20"`
	TotalPages int      `json:"total_pages" example:"4"`
}
