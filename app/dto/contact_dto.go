package dto

// ContactDTO represents a contact in API responses. Tags carries the
// comma-separated form used by the tag input widget, TagList the structured
// form.
type ContactDTO struct {
	ID          uint     `json:"id" example:"15"`
	Name        string   `json:"name" example:"Jane Smith"`
	Phone       string   `json:"phone" example:"+15550001111"`
	Description string   `json:"description,omitempty" example:"Met at the conference"`
	AuthorID    uint     `json:"author_id" example:"123"`
	Tags        string   `json:"tags" example:"work, conference"`
	TagList     []TagDTO `json:"tag_list,omitempty"`
	CreatedAt   string   `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt   string   `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

// CreateContactRequest represents the request payload for creating a contact
type CreateContactRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255" example:"Jane Smith"`
	Phone       string  `json:"phone" validate:"required,min=3,max=64" example:"+15550001111"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000" example:"Met at the conference"`
	Tags        string  `json:"tags" validate:"omitempty,max=500" example:"work, conference"`
}

// UpdateContactRequest represents the request payload for updating a contact
type UpdateContactRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255" example:"Jane Smith"`
	Phone       string  `json:"phone" validate:"required,min=3,max=64" example:"+15550001111"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000" example:"Met at the conference"`
	Tags        string  `json:"tags" validate:"omitempty,max=500" example:"work, conference"`
}

// ListContactsResponse represents a page of contacts
type ListContactsResponse struct {
	Items      []ContactDTO `json:"items"`
	Page       int          `json:"page" example:"1"`
	PerPage    int          `json:"per_page" example:"5"`
	Total      int64        `json:"total" example:"8"`
	TotalPages int          `json:"total_pages" example:"2"`
}
