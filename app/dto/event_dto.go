package dto

// EventDTO represents an event in API responses
type EventDTO struct {
	ID            uint     `json:"id" example:"42"`
	Title         string   `json:"title" example:"Weekly standup"`
	Description   string   `json:"description,omitempty" example:"Team sync in room B"`
	Date          string   `json:"date" example:"2024-02-01T09:00:00Z"`
	CategoryID    uint     `json:"category_id" example:"3"`
	CategoryTitle string   `json:"category_title" example:"Work"`
	AuthorID      uint     `json:"author_id" example:"123"`
	Tags          string   `json:"tags" example:"work, meeting"`
	TagList       []TagDTO `json:"tag_list,omitempty"`
	CreatedAt     string   `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt     string   `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

// ListEventsRequest carries the listing and filtering parameters for the
// event index. UserID is filled from the authenticated session, never from
// client input.
type ListEventsRequest struct {
	UserID         uint   `json:"-"`
	Page           int    `json:"page" validate:"omitempty,min=1" example:"1"`
	CategoryID     *uint  `json:"category_id,omitempty" validate:"omitempty,min=1" example:"3"`
	HidePastEvents bool   `json:"hide_past_events" example:"true"`
	TagIDs         []uint `json:"tag_ids,omitempty" validate:"omitempty,dive,min=1" example:"7,9"`
}

// CreateEventRequest represents the request payload for creating an event
type CreateEventRequest struct {
	Title       string  `json:"title" validate:"required,min=3,max=255" example:"Weekly standup"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000" example:"Team sync in room B"`
	Date        string  `json:"date" validate:"required" example:"2024-02-01T09:00:00Z"`
	CategoryID  uint    `json:"category_id" validate:"required,min=1" example:"3"`
	Tags        string  `json:"tags" validate:"omitempty,max=500" example:"work, meeting"`
}

// UpdateEventRequest represents the request payload for updating an event
type UpdateEventRequest struct {
	Title       string  `json:"title" validate:"required,min=3,max=255" example:"Weekly standup"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000" example:"Team sync in room B"`
	Date        string  `json:"date" validate:"required" example:"2024-02-01T09:00:00Z"`
	CategoryID  uint    `json:"category_id" validate:"required,min=1" example:"3"`
	Tags        string  `json:"tags" validate:"omitempty,max=500" example:"work, meeting"`
}

// ListEventsResponse represents a page of events
type ListEventsResponse struct {
	Items      []EventDTO `json:"items"`
	Page       int        `json:"page" example:"1"`
	PerPage    int        `json:"per_page" example:"5"`
	Total      int64      `json:"total" example:"17"`
	TotalPages int        `json:"total_pages" example:"4"`
}
