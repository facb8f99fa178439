package models

import "time"

// Event is a dated entry owned by a single user and filed under a category.
// Table: events
// Category and author are mandatory; tags are a many-to-many set through
// events_tags.
type Event struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Title       string  `gorm:"size:255;not null" json:"title"`
	Description *string `gorm:"size:255" json:"description,omitempty"`

	Date time.Time `gorm:"not null;index:idx_events_date" json:"date"`

	CategoryID uint     `gorm:"not null;index:idx_events_category_id" json:"category_id"`
	Category   Category `gorm:"foreignKey:CategoryID;references:ID" json:"category,omitempty"`

	AuthorID uint `gorm:"not null;index:idx_events_author_id" json:"author_id"`
	Author   User `gorm:"foreignKey:AuthorID;references:ID" json:"-"`

	Tags []Tag `gorm:"many2many:events_tags;" json:"tags,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Event) TableName() string { return "events" }

// EventFilter represents filter criteria for event queries. All present
// fields are ANDed together; TagIDs is a membership test (any of).
type EventFilter struct {
	ID            *uint
	AuthorID      *uint
	CategoryID    *uint
	DateFrom      *time.Time
	TagIDs        []uint
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
