package models

import "time"

// Category is an admin-managed taxonomy entry that events are filed under.
// Table: category
// Title is globally unique; the slug is derived from the title on save.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:64;not null;uniqueIndex:uk_category_title" json:"title"`
	Slug      string    `gorm:"size:64;not null;index:idx_category_slug" json:"slug"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Category) TableName() string { return "category" }

// CategoryFilter represents filter criteria for category queries
type CategoryFilter struct {
	ID            *uint
	Title         *string
	Slug          *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
