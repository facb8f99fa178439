package models

import "time"

// Tag is a shared label attached to contacts and events.
// Table: tags
// Unique by title. Lookup through the normalizer is case-insensitive but the
// stored title keeps its original casing, so two differently cased first
// submissions of a brand-new title can race into two rows.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:64;not null;uniqueIndex:uk_tags_title" json:"title"`
	Slug      string    `gorm:"size:64;not null;index:idx_tags_slug" json:"slug"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_tags_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Tag) TableName() string { return "tags" }

// TagFilter represents filter criteria for tag queries
type TagFilter struct {
	ID            *uint
	Title         *string
	TitleFold     *string // case-insensitive title match
	Slug          *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
