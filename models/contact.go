package models

import "time"

// Contact is a private address-book entry, visible only to its author.
// Table: contacts
type Contact struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:255;not null" json:"name"`
	Phone       string  `gorm:"size:255;not null" json:"phone"`
	Description *string `gorm:"size:255" json:"description,omitempty"`

	AuthorID uint `gorm:"not null;index:idx_contacts_author_id" json:"author_id"`
	Author   User `gorm:"foreignKey:AuthorID;references:ID" json:"-"`

	Tags []Tag `gorm:"many2many:contacts_tags;" json:"tags,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_contacts_updated_at" json:"updated_at"`
}

func (Contact) TableName() string { return "contacts" }

// ContactFilter represents filter criteria for contact queries
type ContactFilter struct {
	ID            *uint
	AuthorID      *uint
	Name          *string
	Phone         *string
	TagIDs        []uint
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
