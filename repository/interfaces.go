// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mnemosyne-app/mnemosyne/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// UserRepository defines operations for user accounts
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByUUID(ctx context.Context, uuid string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
	UpdateRoles(ctx context.Context, userID uint, roles []string) error
	UpdateLastLogin(ctx context.Context, userID uint) error
	Delete(ctx context.Context, userID uint) error
}

// UserSessionRepository defines operations for user sessions
type UserSessionRepository interface {
	Repository[models.UserSession, models.UserSessionFilter]
	BySessionToken(ctx context.Context, token string) (*models.UserSession, error)
	ByRefreshToken(ctx context.Context, token string) (*models.UserSession, error)
	DeactivateByCorrelationID(ctx context.Context, correlationID uuid.UUID) error
	DeactivateAllForUser(ctx context.Context, userID uint) error
}

// CategoryRepository defines operations for the category taxonomy
type CategoryRepository interface {
	Repository[models.Category, models.CategoryFilter]
	ByTitle(ctx context.Context, title string) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, categoryID uint) error
}

// TagRepository defines operations for tags
type TagRepository interface {
	Repository[models.Tag, models.TagFilter]
	ByTitle(ctx context.Context, title string) (*models.Tag, error)
	ByTitleFold(ctx context.Context, title string) (*models.Tag, error)
	ListByIDs(ctx context.Context, ids []uint) ([]*models.Tag, error)
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, tagID uint) error
}

// ContactRepository defines operations for private contacts
type ContactRepository interface {
	Repository[models.Contact, models.ContactFilter]
	Update(ctx context.Context, contact *models.Contact) error
	ReplaceTags(ctx context.Context, contact *models.Contact, tags []models.Tag) error
	Delete(ctx context.Context, contactID uint) error
}

// EventRepository defines operations for events, including the filtered
// listing that backs the event index view
type EventRepository interface {
	Repository[models.Event, models.EventFilter]
	Update(ctx context.Context, event *models.Event) error
	ReplaceTags(ctx context.Context, event *models.Event, tags []models.Tag) error
	Delete(ctx context.Context, eventID uint) error
}
