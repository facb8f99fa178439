package repository

import (
	"context"
	"fmt"

	"github.com/mnemosyne-app/mnemosyne/models"
	"gorm.io/gorm"
)

// ContactRepositoryImpl implements ContactRepository interface
type ContactRepositoryImpl struct {
	*BaseRepository[models.Contact, models.ContactFilter]
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &ContactRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Contact, models.ContactFilter](db),
	}
}

// ByID retrieves a contact with its tags preloaded
func (r *ContactRepositoryImpl) ByID(ctx context.Context, id uint) (*models.Contact, error) {
	db := r.getDB(ctx)
	var row models.Contact
	err := db.Preload("Tags").Last(&row, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *ContactRepositoryImpl) applyFilter(query *gorm.DB, filter models.ContactFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("contacts.id = ?", *filter.ID)
	}
	if filter.AuthorID != nil {
		query = query.Where("contacts.author_id = ?", *filter.AuthorID)
	}
	if filter.Name != nil {
		query = query.Where("contacts.name = ?", *filter.Name)
	}
	if filter.Phone != nil {
		query = query.Where("contacts.phone = ?", *filter.Phone)
	}
	if len(filter.TagIDs) > 0 {
		query = query.
			Joins("JOIN contacts_tags ON contacts_tags.contact_id = contacts.id").
			Where("contacts_tags.tag_id IN ?", filter.TagIDs)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("contacts.created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("contacts.created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves contacts based on filter criteria, tags preloaded.
// Default ordering is most recently updated first, matching the index view.
func (r *ContactRepositoryImpl) ByFilter(ctx context.Context, filter models.ContactFilter, orderBy string, limit, offset int) ([]*models.Contact, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Contact{})

	query = r.applyFilter(query, filter)

	if len(filter.TagIDs) > 0 {
		query = query.Distinct("contacts.*")
	}

	if orderBy == "" {
		orderBy = "contacts.updated_at DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Contact
	if err := query.Preload("Tags").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of contacts matching the filter
func (r *ContactRepositoryImpl) Count(ctx context.Context, filter models.ContactFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Contact{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Distinct("contacts.id").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any contact matching the filter exists
func (r *ContactRepositoryImpl) Exists(ctx context.Context, filter models.ContactFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// Update persists field changes to an existing contact (associations
// excluded; use ReplaceTags for the tag set)
func (r *ContactRepositoryImpl) Update(ctx context.Context, contact *models.Contact) error {
	db := r.getDB(ctx)
	if err := db.Omit("Tags", "Author").Save(contact).Error; err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	return nil
}

// ReplaceTags overwrites the contact's tag set
func (r *ContactRepositoryImpl) ReplaceTags(ctx context.Context, contact *models.Contact, tags []models.Tag) error {
	db := r.getDB(ctx)
	if err := db.Model(contact).Association("Tags").Replace(tags); err != nil {
		return fmt.Errorf("failed to replace contact tags: %w", err)
	}
	return nil
}

// Delete removes a contact and its tag associations
func (r *ContactRepositoryImpl) Delete(ctx context.Context, contactID uint) error {
	db := r.getDB(ctx)

	if err := db.Exec("DELETE FROM contacts_tags WHERE contact_id = ?", contactID).Error; err != nil {
		return fmt.Errorf("failed to clear contact tags: %w", err)
	}

	result := db.Delete(&models.Contact{}, contactID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete contact: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("contact %d not found", contactID)
	}
	return nil
}
