package repository

import (
	"context"
	"fmt"

	"github.com/mnemosyne-app/mnemosyne/models"
	"gorm.io/gorm"
)

// EventRepositoryImpl implements EventRepository interface
type EventRepositoryImpl struct {
	*BaseRepository[models.Event, models.EventFilter]
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &EventRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Event, models.EventFilter](db),
	}
}

// ByID retrieves an event with its category and tags preloaded
func (r *EventRepositoryImpl) ByID(ctx context.Context, id uint) (*models.Event, error) {
	db := r.getDB(ctx)
	var row models.Event
	err := db.Preload("Category").Preload("Tags").Last(&row, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// applyFilter applies filter criteria to a GORM query. Every present field
// narrows the result; the tag filter is a membership test (the event carries
// at least one of the given tags), expressed as a join against events_tags.
func (r *EventRepositoryImpl) applyFilter(query *gorm.DB, filter models.EventFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("events.id = ?", *filter.ID)
	}
	if filter.AuthorID != nil {
		query = query.Where("events.author_id = ?", *filter.AuthorID)
	}
	if filter.CategoryID != nil {
		query = query.Where("events.category_id = ?", *filter.CategoryID)
	}
	if filter.DateFrom != nil {
		query = query.Where("events.date >= ?", *filter.DateFrom)
	}
	if len(filter.TagIDs) > 0 {
		query = query.
			Joins("JOIN events_tags ON events_tags.event_id = events.id").
			Where("events_tags.tag_id IN ?", filter.TagIDs)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("events.created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("events.created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves events based on filter criteria, category and tags
// preloaded. Default ordering is ascending by id, matching the index view.
func (r *EventRepositoryImpl) ByFilter(ctx context.Context, filter models.EventFilter, orderBy string, limit, offset int) ([]*models.Event, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Event{})

	query = r.applyFilter(query, filter)

	if len(filter.TagIDs) > 0 {
		// The tag join can multiply rows when an event carries several of
		// the requested tags
		query = query.Distinct("events.*")
	}

	if orderBy == "" {
		orderBy = "events.id ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Event
	if err := query.Preload("Category").Preload("Tags").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of events matching the filter
func (r *EventRepositoryImpl) Count(ctx context.Context, filter models.EventFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Event{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Distinct("events.id").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any event matching the filter exists
func (r *EventRepositoryImpl) Exists(ctx context.Context, filter models.EventFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// Save inserts an event together with its tag associations
func (r *EventRepositoryImpl) Save(ctx context.Context, event *models.Event) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Create(event).Error
	if err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}

	return nil
}

// Update persists field changes to an existing event (associations excluded;
// use ReplaceTags for the tag set)
func (r *EventRepositoryImpl) Update(ctx context.Context, event *models.Event) error {
	db := r.getDB(ctx)
	if err := db.Omit("Tags", "Category", "Author").Save(event).Error; err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

// ReplaceTags overwrites the event's tag set. This is the explicit cleanup
// call that stands in for ORM-side orphan removal.
func (r *EventRepositoryImpl) ReplaceTags(ctx context.Context, event *models.Event, tags []models.Tag) error {
	db := r.getDB(ctx)
	if err := db.Model(event).Association("Tags").Replace(tags); err != nil {
		return fmt.Errorf("failed to replace event tags: %w", err)
	}
	return nil
}

// Delete removes an event and its tag associations
func (r *EventRepositoryImpl) Delete(ctx context.Context, eventID uint) error {
	db := r.getDB(ctx)

	if err := db.Exec("DELETE FROM events_tags WHERE event_id = ?", eventID).Error; err != nil {
		return fmt.Errorf("failed to clear event tags: %w", err)
	}

	result := db.Delete(&models.Event{}, eventID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event %d not found", eventID)
	}
	return nil
}
