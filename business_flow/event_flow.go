package businessflow

import (
	"context"
	"strings"
	"time"

	"github.com/mnemosyne-app/mnemosyne/app/dto"
	"github.com/mnemosyne-app/mnemosyne/models"
	"github.com/mnemosyne-app/mnemosyne/repository"
	"github.com/mnemosyne-app/mnemosyne/utils"
	"gorm.io/gorm"
)

// EventFlow defines operations for managing a user's events, including the
// filtered index listing.
type EventFlow interface {
	ListEvents(ctx context.Context, req *dto.ListEventsRequest) (*dto.ListEventsResponse, error)
	GetEvent(ctx context.Context, userID, eventID uint) (*dto.EventDTO, error)
	CreateEvent(ctx context.Context, userID uint, req *dto.CreateEventRequest) (*dto.EventDTO, error)
	UpdateEvent(ctx context.Context, userID, eventID uint, req *dto.UpdateEventRequest) (*dto.EventDTO, error)
	DeleteEvent(ctx context.Context, userID, eventID uint) error
}

// EventFlowImpl implements EventFlow
type EventFlowImpl struct {
	eventRepo    repository.EventRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
	tags         TagFlow
	perPage      int
	db           *gorm.DB
}

// NewEventFlow creates a new event flow instance
func NewEventFlow(
	eventRepo repository.EventRepository,
	categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
	tags TagFlow,
	perPage int,
	db *gorm.DB,
) EventFlow {
	if perPage <= 0 {
		perPage = utils.DefaultPageSize
	}
	return &EventFlowImpl{
		eventRepo:    eventRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		tags:         tags,
		perPage:      perPage,
		db:           db,
	}
}

// buildListFilter composes the event query from the optional criteria. All
// predicates are ANDed: author scoping always applies, category narrows by
// equality, hide-past-events cuts at the caller's local midnight, and the
// tag set is an any-of membership test.
func (f *EventFlowImpl) buildListFilter(userID uint, req *dto.ListEventsRequest, now time.Time) models.EventFilter {
	filter := models.EventFilter{AuthorID: &userID}

	if req.CategoryID != nil && *req.CategoryID > 0 {
		filter.CategoryID = req.CategoryID
	}
	if req.HidePastEvents {
		cutoff := utils.StartOfDay(now)
		filter.DateFrom = &cutoff
	}
	if len(req.TagIDs) > 0 {
		filter.TagIDs = req.TagIDs
	}

	return filter
}

// ListEvents returns one page of the user's events, narrowed by the optional
// filter criteria. An empty result page is valid, not an error.
func (f *EventFlowImpl) ListEvents(ctx context.Context, req *dto.ListEventsRequest) (*dto.ListEventsResponse, error) {
	if req.Page < 1 {
		return nil, NewBusinessError("INVALID_PAGE", "Invalid page", ErrInvalidPage)
	}

	user, err := getUser(ctx, f.userRepo, req.UserID)
	if err != nil {
		return nil, err
	}

	filter := f.buildListFilter(user.ID, req, time.Now())

	total, err := f.eventRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows, err := f.eventRepo.ByFilter(ctx, filter, "events.id ASC", f.perPage, (req.Page-1)*f.perPage)
	if err != nil {
		return nil, err
	}

	items := make([]dto.EventDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToEventDTO(*row))
	}

	return &dto.ListEventsResponse{
		Items:      items,
		Page:       req.Page,
		PerPage:    f.perPage,
		Total:      total,
		TotalPages: totalPages(total, f.perPage),
	}, nil
}

// GetEvent returns a single event, gated by the view permission
func (f *EventFlowImpl) GetEvent(ctx context.Context, userID, eventID uint) (*dto.EventDTO, error) {
	user, err := getUser(ctx, f.userRepo, userID)
	if err != nil {
		return nil, err
	}

	event, err := f.eventRepo.ByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	if DecideEventAccess(PermissionView, user, event) != DecisionAllow {
		return nil, ErrEventAccessDenied
	}

	d := ToEventDTO(*event)
	return &d, nil
}

// CreateEvent creates an event owned by the requesting user. The free-text
// tag input runs through the normalizer, so unknown tags come into existence
// here as a side effect.
func (f *EventFlowImpl) CreateEvent(ctx context.Context, userID uint, req *dto.CreateEventRequest) (*dto.EventDTO, error) {
	user, err := getUser(ctx, f.userRepo, userID)
	if err != nil {
		return nil, err
	}

	category, err := f.categoryRepo.ByID(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return nil, NewBusinessError("INVALID_DATE", "Date must be RFC3339", err)
	}

	tags, err := f.tags.ResolveTagList(ctx, req.Tags)
	if err != nil {
		return nil, err
	}

	event := models.Event{
		Title:      strings.TrimSpace(req.Title),
		Date:       date,
		CategoryID: category.ID,
		AuthorID:   user.ID,
		Tags:       tags,
	}
	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		if desc != "" {
			event.Description = &desc
		}
	}

	if err := f.eventRepo.Save(ctx, &event); err != nil {
		return nil, err
	}

	event.Category = *category
	d := ToEventDTO(event)
	return &d, nil
}

// UpdateEvent edits an event, gated by the edit permission. The tag set is
// replaced wholesale with the resolved input.
func (f *EventFlowImpl) UpdateEvent(ctx context.Context, userID, eventID uint, req *dto.UpdateEventRequest) (*dto.EventDTO, error) {
	user, err := getUser(ctx, f.userRepo, userID)
	if err != nil {
		return nil, err
	}

	event, err := f.eventRepo.ByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	if DecideEventAccess(PermissionEdit, user, event) != DecisionAllow {
		return nil, ErrEventAccessDenied
	}

	category, err := f.categoryRepo.ByID(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return nil, NewBusinessError("INVALID_DATE", "Date must be RFC3339", err)
	}

	tags, err := f.tags.ResolveTagList(ctx, req.Tags)
	if err != nil {
		return nil, err
	}

	event.Title = strings.TrimSpace(req.Title)
	event.Date = date
	event.CategoryID = category.ID
	event.Description = nil
	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		if desc != "" {
			event.Description = &desc
		}
	}
	event.UpdatedAt = utils.UTCNow()

	err = repository.WithTransaction(ctx, f.db, func(ctx context.Context) error {
		if err := f.eventRepo.Update(ctx, event); err != nil {
			return err
		}
		return f.eventRepo.ReplaceTags(ctx, event, tags)
	})
	if err != nil {
		return nil, err
	}

	event.Tags = tags
	event.Category = *category
	d := ToEventDTO(*event)
	return &d, nil
}

// DeleteEvent removes an event, gated by the delete permission
func (f *EventFlowImpl) DeleteEvent(ctx context.Context, userID, eventID uint) error {
	user, err := getUser(ctx, f.userRepo, userID)
	if err != nil {
		return err
	}

	event, err := f.eventRepo.ByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return ErrEventNotFound
	}

	if DecideEventAccess(PermissionDelete, user, event) != DecisionAllow {
		return ErrEventAccessDenied
	}

	return repository.WithTransaction(ctx, f.db, func(ctx context.Context) error {
		return f.eventRepo.Delete(ctx, event.ID)
	})
}
