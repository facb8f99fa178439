package businessflow

import (
	"context"
	"strings"

	"github.com/mnemosyne-app/mnemosyne/app/dto"
	"github.com/mnemosyne-app/mnemosyne/models"
	"github.com/mnemosyne-app/mnemosyne/repository"
	"github.com/mnemosyne-app/mnemosyne/utils"
	"gorm.io/gorm"
)

// ContactFlow defines operations for a user's private address book. Every
// operation is scoped to the author; contacts are never visible to anyone
// else, admins included.
type ContactFlow interface {
	ListContacts(ctx context.Context, userID uint, page int) (*dto.ListContactsResponse, error)
	GetContact(ctx context.Context, userID, contactID uint) (*dto.ContactDTO, error)
	CreateContact(ctx context.Context, userID uint, req *dto.CreateContactRequest) (*dto.ContactDTO, error)
	UpdateContact(ctx context.Context, userID, contactID uint, req *dto.UpdateContactRequest) (*dto.ContactDTO, error)
	DeleteContact(ctx context.Context, userID, contactID uint) error
}

// ContactFlowImpl implements ContactFlow
type ContactFlowImpl struct {
	contactRepo repository.ContactRepository
	userRepo    repository.UserRepository
	tags        TagFlow
	perPage     int
	db          *gorm.DB
}

// NewContactFlow creates a new contact flow instance
func NewContactFlow(
	contactRepo repository.ContactRepository,
	userRepo repository.UserRepository,
	tags TagFlow,
	perPage int,
	db *gorm.DB,
) ContactFlow {
	if perPage <= 0 {
		perPage = utils.DefaultPageSize
	}
	return &ContactFlowImpl{
		contactRepo: contactRepo,
		userRepo:    userRepo,
		tags:        tags,
		perPage:     perPage,
		db:          db,
	}
}

// loadOwned fetches a contact and enforces author-only access
func (f *ContactFlowImpl) loadOwned(ctx context.Context, user *models.User, contactID uint) (*models.Contact, error) {
	contact, err := f.contactRepo.ByID(ctx, contactID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, ErrContactNotFound
	}
	if contact.AuthorID != user.ID {
		return nil, ErrContactAccessDenied
	}
	return contact, nil
}

// ListContacts returns one page of the user's contacts, most recently
// updated first.
func (f *ContactFlowImpl) ListContacts(ctx context.Context, userID uint, page int) (*dto.ListContactsResponse, error) {
	if page < 1 {
		return nil, NewBusinessError("INVALID_PAGE", "Invalid page", ErrInvalidPage)
	}

	user, err := getUser(ctx, f.userRepo, userID)
	if err != nil {
		return nil, err
	}

	filter := models.ContactFilter{AuthorID: &user.ID}

	total, err := f.contactRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows, err := f.contactRepo.ByFilter(ctx, filter, "contacts.updated_at DESC", f.perPage, (page-1)*f.perPage)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ContactDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToContactDTO(*row))
	}

	return &dto.ListContactsResponse{
		Items:      items,
		Page:       page,
		PerPage:    f.perPage,
		Total:      total,
		TotalPages: totalPages(total, f.perPage),
	}, nil
}

// GetContact returns a single contact, author-only
func (f *ContactFlowImpl) GetContact(ctx context.Context, userID, contactID uint) (*dto.ContactDTO, error) {
	user, err := getUser(ctx, f.userRepo, userID)
	if err != nil {
		return nil, err
	}

	contact, err := f.loadOwned(ctx, user, contactID)
	if err != nil {
		return nil, err
	}

	d := ToContactDTO(*contact)
	return &d, nil
}

// CreateContact creates an address-book entry owned by the requesting user
func (f *ContactFlowImpl) CreateContact(ctx context.Context, userID uint, req *dto.CreateContactRequest) (*dto.ContactDTO, error) {
	user, err := getUser(ctx, f.userRepo, userID)
	if err != nil {
		return nil, err
	}

	tags, err := f.tags.ResolveTagList(ctx, req.Tags)
	if err != nil {
		return nil, err
	}

	contact := models.Contact{
		Name:     strings.TrimSpace(req.Name),
		Phone:    strings.TrimSpace(req.Phone),
		AuthorID: user.ID,
		Tags:     tags,
	}
	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		if desc != "" {
			contact.Description = &desc
		}
	}

	if err := f.contactRepo.Save(ctx, &contact); err != nil {
		return nil, err
	}

	d := ToContactDTO(contact)
	return &d, nil
}

// UpdateContact edits a contact, author-only; the tag set is replaced with
// the resolved input.
func (f *ContactFlowImpl) UpdateContact(ctx context.Context, userID, contactID uint, req *dto.UpdateContactRequest) (*dto.ContactDTO, error) {
	user, err := getUser(ctx, f.userRepo, userID)
	if err != nil {
		return nil, err
	}

	contact, err := f.loadOwned(ctx, user, contactID)
	if err != nil {
		return nil, err
	}

	tags, err := f.tags.ResolveTagList(ctx, req.Tags)
	if err != nil {
		return nil, err
	}

	contact.Name = strings.TrimSpace(req.Name)
	contact.Phone = strings.TrimSpace(req.Phone)
	contact.Description = nil
	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		if desc != "" {
			contact.Description = &desc
		}
	}
	contact.UpdatedAt = utils.UTCNow()

	err = repository.WithTransaction(ctx, f.db, func(ctx context.Context) error {
		if err := f.contactRepo.Update(ctx, contact); err != nil {
			return err
		}
		return f.contactRepo.ReplaceTags(ctx, contact, tags)
	})
	if err != nil {
		return nil, err
	}

	contact.Tags = tags
	d := ToContactDTO(*contact)
	return &d, nil
}

// DeleteContact removes a contact, author-only
func (f *ContactFlowImpl) DeleteContact(ctx context.Context, userID, contactID uint) error {
	user, err := getUser(ctx, f.userRepo, userID)
	if err != nil {
		return err
	}

	contact, err := f.loadOwned(ctx, user, contactID)
	if err != nil {
		return err
	}

	return repository.WithTransaction(ctx, f.db, func(ctx context.Context) error {
		return f.contactRepo.Delete(ctx, contact.ID)
	})
}
