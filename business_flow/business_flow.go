// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"
	"time"

	"github.com/mnemosyne-app/mnemosyne/app/dto"
	"github.com/mnemosyne-app/mnemosyne/models"
	"github.com/mnemosyne-app/mnemosyne/repository"
	"github.com/mnemosyne-app/mnemosyne/utils"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds client-related information for session tracking
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// getUser loads an active user by id; missing or inactive accounts are
// business errors, not anomalies.
func getUser(ctx context.Context, userRepo repository.UserRepository, userID uint) (*models.User, error) {
	user, err := userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !utils.IsTrue(user.IsActive) {
		return nil, ErrAccountInactive
	}
	return user, nil
}

// totalPages derives the page count for a listing
func totalPages(total int64, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	pages := int(total) / perPage
	if int(total)%perPage != 0 {
		pages++
	}
	return pages
}

// ToUserDTO converts a user model to its API representation
func ToUserDTO(user models.User) dto.UserDTO {
	d := dto.UserDTO{
		ID:        user.ID,
		UUID:      user.UUID.String(),
		Email:     user.Email,
		Roles:     append([]string{}, user.Roles...),
		IsActive:  utils.IsTrue(user.IsActive),
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
	if user.LastLoginAt != nil {
		d.LastLoginAt = user.LastLoginAt.Format(time.RFC3339)
	}
	return d
}

// ToSessionDTO converts a session model to the token payload returned on
// login and refresh
func ToSessionDTO(session models.UserSession) dto.SessionDTO {
	d := dto.SessionDTO{
		SessionToken: session.SessionToken,
		ExpiresIn:    int(time.Until(session.ExpiresAt).Seconds()),
		TokenType:    "Bearer",
		CreatedAt:    session.CreatedAt.Format(time.RFC3339),
	}
	if session.RefreshToken != nil {
		d.RefreshToken = *session.RefreshToken
	}
	return d
}

// ToCategoryDTO converts a category model to its API representation
func ToCategoryDTO(category models.Category) dto.CategoryDTO {
	return dto.CategoryDTO{
		ID:        category.ID,
		Title:     category.Title,
		Slug:      category.Slug,
		CreatedAt: category.CreatedAt.Format(time.RFC3339),
		UpdatedAt: category.UpdatedAt.Format(time.RFC3339),
	}
}

// ToTagDTO converts a tag model to its API representation
func ToTagDTO(tag models.Tag) dto.TagDTO {
	return dto.TagDTO{
		ID:        tag.ID,
		Title:     tag.Title,
		Slug:      tag.Slug,
		CreatedAt: tag.CreatedAt.Format(time.RFC3339),
		UpdatedAt: tag.UpdatedAt.Format(time.RFC3339),
	}
}

// ToContactDTO converts a contact model to its API representation. The tag
// set is also rendered to the comma-separated form used by the tag input.
func ToContactDTO(contact models.Contact) dto.ContactDTO {
	d := dto.ContactDTO{
		ID:        contact.ID,
		Name:      contact.Name,
		Phone:     contact.Phone,
		AuthorID:  contact.AuthorID,
		Tags:      FormatTagList(contact.Tags),
		CreatedAt: contact.CreatedAt.Format(time.RFC3339),
		UpdatedAt: contact.UpdatedAt.Format(time.RFC3339),
	}
	if contact.Description != nil {
		d.Description = *contact.Description
	}
	for _, t := range contact.Tags {
		d.TagList = append(d.TagList, ToTagDTO(t))
	}
	return d
}

// ToEventDTO converts an event model to its API representation
func ToEventDTO(event models.Event) dto.EventDTO {
	d := dto.EventDTO{
		ID:            event.ID,
		Title:         event.Title,
		Date:          event.Date.Format(time.RFC3339),
		CategoryID:    event.CategoryID,
		CategoryTitle: event.Category.Title,
		AuthorID:      event.AuthorID,
		Tags:          FormatTagList(event.Tags),
		CreatedAt:     event.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     event.UpdatedAt.Format(time.RFC3339),
	}
	if event.Description != nil {
		d.Description = *event.Description
	}
	for _, t := range event.Tags {
		d.TagList = append(d.TagList, ToTagDTO(t))
	}
	return d
}
