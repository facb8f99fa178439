// Package testing provides test utilities and database setup for testing the application
package testing

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	mrand "math/rand"
	"time"

	"github.com/mnemosyne-app/mnemosyne/models"
	"github.com/mnemosyne-app/mnemosyne/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestUser creates a user with the given roles. Passing no roles
// creates a regular USER account. The password is always "TestPass123!".
func (tf *TestFixtures) CreateTestUser(roles ...string) (*models.User, error) {
	if len(roles) == 0 {
		roles = []string{models.RoleUser}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("TestPass123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		UUID:         uuid.New(),
		Email:        fmt.Sprintf("user.%d@example.com", mrand.Intn(100000000)),
		PasswordHash: string(hashedPassword),
		Roles:        roles,
		IsActive:     utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}

	return user, nil
}

// CreateTestAdmin creates a user carrying the ADMIN role
func (tf *TestFixtures) CreateTestAdmin() (*models.User, error) {
	return tf.CreateTestUser(models.RoleUser, models.RoleAdmin)
}

func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// CreateTestSession creates an active session for the given user
func (tf *TestFixtures) CreateTestSession(userID uint) (*models.UserSession, error) {
	sessionToken, err := GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate secure session token: %w", err)
	}

	refreshToken, err := GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate secure refresh token: %w", err)
	}

	ipAddress := "127.0.0.1"
	userAgent := "Test User Agent"

	session := &models.UserSession{
		CorrelationID: uuid.New(),
		UserID:        userID,
		SessionToken:  sessionToken,
		RefreshToken:  &refreshToken,
		ExpiresAt:     time.Now().Add(24 * time.Hour),
		IsActive:      utils.ToPtr(true),
		IPAddress:     &ipAddress,
		UserAgent:     &userAgent,
	}

	if err := tf.DB.DB.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create test session: %w", err)
	}

	return session, nil
}

// CreateTestCategory creates a category with the given title
func (tf *TestFixtures) CreateTestCategory(title string) (*models.Category, error) {
	category := &models.Category{
		Title: title,
		Slug:  utils.Slugify(title),
	}

	if err := tf.DB.DB.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create test category: %w", err)
	}

	return category, nil
}

// CreateTestTag creates a tag with the given title
func (tf *TestFixtures) CreateTestTag(title string) (*models.Tag, error) {
	tag := &models.Tag{
		Title: title,
		Slug:  utils.Slugify(title),
	}

	if err := tf.DB.DB.Create(tag).Error; err != nil {
		return nil, fmt.Errorf("failed to create test tag: %w", err)
	}

	return tag, nil
}

// CreateTestEvent creates an event for the given author and category
func (tf *TestFixtures) CreateTestEvent(authorID, categoryID uint, title string, date time.Time, tags ...*models.Tag) (*models.Event, error) {
	event := &models.Event{
		Title:      title,
		Date:       date,
		CategoryID: categoryID,
		AuthorID:   authorID,
	}
	for _, tag := range tags {
		event.Tags = append(event.Tags, *tag)
	}

	if err := tf.DB.DB.Create(event).Error; err != nil {
		return nil, fmt.Errorf("failed to create test event: %w", err)
	}

	return event, nil
}

// CreateTestContact creates a contact for the given author
func (tf *TestFixtures) CreateTestContact(authorID uint, name, phone string, tags ...*models.Tag) (*models.Contact, error) {
	contact := &models.Contact{
		Name:     name,
		Phone:    phone,
		AuthorID: authorID,
	}
	for _, tag := range tags {
		contact.Tags = append(contact.Tags, *tag)
	}

	if err := tf.DB.DB.Create(contact).Error; err != nil {
		return nil, fmt.Errorf("failed to create test contact: %w", err)
	}

	return contact, nil
}
