package businessflow

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mnemosyne-app/mnemosyne/app/dto"
	"github.com/mnemosyne-app/mnemosyne/app/services"
	"github.com/mnemosyne-app/mnemosyne/models"
	"github.com/mnemosyne-app/mnemosyne/repository"
	"github.com/mnemosyne-app/mnemosyne/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthFlow handles registration, authentication, and password management
type AuthFlow interface {
	Register(ctx context.Context, req *dto.RegisterRequest, metadata *ClientMetadata) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.AuthResponse, error)
	RefreshSession(ctx context.Context, req *dto.RefreshRequest, metadata *ClientMetadata) (*dto.AuthResponse, error)
	Logout(ctx context.Context, userID uint, accessToken string) error
	ChangePassword(ctx context.Context, userID uint, req *dto.ChangePasswordRequest) error
}

// AuthFlowImpl implements the authentication business flow
type AuthFlowImpl struct {
	userRepo     repository.UserRepository
	sessionRepo  repository.UserSessionRepository
	tokenService services.TokenService
	db           *gorm.DB
}

// NewAuthFlow creates a new auth flow instance
func NewAuthFlow(
	userRepo repository.UserRepository,
	sessionRepo repository.UserSessionRepository,
	tokenService services.TokenService,
	db *gorm.DB,
) AuthFlow {
	return &AuthFlowImpl{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		tokenService: tokenService,
		db:           db,
	}
}

// Register creates a new user account with the USER role and opens the
// first session.
func (af *AuthFlowImpl) Register(ctx context.Context, req *dto.RegisterRequest, metadata *ClientMetadata) (*dto.AuthResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, NewBusinessError("PASSWORDS_MISMATCH", "Password confirmation does not match", ErrPasswordsMismatch)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var resp *dto.AuthResponse
	err := repository.WithTransaction(ctx, af.db, func(ctx context.Context) error {
		existing, err := af.userRepo.ByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrEmailAlreadyExists
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		user := models.User{
			UUID:         uuid.New(),
			Email:        email,
			PasswordHash: string(hashedPassword),
			Roles:        []string{models.RoleUser},
			IsActive:     utils.ToPtr(true),
		}
		if err := af.userRepo.Save(ctx, &user); err != nil {
			return err
		}

		session, err := af.createSession(ctx, user.ID, metadata)
		if err != nil {
			return err
		}

		resp = &dto.AuthResponse{
			User:    ToUserDTO(user),
			Session: ToSessionDTO(*session),
		}
		return nil
	})
	if err != nil {
		if IsEmailAlreadyExists(err) || IsPasswordsMismatch(err) {
			return nil, err
		}
		return nil, NewBusinessError("REGISTRATION_FAILED", "Registration failed", err)
	}

	return resp, nil
}

// Login authenticates a user with email and password
func (af *AuthFlowImpl) Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var resp *dto.AuthResponse
	err := repository.WithTransaction(ctx, af.db, func(ctx context.Context) error {
		user, err := af.userRepo.ByEmail(ctx, email)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		if !utils.IsTrue(user.IsActive) {
			return ErrAccountInactive
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			return ErrIncorrectPassword
		}

		session, err := af.createSession(ctx, user.ID, metadata)
		if err != nil {
			return err
		}

		if err := af.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
			return err
		}

		resp = &dto.AuthResponse{
			User:    ToUserDTO(*user),
			Session: ToSessionDTO(*session),
		}
		return nil
	})
	if err != nil {
		if IsUserNotFound(err) || IsAccountInactive(err) || IsIncorrectPassword(err) {
			return nil, err
		}
		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", err)
	}

	return resp, nil
}

// RefreshSession exchanges a valid refresh token for a new token pair. The
// old session's correlation group is kept so related records stay linked.
func (af *AuthFlowImpl) RefreshSession(ctx context.Context, req *dto.RefreshRequest, metadata *ClientMetadata) (*dto.AuthResponse, error) {
	claims, err := af.tokenService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrSessionInvalid
	}
	if claims.TokenType != services.TokenTypeRefresh {
		return nil, ErrSessionInvalid
	}

	var resp *dto.AuthResponse
	err = repository.WithTransaction(ctx, af.db, func(ctx context.Context) error {
		session, err := af.sessionRepo.ByRefreshToken(ctx, req.RefreshToken)
		if err != nil {
			return err
		}
		if session == nil {
			return ErrSessionNotFound
		}
		if !session.IsValid() {
			return ErrSessionInvalid
		}

		user, err := getUser(ctx, af.userRepo, session.UserID)
		if err != nil {
			return err
		}

		// Rotate: retire the old session record, open a new one in the same
		// correlation group
		if err := af.sessionRepo.DeactivateByCorrelationID(ctx, session.CorrelationID); err != nil {
			return err
		}

		next, err := af.createSessionInGroup(ctx, user.ID, session.CorrelationID, metadata)
		if err != nil {
			return err
		}

		resp = &dto.AuthResponse{
			User:    ToUserDTO(*user),
			Session: ToSessionDTO(*next),
		}
		return nil
	})
	if err != nil {
		if IsSessionInvalid(err) || IsUserNotFound(err) || IsAccountInactive(err) {
			return nil, err
		}
		return nil, NewBusinessError("REFRESH_FAILED", "Session refresh failed", err)
	}

	return resp, nil
}

// Logout revokes the access token and retires the matching session
func (af *AuthFlowImpl) Logout(ctx context.Context, userID uint, accessToken string) error {
	session, err := af.sessionRepo.BySessionToken(ctx, accessToken)
	if err != nil {
		return err
	}
	if session == nil || session.UserID != userID {
		return ErrSessionNotFound
	}

	if err := af.tokenService.RevokeToken(ctx, accessToken); err != nil {
		return err
	}

	return af.sessionRepo.DeactivateByCorrelationID(ctx, session.CorrelationID)
}

// ChangePassword verifies the current password and replaces the stored hash.
// All existing sessions of the user are retired.
func (af *AuthFlowImpl) ChangePassword(ctx context.Context, userID uint, req *dto.ChangePasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return ErrPasswordsMismatch
	}

	return repository.WithTransaction(ctx, af.db, func(ctx context.Context) error {
		user, err := getUser(ctx, af.userRepo, userID)
		if err != nil {
			return err
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			return ErrIncorrectPassword
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		if err := af.userRepo.UpdatePassword(ctx, user.ID, string(hashedPassword)); err != nil {
			return err
		}

		return af.sessionRepo.DeactivateAllForUser(ctx, user.ID)
	})
}

// createSession issues a token pair and stores the session record
func (af *AuthFlowImpl) createSession(ctx context.Context, userID uint, metadata *ClientMetadata) (*models.UserSession, error) {
	return af.createSessionInGroup(ctx, userID, uuid.New(), metadata)
}

func (af *AuthFlowImpl) createSessionInGroup(ctx context.Context, userID uint, correlationID uuid.UUID, metadata *ClientMetadata) (*models.UserSession, error) {
	accessToken, refreshToken, err := af.tokenService.GenerateTokens(userID)
	if err != nil {
		return nil, err
	}

	expiresAt := utils.UTCNowAdd(utils.SessionTimeout)

	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	session := &models.UserSession{
		CorrelationID: correlationID,
		UserID:        userID,
		SessionToken:  accessToken,
		RefreshToken:  &refreshToken,
		ExpiresAt:     expiresAt,
		IsActive:      utils.ToPtr(true),
		IPAddress:     &ipAddress,
		UserAgent:     &userAgent,
	}

	if err := af.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
