package tests

import (
	"context"
	"testing"
	"time"

	"github.com/mnemosyne-app/mnemosyne/app/dto"
	"github.com/mnemosyne-app/mnemosyne/app/services"
	businessflow "github.com/mnemosyne-app/mnemosyne/business_flow"
	"github.com/mnemosyne-app/mnemosyne/models"
	"github.com/mnemosyne-app/mnemosyne/repository"
	testingutil "github.com/mnemosyne-app/mnemosyne/testing"
	"github.com/mnemosyne-app/mnemosyne/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) services.TokenService {
	t.Helper()
	tokenService, err := services.NewTokenService(
		1*time.Hour,
		24*time.Hour,
		"test-issuer",
		"test-audience",
		false,
		"",
		"",
		"test-secret-key-that-is-long-enough-for-hs256",
		services.NewMemoryRevocationStore(),
	)
	require.NoError(t, err)
	return tokenService
}

func TestAuthFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		userRepo := repository.NewUserRepository(testDB.DB)
		sessionRepo := repository.NewUserSessionRepository(testDB.DB)
		tokenService := newTestTokenService(t)

		authFlow := businessflow.NewAuthFlow(userRepo, sessionRepo, tokenService, testDB.DB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		t.Run("SuccessfulRegistration", func(t *testing.T) {
			req := &dto.RegisterRequest{
				Email:           "alice@example.com",
				Password:        "SecurePass123!",
				ConfirmPassword: "SecurePass123!",
			}

			result, err := authFlow.Register(context.Background(), req, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, "alice@example.com", result.User.Email)
			assert.Equal(t, []string{models.RoleUser}, result.User.Roles)
			assert.True(t, result.User.IsActive)
			assert.NotEmpty(t, result.Session.SessionToken)
			assert.NotEmpty(t, result.Session.RefreshToken)
			assert.Equal(t, "Bearer", result.Session.TokenType)

			// Verify the stored user
			user, err := userRepo.ByEmail(context.Background(), "alice@example.com")
			require.NoError(t, err)
			require.NotNil(t, user)
			assert.NotEmpty(t, user.UUID)
			assert.NotEqual(t, "SecurePass123!", user.PasswordHash)
		})

		t.Run("DuplicateEmailRejected", func(t *testing.T) {
			req := &dto.RegisterRequest{
				Email:           "alice@example.com",
				Password:        "AnotherPass123!",
				ConfirmPassword: "AnotherPass123!",
			}

			_, err := authFlow.Register(context.Background(), req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsEmailAlreadyExists(err))
		})

		t.Run("PasswordMismatchRejected", func(t *testing.T) {
			req := &dto.RegisterRequest{
				Email:           "bob@example.com",
				Password:        "SecurePass123!",
				ConfirmPassword: "Different123!",
			}

			_, err := authFlow.Register(context.Background(), req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsPasswordsMismatch(err))
		})

		t.Run("SuccessfulLogin", func(t *testing.T) {
			req := &dto.LoginRequest{
				Email:    "alice@example.com",
				Password: "SecurePass123!",
			}

			result, err := authFlow.Login(context.Background(), req, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, "alice@example.com", result.User.Email)
			assert.NotEmpty(t, result.Session.SessionToken)

			// Last login is stamped
			user, err := userRepo.ByEmail(context.Background(), "alice@example.com")
			require.NoError(t, err)
			require.NotNil(t, user)
			assert.NotNil(t, user.LastLoginAt)
		})

		t.Run("WrongPasswordRejected", func(t *testing.T) {
			req := &dto.LoginRequest{
				Email:    "alice@example.com",
				Password: "WrongPassword1!",
			}

			_, err := authFlow.Login(context.Background(), req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsIncorrectPassword(err))
		})

		t.Run("UnknownEmailRejected", func(t *testing.T) {
			req := &dto.LoginRequest{
				Email:    "nobody@example.com",
				Password: "SecurePass123!",
			}

			_, err := authFlow.Login(context.Background(), req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsUserNotFound(err))
		})

		t.Run("InactiveAccountRejected", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			user.IsActive = utils.ToPtr(false)
			require.NoError(t, testDB.DB.Save(user).Error)

			req := &dto.LoginRequest{
				Email:    user.Email,
				Password: "TestPass123!",
			}

			_, err = authFlow.Login(context.Background(), req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsAccountInactive(err))
		})

		t.Run("RefreshRotatesSession", func(t *testing.T) {
			login, err := authFlow.Login(context.Background(), &dto.LoginRequest{
				Email:    "alice@example.com",
				Password: "SecurePass123!",
			}, metadata)
			require.NoError(t, err)

			refreshed, err := authFlow.RefreshSession(context.Background(), &dto.RefreshRequest{
				RefreshToken: login.Session.RefreshToken,
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, refreshed)
			assert.NotEqual(t, login.Session.SessionToken, refreshed.Session.SessionToken)

			// The old session is deactivated by the rotation
			old, err := sessionRepo.BySessionToken(context.Background(), login.Session.SessionToken)
			require.NoError(t, err)
			require.NotNil(t, old)
			assert.False(t, utils.IsTrue(old.IsActive))
		})

		t.Run("RefreshWithAccessTokenRejected", func(t *testing.T) {
			login, err := authFlow.Login(context.Background(), &dto.LoginRequest{
				Email:    "alice@example.com",
				Password: "SecurePass123!",
			}, metadata)
			require.NoError(t, err)

			_, err = authFlow.RefreshSession(context.Background(), &dto.RefreshRequest{
				RefreshToken: login.Session.SessionToken,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsSessionInvalid(err))
		})

		t.Run("LogoutRevokesAccessToken", func(t *testing.T) {
			login, err := authFlow.Login(context.Background(), &dto.LoginRequest{
				Email:    "alice@example.com",
				Password: "SecurePass123!",
			}, metadata)
			require.NoError(t, err)

			user, err := userRepo.ByEmail(context.Background(), "alice@example.com")
			require.NoError(t, err)

			err = authFlow.Logout(context.Background(), user.ID, login.Session.SessionToken)
			require.NoError(t, err)

			assert.True(t, tokenService.IsTokenRevoked(context.Background(), login.Session.SessionToken))

			session, err := sessionRepo.BySessionToken(context.Background(), login.Session.SessionToken)
			require.NoError(t, err)
			require.NotNil(t, session)
			assert.False(t, utils.IsTrue(session.IsActive))
		})

		t.Run("ChangePasswordInvalidatesSessions", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			login, err := authFlow.Login(context.Background(), &dto.LoginRequest{
				Email:    user.Email,
				Password: "TestPass123!",
			}, metadata)
			require.NoError(t, err)

			err = authFlow.ChangePassword(context.Background(), user.ID, &dto.ChangePasswordRequest{
				CurrentPassword: "TestPass123!",
				NewPassword:     "BrandNewPass1!",
				ConfirmPassword: "BrandNewPass1!",
			})
			require.NoError(t, err)

			// Old sessions are gone
			session, err := sessionRepo.BySessionToken(context.Background(), login.Session.SessionToken)
			require.NoError(t, err)
			require.NotNil(t, session)
			assert.False(t, utils.IsTrue(session.IsActive))

			// Old password no longer works, the new one does
			_, err = authFlow.Login(context.Background(), &dto.LoginRequest{
				Email:    user.Email,
				Password: "TestPass123!",
			}, metadata)
			require.Error(t, err)

			_, err = authFlow.Login(context.Background(), &dto.LoginRequest{
				Email:    user.Email,
				Password: "BrandNewPass1!",
			}, metadata)
			require.NoError(t, err)
		})

		t.Run("ChangePasswordWrongCurrentRejected", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			err = authFlow.ChangePassword(context.Background(), user.ID, &dto.ChangePasswordRequest{
				CurrentPassword: "NotTheirPassword1!",
				NewPassword:     "BrandNewPass1!",
				ConfirmPassword: "BrandNewPass1!",
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsIncorrectPassword(err))
		})

		return nil
	})
	require.NoError(t, err)
}
