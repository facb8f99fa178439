package tests

import (
	"bytes"
	"context"
	"testing"

	businessflow "github.com/mnemosyne-app/mnemosyne/business_flow"
	"github.com/mnemosyne-app/mnemosyne/app/dto"
	"github.com/mnemosyne-app/mnemosyne/repository"
	testingutil "github.com/mnemosyne-app/mnemosyne/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
)

func newAdminUserFlow(testDB *testingutil.TestDB) businessflow.AdminUserFlow {
	userRepo := repository.NewUserRepository(testDB.DB)
	sessionRepo := repository.NewUserSessionRepository(testDB.DB)
	return businessflow.NewAdminUserFlow(userRepo, sessionRepo, testDB.DB)
}

func TestUserAdministration(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		adminFlow := newAdminUserFlow(testDB)
		userRepo := repository.NewUserRepository(testDB.DB)
		sessionRepo := repository.NewUserSessionRepository(testDB.DB)

		admin, err := fixtures.CreateTestAdmin()
		require.NoError(t, err)
		member, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		t.Run("ListUsersNewestFirstTenPerPage", func(t *testing.T) {
			for i := 0; i < 10; i++ {
				_, err := fixtures.CreateTestUser()
				require.NoError(t, err)
			}

			page1, err := adminFlow.ListUsers(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, int64(12), page1.Total)
			require.Len(t, page1.Users, 10)
			assert.Equal(t, 2, page1.TotalPages)
			// newest first
			assert.Greater(t, page1.Users[0].ID, page1.Users[9].ID)

			page2, err := adminFlow.ListUsers(context.Background(), 2)
			require.NoError(t, err)
			require.Len(t, page2.Users, 2)
			assert.Equal(t, admin.ID, page2.Users[1].ID)
		})

		t.Run("PageZeroRejected", func(t *testing.T) {
			_, err := adminFlow.ListUsers(context.Background(), 0)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidPage(err))
		})

		t.Run("GetUser", func(t *testing.T) {
			got, err := adminFlow.GetUser(context.Background(), member.ID)
			require.NoError(t, err)
			assert.Equal(t, member.Email, got.Email)
			assert.Equal(t, []string{"USER"}, got.Roles)

			_, err = adminFlow.GetUser(context.Background(), 99999)
			require.Error(t, err)
			assert.True(t, businessflow.IsUserNotFound(err))
		})

		t.Run("UpdateRolesPromotesAndNormalizes", func(t *testing.T) {
			updated, err := adminFlow.UpdateRoles(context.Background(), member.ID, &dto.UpdateRolesRequest{
				Roles: []string{"ADMIN", "ADMIN", "SUPERUSER"},
			})
			require.NoError(t, err)
			// USER is always kept, duplicates and unknown roles are dropped
			assert.Equal(t, []string{"USER", "ADMIN"}, updated.Roles)
		})

		t.Run("UpdateRolesDemotesButKeepsUser", func(t *testing.T) {
			updated, err := adminFlow.UpdateRoles(context.Background(), member.ID, &dto.UpdateRolesRequest{Roles: []string{}})
			require.NoError(t, err)
			assert.Equal(t, []string{"USER"}, updated.Roles)
		})

		t.Run("DeactivationRetiresSessions", func(t *testing.T) {
			session, err := fixtures.CreateTestSession(member.ID)
			require.NoError(t, err)

			updated, err := adminFlow.SetActive(context.Background(), member.ID, false)
			require.NoError(t, err)
			assert.False(t, updated.IsActive)

			stored, err := sessionRepo.BySessionToken(context.Background(), session.SessionToken)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.False(t, *stored.IsActive)

			reactivated, err := adminFlow.SetActive(context.Background(), member.ID, true)
			require.NoError(t, err)
			assert.True(t, reactivated.IsActive)
		})

		t.Run("ResetPasswordRehashesAndRetiresSessions", func(t *testing.T) {
			session, err := fixtures.CreateTestSession(member.ID)
			require.NoError(t, err)

			err = adminFlow.ResetPassword(context.Background(), member.ID, &dto.ResetPasswordRequest{
				NewPassword:     "FreshSecret456!",
				ConfirmPassword: "FreshSecret456!",
			})
			require.NoError(t, err)

			stored, err := userRepo.ByID(context.Background(), member.ID)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("FreshSecret456!")))

			sess, err := sessionRepo.BySessionToken(context.Background(), session.SessionToken)
			require.NoError(t, err)
			require.NotNil(t, sess)
			assert.False(t, *sess.IsActive)
		})

		t.Run("ResetPasswordMismatchRejected", func(t *testing.T) {
			err := adminFlow.ResetPassword(context.Background(), member.ID, &dto.ResetPasswordRequest{
				NewPassword:     "OneThing123!",
				ConfirmPassword: "AnotherThing123!",
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsPasswordsMismatch(err))
		})

		t.Run("AdminCannotDeleteSelf", func(t *testing.T) {
			err := adminFlow.DeleteUser(context.Background(), admin.ID, admin.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsCannotDeleteSelf(err))
		})

		t.Run("DeleteUserRemovesAccount", func(t *testing.T) {
			victim, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			require.NoError(t, adminFlow.DeleteUser(context.Background(), admin.ID, victim.ID))

			stored, err := userRepo.ByID(context.Background(), victim.ID)
			require.NoError(t, err)
			assert.Nil(t, stored)

			err = adminFlow.DeleteUser(context.Background(), admin.ID, victim.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsUserNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestUserExport(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		adminFlow := newAdminUserFlow(testDB)

		_, err := fixtures.CreateTestAdmin()
		require.NoError(t, err)
		member, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		data, err := adminFlow.ExportUsers(context.Background())
		require.NoError(t, err)
		require.NotEmpty(t, data)

		workbook, err := excelize.OpenReader(bytes.NewReader(data))
		require.NoError(t, err)
		defer func() { _ = workbook.Close() }()

		rows, err := workbook.GetRows("Users")
		require.NoError(t, err)
		// header plus one row per account
		require.Len(t, rows, 3)
		assert.Equal(t, "ID", rows[0][0])
		assert.Equal(t, "Email", rows[0][2])
		assert.Equal(t, member.Email, rows[2][2])

		return nil
	})
	require.NoError(t, err)
}
