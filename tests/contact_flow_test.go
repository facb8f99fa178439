package tests

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mnemosyne-app/mnemosyne/app/dto"
	businessflow "github.com/mnemosyne-app/mnemosyne/business_flow"
	"github.com/mnemosyne-app/mnemosyne/models"
	"github.com/mnemosyne-app/mnemosyne/repository"
	testingutil "github.com/mnemosyne-app/mnemosyne/testing"
	"github.com/mnemosyne-app/mnemosyne/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContactFlow(testDB *testingutil.TestDB) businessflow.ContactFlow {
	contactRepo := repository.NewContactRepository(testDB.DB)
	userRepo := repository.NewUserRepository(testDB.DB)
	tagRepo := repository.NewTagRepository(testDB.DB)
	tagFlow := businessflow.NewTagFlow(tagRepo, testDB.DB)
	return businessflow.NewContactFlow(contactRepo, userRepo, tagFlow, utils.DefaultPageSize, testDB.DB)
}

func TestContactCRUD(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		contactFlow := newContactFlow(testDB)

		owner, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		stranger, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		var contactID uint

		t.Run("CreateContactWithTags", func(t *testing.T) {
			desc := "Met at the conference"
			created, err := contactFlow.CreateContact(context.Background(), owner.ID, &dto.CreateContactRequest{
				Name:        "Jane Smith",
				Phone:       "+15550001111",
				Description: &desc,
				Tags:        "Work, Conference",
			})
			require.NoError(t, err)
			contactID = created.ID

			assert.Equal(t, "Jane Smith", created.Name)
			assert.Equal(t, "+15550001111", created.Phone)
			assert.Equal(t, "Met at the conference", created.Description)
			assert.Equal(t, owner.ID, created.AuthorID)
			assert.Equal(t, "Work, Conference", created.Tags)
			require.Len(t, created.TagList, 2)
		})

		t.Run("InputIsTrimmed", func(t *testing.T) {
			created, err := contactFlow.CreateContact(context.Background(), owner.ID, &dto.CreateContactRequest{
				Name:  "  Bob Jones  ",
				Phone: " +15550002222 ",
			})
			require.NoError(t, err)
			assert.Equal(t, "Bob Jones", created.Name)
			assert.Equal(t, "+15550002222", created.Phone)
			assert.Empty(t, created.Tags)
		})

		t.Run("OwnerCanGetContact", func(t *testing.T) {
			got, err := contactFlow.GetContact(context.Background(), owner.ID, contactID)
			require.NoError(t, err)
			assert.Equal(t, "Jane Smith", got.Name)
		})

		t.Run("StrangerCannotGetContact", func(t *testing.T) {
			_, err := contactFlow.GetContact(context.Background(), stranger.ID, contactID)
			require.Error(t, err)
			assert.True(t, businessflow.IsContactAccessDenied(err))
		})

		t.Run("UpdateReplacesTagSetAndClearsDescription", func(t *testing.T) {
			updated, err := contactFlow.UpdateContact(context.Background(), owner.ID, contactID, &dto.UpdateContactRequest{
				Name:  "Jane Smith-Doe",
				Phone: "+15550003333",
				Tags:  "Conference",
			})
			require.NoError(t, err)
			assert.Equal(t, "Jane Smith-Doe", updated.Name)
			assert.Equal(t, "+15550003333", updated.Phone)
			assert.Empty(t, updated.Description)
			assert.Equal(t, "Conference", updated.Tags)
			require.Len(t, updated.TagList, 1)
		})

		t.Run("StrangerCannotUpdateOrDelete", func(t *testing.T) {
			_, err := contactFlow.UpdateContact(context.Background(), stranger.ID, contactID, &dto.UpdateContactRequest{
				Name:  "Hijacked",
				Phone: "+15550009999",
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsContactAccessDenied(err))

			err = contactFlow.DeleteContact(context.Background(), stranger.ID, contactID)
			require.Error(t, err)
			assert.True(t, businessflow.IsContactAccessDenied(err))
		})

		t.Run("OwnerCanDelete", func(t *testing.T) {
			require.NoError(t, contactFlow.DeleteContact(context.Background(), owner.ID, contactID))

			_, err := contactFlow.GetContact(context.Background(), owner.ID, contactID)
			require.Error(t, err)
			assert.True(t, businessflow.IsContactNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestContactListing(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		contactFlow := newContactFlow(testDB)

		owner, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		other, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		first, err := fixtures.CreateTestContact(owner.ID, "Alice", "+15550000001")
		require.NoError(t, err)
		second, err := fixtures.CreateTestContact(owner.ID, "Bob", "+15550000002")
		require.NoError(t, err)

		// Another user's entries must never surface
		_, err = fixtures.CreateTestContact(other.ID, "Foreign", "+15550000099")
		require.NoError(t, err)

		t.Run("ListsOnlyOwnContacts", func(t *testing.T) {
			resp, err := contactFlow.ListContacts(context.Background(), owner.ID, 1)
			require.NoError(t, err)
			assert.Equal(t, int64(2), resp.Total)
			require.Len(t, resp.Items, 2)
			for _, item := range resp.Items {
				assert.Equal(t, owner.ID, item.AuthorID)
			}
		})

		t.Run("MostRecentlyUpdatedFirst", func(t *testing.T) {
			// Bump the older entry so it outranks the newer one
			err := testDB.DB.Model(&models.Contact{}).
				Where("id = ?", first.ID).
				Update("updated_at", utils.UTCNow().Add(time.Hour)).Error
			require.NoError(t, err)

			resp, err := contactFlow.ListContacts(context.Background(), owner.ID, 1)
			require.NoError(t, err)
			require.Len(t, resp.Items, 2)
			assert.Equal(t, first.ID, resp.Items[0].ID)
			assert.Equal(t, second.ID, resp.Items[1].ID)
		})

		t.Run("PaginatesAtFivePerPage", func(t *testing.T) {
			for i := 0; i < 5; i++ {
				_, err := fixtures.CreateTestContact(owner.ID, fmt.Sprintf("Filler %d", i), fmt.Sprintf("+1555010%04d", i))
				require.NoError(t, err)
			}

			page1, err := contactFlow.ListContacts(context.Background(), owner.ID, 1)
			require.NoError(t, err)
			assert.Equal(t, int64(7), page1.Total)
			assert.Len(t, page1.Items, 5)
			assert.Equal(t, 2, page1.TotalPages)

			page2, err := contactFlow.ListContacts(context.Background(), owner.ID, 2)
			require.NoError(t, err)
			assert.Len(t, page2.Items, 2)
		})

		t.Run("PageZeroRejected", func(t *testing.T) {
			_, err := contactFlow.ListContacts(context.Background(), owner.ID, 0)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidPage(err))
		})

		return nil
	})
	require.NoError(t, err)
}
