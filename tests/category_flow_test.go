package tests

import (
	"context"
	"testing"
	"time"

	"github.com/mnemosyne-app/mnemosyne/app/dto"
	businessflow "github.com/mnemosyne-app/mnemosyne/business_flow"
	"github.com/mnemosyne-app/mnemosyne/repository"
	testingutil "github.com/mnemosyne-app/mnemosyne/testing"
	"github.com/mnemosyne-app/mnemosyne/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCategoryFlow(testDB *testingutil.TestDB) businessflow.CategoryFlow {
	categoryRepo := repository.NewCategoryRepository(testDB.DB)
	eventRepo := repository.NewEventRepository(testDB.DB)
	return businessflow.NewCategoryFlow(categoryRepo, eventRepo, testDB.DB)
}

func TestCategoryAdministration(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		categoryFlow := newCategoryFlow(testDB)

		t.Run("CreateAndListCategories", func(t *testing.T) {
			work, err := categoryFlow.CreateCategory(context.Background(), &dto.CreateCategoryRequest{Title: "Work Meetings"})
			require.NoError(t, err)
			assert.Equal(t, "Work Meetings", work.Title)
			assert.Equal(t, "work-meetings", work.Slug)

			_, err = categoryFlow.CreateCategory(context.Background(), &dto.CreateCategoryRequest{Title: "Personal"})
			require.NoError(t, err)

			resp, err := categoryFlow.ListCategories(context.Background(), 1, utils.DefaultPageSize)
			require.NoError(t, err)
			assert.Equal(t, int64(2), resp.Total)
			require.Len(t, resp.Items, 2)
			assert.Equal(t, "Work Meetings", resp.Items[0].Title)
			assert.Equal(t, "Personal", resp.Items[1].Title)
		})

		t.Run("TitleIsTrimmed", func(t *testing.T) {
			created, err := categoryFlow.CreateCategory(context.Background(), &dto.CreateCategoryRequest{Title: "  Travel  "})
			require.NoError(t, err)
			assert.Equal(t, "Travel", created.Title)
			assert.Equal(t, "travel", created.Slug)
		})

		t.Run("DuplicateTitleRejected", func(t *testing.T) {
			_, err := categoryFlow.CreateCategory(context.Background(), &dto.CreateCategoryRequest{Title: "Travel"})
			require.Error(t, err)
			assert.True(t, businessflow.IsCategoryTitleTaken(err))
		})

		t.Run("UpdateRenamesAndReslugs", func(t *testing.T) {
			created, err := categoryFlow.CreateCategory(context.Background(), &dto.CreateCategoryRequest{Title: "Old Title"})
			require.NoError(t, err)

			updated, err := categoryFlow.UpdateCategory(context.Background(), created.ID, &dto.UpdateCategoryRequest{Title: "Renamed Title"})
			require.NoError(t, err)
			assert.Equal(t, "Renamed Title", updated.Title)
			assert.Equal(t, "renamed-title", updated.Slug)
		})

		t.Run("UpdateKeepingOwnTitleAllowed", func(t *testing.T) {
			created, err := categoryFlow.CreateCategory(context.Background(), &dto.CreateCategoryRequest{Title: "Stable"})
			require.NoError(t, err)

			updated, err := categoryFlow.UpdateCategory(context.Background(), created.ID, &dto.UpdateCategoryRequest{Title: "Stable"})
			require.NoError(t, err)
			assert.Equal(t, "Stable", updated.Title)
		})

		t.Run("UpdateToTakenTitleRejected", func(t *testing.T) {
			created, err := categoryFlow.CreateCategory(context.Background(), &dto.CreateCategoryRequest{Title: "Unique"})
			require.NoError(t, err)

			_, err = categoryFlow.UpdateCategory(context.Background(), created.ID, &dto.UpdateCategoryRequest{Title: "Travel"})
			require.Error(t, err)
			assert.True(t, businessflow.IsCategoryTitleTaken(err))
		})

		t.Run("UpdateUnknownCategoryRejected", func(t *testing.T) {
			_, err := categoryFlow.UpdateCategory(context.Background(), 9999, &dto.UpdateCategoryRequest{Title: "Ghost"})
			require.Error(t, err)
			assert.True(t, businessflow.IsCategoryNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestCategoryDeletionGuard(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		categoryFlow := newCategoryFlow(testDB)
		eventFlow := newEventFlow(testDB)

		owner, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		category, err := fixtures.CreateTestCategory("Referenced")
		require.NoError(t, err)
		event, err := fixtures.CreateTestEvent(owner.ID, category.ID, "Holder", time.Now().Add(24*time.Hour))
		require.NoError(t, err)

		t.Run("ReferencedCategoryCannotBeDeleted", func(t *testing.T) {
			assert.False(t, categoryFlow.CanBeDeleted(context.Background(), category))

			err := categoryFlow.DeleteCategory(context.Background(), category.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsCategoryInUse(err))
		})

		t.Run("DeletableOnceEventsAreGone", func(t *testing.T) {
			require.NoError(t, eventFlow.DeleteEvent(context.Background(), owner.ID, event.ID))

			assert.True(t, categoryFlow.CanBeDeleted(context.Background(), category))
			require.NoError(t, categoryFlow.DeleteCategory(context.Background(), category.ID))
		})

		t.Run("DeleteUnknownCategoryRejected", func(t *testing.T) {
			err := categoryFlow.DeleteCategory(context.Background(), category.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsCategoryNotFound(err))
		})

		t.Run("EmptyCategoryDeletesImmediately", func(t *testing.T) {
			empty, err := fixtures.CreateTestCategory("Empty")
			require.NoError(t, err)
			require.NoError(t, categoryFlow.DeleteCategory(context.Background(), empty.ID))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestCategoryGuardFailsClosed(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		categoryFlow := newCategoryFlow(testDB)

		category, err := fixtures.CreateTestCategory("Unreachable")
		require.NoError(t, err)

		// Break the count query; a failing count must refuse deletion
		// rather than report the category as safe to delete.
		require.NoError(t, testDB.DB.Exec("DROP TABLE events_tags").Error)
		require.NoError(t, testDB.DB.Exec("DROP TABLE events").Error)

		assert.False(t, categoryFlow.CanBeDeleted(context.Background(), category))

		err = categoryFlow.DeleteCategory(context.Background(), category.ID)
		require.Error(t, err)
		assert.True(t, businessflow.IsCategoryInUse(err))

		return nil
	})
	require.NoError(t, err)
}
