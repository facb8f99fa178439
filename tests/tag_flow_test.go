package tests

import (
	"context"
	"testing"

	"github.com/mnemosyne-app/mnemosyne/app/dto"
	businessflow "github.com/mnemosyne-app/mnemosyne/business_flow"
	"github.com/mnemosyne-app/mnemosyne/models"
	"github.com/mnemosyne-app/mnemosyne/repository"
	testingutil "github.com/mnemosyne-app/mnemosyne/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTagList(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		tagRepo := repository.NewTagRepository(testDB.DB)
		tagFlow := businessflow.NewTagFlow(tagRepo, testDB.DB)

		t.Run("BlankInputYieldsNoTags", func(t *testing.T) {
			tags, err := tagFlow.ResolveTagList(context.Background(), "")
			require.NoError(t, err)
			assert.Empty(t, tags)

			tags, err = tagFlow.ResolveTagList(context.Background(), "  ,  , ")
			require.NoError(t, err)
			assert.Empty(t, tags)
		})

		t.Run("UnknownTitlesAreCreated", func(t *testing.T) {
			tags, err := tagFlow.ResolveTagList(context.Background(), "Work, Family")
			require.NoError(t, err)
			require.Len(t, tags, 2)
			assert.Equal(t, "Work", tags[0].Title)
			assert.Equal(t, "Family", tags[1].Title)
			assert.NotZero(t, tags[0].ID)
			assert.NotZero(t, tags[1].ID)
			assert.Equal(t, "work", tags[0].Slug)
		})

		t.Run("ExistingTitlesAreReusedCaseInsensitively", func(t *testing.T) {
			tags, err := tagFlow.ResolveTagList(context.Background(), "WORK, family")
			require.NoError(t, err)
			require.Len(t, tags, 2)

			// The stored rows are reused; titles keep their original casing
			assert.Equal(t, "Work", tags[0].Title)
			assert.Equal(t, "Family", tags[1].Title)

			var count int64
			require.NoError(t, testDB.DB.Model(&models.Tag{}).Count(&count).Error)
			assert.Equal(t, int64(2), count)
		})

		t.Run("SegmentsAreTrimmed", func(t *testing.T) {
			tags, err := tagFlow.ResolveTagList(context.Background(), "  Work ,   Urgent  ")
			require.NoError(t, err)
			require.Len(t, tags, 2)
			assert.Equal(t, "Work", tags[0].Title)
			assert.Equal(t, "Urgent", tags[1].Title)
		})

		t.Run("OrderAndDuplicatesPreserved", func(t *testing.T) {
			tags, err := tagFlow.ResolveTagList(context.Background(), "Family, Work, Family")
			require.NoError(t, err)
			require.Len(t, tags, 3)
			assert.Equal(t, "Family", tags[0].Title)
			assert.Equal(t, "Work", tags[1].Title)
			assert.Equal(t, "Family", tags[2].Title)
		})

		t.Run("RoundTripWithFormatTagList", func(t *testing.T) {
			tags, err := tagFlow.ResolveTagList(context.Background(), "Work, Family, Urgent")
			require.NoError(t, err)
			assert.Equal(t, "Work, Family, Urgent", businessflow.FormatTagList(tags))
		})

		t.Run("FixtureTagsAreVisibleToTheNormalizer", func(t *testing.T) {
			seeded, err := fixtures.CreateTestTag("Conference")
			require.NoError(t, err)

			tags, err := tagFlow.ResolveTagList(context.Background(), "conference")
			require.NoError(t, err)
			require.Len(t, tags, 1)
			assert.Equal(t, seeded.ID, tags[0].ID)
			assert.Equal(t, "Conference", tags[0].Title)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestTagAdministration(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		tagRepo := repository.NewTagRepository(testDB.DB)
		tagFlow := businessflow.NewTagFlow(tagRepo, testDB.DB)

		t.Run("CreateAndListTags", func(t *testing.T) {
			created, err := tagFlow.CreateTag(context.Background(), &dto.CreateTagRequest{Title: "Work"})
			require.NoError(t, err)
			assert.Equal(t, "Work", created.Title)
			assert.Equal(t, "work", created.Slug)

			_, err = tagFlow.CreateTag(context.Background(), &dto.CreateTagRequest{Title: "Family"})
			require.NoError(t, err)

			list, err := tagFlow.ListTags(context.Background(), 1, 10)
			require.NoError(t, err)
			assert.Equal(t, int64(2), list.Total)
			require.Len(t, list.Items, 2)
			assert.Equal(t, "Work", list.Items[0].Title)
		})

		t.Run("DuplicateTitleRejectedCaseInsensitively", func(t *testing.T) {
			_, err := tagFlow.CreateTag(context.Background(), &dto.CreateTagRequest{Title: "WORK"})
			require.Error(t, err)
			assert.True(t, businessflow.IsTagTitleTaken(err))
		})

		t.Run("UpdateRenamesAndReslugs", func(t *testing.T) {
			created, err := tagFlow.CreateTag(context.Background(), &dto.CreateTagRequest{Title: "Old Name"})
			require.NoError(t, err)

			updated, err := tagFlow.UpdateTag(context.Background(), created.ID, &dto.UpdateTagRequest{Title: "New Name"})
			require.NoError(t, err)
			assert.Equal(t, "New Name", updated.Title)
			assert.Equal(t, "new-name", updated.Slug)
		})

		t.Run("UpdateToTakenTitleRejected", func(t *testing.T) {
			created, err := tagFlow.CreateTag(context.Background(), &dto.CreateTagRequest{Title: "Solo"})
			require.NoError(t, err)

			_, err = tagFlow.UpdateTag(context.Background(), created.ID, &dto.UpdateTagRequest{Title: "work"})
			require.Error(t, err)
			assert.True(t, businessflow.IsTagTitleTaken(err))
		})

		t.Run("DeleteRemovesTag", func(t *testing.T) {
			created, err := tagFlow.CreateTag(context.Background(), &dto.CreateTagRequest{Title: "Ephemeral"})
			require.NoError(t, err)

			require.NoError(t, tagFlow.DeleteTag(context.Background(), created.ID))

			err = tagFlow.DeleteTag(context.Background(), created.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsTagNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
