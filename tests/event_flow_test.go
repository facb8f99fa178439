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

func newEventFlow(testDB *testingutil.TestDB) businessflow.EventFlow {
	eventRepo := repository.NewEventRepository(testDB.DB)
	categoryRepo := repository.NewCategoryRepository(testDB.DB)
	userRepo := repository.NewUserRepository(testDB.DB)
	tagRepo := repository.NewTagRepository(testDB.DB)
	tagFlow := businessflow.NewTagFlow(tagRepo, testDB.DB)
	return businessflow.NewEventFlow(eventRepo, categoryRepo, userRepo, tagFlow, utils.DefaultPageSize, testDB.DB)
}

func TestEventCRUD(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		eventFlow := newEventFlow(testDB)

		owner, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		stranger, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		category, err := fixtures.CreateTestCategory("Meetings")
		require.NoError(t, err)

		var eventID uint

		t.Run("CreateEventWithTags", func(t *testing.T) {
			desc := "Quarterly planning"
			created, err := eventFlow.CreateEvent(context.Background(), owner.ID, &dto.CreateEventRequest{
				Title:       "Planning Session",
				Description: &desc,
				Date:        time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
				CategoryID:  category.ID,
				Tags:        "Work, Planning",
			})
			require.NoError(t, err)
			require.NotNil(t, created)
			eventID = created.ID

			assert.Equal(t, "Planning Session", created.Title)
			assert.Equal(t, "Quarterly planning", created.Description)
			assert.Equal(t, category.ID, created.CategoryID)
			assert.Equal(t, "Meetings", created.CategoryTitle)
			assert.Equal(t, owner.ID, created.AuthorID)
			assert.Equal(t, "Work, Planning", created.Tags)
			require.Len(t, created.TagList, 2)

			// The normalizer persisted the new tags
			var count int64
			require.NoError(t, testDB.DB.Model(&models.Tag{}).Count(&count).Error)
			assert.Equal(t, int64(2), count)
		})

		t.Run("InvalidDateRejected", func(t *testing.T) {
			_, err := eventFlow.CreateEvent(context.Background(), owner.ID, &dto.CreateEventRequest{
				Title:      "Bad Date",
				Date:       "next tuesday",
				CategoryID: category.ID,
			})
			require.Error(t, err)

			var bizErr *businessflow.BusinessError
			require.ErrorAs(t, err, &bizErr)
			assert.Equal(t, "INVALID_DATE", bizErr.Code)
		})

		t.Run("UnknownCategoryRejected", func(t *testing.T) {
			_, err := eventFlow.CreateEvent(context.Background(), owner.ID, &dto.CreateEventRequest{
				Title:      "Orphan",
				Date:       time.Now().UTC().Format(time.RFC3339),
				CategoryID: 9999,
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsCategoryNotFound(err))
		})

		t.Run("OwnerCanGetEvent", func(t *testing.T) {
			got, err := eventFlow.GetEvent(context.Background(), owner.ID, eventID)
			require.NoError(t, err)
			assert.Equal(t, "Planning Session", got.Title)
		})

		t.Run("StrangerCannotGetEvent", func(t *testing.T) {
			_, err := eventFlow.GetEvent(context.Background(), stranger.ID, eventID)
			require.Error(t, err)
			assert.True(t, businessflow.IsEventAccessDenied(err))
		})

		t.Run("UpdateReplacesTagSet", func(t *testing.T) {
			updated, err := eventFlow.UpdateEvent(context.Background(), owner.ID, eventID, &dto.UpdateEventRequest{
				Title:      "Planning Session v2",
				Date:       time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
				CategoryID: category.ID,
				Tags:       "Planning",
			})
			require.NoError(t, err)
			assert.Equal(t, "Planning Session v2", updated.Title)
			assert.Equal(t, "Planning", updated.Tags)
			require.Len(t, updated.TagList, 1)
			assert.Empty(t, updated.Description)
		})

		t.Run("StrangerCannotUpdateOrDelete", func(t *testing.T) {
			_, err := eventFlow.UpdateEvent(context.Background(), stranger.ID, eventID, &dto.UpdateEventRequest{
				Title:      "Hijacked",
				Date:       time.Now().UTC().Format(time.RFC3339),
				CategoryID: category.ID,
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsEventAccessDenied(err))

			err = eventFlow.DeleteEvent(context.Background(), stranger.ID, eventID)
			require.Error(t, err)
			assert.True(t, businessflow.IsEventAccessDenied(err))
		})

		t.Run("OwnerCanDelete", func(t *testing.T) {
			require.NoError(t, eventFlow.DeleteEvent(context.Background(), owner.ID, eventID))

			_, err := eventFlow.GetEvent(context.Background(), owner.ID, eventID)
			require.Error(t, err)
			assert.True(t, businessflow.IsEventNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestEventListing(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		eventFlow := newEventFlow(testDB)

		owner, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		other, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		work, err := fixtures.CreateTestCategory("Work")
		require.NoError(t, err)
		personal, err := fixtures.CreateTestCategory("Personal")
		require.NoError(t, err)

		urgent, err := fixtures.CreateTestTag("Urgent")
		require.NoError(t, err)
		travel, err := fixtures.CreateTestTag("Travel")
		require.NoError(t, err)

		yesterday := time.Now().Add(-24 * time.Hour)
		tomorrow := time.Now().Add(24 * time.Hour)

		pastWork, err := fixtures.CreateTestEvent(owner.ID, work.ID, "Past Work", yesterday, urgent)
		require.NoError(t, err)
		futureWork, err := fixtures.CreateTestEvent(owner.ID, work.ID, "Future Work", tomorrow, urgent, travel)
		require.NoError(t, err)
		futurePersonal, err := fixtures.CreateTestEvent(owner.ID, personal.ID, "Future Personal", tomorrow)
		require.NoError(t, err)

		// Another user's event must never surface
		_, err = fixtures.CreateTestEvent(other.ID, work.ID, "Foreign Event", tomorrow, urgent)
		require.NoError(t, err)

		t.Run("ListsOnlyOwnEventsInIDOrder", func(t *testing.T) {
			resp, err := eventFlow.ListEvents(context.Background(), &dto.ListEventsRequest{
				UserID: owner.ID,
				Page:   1,
			})
			require.NoError(t, err)
			assert.Equal(t, int64(3), resp.Total)
			require.Len(t, resp.Items, 3)
			assert.Equal(t, pastWork.ID, resp.Items[0].ID)
			assert.Equal(t, futureWork.ID, resp.Items[1].ID)
			assert.Equal(t, futurePersonal.ID, resp.Items[2].ID)
		})

		t.Run("FiltersByCategory", func(t *testing.T) {
			resp, err := eventFlow.ListEvents(context.Background(), &dto.ListEventsRequest{
				UserID:     owner.ID,
				Page:       1,
				CategoryID: &personal.ID,
			})
			require.NoError(t, err)
			require.Len(t, resp.Items, 1)
			assert.Equal(t, "Future Personal", resp.Items[0].Title)
		})

		t.Run("HidesPastEvents", func(t *testing.T) {
			resp, err := eventFlow.ListEvents(context.Background(), &dto.ListEventsRequest{
				UserID:         owner.ID,
				Page:           1,
				HidePastEvents: true,
			})
			require.NoError(t, err)
			require.Len(t, resp.Items, 2)
			assert.Equal(t, "Future Work", resp.Items[0].Title)
			assert.Equal(t, "Future Personal", resp.Items[1].Title)
		})

		t.Run("FiltersByTagsWithoutDuplicates", func(t *testing.T) {
			// Future Work carries both tags; it must appear once
			resp, err := eventFlow.ListEvents(context.Background(), &dto.ListEventsRequest{
				UserID: owner.ID,
				Page:   1,
				TagIDs: []uint{urgent.ID, travel.ID},
			})
			require.NoError(t, err)
			assert.Equal(t, int64(2), resp.Total)
			require.Len(t, resp.Items, 2)
			assert.Equal(t, "Past Work", resp.Items[0].Title)
			assert.Equal(t, "Future Work", resp.Items[1].Title)
		})

		t.Run("CombinedFilters", func(t *testing.T) {
			resp, err := eventFlow.ListEvents(context.Background(), &dto.ListEventsRequest{
				UserID:         owner.ID,
				Page:           1,
				CategoryID:     &work.ID,
				HidePastEvents: true,
				TagIDs:         []uint{urgent.ID},
			})
			require.NoError(t, err)
			require.Len(t, resp.Items, 1)
			assert.Equal(t, "Future Work", resp.Items[0].Title)
		})

		t.Run("PaginatesAtFivePerPage", func(t *testing.T) {
			for i := 0; i < 4; i++ {
				_, err := fixtures.CreateTestEvent(owner.ID, work.ID, fmt.Sprintf("Filler %d", i), tomorrow)
				require.NoError(t, err)
			}

			page1, err := eventFlow.ListEvents(context.Background(), &dto.ListEventsRequest{UserID: owner.ID, Page: 1})
			require.NoError(t, err)
			assert.Equal(t, int64(7), page1.Total)
			assert.Len(t, page1.Items, 5)
			assert.Equal(t, 2, page1.TotalPages)

			page2, err := eventFlow.ListEvents(context.Background(), &dto.ListEventsRequest{UserID: owner.ID, Page: 2})
			require.NoError(t, err)
			assert.Len(t, page2.Items, 2)
		})

		t.Run("EmptyPageIsValid", func(t *testing.T) {
			resp, err := eventFlow.ListEvents(context.Background(), &dto.ListEventsRequest{UserID: owner.ID, Page: 99})
			require.NoError(t, err)
			assert.Empty(t, resp.Items)
		})

		t.Run("PageZeroRejected", func(t *testing.T) {
			_, err := eventFlow.ListEvents(context.Background(), &dto.ListEventsRequest{UserID: owner.ID, Page: 0})
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidPage(err))
		})

		return nil
	})
	require.NoError(t, err)
}
