package businessflow

import (
	"testing"

	"github.com/mnemosyne-app/mnemosyne/models"
	"github.com/stretchr/testify/assert"
)

func TestFormatTagList(t *testing.T) {
	t.Run("EmptySetRendersEmptyString", func(t *testing.T) {
		assert.Equal(t, "", FormatTagList(nil))
		assert.Equal(t, "", FormatTagList([]models.Tag{}))
	})

	t.Run("SingleTag", func(t *testing.T) {
		tags := []models.Tag{{Title: "Work"}}
		assert.Equal(t, "Work", FormatTagList(tags))
	})

	t.Run("PreservesCollectionOrder", func(t *testing.T) {
		tags := []models.Tag{{Title: "Work"}, {Title: "Family"}, {Title: "Urgent"}}
		assert.Equal(t, "Work, Family, Urgent", FormatTagList(tags))
	})

	t.Run("KeepsStoredCasing", func(t *testing.T) {
		tags := []models.Tag{{Title: "GoLang"}, {Title: "PostgreSQL"}}
		assert.Equal(t, "GoLang, PostgreSQL", FormatTagList(tags))
	})
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(0, 5))
	assert.Equal(t, 1, totalPages(1, 5))
	assert.Equal(t, 1, totalPages(5, 5))
	assert.Equal(t, 2, totalPages(6, 5))
	assert.Equal(t, 3, totalPages(21, 10))
	assert.Equal(t, 0, totalPages(10, 0))
}
