package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple title", "Work", "work"},
		{"spaces become hyphens", "Family Dinner", "family-dinner"},
		{"punctuation collapses", "Rock & Roll!", "rock-roll"},
		{"leading and trailing junk trimmed", "  --Hello--  ", "hello"},
		{"digits kept", "Q3 2025 Review", "q3-2025-review"},
		{"consecutive separators collapse", "a  -  b", "a-b"},
		{"empty input", "", ""},
		{"only punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}
