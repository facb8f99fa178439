// Package utils provides utility functions for the application.
package utils

import (
	"strings"
	"unicode"
)

// Slugify derives a URL-safe slug from a title: lower-cased, runs of
// non-alphanumeric characters collapsed to single hyphens, trimmed.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
