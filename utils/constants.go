package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour

	// SessionTimeout is the default session timeout (24 hours)
	SessionTimeout = 24 * time.Hour
)

// Pagination constants
const (
	// DefaultPageSize is the number of items per page for entity listings
	DefaultPageSize = 5

	// UsersPageSize is the number of items per page for the admin user roster
	UsersPageSize = 10

	// MaxPageSize caps caller-provided page sizes
	MaxPageSize = 100
)

// HTTP constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Title length bounds shared by categories and tags
const (
	MinTitleLength = 3
	MaxTitleLength = 64
)
