// Package businessflow contains the core business logic and use cases for the personal information manager
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// User-related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrIncorrectPassword  = errors.New("incorrect password")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrPasswordsMismatch  = errors.New("password confirmation does not match")
	ErrCannotDeleteSelf   = errors.New("administrators cannot delete their own account")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionInvalid  = errors.New("session is inactive or expired")

	// Category errors
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategoryTitleTaken = errors.New("category title already exists")
	ErrCategoryInUse      = errors.New("category has associated events and cannot be deleted")

	// Tag errors
	ErrTagNotFound   = errors.New("tag not found")
	ErrTagTitleTaken = errors.New("tag title already exists")

	// Event errors
	ErrEventNotFound     = errors.New("event not found")
	ErrEventAccessDenied = errors.New("event access denied")

	// Contact errors
	ErrContactNotFound     = errors.New("contact not found")
	ErrContactAccessDenied = errors.New("contact access denied")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsPasswordsMismatch(err error) bool {
	return errors.Is(err, ErrPasswordsMismatch)
}

func IsCannotDeleteSelf(err error) bool {
	return errors.Is(err, ErrCannotDeleteSelf)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage) || errors.Is(err, ErrInvalidPageSize)
}

func IsSessionInvalid(err error) bool {
	return errors.Is(err, ErrSessionInvalid) || errors.Is(err, ErrSessionNotFound)
}

func IsCategoryNotFound(err error) bool {
	return errors.Is(err, ErrCategoryNotFound)
}

func IsCategoryTitleTaken(err error) bool {
	return errors.Is(err, ErrCategoryTitleTaken)
}

func IsCategoryInUse(err error) bool {
	return errors.Is(err, ErrCategoryInUse)
}

func IsTagNotFound(err error) bool {
	return errors.Is(err, ErrTagNotFound)
}

func IsTagTitleTaken(err error) bool {
	return errors.Is(err, ErrTagTitleTaken)
}

func IsEventNotFound(err error) bool {
	return errors.Is(err, ErrEventNotFound)
}

func IsEventAccessDenied(err error) bool {
	return errors.Is(err, ErrEventAccessDenied)
}

func IsContactNotFound(err error) bool {
	return errors.Is(err, ErrContactNotFound)
}

func IsContactAccessDenied(err error) bool {
	return errors.Is(err, ErrContactAccessDenied)
}
