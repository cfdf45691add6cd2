// Package apperr defines the sentinel errors shared across the store and
// HTTP layers. Handlers translate them to status codes in one place.
package apperr

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrDuplicateEmail  = errors.New("email already in use")
	ErrInternal        = errors.New("internal error")
)
