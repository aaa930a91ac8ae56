package apperr

import "errors"

// Sentinel errors for the booking domain. Services wrap these with
// context via fmt.Errorf("...: %w", err); the HTTP layer maps each one
// to a distinct status code with errors.Is.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrConflict      = errors.New("conflict")
	ErrForbidden     = errors.New("forbidden")
	ErrQuotaExceeded = errors.New("monthly booking quota exceeded")
	ErrLocked        = errors.New("resource is locked")
)
