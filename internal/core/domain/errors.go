package domain

import "errors"

var (
	ErrNotAuthenticated = errors.New("you must be logged in")
	ErrForbidden        = errors.New("access forbidden")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("already exists")
	ErrInvalidState     = errors.New("invalid state")
	ErrValidation       = errors.New("invalid input")
	ErrPersistence      = errors.New("persistence failure")

	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationError reports a malformed input field. It matches ErrValidation
// under errors.Is and its message is safe to show to the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
