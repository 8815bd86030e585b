package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the core wraps exactly one of these;
// the HTTP boundary maps them to status codes.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("access forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

// Error carries a client-safe message and the kind it belongs to.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Validationf builds a ValidationFailed error with a formatted message.
func Validationf(format string, args ...any) error {
	return newError(ErrValidation, fmt.Sprintf(format, args...))
}

// Unauthenticated
var (
	ErrInvalidCredentials = newError(ErrUnauthenticated, "invalid credentials")
	ErrInvalidToken       = newError(ErrUnauthenticated, "invalid or expired token")
	ErrMissingToken       = newError(ErrUnauthenticated, "missing bearer token")
	ErrAccountInactive    = newError(ErrUnauthenticated, "account is inactive")
)

// Forbidden
var (
	ErrRoleForbidden       = newError(ErrForbidden, "role not allowed for this operation")
	ErrTransitionForbidden = newError(ErrForbidden, "status transition not allowed for caller")
	ErrNotServiceOwner     = newError(ErrForbidden, "service belongs to another provider")
)

// NotFound
var (
	ErrUserNotFound     = newError(ErrNotFound, "user not found")
	ErrProviderNotFound = newError(ErrNotFound, "provider not found")
	ErrServiceNotFound  = newError(ErrNotFound, "service not found")
	ErrCategoryNotFound = newError(ErrNotFound, "category not found")
	ErrRequestNotFound  = newError(ErrNotFound, "service request not found")
)

// Conflict
var (
	ErrEmailTaken        = newError(ErrConflict, "email already registered")
	ErrOpenRequestExists = newError(ErrConflict, "an open request for this service already exists")
	ErrFeedbackExists    = newError(ErrConflict, "feedback already submitted for this request")
	ErrStatusChanged     = newError(ErrConflict, "request status changed concurrently")
	ErrInvalidTransition = newError(ErrConflict, "status not reachable from current state")
)
