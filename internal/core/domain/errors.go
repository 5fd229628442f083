package domain

import (
	"errors"
	"fmt"
)

// Error classes. Every error a service returns wraps exactly one of these so
// transports can map it without knowing the specific cause.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

var (
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrPropertyNotFound   = fmt.Errorf("property %w", ErrNotFound)
	ErrEmailTaken         = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid or expired token", ErrUnauthorized)
	ErrMissingToken       = fmt.Errorf("%w: missing bearer token", ErrUnauthorized)
	ErrNotSelf            = fmt.Errorf("%w: access restricted to the account owner", ErrForbidden)
	ErrNotOwner           = fmt.Errorf("%w: only the owner may modify this property", ErrForbidden)
)

// FieldError reports a single invalid or missing request field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrValidation }

func MissingField(field string) error {
	return &FieldError{Field: field, Reason: "is required"}
}

func InvalidField(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}
