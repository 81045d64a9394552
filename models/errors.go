package models

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound means the caller referenced an id the store doesn't hold.
	ErrUserNotFound = errors.New("user not found")
	// ErrNoSelection means an operation needed a selected user and there is none.
	ErrNoSelection = errors.New("no user is currently selected")
)

// ValidationError is a user-facing rejection of bad input. State is never
// modified when one is returned.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidationError builds a ValidationError wrapping a sentinel cause.
func NewValidationError(field string, cause error) *ValidationError {
	return &ValidationError{Field: field, Reason: cause.Error(), Err: cause}
}

// TransportError reports a failed solver call. Status is zero when no HTTP
// response was received.
type TransportError struct {
	Status int
	Detail string
	Err    error
}

func (e *TransportError) Error() string {
	switch {
	case e.Status != 0 && e.Detail != "":
		return fmt.Sprintf("solver returned %d: %s", e.Status, e.Detail)
	case e.Status != 0:
		return fmt.Sprintf("solver returned %d", e.Status)
	case e.Err != nil:
		return "solver unreachable: " + e.Err.Error()
	}
	return "solver call failed"
}

func (e *TransportError) Unwrap() error { return e.Err }

// ImportFormatError reports an unreadable users file. Nothing is imported
// when one is returned.
type ImportFormatError struct {
	Reason string
	Err    error
}

func (e *ImportFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid import file: %s: %v", e.Reason, e.Err)
	}
	return "invalid import file: " + e.Reason
}

func (e *ImportFormatError) Unwrap() error { return e.Err }
