package sae

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an operation failure for the transport layer
type ErrorKind int

const (
	// KindInternal indicates an unexpected failure during computation
	KindInternal ErrorKind = iota
	// KindValidation indicates caller input that violates a precondition
	KindValidation
)

// String returns the name of the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	default:
		return "internal"
	}
}

// Operation names used in errors, spans and metrics
const (
	OpEncode  = "encode"
	OpFeature = "feature_lookup"
	OpSearch  = "feature_search"
)

// Error is returned by every engine operation that fails
type Error struct {
	Kind    ErrorKind
	Op      string
	Message string

	cause error
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any
func (e *Error) Unwrap() error {
	return e.cause
}

// NewValidationError creates a validation error with a short client-facing message
func NewValidationError(op, message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Op:      op,
		Message: message,
	}
}

// NewInternalError wraps an unexpected failure. The message carries the
// stringified cause.
func NewInternalError(op string, cause error) *Error {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{
		Kind:    KindInternal,
		Op:      op,
		Message: msg,
		cause:   cause,
	}
}

// KindOf reports the kind of err. Errors that are not *Error are internal.
func KindOf(err error) ErrorKind {
	var saeErr *Error
	if errors.As(err, &saeErr) {
		return saeErr.Kind
	}
	return KindInternal
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	return err != nil && KindOf(err) == KindValidation
}
