package pipeline

import (
	"errors"
	"fmt"
)

// Kind tags a pipeline failure with a machine-readable category. The HTTP
// layer maps kinds to status codes and never exposes wrapped internals.
type Kind string

const (
	KindSourceUnavailable    Kind = "SOURCE_UNAVAILABLE"
	KindSchemaError          Kind = "SCHEMA_ERROR"
	KindMissingReferenceTime Kind = "MISSING_REFERENCE_TIME"
	KindInsufficientData     Kind = "INSUFFICIENT_DATA"
)

// Error is a structured pipeline error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a pipeline error without a cause.
func NewError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError creates a pipeline error wrapping a cause.
func WrapError(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or "" if err is not a pipeline error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
