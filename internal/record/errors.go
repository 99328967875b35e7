package record

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode categorizes domain errors.
type ErrorCode string

const (
	// ErrCodeValidation indicates malformed input: a bad file name, undecodable
	// text, a short row, or a value that fails its field's coercion.
	ErrCodeValidation ErrorCode = "VALIDATION"

	// ErrCodeConflict indicates a duplicate objectId on a strict insert.
	ErrCodeConflict ErrorCode = "CONFLICT"

	// ErrCodeNotFound indicates an edit or delete of an unknown objectId.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeTransport indicates a blob storage failure during backup or restore.
	ErrCodeTransport ErrorCode = "TRANSPORT"
)

// ConflictMessage is the user-facing text for a duplicate objectId.
const ConflictMessage = "museum object with this objectId already exists"

// Error is a classified domain error.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Field names the offending field, if any.
	Field string

	// ObjectID identifies the affected record, if known.
	ObjectID int64

	// Line is the 1-based CSV line number for ingestion errors.
	Line int

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Code, e.Message)

	var attrs []string
	if e.Field != "" {
		attrs = append(attrs, "field="+e.Field)
	}
	if e.ObjectID != 0 {
		attrs = append(attrs, fmt.Sprintf("objectId=%d", e.ObjectID))
	}
	if e.Line > 0 {
		attrs = append(attrs, fmt.Sprintf("line=%d", e.Line))
	}
	if len(attrs) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(attrs, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithLine returns a copy of e annotated with a CSV line number.
func (e *Error) WithLine(line int) *Error {
	c := *e
	c.Line = line
	return &c
}

// NewValidationError creates a VALIDATION error for a field.
func NewValidationError(field, message string) *Error {
	return &Error{Code: ErrCodeValidation, Message: message, Field: field}
}

// WrapValidationError creates a VALIDATION error wrapping a cause.
func WrapValidationError(message string, err error) *Error {
	return &Error{Code: ErrCodeValidation, Message: message, Err: err}
}

// NewConflictError creates a CONFLICT error keyed by objectId.
func NewConflictError(objectID int64, err error) *Error {
	return &Error{
		Code:     ErrCodeConflict,
		Message:  ConflictMessage,
		Field:    "objectId",
		ObjectID: objectID,
		Err:      err,
	}
}

// NewNotFoundError creates a NOT_FOUND error for an objectId.
func NewNotFoundError(objectID int64) *Error {
	return &Error{
		Code:     ErrCodeNotFound,
		Message:  "no museum object found matching the query",
		ObjectID: objectID,
	}
}

// NewTransportError creates a TRANSPORT error for a failed blob operation.
func NewTransportError(op string, err error) *Error {
	return &Error{Code: ErrCodeTransport, Message: op + " failed", Err: err}
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsValidation reports whether err is a VALIDATION error.
func IsValidation(err error) bool { return CodeOf(err) == ErrCodeValidation }

// IsConflict reports whether err is a CONFLICT error.
func IsConflict(err error) bool { return CodeOf(err) == ErrCodeConflict }

// IsNotFound reports whether err is a NOT_FOUND error.
func IsNotFound(err error) bool { return CodeOf(err) == ErrCodeNotFound }

// IsTransport reports whether err is a TRANSPORT error.
func IsTransport(err error) bool { return CodeOf(err) == ErrCodeTransport }
