package core

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned (wrapped) when a single-row read or update matches no row.
var ErrNotFound = errors.New("record not found")

// ValidationError reports malformed or missing input. It never reaches the backend.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// SchemaError wraps a backend failure for a schema-definition operation.
type SchemaError struct {
	Op    string // "Create table", "Drop table", "Alter table", "Update rows", "Describe table"
	Table string
	Err   error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Op, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// StoreError wraps a failure of a record operation.
type StoreError struct {
	Op    string // "Create record", "Get records by IDs", ...
	Table string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
