package booltime

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the record adapters in this package and by
// the stores built on it. The declaration itself never creates errors.
var (
	// ErrUnknownAttribute is returned when a record has no attribute with
	// the requested name.
	ErrUnknownAttribute = errors.New("booltime: unknown attribute")

	// ErrNotFound is returned when a record has no row in storage.
	ErrNotFound = errors.New("booltime: record not found")

	// ErrNoKey is returned when a record cannot report its primary key.
	ErrNoKey = errors.New("booltime: record has no primary key")
)

// AttributeError reports a failed attribute access on a record.
type AttributeError struct {
	Type      string // Go type of the record
	Attribute string // Attribute name
	Message   string
}

// Error returns the error string.
func (e *AttributeError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("booltime: attribute %q of %s: %s", e.Attribute, e.Type, e.Message)
	}
	return fmt.Sprintf("booltime: unknown attribute %q of %s", e.Attribute, e.Type)
}

// Is reports whether the target error matches AttributeError.
// This allows errors.Is(attrErr, ErrUnknownAttribute) to return true.
func (e *AttributeError) Is(err error) bool {
	return err == ErrUnknownAttribute
}

// NewAttributeError returns a new AttributeError.
func NewAttributeError(typ, attribute, message string) *AttributeError {
	return &AttributeError{Type: typ, Attribute: attribute, Message: message}
}

// IsAttributeError returns true if the error is an AttributeError.
func IsAttributeError(err error) bool {
	if err == nil {
		return false
	}
	var e *AttributeError
	return errors.As(err, &e) || errors.Is(err, ErrUnknownAttribute)
}

// NotFoundError represents a record that has no row in storage.
type NotFoundError struct {
	table string
	key   any
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	if e.key != nil {
		return fmt.Sprintf("booltime: %s not found (key=%v)", e.table, e.key)
	}
	return fmt.Sprintf("booltime: %s not found", e.table)
}

// Is reports whether the target error matches NotFoundError.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Table returns the table that was searched.
func (e *NotFoundError) Table() string {
	return e.table
}

// Key returns the key that was searched for, if available.
func (e *NotFoundError) Key() any {
	return e.key
}

// NewNotFoundError returns a new NotFoundError for the given table and key.
func NewNotFoundError(table string, key any) *NotFoundError {
	return &NotFoundError{table: table, key: key}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}
