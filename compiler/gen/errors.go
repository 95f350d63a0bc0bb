package gen

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSchema is matched by every *SchemaError.
	ErrInvalidSchema = errors.New("booltime: invalid schema")
	// ErrMissingConfig is matched by every *ConfigError.
	ErrMissingConfig = errors.New("booltime: missing configuration")
	// ErrGenerationFailed is matched by every *GenerationError.
	ErrGenerationFailed = errors.New("booltime: code generation failed")
)

// SchemaError reports a bad type or field declaration.
type SchemaError struct {
	Type    string
	Field   string // active name, empty for type level errors
	Message string
	Cause   error
}

// NewSchemaError returns a SchemaError.
func NewSchemaError(typeName, field, message string, cause error) *SchemaError {
	return &SchemaError{Type: typeName, Field: field, Message: message, Cause: cause}
}

func (e *SchemaError) Error() string {
	where := e.Type
	if e.Field != "" {
		where += "." + e.Field
	}
	return message("invalid declaration", where, e.Message, e.Cause)
}

func (e *SchemaError) Unwrap() error        { return e.Cause }
func (e *SchemaError) Is(target error) bool { return target == ErrInvalidSchema }

// ConfigError reports a bad configuration value.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// NewConfigError returns a ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}

func (e *ConfigError) Error() string {
	where := fmt.Sprintf("config %q", e.Option)
	if e.Value != nil {
		where += fmt.Sprintf(" = %v", e.Value)
	}
	return message("bad value", where, e.Message, nil)
}

func (e *ConfigError) Is(target error) bool { return target == ErrMissingConfig }

// GenerationError reports a failure while rendering or writing files.
type GenerationError struct {
	Phase   string // render, format, write or snapshot
	File    string
	Message string
	Cause   error
}

// NewGenerationError returns a GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{Phase: phase, File: file, Message: message, Cause: cause}
}

func (e *GenerationError) Error() string {
	where := strings.TrimSpace(e.Phase + " " + e.File)
	return message("failed", where, e.Message, e.Cause)
}

func (e *GenerationError) Unwrap() error        { return e.Cause }
func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailed }

// message renders "booltime: where: msg: cause", using fallback when
// neither msg nor cause is set.
func message(fallback, where, msg string, cause error) string {
	parts := []string{"booltime"}
	if where != "" {
		parts = append(parts, where)
	}
	switch {
	case msg != "":
		parts = append(parts, msg)
	case cause == nil:
		parts = append(parts, fallback)
	}
	if cause != nil {
		parts = append(parts, cause.Error())
	}
	return strings.Join(parts, ": ")
}

// IsSchemaError reports whether err wraps a *SchemaError.
func IsSchemaError(err error) bool {
	var e *SchemaError
	return errors.As(err, &e)
}

// IsConfigError reports whether err wraps a *ConfigError.
func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

// IsGenerationError reports whether err wraps a *GenerationError.
func IsGenerationError(err error) bool {
	var e *GenerationError
	return errors.As(err, &e)
}
