package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Validation error codes surfaced in the error envelope
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeMissingResponsible  = "MISSING_RESPONSIBILITY"
	CodePercentageMismatch  = "PERCENTAGE_MISMATCH"
	CodeUnsupportedMetadata = "UNSUPPORTED_METADATA"
	CodeMissingParameter    = "MISSING_PARAMETER"
)

// FieldError carries the field-level detail of a validation failure
type FieldError struct {
	Field    string      `json:"field"`
	Message  string      `json:"message"`
	Rejected interface{} `json:"rejectedValue,omitempty"`
}

// ValidationError represents a rejected input: malformed or missing fields,
// percentage invariant violations, unsupported metadata tokens.
// Validation failures are always rejected before any write is attempted.
type ValidationError struct {
	Code    string
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// NewValidationError creates a generic validation error
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// NewFieldValidationError creates a validation error attributed to one field
func NewFieldValidationError(field, message string, rejected interface{}) *ValidationError {
	return &ValidationError{
		Code:    CodeValidation,
		Message: "validation failed",
		Fields:  []FieldError{{Field: field, Message: message, Rejected: rejected}},
	}
}

// NewMissingParameterError reports a mandatory query parameter that was not supplied
func NewMissingParameterError(param string) *ValidationError {
	return &ValidationError{
		Code:    CodeMissingParameter,
		Message: fmt.Sprintf("missing required parameter %q", param),
		Fields:  []FieldError{{Field: param, Message: "parameter is required"}},
	}
}

// NotFoundError indicates a referenced entity does not exist
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// NewNotFoundError creates a NotFoundError for the given entity reference
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError indicates a uniqueness violation on a name-like field
type ConflictError struct {
	Entity string
	Field  string
	Value  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Field, e.Value)
}

// NewConflictError creates a ConflictError
func NewConflictError(entity, field, value string) *ConflictError {
	return &ConflictError{Entity: entity, Field: field, Value: value}
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// IsConflict reports whether err is (or wraps) a ConflictError
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
