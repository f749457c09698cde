// Package entity defines the weekly menu domain: intake submissions, menu
// settings, generated menus and their published pages, together with the
// validation errors they report.
package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested entity was not found
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidationFailed indicates that validation checks have failed
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ValidationErrors enumerates every field that failed validation, ordered by field name.
type ValidationErrors []*ValidationError

// Error joins the individual field errors.
func (es ValidationErrors) Error() string {
	msgs := make([]string, 0, len(es))
	for _, e := range es {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// Is makes errors.Is(err, ErrValidationFailed) hold for any ValidationErrors.
func (es ValidationErrors) Is(target error) bool {
	return target == ErrValidationFailed
}

// Fields returns the names of the failed fields.
func (es ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(es))
	for _, e := range es {
		fields = append(fields, e.Field)
	}
	return fields
}
