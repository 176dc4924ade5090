// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity or request fails validation.
	// This is usually wrapped inside a ValidationError carrying the field name.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is empty or malformed.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyContent is returned when required text content is blank.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidCardType is returned when a card type is not one of the known types.
	ErrInvalidCardType = errors.New("invalid card type")

	// ErrInvalidQualityRating is returned when a quality rating is outside 0-5.
	ErrInvalidQualityRating = errors.New("quality rating must be between 0 and 5")

	// ErrInvalidResponseTime is returned when a response latency is negative.
	ErrInvalidResponseTime = errors.New("response time cannot be negative")
)

// ValidationError describes a single invalid field. It always unwraps to
// ErrValidation, and to the more specific cause when one is given, so callers
// can test either with errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Message)
	}
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Message)
}

// Unwrap exposes both ErrValidation and the specific cause.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil || e.Err == ErrValidation {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}

// IsValidationError reports whether err is, or wraps, a validation failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}
