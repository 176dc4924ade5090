package learning

import (
	"errors"
	"fmt"

	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/store"
)

// ErrStorageFailure marks errors caused by the underlying store rather than
// by the caller. They are safe to retry.
var ErrStorageFailure = errors.New("storage failure")

// ServiceError wraps errors from the learning service with the operation that
// failed. Use errors.Is with ErrStorageFailure, store.ErrNotFound or
// domain.ErrValidation to classify it.
type ServiceError struct {
	// Operation is the operation that failed (e.g. "review_card")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError returns a ServiceError for operation.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// wrapStoreError passes caller-facing store errors through unchanged and
// classifies everything else as a storage failure.
func wrapStoreError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if IsNotFound(err) || IsValidation(err) || IsConflict(err) {
		return err
	}
	return NewServiceError(operation, message, fmt.Errorf("%w: %w", ErrStorageFailure, err))
}

// IsNotFound reports whether err means the requested card does not exist.
func IsNotFound(err error) bool {
	return store.IsNotFoundError(err)
}

// IsValidation reports whether err was caused by invalid input.
func IsValidation(err error) bool {
	return domain.IsValidationError(err) || errors.Is(err, store.ErrInvalidEntity)
}

// IsConflict reports whether err was caused by a concurrent change to the
// same card or a duplicate identifier.
func IsConflict(err error) bool {
	return errors.Is(err, store.ErrConflict) || store.IsDuplicateError(err)
}

// IsStorageFailure reports whether err is a storage failure.
func IsStorageFailure(err error) bool {
	return errors.Is(err, ErrStorageFailure)
}
