package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "generic error",
			err:      errors.New("some error"),
			expected: false,
		},
		{
			name:     "ErrNotFound",
			err:      ErrNotFound,
			expected: true,
		},
		{
			name:     "ErrCardNotFound",
			err:      ErrCardNotFound,
			expected: true,
		},
		{
			name:     "wrapped ErrCardNotFound",
			err:      fmt.Errorf("failed to review: %w", ErrCardNotFound),
			expected: true,
		},
		{
			name:     "store error wrapping ErrCardNotFound",
			err:      NewStoreError("card", "get", "no such card", ErrCardNotFound),
			expected: true,
		},
		{
			name:     "conflict is not a not-found",
			err:      ErrConflict,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFoundError(tt.err); got != tt.expected {
				t.Errorf("IsNotFoundError() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	if IsDuplicateError(nil) {
		t.Error("nil should not be a duplicate error")
	}
	if !IsDuplicateError(fmt.Errorf("insert card: %w", ErrDuplicate)) {
		t.Error("wrapped ErrDuplicate should be a duplicate error")
	}
	if IsDuplicateError(ErrInvalidEntity) {
		t.Error("ErrInvalidEntity should not be a duplicate error")
	}
}

func TestStoreError(t *testing.T) {
	originalErr := errors.New("database connection failed")
	storeErr := NewStoreError("card", "create", "database error", originalErr)

	expectedErrorString := "create operation on card failed: database error: database connection failed"
	if got := storeErr.Error(); got != expectedErrorString {
		t.Errorf("StoreError.Error() = %v, want %v", got, expectedErrorString)
	}

	if !errors.Is(storeErr, originalErr) {
		t.Errorf("errors.Is() not recognizing the wrapped error")
	}

	bare := NewStoreError("review_session", "list", "bad cursor", nil)
	if got := bare.Error(); got != "list operation on review_session failed: bad cursor" {
		t.Errorf("StoreError.Error() without cause = %v", got)
	}

	var target *StoreError
	if !errors.As(fmt.Errorf("outer: %w", storeErr), &target) || target.Entity != "card" {
		t.Errorf("errors.As() did not find the StoreError")
	}
}
