package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("some error"), false},
		{"generic not found", ErrNotFound, true},
		{"user not found", ErrUserNotFound, true},
		{"card not found", ErrCardNotFound, true},
		{"review log not found", ErrReviewLogNotFound, true},
		{"wrapped card not found", fmt.Errorf("loading: %w", ErrCardNotFound), true},
		{"duplicate error", ErrDuplicate, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsNotFoundError(tt.err); got != tt.expected {
				t.Errorf("IsNotFoundError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"generic duplicate", ErrDuplicate, true},
		{"email exists", ErrEmailExists, true},
		{"wrapped email exists", fmt.Errorf("creating user: %w", ErrEmailExists), true},
		{"not found error", ErrCardNotFound, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsDuplicateError(tt.err); got != tt.expected {
				t.Errorf("IsDuplicateError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	t.Run("with wrapped error", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("connection refused")
		err := NewStoreError("card", "update", "saving scheduling state", cause)

		if !errors.Is(err, cause) {
			t.Error("StoreError should unwrap to its cause")
		}
		want := "update operation on card failed: saving scheduling state: connection refused"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("without wrapped error", func(t *testing.T) {
		t.Parallel()
		err := NewStoreError("user", "create", "missing fields", nil)

		want := "create operation on user failed: missing fields"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("sentinel survives wrapping", func(t *testing.T) {
		t.Parallel()
		err := NewStoreError("card", "get", "lookup", ErrCardNotFound)

		if !IsNotFoundError(err) {
			t.Error("StoreError wrapping ErrCardNotFound should be a not-found error")
		}
	})
}
