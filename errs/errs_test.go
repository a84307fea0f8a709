package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/rpupo63/portfolio-site-backend/storage"
)

func TestNewStorageError(t *testing.T) {
	tests := []struct {
		name       string
		cause      error
		wantStatus int
		wantIs     error
	}{
		{"conflict", storage.Conflict("user", errors.New("UNIQUE constraint failed")), http.StatusConflict, ErrConflict},
		{"unavailable", fmt.Errorf("%w: refused", storage.ErrUnavailable), http.StatusServiceUnavailable, ErrUnavailable},
		{"other", errors.New("disk I/O error"), http.StatusInternalServerError, ErrInternal},
		{"already api error", NewNotFoundError("project"), http.StatusNotFound, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewStorageError("create", "user", tt.cause)
			if got.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", got.StatusCode, tt.wantStatus)
			}
			if !errors.Is(got, tt.wantIs) {
				t.Fatalf("%v does not match %v", got, tt.wantIs)
			}
		})
	}
}

func TestGetFullError(t *testing.T) {
	inner := errors.New("connection reset")
	err := NewInternalErrorWithCause("failed to list projects", inner)
	want := "internal server error: failed to list projects -> connection reset"
	if got := err.GetFullError(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("project", []FieldProblem{{Field: "title", Reason: "too short"}})
	if err.StatusCode != http.StatusBadRequest || err.Field != "title" || !IsInvalidFieldError(err) {
		t.Fatalf("unexpected %+v", err)
	}
}
