package errs

import (
	"errors"

	"github.com/rpupo63/portfolio-site-backend/storage"
)

// NewStorageError maps an error returned by a storage backend to an ApiErr.
// Conflicts become 409 and an unreachable backend 503. Anything else is an
// internal error.
func NewStorageError(operation, entity string, cause error) *ApiErr {
	var apiErr *ApiErr
	switch {
	case errors.As(cause, &apiErr):
		return apiErr
	case errors.Is(cause, storage.ErrConflict):
		return NewConflictError(entity, cause)
	case errors.Is(cause, storage.ErrUnavailable):
		return NewUnavailableError(cause)
	default:
		return NewInternalErrorWithCause("failed to "+operation+" "+entity, cause)
	}
}
