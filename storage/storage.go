// Package storage declares the persistence contract shared by every backend.
//
// Lookups by ID report a missing record as a nil result with a nil error.
// Deletes report whether a record existed. Listings are ordered newest first,
// with ties broken by descending ID.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/rpupo63/portfolio-site-backend/models"
)

var (
	// ErrConflict marks a write rejected by a uniqueness constraint. Backends
	// wrap their own error with it, so both stay reachable through errors.Is.
	ErrConflict = errors.New("unique constraint violation")

	// ErrUnavailable marks a backend that cannot be reached.
	ErrUnavailable = errors.New("storage backend unavailable")
)

// Storage is implemented by every backend.
type Storage interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user models.NewUser) (*models.User, error)

	GetProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, id int64) (*models.Project, error)
	CreateProject(ctx context.Context, project models.NewProject) (*models.Project, error)
	UpdateProject(ctx context.Context, id int64, patch models.ProjectPatch) (*models.Project, error)
	DeleteProject(ctx context.Context, id int64) (bool, error)

	GetMessages(ctx context.Context) ([]models.Message, error)
	GetMessage(ctx context.Context, id int64) (*models.Message, error)
	CreateMessage(ctx context.Context, message models.NewMessage) (*models.Message, error)
	MarkMessageAsRead(ctx context.Context, id int64) (*models.Message, error)
	DeleteMessage(ctx context.Context, id int64) (bool, error)

	Backend() Backend
	Ping(ctx context.Context) error
	Close() error
}

// Kind is the family of a storage backend.
type Kind string

const (
	KindMemory     Kind = "memory"
	KindRelational Kind = "relational"
)

// Dialect is the physical engine behind a relational backend.
type Dialect string

const (
	DialectNone     Dialect = ""
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Backend describes the active backend. It is fixed for the life of a process.
type Backend struct {
	Kind    Kind    `json:"kind"`
	Dialect Dialect `json:"dialect,omitempty"`
}

func (b Backend) String() string {
	if b.Dialect == DialectNone {
		return string(b.Kind)
	}
	return fmt.Sprintf("%s/%s", b.Kind, b.Dialect)
}

// Conflict wraps a backend error so it matches ErrConflict.
func Conflict(entity string, cause error) error {
	return fmt.Errorf("%s: %w: %w", entity, ErrConflict, cause)
}

// IsConflict reports whether err is a uniqueness violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
