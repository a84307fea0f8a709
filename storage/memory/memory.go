// Package memory is a map-backed storage backend for tests and ephemeral runs.
package memory

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rpupo63/portfolio-site-backend/models"
	"github.com/rpupo63/portfolio-site-backend/storage"
)

var errDuplicateUsername = errors.New("username already taken")

// Store keeps every entity in process memory. IDs come from per-entity
// counters that start at 1 and are never reused.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users    map[int64]models.User
	projects map[int64]models.Project
	messages map[int64]models.Message

	userID    int64
	projectID int64
	messageID int64
}

var _ storage.Storage = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New returns an empty store. Use storage.Seed to add bootstrap data.
func New(opts ...Option) *Store {
	s := &Store{
		now:       time.Now,
		users:     make(map[int64]models.User),
		projects:  make(map[int64]models.Project),
		messages:  make(map[int64]models.Message),
		userID:    1,
		projectID: 1,
		messageID: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *Store) Backend() storage.Backend {
	return storage.Backend{Kind: storage.KindMemory}
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close() error { return nil }

// User methods

func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, nil
}

func (s *Store) CreateUser(ctx context.Context, newUser models.NewUser) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Username == newUser.Username {
			return nil, storage.Conflict("user", fmt.Errorf("%w: %q", errDuplicateUsername, newUser.Username))
		}
	}

	id := s.userID
	s.userID++
	user := models.User{ID: id, Username: newUser.Username, Password: newUser.Password}
	s.users[id] = user
	return &user, nil
}

// Project methods

func (s *Store) GetProjects(ctx context.Context) ([]models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	projects := make([]models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		projects = append(projects, p.Clone())
	}
	slices.SortFunc(projects, func(a, b models.Project) int {
		return newestFirst(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
	})
	return projects, nil
}

func (s *Store) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	project, ok := s.projects[id]
	if !ok {
		return nil, nil
	}
	project = project.Clone()
	return &project, nil
}

func (s *Store) CreateProject(ctx context.Context, newProject models.NewProject) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.projectID
	s.projectID++
	project := newProject.Build(id, s.timestamp())
	s.projects[id] = project
	project = project.Clone()
	return &project, nil
}

func (s *Store) UpdateProject(ctx context.Context, id int64, patch models.ProjectPatch) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.projects[id]
	if !ok {
		return nil, nil
	}
	updated := patch.Apply(existing)
	s.projects[id] = updated
	updated = updated.Clone()
	return &updated, nil
}

func (s *Store) DeleteProject(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return false, nil
	}
	delete(s.projects, id)
	return true, nil
}

// Message methods

func (s *Store) GetMessages(ctx context.Context) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	messages := make([]models.Message, 0, len(s.messages))
	for _, m := range s.messages {
		messages = append(messages, m.Clone())
	}
	slices.SortFunc(messages, func(a, b models.Message) int {
		return newestFirst(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
	})
	return messages, nil
}

func (s *Store) GetMessage(ctx context.Context, id int64) (*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	message, ok := s.messages[id]
	if !ok {
		return nil, nil
	}
	message = message.Clone()
	return &message, nil
}

func (s *Store) CreateMessage(ctx context.Context, newMessage models.NewMessage) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.messageID
	s.messageID++
	message := newMessage.Build(id, s.timestamp())
	s.messages[id] = message
	message = message.Clone()
	return &message, nil
}

func (s *Store) MarkMessageAsRead(ctx context.Context, id int64) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	message, ok := s.messages[id]
	if !ok {
		return nil, nil
	}
	message.Read = true
	s.messages[id] = message
	message = message.Clone()
	return &message, nil
}

func (s *Store) DeleteMessage(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.messages[id]; !ok {
		return false, nil
	}
	delete(s.messages, id)
	return true, nil
}

// newestFirst orders by creation time descending, then by ID descending.
func newestFirst(aTime time.Time, aID int64, bTime time.Time, bID int64) int {
	if c := bTime.Compare(aTime); c != 0 {
		return c
	}
	return cmp.Compare(bID, aID)
}
