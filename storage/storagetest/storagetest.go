// Package storagetest holds the behavioral suite every storage backend must pass.
package storagetest

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-site-backend/models"
	"github.com/rpupo63/portfolio-site-backend/storage"
)

// Factory returns a fresh, empty store that reads time from now.
type Factory func(t *testing.T, now func() time.Time) storage.Storage

// Clock is a manually advanced clock for deterministic CreatedAt values.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock stopped at start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current clock time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var epoch = time.Date(2024, 3, 10, 9, 30, 0, 123456000, time.UTC)

func ptr(s string) *string { return &s }

// SampleProject returns a valid project payload.
func SampleProject(title string, technologies ...string) models.NewProject {
	return models.NewProject{
		Title:        title,
		Description:  "A project description.",
		Category:     models.CategoryWebApp,
		Technologies: technologies,
	}
}

// SampleMessage returns a valid message payload.
func SampleMessage(name string) models.NewMessage {
	return models.NewMessage{
		Name:    name,
		Email:   "visitor@example.com",
		Message: "I would like to talk about a project.",
	}
}

// Run executes the full suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore) })
	t.Run("CreateGetProject", func(t *testing.T) { testCreateGetProject(t, newStore) })
	t.Run("TechnologiesRoundTrip", func(t *testing.T) { testTechnologiesRoundTrip(t, newStore) })
	t.Run("ProjectOrdering", func(t *testing.T) { testProjectOrdering(t, newStore) })
	t.Run("UpdateProject", func(t *testing.T) { testUpdateProject(t, newStore) })
	t.Run("DeleteProject", func(t *testing.T) { testDeleteProject(t, newStore) })
	t.Run("IDsNeverReused", func(t *testing.T) { testIDsNeverReused(t, newStore) })
	t.Run("Messages", func(t *testing.T) { testMessages(t, newStore) })
	t.Run("MessageOrdering", func(t *testing.T) { testMessageOrdering(t, newStore) })
	t.Run("Seed", func(t *testing.T) { testSeed(t, newStore) })
}

func testUsers(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t, NewClock(epoch).Now)

	created, err := s.CreateUser(ctx, models.NewUser{Username: "admin", Password: "hash"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if created.ID < 1 || created.Username != "admin" || created.Password != "hash" {
		t.Fatalf("unexpected user: %+v", created)
	}

	byID, err := s.GetUser(ctx, created.ID)
	if err != nil || byID == nil || *byID != *created {
		t.Fatalf("get user by id: %+v, %v", byID, err)
	}
	byName, err := s.GetUserByUsername(ctx, "admin")
	if err != nil || byName == nil || *byName != *created {
		t.Fatalf("get user by username: %+v, %v", byName, err)
	}

	missing, err := s.GetUser(ctx, 999)
	if err != nil || missing != nil {
		t.Fatalf("expected absent user, got %+v, %v", missing, err)
	}
	missing, err = s.GetUserByUsername(ctx, "nobody")
	if err != nil || missing != nil {
		t.Fatalf("expected absent user, got %+v, %v", missing, err)
	}

	_, err = s.CreateUser(ctx, models.NewUser{Username: "admin", Password: "other"})
	if !storage.IsConflict(err) {
		t.Fatalf("expected conflict for duplicate username, got %v", err)
	}
}

func testCreateGetProject(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t, NewClock(epoch).Now)

	payload := SampleProject("X", "React", "Node")
	payload.ImageURL = ptr("https://example.com/x.png")
	payload.Screenshots = []string{"https://example.com/1.png", "https://example.com/2.png"}
	payload.DetailedDescription = ptr("Long form text.")

	created, err := s.CreateProject(ctx, payload)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if created.ID < 1 {
		t.Fatalf("expected positive id, got %d", created.ID)
	}
	if !created.CreatedAt.Equal(epoch) {
		t.Fatalf("expected createdAt %v, got %v", epoch, created.CreatedAt)
	}
	if !reflect.DeepEqual(created.Technologies, []string{"React", "Node"}) {
		t.Fatalf("unexpected technologies: %#v", created.Technologies)
	}

	got, err := s.GetProject(ctx, created.ID)
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	assertProjectEqual(t, *created, *got)

	missing, err := s.GetProject(ctx, created.ID+100)
	if err != nil || missing != nil {
		t.Fatalf("expected absent project, got %+v, %v", missing, err)
	}
}

func testTechnologiesRoundTrip(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t, NewClock(epoch).Now)

	cases := [][]string{
		{},
		{"Go"},
		{"Zig", "Ada", "C"},
		{"Node.js", "Node.js"},
		{`quote"d`, "comma,separated", "{braces}", `back\slash`, "NULL", "  spaced  ", "日本語"},
	}
	for _, techs := range cases {
		created, err := s.CreateProject(ctx, SampleProject("Round trip", techs...))
		if err != nil {
			t.Fatalf("create %v: %v", techs, err)
		}
		got, err := s.GetProject(ctx, created.ID)
		if err != nil || got == nil {
			t.Fatalf("get %v: %+v, %v", techs, got, err)
		}
		want := techs
		if want == nil {
			want = []string{}
		}
		if !reflect.DeepEqual(got.Technologies, want) {
			t.Fatalf("technologies round trip: want %#v, got %#v", want, got.Technologies)
		}
		if got.Screenshots != nil {
			t.Fatalf("absent screenshots came back as %#v", got.Screenshots)
		}
	}

	withEmptyShots := SampleProject("Empty shots", "Go")
	withEmptyShots.Screenshots = []string{}
	created, err := s.CreateProject(ctx, withEmptyShots)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := s.GetProject(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Screenshots == nil || len(got.Screenshots) != 0 {
		t.Fatalf("empty screenshots came back as %#v", got.Screenshots)
	}
}

func testProjectOrdering(t *testing.T, newStore Factory) {
	ctx := context.Background()
	clock := NewClock(epoch)
	s := newStore(t, clock.Now)

	var ids []int64
	for _, title := range []string{"First", "Second"} {
		p, err := s.CreateProject(ctx, SampleProject(title, "Go"))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, p.ID)
		clock.Advance(time.Second)
	}
	// Two projects sharing a timestamp.
	for _, title := range []string{"Tie A", "Tie B"} {
		p, err := s.CreateProject(ctx, SampleProject(title, "Go"))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, p.ID)
	}

	want := []int64{ids[3], ids[2], ids[1], ids[0]}
	for i := 0; i < 3; i++ {
		projects, err := s.GetProjects(ctx)
		if err != nil {
			t.Fatalf("get projects: %v", err)
		}
		got := make([]int64, 0, len(projects))
		for _, p := range projects {
			got = append(got, p.ID)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("call %d: want order %v, got %v", i, want, got)
		}
	}
}

func testUpdateProject(t *testing.T, newStore Factory) {
	ctx := context.Background()
	clock := NewClock(epoch)
	s := newStore(t, clock.Now)

	created, err := s.CreateProject(ctx, SampleProject("Original", "Go", "SQL"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	clock.Advance(time.Hour)

	updated, err := s.UpdateProject(ctx, created.ID, models.ProjectPatch{
		Title:        ptr("Renamed"),
		Technologies: []string{"Rust"},
		Screenshots:  []string{"https://example.com/s.png"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated == nil {
		t.Fatal("expected updated project")
	}
	want := *created
	want.Title = "Renamed"
	want.Technologies = []string{"Rust"}
	want.Screenshots = []string{"https://example.com/s.png"}
	assertProjectEqual(t, want, *updated)

	got, err := s.GetProject(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	assertProjectEqual(t, want, *got)

	unchanged, err := s.UpdateProject(ctx, created.ID, models.ProjectPatch{})
	if err != nil || unchanged == nil {
		t.Fatalf("empty patch: %+v, %v", unchanged, err)
	}
	assertProjectEqual(t, want, *unchanged)

	missing, err := s.UpdateProject(ctx, 999, models.ProjectPatch{Title: ptr("Y")})
	if err != nil || missing != nil {
		t.Fatalf("update of missing project: %+v, %v", missing, err)
	}
	if p, _ := s.GetProject(ctx, 999); p != nil {
		t.Fatal("update must not create a missing project")
	}
}

func testDeleteProject(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t, NewClock(epoch).Now)

	created, err := s.CreateProject(ctx, SampleProject("Doomed", "Go"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	deleted, err := s.DeleteProject(ctx, created.ID)
	if err != nil || !deleted {
		t.Fatalf("first delete: %v, %v", deleted, err)
	}
	deleted, err = s.DeleteProject(ctx, created.ID)
	if err != nil || deleted {
		t.Fatalf("second delete: %v, %v", deleted, err)
	}
	if p, err := s.GetProject(ctx, created.ID); err != nil || p != nil {
		t.Fatalf("project still readable: %+v, %v", p, err)
	}
}

func testIDsNeverReused(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t, NewClock(epoch).Now)

	first, err := s.CreateProject(ctx, SampleProject("One", "Go"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.DeleteProject(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	second, err := s.CreateProject(ctx, SampleProject("Two", "Go"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if second.ID <= first.ID {
		t.Fatalf("id reused or decreased: first %d, second %d", first.ID, second.ID)
	}
}

func testMessages(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t, NewClock(epoch).Now)

	payload := SampleMessage("Ada")
	payload.ProjectInterest = ptr("Analytics Dashboard")
	created, err := s.CreateMessage(ctx, payload)
	if err != nil {
		t.Fatalf("create message: %v", err)
	}
	if created.ID < 1 || created.Read || !created.CreatedAt.Equal(epoch) {
		t.Fatalf("unexpected message: %+v", created)
	}

	got, err := s.GetMessage(ctx, created.ID)
	if err != nil || got == nil {
		t.Fatalf("get message: %+v, %v", got, err)
	}
	assertMessageEqual(t, *created, *got)

	for i := 0; i < 2; i++ {
		read, err := s.MarkMessageAsRead(ctx, created.ID)
		if err != nil || read == nil || !read.Read {
			t.Fatalf("mark read %d: %+v, %v", i, read, err)
		}
	}
	got, _ = s.GetMessage(ctx, created.ID)
	if got == nil || !got.Read {
		t.Fatalf("read flag not persisted: %+v", got)
	}

	missing, err := s.MarkMessageAsRead(ctx, 999)
	if err != nil || missing != nil {
		t.Fatalf("mark missing message: %+v, %v", missing, err)
	}

	deleted, err := s.DeleteMessage(ctx, created.ID)
	if err != nil || !deleted {
		t.Fatalf("delete: %v, %v", deleted, err)
	}
	deleted, err = s.DeleteMessage(ctx, created.ID)
	if err != nil || deleted {
		t.Fatalf("second delete: %v, %v", deleted, err)
	}
	if m, err := s.GetMessage(ctx, created.ID); err != nil || m != nil {
		t.Fatalf("message still readable: %+v, %v", m, err)
	}
}

func testMessageOrdering(t *testing.T, newStore Factory) {
	ctx := context.Background()
	clock := NewClock(epoch)
	s := newStore(t, clock.Now)

	older, _ := s.CreateMessage(ctx, SampleMessage("Older"))
	clock.Advance(time.Minute)
	newer, _ := s.CreateMessage(ctx, SampleMessage("Newer"))
	tie, _ := s.CreateMessage(ctx, SampleMessage("Tie"))
	if older == nil || newer == nil || tie == nil {
		t.Fatal("create messages failed")
	}

	messages, err := s.GetMessages(ctx)
	if err != nil {
		t.Fatalf("get messages: %v", err)
	}
	var got []int64
	for _, m := range messages {
		got = append(got, m.ID)
	}
	want := []int64{tie.ID, newer.ID, older.ID}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want order %v, got %v", want, got)
	}
}

func testSeed(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t, NewClock(epoch).Now)

	opts := storage.SeedOptions{AdminUsername: "admin", AdminPasswordHash: "iamzombie", SampleProjects: true}
	for i := 0; i < 2; i++ {
		if err := storage.Seed(ctx, s, opts); err != nil {
			t.Fatalf("seed run %d: %v", i, err)
		}
	}

	admin, err := s.GetUserByUsername(ctx, "admin")
	if err != nil || admin == nil {
		t.Fatalf("admin missing: %+v, %v", admin, err)
	}
	// A second admin would be a conflict; a fresh name must get the next id.
	other, err := s.CreateUser(ctx, models.NewUser{Username: "other", Password: "x"})
	if err != nil {
		t.Fatalf("create other user: %v", err)
	}
	if other.ID != admin.ID+1 {
		t.Fatalf("seed created extra users: admin %d, next %d", admin.ID, other.ID)
	}

	projects, err := s.GetProjects(ctx)
	if err != nil {
		t.Fatalf("get projects: %v", err)
	}
	if len(projects) != len(storage.SampleProjects()) {
		t.Fatalf("expected %d sample projects, got %d", len(storage.SampleProjects()), len(projects))
	}
}

func assertProjectEqual(t *testing.T, want, got models.Project) {
	t.Helper()
	if !want.CreatedAt.Equal(got.CreatedAt) {
		t.Fatalf("createdAt: want %v, got %v", want.CreatedAt, got.CreatedAt)
	}
	want.CreatedAt, got.CreatedAt = time.Time{}, time.Time{}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("project mismatch:\nwant %+v\ngot  %+v", want, got)
	}
}

func assertMessageEqual(t *testing.T, want, got models.Message) {
	t.Helper()
	if !want.CreatedAt.Equal(got.CreatedAt) {
		t.Fatalf("createdAt: want %v, got %v", want.CreatedAt, got.CreatedAt)
	}
	want.CreatedAt, got.CreatedAt = time.Time{}, time.Time{}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("message mismatch:\nwant %+v\ngot  %+v", want, got)
	}
}
