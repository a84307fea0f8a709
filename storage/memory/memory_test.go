package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-site-backend/models"
	"github.com/rpupo63/portfolio-site-backend/storage"
	"github.com/rpupo63/portfolio-site-backend/storage/memory"
	"github.com/rpupo63/portfolio-site-backend/storage/storagetest"
)

func TestConformance(t *testing.T) {
	storagetest.Run(t, func(t *testing.T, now func() time.Time) storage.Storage {
		return memory.New(memory.WithClock(now))
	})
}

func TestNewIsEmpty(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	projects, err := s.GetProjects(ctx)
	if err != nil {
		t.Fatalf("get projects: %v", err)
	}
	if len(projects) != 0 {
		t.Fatalf("expected no projects before seeding, got %d", len(projects))
	}
	if u, _ := s.GetUserByUsername(ctx, "admin"); u != nil {
		t.Fatal("expected no admin before seeding")
	}
}

func TestReturnedValuesAreCopies(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	created, err := s.CreateProject(ctx, storagetest.SampleProject("Mutable", "Go", "SQL"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	created.Technologies[0] = "changed"
	created.Title = "changed"

	got, err := s.GetProject(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Mutable" || got.Technologies[0] != "Go" {
		t.Fatalf("stored project was mutated through a returned value: %+v", got)
	}
}

func TestCreatedAtIsUTCMicroseconds(t *testing.T) {
	local := time.FixedZone("UTC+2", 2*60*60)
	at := time.Date(2024, 1, 2, 3, 4, 5, 6789, local)
	s := memory.New(memory.WithClock(func() time.Time { return at }))

	m, err := s.CreateMessage(context.Background(), models.NewMessage{Name: "Ada", Email: "a@b.co", Message: "Hello there!"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if m.CreatedAt.Location() != time.UTC {
		t.Fatalf("expected UTC, got %v", m.CreatedAt.Location())
	}
	if m.CreatedAt.Nanosecond() != 6000 {
		t.Fatalf("expected microsecond truncation, got %d ns", m.CreatedAt.Nanosecond())
	}
}

func TestBackend(t *testing.T) {
	b := memory.New().Backend()
	if b.Kind != storage.KindMemory || b.Dialect != storage.DialectNone || b.String() != "memory" {
		t.Fatalf("unexpected backend descriptor: %+v", b)
	}
}
