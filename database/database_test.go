package database

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-site-backend/models"
	"github.com/rpupo63/portfolio-site-backend/storage"
	"github.com/rpupo63/portfolio-site-backend/storage/storagetest"
)

func openSQLite(t *testing.T, opts ...Option) *Database {
	t.Helper()
	cfg := Config{
		Dialect: storage.DialectSQLite,
		DSN:     filepath.Join(t.TempDir(), "portfolio.db"),
	}
	d, err := Open(context.Background(), cfg, opts...)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestSQLiteConformance(t *testing.T) {
	storagetest.Run(t, func(t *testing.T, now func() time.Time) storage.Storage {
		return openSQLite(t, WithClock(now))
	})
}

func TestPostgresConformance(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_URL")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_URL not set")
	}
	storagetest.Run(t, func(t *testing.T, now func() time.Time) storage.Storage {
		d, err := Open(context.Background(), Config{Dialect: storage.DialectPostgres, DSN: dsn}, WithClock(now))
		if err != nil {
			t.Fatalf("open postgres: %v", err)
		}
		t.Cleanup(func() { d.Close() })
		if err := d.DB().Exec("TRUNCATE users, projects, messages").Error; err != nil {
			t.Fatalf("truncate: %v", err)
		}
		return d
	})
}

func TestSQLitePhysicalForm(t *testing.T) {
	ctx := context.Background()
	d := openSQLite(t)

	p, err := d.CreateProject(ctx, storagetest.SampleProject("Physical", "React", "Node"))
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	m, err := d.CreateMessage(ctx, storagetest.SampleMessage("Ana"))
	if err != nil {
		t.Fatalf("create message: %v", err)
	}

	var raw struct {
		Technologies string
		Screenshots  *string
	}
	err = d.DB().Raw("SELECT technologies, screenshots FROM projects WHERE id = ?", p.ID).Scan(&raw).Error
	if err != nil {
		t.Fatalf("raw select: %v", err)
	}
	if raw.Technologies != `["React","Node"]` {
		t.Fatalf("technologies stored as %q", raw.Technologies)
	}
	if raw.Screenshots != nil {
		t.Fatalf("absent screenshots stored as %q, want NULL", *raw.Screenshots)
	}

	readFlag := func() int {
		var v int
		if err := d.DB().Raw("SELECT read FROM messages WHERE id = ?", m.ID).Scan(&v).Error; err != nil {
			t.Fatalf("raw read flag: %v", err)
		}
		return v
	}
	if got := readFlag(); got != 0 {
		t.Fatalf("read flag before mark = %d, want 0", got)
	}
	if _, err := d.MarkMessageAsRead(ctx, m.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if got := readFlag(); got != 1 {
		t.Fatalf("read flag after mark = %d, want 1", got)
	}
}

func TestDuplicateUsernameIsConflict(t *testing.T) {
	ctx := context.Background()
	d := openSQLite(t)

	if _, err := d.CreateUser(ctx, models.NewUser{Username: "admin", Password: "hash"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	_, err := d.CreateUser(ctx, models.NewUser{Username: "admin", Password: "hash"})
	if !storage.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	cfg := Config{
		Dialect: storage.DialectSQLite,
		DSN:     filepath.Join(t.TempDir(), "portfolio.db"),
	}
	for i := 0; i < 2; i++ {
		if err := Migrate(cfg); err != nil {
			t.Fatalf("migrate run %d: %v", i+1, err)
		}
	}
}

func TestOpenRejectsUnknownDialect(t *testing.T) {
	_, err := Open(context.Background(), Config{Dialect: "oracle", DSN: "x"})
	if err == nil {
		t.Fatal("expected error for unknown dialect")
	}
}

func TestSchemaReport(t *testing.T) {
	ctx := context.Background()
	d := openSQLite(t)

	report, err := BuildSchemaReport(ctx, d.DB())
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !report.Clean() {
		var buf bytes.Buffer
		report.Print(&buf)
		t.Fatalf("expected clean schema:\n%s", buf.String())
	}

	if err := d.DB().Exec("ALTER TABLE projects ADD COLUMN featured INTEGER").Error; err != nil {
		t.Fatalf("alter: %v", err)
	}
	report, err = BuildSchemaReport(ctx, d.DB())
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.Drift() != 1 {
		t.Fatalf("drift = %d, want 1", report.Drift())
	}
	var buf bytes.Buffer
	report.Print(&buf)
	if !strings.Contains(buf.String(), "featured (not in model)") {
		t.Fatalf("report does not name the extra column:\n%s", buf.String())
	}
}

func TestSchemaReportBeforeMigrations(t *testing.T) {
	cfg := Config{
		Dialect:        storage.DialectSQLite,
		DSN:            filepath.Join(t.TempDir(), "empty.db"),
		SkipMigrations: true,
	}
	db, err := Connect(context.Background(), cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer closeQuietly(db)

	report, err := BuildSchemaReport(context.Background(), db)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.Clean() {
		t.Fatal("empty database reported clean")
	}
	for _, table := range report.Tables {
		if table.Exists {
			t.Fatalf("table %s reported as existing", table.Table)
		}
	}
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    storage.Dialect
		wantErr bool
	}{
		{"", storage.DialectSQLite, false},
		{"sqlite", storage.DialectSQLite, false},
		{"SQLite3", storage.DialectSQLite, false},
		{"postgres", storage.DialectPostgres, false},
		{"postgresql", storage.DialectPostgres, false},
		{"supa", storage.DialectPostgres, false},
		{"mysql", storage.DialectNone, true},
	}
	for _, tt := range tests {
		got, err := ParseDialect(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseDialect(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseDialect(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBackend(t *testing.T) {
	d := openSQLite(t)
	b := d.Backend()
	if b.Kind != storage.KindRelational || b.Dialect != storage.DialectSQLite {
		t.Fatalf("backend = %+v", b)
	}
	if b.String() != "relational/sqlite" {
		t.Fatalf("backend string = %q", b.String())
	}
	if err := d.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
