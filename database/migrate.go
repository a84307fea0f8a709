package database

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/database/migrations"
	"github.com/rpupo63/portfolio-site-backend/storage"
)

// Migrate applies every pending migration for cfg.Dialect. Running it on an
// up-to-date schema is a no-op.
func Migrate(cfg Config) error {
	m, err := NewMigrator(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	version, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	log.Info().Str("dialect", string(cfg.Dialect)).Uint("version", version).Msg("schema up to date")
	return nil
}

// NewMigrator returns a golang-migrate instance reading the embedded
// migrations for cfg.Dialect. Callers must Close it.
func NewMigrator(cfg Config) (*migrate.Migrate, error) {
	var (
		files fs.FS
		dir   string
		url   string
	)
	switch cfg.Dialect {
	case storage.DialectSQLite:
		files, dir, url = migrations.SQLite, "sqlite", "sqlite3://"+cfg.DSN
	case storage.DialectPostgres:
		files, dir, url = migrations.Postgres, "postgres", cfg.DSN
	default:
		return nil, fmt.Errorf("unsupported dialect %q", cfg.Dialect)
	}

	src, err := iofs.New(files, dir)
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return nil, fmt.Errorf("init migrations: %w", err)
	}
	m.Log = migrateLogger{}
	return m, nil
}

type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...any) {
	log.Info().Str("component", "migrate").Msgf(format, v...)
}

func (migrateLogger) Verbose() bool { return false }
