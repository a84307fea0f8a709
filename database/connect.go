package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/portfolio-site-backend/storage"
)

// Config selects and locates the database.
type Config struct {
	Dialect storage.Dialect
	// DSN is a file path for SQLite and a postgres:// URL for Postgres.
	DSN string
	// SkipMigrations leaves the schema untouched on Open.
	SkipMigrations bool
	SlowThreshold  time.Duration
}

// Open connects to the configured database, verifies the connection and
// applies pending migrations. An unreachable database is reported as
// storage.ErrUnavailable.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Database, error) {
	db, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if !cfg.SkipMigrations {
		if err := Migrate(cfg); err != nil {
			closeQuietly(db)
			return nil, fmt.Errorf("migrate %s: %w", cfg.Dialect, err)
		}
	}

	d, err := New(db, cfg.Dialect, opts...)
	if err != nil {
		closeQuietly(db)
		return nil, err
	}
	return d, nil
}

// Connect opens a gorm handle for cfg and pings it.
func Connect(ctx context.Context, cfg Config) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("%s: empty DSN", cfg.Dialect)
	}

	var dialector gorm.Dialector
	switch cfg.Dialect {
	case storage.DialectSQLite:
		dialector = sqlite.Open(sqliteDSN(cfg.DSN))
	case storage.DialectPostgres:
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true,
		})
	default:
		return nil, fmt.Errorf("unsupported dialect %q", cfg.Dialect)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt:    false,
		TranslateError: true,
		Logger:         newLogger(cfg.SlowThreshold),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Dialect == storage.DialectSQLite {
		// one writer at a time keeps SQLITE_BUSY out of concurrent requests
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}
	return db, nil
}

func sqliteDSN(path string) string {
	return path + "?_foreign_keys=on&_busy_timeout=5000"
}

func closeQuietly(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

// gormWriter routes gorm's logger output through zerolog.
type gormWriter struct {
	logger zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.logger.Warn().Msgf(format, args...)
}

func newLogger(slow time.Duration) logger.Interface {
	if slow <= 0 {
		slow = 10 * time.Second
	}
	return logger.New(
		gormWriter{logger: log.With().Str("component", "gorm").Logger()},
		logger.Config{
			SlowThreshold:             slow,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
