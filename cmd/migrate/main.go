// Command migrate manages the database schema outside of server startup.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/config"
	"github.com/rpupo63/portfolio-site-backend/database"
	"github.com/rpupo63/portfolio-site-backend/storage"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		fatalf("config: %v", err)
	}
	dbCfg, err := databaseConfig(cfg)
	if err != nil {
		fatalf("%v", err)
	}

	switch args[0] {
	case "up":
		if err := database.Migrate(dbCfg); err != nil {
			fatalf("up failed: %v", err)
		}

	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				fatalf("down: invalid steps argument %q", args[1])
			}
			steps = n
		}
		err := withMigrator(dbCfg, func(m *migrate.Migrate) error {
			if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return err
			}
			log.Info().Int("steps", steps).Msg("migrations: down completed")
			return nil
		})
		if err != nil {
			fatalf("down failed: %v", err)
		}

	case "version":
		err := withMigrator(dbCfg, func(m *migrate.Migrate) error {
			v, dirty, err := m.Version()
			if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
				return err
			}
			fmt.Printf("version: %d  dirty: %v\n", v, dirty)
			return nil
		})
		if err != nil {
			fatalf("version failed: %v", err)
		}

	case "force":
		if len(args) < 2 {
			fatalf("force: version argument required")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			fatalf("force: invalid version %q", args[1])
		}
		if err := withMigrator(dbCfg, func(m *migrate.Migrate) error {
			return m.Force(v)
		}); err != nil {
			fatalf("force failed: %v", err)
		}

	case "report":
		dbCfg.SkipMigrations = true
		db, err := database.Connect(context.Background(), dbCfg)
		if err != nil {
			fatalf("connect: %v", err)
		}
		report, err := database.BuildSchemaReport(context.Background(), db)
		if err != nil {
			fatalf("report: %v", err)
		}
		report.Print(os.Stdout)
		if !report.Clean() {
			os.Exit(2)
		}

	default:
		usage()
		os.Exit(1)
	}
}

func databaseConfig(cfg config.Config) (database.Config, error) {
	dialect, err := database.ParseDialect(cfg.DBType)
	if err != nil {
		return database.Config{}, err
	}
	dbCfg := database.Config{Dialect: dialect, DSN: cfg.SQLitePath}
	if dialect == storage.DialectPostgres {
		if dbCfg.DSN, err = cfg.PostgresURL(); err != nil {
			return database.Config{}, err
		}
	}
	return dbCfg, nil
}

// withMigrator runs fn and always closes the migrator before returning.
func withMigrator(cfg database.Config, fn func(*migrate.Migrate) error) error {
	m, err := database.NewMigrator(cfg)
	if err != nil {
		return fmt.Errorf("migration init failed: %w", err)
	}
	err = fn(m)
	if srcErr, dbErr := m.Close(); err == nil {
		err = errors.Join(srcErr, dbErr)
	}
	return err
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate <command> [args]

Commands:
  up           Apply all pending migrations
  down [N]     Roll back N migrations (default: 1)
  version      Print current migration version
  force <V>    Force set migration version (bypass dirty state)
  report       Compare live columns with the mapped rows

Environment:
  DB_TYPE        sqlite (default), postgres or supa
  SQLITE_PATH    SQLite database file (default: portfolio.db)
  DATABASE_URL   postgres:// URL, or the SUPABASE_DB_* variables`)
}

func fatalf(format string, args ...any) {
	log.Fatal().Msgf(format, args...)
}
