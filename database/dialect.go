package database

import (
	"fmt"
	"strings"

	"github.com/rpupo63/portfolio-site-backend/storage"
)

// ParseDialect maps a DB_TYPE value to a dialect. An empty value selects
// SQLite. "supa" is the hosted Postgres deployment.
func ParseDialect(dbType string) (storage.Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(dbType)) {
	case "", "sqlite", "sqlite3":
		return storage.DialectSQLite, nil
	case "postgres", "postgresql", "supa":
		return storage.DialectPostgres, nil
	default:
		return storage.DialectNone, fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}
}
