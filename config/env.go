package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the typed process configuration read from the environment.
type Config struct {
	// StorageBackend is "database" or "memory".
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"database"`
	DBType         string `env:"DB_TYPE" envDefault:"sqlite"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"portfolio.db"`
	DatabaseURL    string `env:"DATABASE_URL"`

	Supabase SupabaseConfig `envPrefix:"SUPABASE_DB_"`

	SessionSecret string `env:"SESSION_SECRET"`
	SecureCookies bool   `env:"SECURE_COOKIES" envDefault:"false"`

	AdminUsername  string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword  string `env:"ADMIN_PASSWORD" envDefault:"admin123"`
	SampleProjects bool   `env:"SEED_SAMPLE_PROJECTS" envDefault:"true"`

	ResendAPIKey string `env:"RESEND_API_KEY"`
	ResendFrom   string `env:"RESEND_FROM_EMAIL" envDefault:"Portfolio Contact <portfolio@example.com>"`
	AdminEmail   string `env:"ADMIN_EMAIL"`

	AcceptedOrigins []string `env:"ACCEPTED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5000"`
	LogLevel        string   `env:"LOG_LEVEL" envDefault:"info"`
}

// SupabaseConfig locates the hosted Postgres database.
type SupabaseConfig struct {
	Host     string `env:"HOST"`
	User     string `env:"USER"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME" envDefault:"postgres"`
	Port     string `env:"PORT" envDefault:"5432"`
}

// LoadDotEnv loads variables from the given .env files, or ".env" when none
// are named. Missing files are not an error.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

// Load parses Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// UseMemory reports whether the in-memory backend was requested.
func (c Config) UseMemory() bool {
	return strings.EqualFold(c.StorageBackend, "memory")
}

// PostgresURL returns the postgres:// URL for the configured database.
// DATABASE_URL wins; otherwise the URL is built from the SUPABASE_DB_ fields.
func (c Config) PostgresURL() (string, error) {
	if c.DatabaseURL != "" {
		return c.DatabaseURL, nil
	}
	s := c.Supabase
	if s.Host == "" || s.User == "" {
		return "", fmt.Errorf("postgres requires DATABASE_URL or SUPABASE_DB_HOST and SUPABASE_DB_USER")
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(s.User, s.Password),
		Host:     net.JoinHostPort(s.Host, s.Port),
		Path:     "/" + s.Name,
		RawQuery: "sslmode=require",
	}
	return u.String(), nil
}
