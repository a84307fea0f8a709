package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/api"
	"github.com/rpupo63/portfolio-site-backend/auth"
	"github.com/rpupo63/portfolio-site-backend/config"
	"github.com/rpupo63/portfolio-site-backend/database"
	"github.com/rpupo63/portfolio-site-backend/services"
	"github.com/rpupo63/portfolio-site-backend/storage"
	"github.com/rpupo63/portfolio-site-backend/storage/memory"
)

func main() {
	// Load environment variables from .env file
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg.LogLevel)

	log.Info().Msg("Initializing app...")

	startupCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	store, err := openStorage(startupCtx, cfg)
	if err != nil {
		cancel()
		log.Fatal().Err(err).Msg("Error opening storage")
	}
	defer store.Close()
	log.Info().Str("backend", store.Backend().String()).Msg("Storage ready")

	if err := seed(startupCtx, store, cfg); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("Error seeding storage")
	}
	cancel()

	sessions, err := auth.NewSessions(cfg.SessionSecret, auth.DefaultSessionTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Error configuring sessions")
	}

	server, err := api.NewServer(store, auth.NewAuthenticator(store, sessions), newNotifier(cfg),
		api.WithAcceptedOrigins(cfg.AcceptedOrigins),
		api.WithSecureCookies(cfg.SecureCookies),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	errChannel := make(chan error, 1)
	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

func setupLogging(level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// openStorage selects the backend once for the life of the process.
func openStorage(ctx context.Context, cfg config.Config) (storage.Storage, error) {
	if cfg.UseMemory() {
		return memory.New(), nil
	}

	dialect, err := database.ParseDialect(cfg.DBType)
	if err != nil {
		return nil, err
	}
	dbCfg := database.Config{Dialect: dialect, DSN: cfg.SQLitePath}
	if dialect == storage.DialectPostgres {
		if dbCfg.DSN, err = cfg.PostgresURL(); err != nil {
			return nil, err
		}
	}
	log.Info().Str("dialect", string(dialect)).Msg("Connecting to database...")
	return database.Open(ctx, dbCfg)
}

func seed(ctx context.Context, store storage.Storage, cfg config.Config) error {
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	return storage.Seed(ctx, store, storage.SeedOptions{
		AdminUsername:     cfg.AdminUsername,
		AdminPasswordHash: hash,
		SampleProjects:    cfg.SampleProjects,
	})
}

func newNotifier(cfg config.Config) services.ContactNotifier {
	if cfg.ResendAPIKey == "" {
		log.Warn().Msg("RESEND_API_KEY not set, contact notifications are only logged")
		return services.NewLogNotifier()
	}
	client, err := services.NewResendClient(cfg.ResendAPIKey, cfg.ResendFrom)
	if err != nil {
		log.Warn().Err(err).Msg("Mail disabled")
		return services.NewLogNotifier()
	}
	return services.NewMailNotifier(client, cfg.AdminEmail)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
