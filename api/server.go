package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/auth"
	"github.com/rpupo63/portfolio-site-backend/config"
	"github.com/rpupo63/portfolio-site-backend/services"
	"github.com/rpupo63/portfolio-site-backend/storage"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

type router struct {
	config          map[string]string
	startupTime     time.Time
	acceptedOrigins []string
	secureCookies   bool
	requestLogger   func(http.Handler) http.Handler
}

type ServerOption func(*router)

func WithConfig(c map[string]string) ServerOption {
	return func(r *router) {
		r.config = c
	}
}

func WithAcceptedOrigins(origins []string) ServerOption {
	return func(r *router) {
		r.acceptedOrigins = origins
	}
}

// WithSecureCookies marks the session cookie Secure.
func WithSecureCookies(secure bool) ServerOption {
	return func(r *router) {
		r.secureCookies = secure
	}
}

// WithRequestLogger replaces the colored console access log.
func WithRequestLogger(mw func(http.Handler) http.Handler) ServerOption {
	return func(r *router) {
		r.requestLogger = mw
	}
}

func NewServer(store storage.Storage, authenticator *auth.Authenticator, notifier services.ContactNotifier, opts ...ServerOption) (Server, error) {
	if store == nil || authenticator == nil {
		return Server{}, errors.New("api: store and authenticator are required")
	}
	if notifier == nil {
		notifier = services.NewLogNotifier()
	}

	r := router{
		config:        config.New(),
		startupTime:   time.Now(),
		requestLogger: ColoredHTTPLoggingMiddleware,
	}
	for _, opt := range opts {
		opt(&r)
	}

	port := config.GetString(r.config, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port)

	server := &http.Server{
		Addr:         address,
		Handler:      newRouter(store, authenticator, notifier, r),
		ReadTimeout:  config.GetSeconds(r.config, "READ_TIMEOUT_SECONDS", 30*time.Second),
		WriteTimeout: config.GetSeconds(r.config, "WRITE_TIMEOUT_SECONDS", 30*time.Second),
		IdleTimeout:  config.GetSeconds(r.config, "IDLE_TIMEOUT_SECONDS", 120*time.Second),
	}

	return Server{server, r.startupTime}, nil
}

func newRouter(store storage.Storage, authenticator *auth.Authenticator, notifier services.ContactNotifier, r router) *chi.Mux {
	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RequestID)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(corsMiddleware(r.acceptedOrigins))
	chiRouter.Use(r.requestLogger)

	handlers := initializeHandlers(store, authenticator, notifier, r.secureCookies, r.startupTime)
	setupRoutes(chiRouter, handlers, newAuthMiddleware(authenticator))

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		errChannel <- err
	}
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
