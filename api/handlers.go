package api

import (
	"time"

	"github.com/rpupo63/portfolio-site-backend/auth"
	"github.com/rpupo63/portfolio-site-backend/services"
	"github.com/rpupo63/portfolio-site-backend/storage"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler projectHandler
	messageHandler messageHandler
	authHandler    authHandler
	healthHandler  healthHandler
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(store storage.Storage, authenticator *auth.Authenticator, notifier services.ContactNotifier, secureCookies bool, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		projectHandler: newProjectHandler(store),
		messageHandler: newMessageHandler(store, notifier),
		authHandler:    newAuthHandler(authenticator, secureCookies),
		healthHandler:  newHealthHandler(store, startupTime),
	}
}
