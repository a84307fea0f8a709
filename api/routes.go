package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes registers the public and admin API routes
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Get("/healthz", handlers.healthHandler.health())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", handlers.authHandler.login())
		r.Post("/auth/logout", handlers.authHandler.logout())
		r.Get("/auth/status", handlers.authHandler.status())

		// Public routes
		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/projects/{id}", handlers.projectHandler.getProject())
		r.Post("/messages", handlers.messageHandler.createMessage())

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)

			r.Post("/projects", handlers.projectHandler.createProject())
			r.Patch("/projects/{id}", handlers.projectHandler.updateProject())
			r.Delete("/projects/{id}", handlers.projectHandler.deleteProject())

			r.Get("/messages", handlers.messageHandler.getAllMessages())
			r.Get("/messages/{id}", handlers.messageHandler.getMessage())
			r.Put("/messages/{id}/read", handlers.messageHandler.markMessageAsRead())
			r.Delete("/messages/{id}", handlers.messageHandler.deleteMessage())
		})
	})
}
