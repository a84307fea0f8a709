package api

import (
	"time"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/storage"
)

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Status  string              `json:"status"`
	Field   string              `json:"field,omitempty"`
	Details string              `json:"details,omitempty"`
	Cause   string              `json:"cause,omitempty"`
	Errors  []errs.FieldProblem `json:"errors,omitempty"`
}

// SuccessResponse is returned by deletes and logout.
type SuccessResponse struct {
	Success bool `json:"success"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type AuthStatusResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *UserResponse `json:"user,omitempty"`
}

type HealthResponse struct {
	Status  string          `json:"status"`
	Backend storage.Backend `json:"backend"`
	Uptime  string          `json:"uptime"`
	Started time.Time       `json:"started"`
}
