package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/models"
	"github.com/rpupo63/portfolio-site-backend/storage"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     storage.Storage
}

func newProjectHandler(store storage.Storage) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		store:     store,
	}
}

// getAllProjects lists every project, newest first
// @Summary Get all projects
// @Description Retrieves all projects with their tags
// @Tags Projects
// @Produce json
// @Success 200 {array} models.Project "List of projects"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /api/projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.store.GetProjects(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewStorageError("list", "projects", err))
			return
		}
		h.responder.WriteJSON(w, projects)
	}
}

// getProject retrieves a project by ID
// @Summary Get project
// @Description Retrieves a project by ID
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} models.Project "Project details"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid id"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching project"
// @Router /api/projects/{id} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.store.GetProject(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, errs.NewStorageError("find", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project"))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// createProject creates a new project
// @Summary Create project
// @Description Creates a new project
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body models.NewProject true "Project data"
// @Success 201 {object} models.Project "Created project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 401 {object} ErrorResponse "Unauthorized - No valid session"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error creating project"
// @Router /api/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload models.NewProject
		if err := decodeJSON(w, r, "project", &payload); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, err)
			return
		}
		if err := validatePayload("project", payload); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.store.CreateProject(r.Context(), payload)
		if err != nil {
			h.responder.WriteError(w, errs.NewStorageError("create", "project", err))
			return
		}

		logEvent := h.logger.Info().Int64("projectId", project.ID)
		if user := ctxGetUser(r.Context()); user != nil {
			logEvent = logEvent.Str("username", user.Username)
		}
		logEvent.Msg("project created")
		h.responder.WriteJSONStatus(w, http.StatusCreated, project)
	}
}

// updateProject merges a partial update onto an existing project
// @Summary Update project
// @Description Applies a partial update to an existing project
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param project body models.ProjectPatch true "Fields to change"
// @Success 200 {object} models.Project "Updated project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 401 {object} ErrorResponse "Unauthorized - No valid session"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error updating project"
// @Router /api/projects/{id} [patch]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var patch models.ProjectPatch
		if err := decodeJSON(w, r, "project", &patch); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to decode project patch")
			h.responder.WriteError(w, err)
			return
		}
		if err := validatePayload("project", patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.store.UpdateProject(r.Context(), id, patch)
		if err != nil {
			h.responder.WriteError(w, errs.NewStorageError("update", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project"))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// deleteProject deletes a project by ID
// @Summary Delete project
// @Description Deletes a project by ID
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} SuccessResponse "Project deleted"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid id"
// @Failure 401 {object} ErrorResponse "Unauthorized - No valid session"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error deleting project"
// @Router /api/projects/{id} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		deleted, err := h.store.DeleteProject(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, errs.NewStorageError("delete", "project", err))
			return
		}
		if !deleted {
			h.responder.WriteError(w, errs.NewNotFoundError("project"))
			return
		}

		h.responder.WriteJSON(w, SuccessResponse{Success: true})
	}
}
