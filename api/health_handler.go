package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/storage"
)

type healthHandler struct {
	responder   Responder
	store       storage.Storage
	startupTime time.Time
}

func newHealthHandler(store storage.Storage, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()
	return healthHandler{responder: NewResponder(logger), store: store, startupTime: startupTime}
}

// @Summary Health check
// @Description Reports storage reachability and process uptime
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse "Service is healthy"
// @Failure 503 {object} ErrorResponse "Service Unavailable - Storage unreachable"
// @Router /healthz [get]
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.store.Ping(ctx); err != nil {
			h.responder.WriteError(w, errs.NewUnavailableError(err))
			return
		}
		h.responder.WriteJSON(w, HealthResponse{
			Status:  "ok",
			Backend: h.store.Backend(),
			Uptime:  time.Since(h.startupTime).Round(time.Second).String(),
			Started: h.startupTime.UTC(),
		})
	}
}
