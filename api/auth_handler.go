package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/auth"
	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/models"
)

type authHandler struct {
	responder     Responder
	logger        zerolog.Logger
	authenticator *auth.Authenticator
	secureCookies bool
}

func newAuthHandler(authenticator *auth.Authenticator, secureCookies bool) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		authenticator: authenticator,
		secureCookies: secureCookies,
	}
}

// @Summary Log in
// @Description Checks admin credentials and sets the session cookie
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Username and password"
// @Success 200 {object} UserResponse "Logged in user"
// @Failure 400 {object} ErrorResponse "Bad Request - Malformed payload"
// @Failure 401 {object} ErrorResponse "Unauthorized - Incorrect username or password"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error loading user"
// @Router /api/auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := decodeJSON(w, r, "login", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, token, session, err := h.authenticator.Login(r.Context(), req.Username, req.Password)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.logger.Warn().Str("username", req.Username).Msg("failed login")
			h.responder.WriteError(w, errs.NewUnauthorizedError("incorrect username or password"))
			return
		}
		if err != nil {
			h.responder.WriteError(w, errs.NewStorageError("log in", "user", err))
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     auth.CookieName,
			Value:    token,
			Path:     "/",
			Expires:  session.ExpiresAt,
			HttpOnly: true,
			Secure:   h.secureCookies,
			SameSite: http.SameSiteLaxMode,
		})
		h.responder.WriteJSON(w, userResponse(user))
	}
}

// @Summary Log out
// @Description Revokes the current session and clears the session cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} SuccessResponse "Logged out"
// @Router /api/auth/logout [post]
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := sessionToken(r); token != "" {
			h.authenticator.Logout(token)
		}
		http.SetCookie(w, &http.Cookie{
			Name:     auth.CookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.secureCookies,
			SameSite: http.SameSiteLaxMode,
		})
		h.responder.WriteJSON(w, SuccessResponse{Success: true})
	}
}

// @Summary Session status
// @Description Reports whether the request carries a valid session
// @Tags Auth
// @Produce json
// @Success 200 {object} AuthStatusResponse "Session status"
// @Router /api/auth/status [get]
func (h authHandler) status() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" {
			h.responder.WriteJSON(w, AuthStatusResponse{Authenticated: false})
			return
		}
		user, err := h.authenticator.Resolve(r.Context(), token)
		if err != nil {
			if !errors.Is(err, auth.ErrInvalidSession) {
				h.logger.Error().Err(err).Msg("resolving session")
			}
			h.responder.WriteJSON(w, AuthStatusResponse{Authenticated: false})
			return
		}
		resp := userResponse(user)
		h.responder.WriteJSON(w, AuthStatusResponse{Authenticated: true, User: &resp})
	}
}

func userResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username}
}

// sessionToken reads the session cookie, falling back to a bearer token.
func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(auth.CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
