package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rpupo63/portfolio-site-backend/auth"
	"github.com/rpupo63/portfolio-site-backend/config"
	"github.com/rpupo63/portfolio-site-backend/models"
	"github.com/rpupo63/portfolio-site-backend/services"
	"github.com/rpupo63/portfolio-site-backend/storage"
	"github.com/rpupo63/portfolio-site-backend/storage/memory"
	"github.com/rpupo63/portfolio-site-backend/storage/storagetest"
)

type notifyRecorder struct {
	got chan models.Message
}

func (n notifyRecorder) NotifyContact(_ context.Context, m models.Message) error {
	n.got <- m
	return nil
}

type testEnv struct {
	store    *memory.Store
	handler  http.Handler
	notified chan models.Message
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	hash, err := auth.HashPassword("admin123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := storage.Seed(ctx, store, storage.SeedOptions{AdminUsername: "admin", AdminPasswordHash: hash}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	sessions, err := auth.NewSessions("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	notified := make(chan models.Message, 4)
	server, err := NewServer(store, auth.NewAuthenticator(store, sessions), notifyRecorder{got: notified},
		WithConfig(map[string]string{}),
		WithAcceptedOrigins([]string{"http://localhost:5000"}),
		WithRequestLogger(func(next http.Handler) http.Handler { return next }),
	)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return testEnv{store: store, handler: server.Handler, notified: notified}
}

func (e testEnv) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e testEnv) login(t *testing.T) *http.Cookie {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/login", LoginRequest{Username: "admin", Password: "admin123"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)

	status := decode[AuthStatusResponse](t, env.do(t, http.MethodGet, "/api/auth/status", nil, nil))
	if status.Authenticated {
		t.Fatal("authenticated without a session")
	}

	rec := env.do(t, http.MethodPost, "/api/auth/login", LoginRequest{Username: "admin", Password: "wrong"}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password status = %d", rec.Code)
	}

	cookie := env.login(t)
	if !cookie.HttpOnly {
		t.Fatal("session cookie is not HttpOnly")
	}
	status = decode[AuthStatusResponse](t, env.do(t, http.MethodGet, "/api/auth/status", nil, cookie))
	if !status.Authenticated || status.User == nil || status.User.Username != "admin" {
		t.Fatalf("status = %+v", status)
	}

	rec = env.do(t, http.MethodPost, "/api/auth/logout", nil, cookie)
	if rec.Code != http.StatusOK || !decode[SuccessResponse](t, rec).Success {
		t.Fatalf("logout = %d %s", rec.Code, rec.Body.String())
	}
}

func TestFailedLoginMessage(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/auth/login", LoginRequest{Username: "admin", Password: "wrong"}, nil)
	resp := decode[ErrorResponse](t, rec)
	if resp.Message != "incorrect username or password" {
		t.Fatalf("message = %q", resp.Message)
	}

	rec = env.do(t, http.MethodGet, "/api/projects/999", nil, nil)
	if resp := decode[ErrorResponse](t, rec); resp.Message == "" {
		t.Fatalf("not found response has no message: %s", rec.Body.String())
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	if rec := env.do(t, http.MethodGet, "/api/messages", nil, cookie); rec.Code != http.StatusOK {
		t.Fatalf("before logout = %d", rec.Code)
	}
	if rec := env.do(t, http.MethodPost, "/api/auth/logout", nil, cookie); rec.Code != http.StatusOK {
		t.Fatalf("logout = %d", rec.Code)
	}

	if rec := env.do(t, http.MethodGet, "/api/messages", nil, cookie); rec.Code != http.StatusUnauthorized {
		t.Fatalf("cookie after logout = %d, want 401", rec.Code)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/messages", nil)
	req.Header.Set("Authorization", "Bearer "+cookie.Value)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bearer after logout = %d, want 401", rec.Code)
	}
	status := decode[AuthStatusResponse](t, env.do(t, http.MethodGet, "/api/auth/status", nil, cookie))
	if status.Authenticated {
		t.Fatal("status still authenticated after logout")
	}
}

func TestDefaultConfigRejectsWellKnownSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	sessions, err := auth.NewSessions(cfg.SessionSecret, auth.DefaultSessionTTL)
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	store := memory.New()
	if err := storage.Seed(context.Background(), store, storage.SeedOptions{AdminUsername: "admin", AdminPasswordHash: "x"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	server, err := NewServer(store, auth.NewAuthenticator(store, sessions), services.NewLogNotifier(),
		WithConfig(map[string]string{}),
		WithRequestLogger(func(next http.Handler) http.Handler { return next }),
	)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	claims := jwt.RegisteredClaims{
		Subject:   "1",
		ID:        "forged",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("dev-secret-key"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/messages", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: forged})
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("forged token = %d, want 401", rec.Code)
	}
}

func TestAdminRoutesRequireSession(t *testing.T) {
	env := newTestEnv(t)
	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/projects"},
		{http.MethodPatch, "/api/projects/1"},
		{http.MethodDelete, "/api/projects/1"},
		{http.MethodGet, "/api/messages"},
		{http.MethodGet, "/api/messages/1"},
		{http.MethodPut, "/api/messages/1/read"},
		{http.MethodDelete, "/api/messages/1"},
	}
	for _, route := range routes {
		rec := env.do(t, route.method, route.path, nil, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s = %d, want 401", route.method, route.path, rec.Code)
		}
	}

	bogus := &http.Cookie{Name: auth.CookieName, Value: "not-a-token"}
	if rec := env.do(t, http.MethodGet, "/api/messages", nil, bogus); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bogus cookie = %d, want 401", rec.Code)
	}
}

func TestProjectLifecycle(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	payload := storagetest.SampleProject("Portfolio", "React", "Node")
	rec := env.do(t, http.MethodPost, "/api/projects", payload, cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[models.Project](t, rec)
	if created.ID == 0 || len(created.Technologies) != 2 {
		t.Fatalf("created = %+v", created)
	}

	rec = env.do(t, http.MethodGet, "/api/projects", nil, nil)
	if list := decode[[]models.Project](t, rec); len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("list = %+v", list)
	}

	path := "/api/projects/" + itoa(created.ID)
	rec = env.do(t, http.MethodPatch, path, `{"title":"Renamed"}`, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch = %d: %s", rec.Code, rec.Body.String())
	}
	updated := decode[models.Project](t, rec)
	if updated.Title != "Renamed" || updated.Description != created.Description {
		t.Fatalf("updated = %+v", updated)
	}

	rec = env.do(t, http.MethodDelete, path, nil, cookie)
	if rec.Code != http.StatusOK || !decode[SuccessResponse](t, rec).Success {
		t.Fatalf("delete = %d %s", rec.Code, rec.Body.String())
	}
	if rec := env.do(t, http.MethodDelete, path, nil, cookie); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete = %d, want 404", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, path, nil, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted = %d, want 404", rec.Code)
	}
}

func TestProjectErrors(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
	}{
		{"invalid id", http.MethodGet, "/api/projects/abc", nil, http.StatusBadRequest},
		{"missing", http.MethodGet, "/api/projects/999", nil, http.StatusNotFound},
		{"malformed json", http.MethodPost, "/api/projects", `{"title":`, http.StatusBadRequest},
		{"invalid payload", http.MethodPost, "/api/projects", `{"title":"x","technologies":[]}`, http.StatusBadRequest},
		{"patch missing", http.MethodPatch, "/api/projects/999", `{"title":"Renamed"}`, http.StatusNotFound},
		{"patch invalid", http.MethodPatch, "/api/projects/1", `{"title":"x"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, tt.method, tt.path, tt.body, cookie)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestValidationErrorListsFields(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	rec := env.do(t, http.MethodPost, "/api/projects", `{"title":"x","description":"short","category":"Web App","technologies":["Go"]}`, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decode[ErrorResponse](t, rec)
	fields := map[string]bool{}
	for _, p := range resp.Errors {
		fields[p.Field] = true
	}
	if !fields["title"] || !fields["description"] {
		t.Fatalf("errors = %+v", resp.Errors)
	}
}

func TestMessageFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/messages", storagetest.SampleMessage("Ana"), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[models.Message](t, rec)
	if created.Read {
		t.Fatal("new message is read")
	}

	select {
	case m := <-env.notified:
		if m.ID != created.ID {
			t.Fatalf("notified about %d, want %d", m.ID, created.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was not called")
	}

	cookie := env.login(t)
	if list := decode[[]models.Message](t, env.do(t, http.MethodGet, "/api/messages", nil, cookie)); len(list) != 1 {
		t.Fatalf("list = %+v", list)
	}

	path := "/api/messages/" + itoa(created.ID)
	for i := 0; i < 2; i++ {
		rec = env.do(t, http.MethodPut, path+"/read", nil, cookie)
		if rec.Code != http.StatusOK || !decode[models.Message](t, rec).Read {
			t.Fatalf("mark read #%d = %d %s", i+1, rec.Code, rec.Body.String())
		}
	}
	if rec := env.do(t, http.MethodPut, "/api/messages/999/read", nil, cookie); rec.Code != http.StatusNotFound {
		t.Fatalf("mark missing = %d, want 404", rec.Code)
	}

	if rec := env.do(t, http.MethodDelete, path, nil, cookie); rec.Code != http.StatusOK {
		t.Fatalf("delete = %d", rec.Code)
	}
	if rec := env.do(t, http.MethodDelete, path, nil, cookie); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete = %d, want 404", rec.Code)
	}
}

func TestInvalidMessageIsRejected(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/messages", `{"name":"A","email":"nope","message":"short"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	select {
	case <-env.notified:
		t.Fatal("notifier called for rejected message")
	default:
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/healthz", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decode[HealthResponse](t, rec)
	if resp.Status != "ok" || resp.Backend.Kind != storage.KindMemory {
		t.Fatalf("health = %+v", resp)
	}
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
	req.Header.Set("Origin", "http://localhost:5000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5000" {
		t.Fatalf("allow origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); !strings.EqualFold(got, "true") {
		t.Fatalf("allow credentials = %q", got)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
