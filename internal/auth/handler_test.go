package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/verdantfield/portal/internal/shared"
)

type authTestEnv struct {
	router   http.Handler
	sessions *shared.SessionManager
}

func newAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sessions := shared.NewSessionManager(client, "portal_session", "test-secret", time.Hour, false)
	csrf := shared.NewCSRFManager("csrf-secret")

	service := NewService(newMemoryAuthRepo())
	handler := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), service, sessions, csrf)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess, err := sessions.Load(req.Context(), req)
			require.NoError(t, err)
			ctx := shared.ContextWithSession(req.Context(), sess)
			next.ServeHTTP(&commitWriter{ResponseWriter: w, ctx: ctx, req: req, sess: sess, sessions: sessions}, req.WithContext(ctx))
		})
	})
	r.Route("/api/auth", handler.MountRoutes)

	return &authTestEnv{router: r, sessions: sessions}
}

type commitWriter struct {
	http.ResponseWriter
	ctx       context.Context
	req       *http.Request
	sess      *shared.Session
	sessions  *shared.SessionManager
	committed bool
}

func (w *commitWriter) WriteHeader(status int) {
	if !w.committed {
		w.committed = true
		_ = w.sessions.Commit(w.ctx, w.ResponseWriter, w.req, w.sess)
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *commitWriter) Write(data []byte) (int, error) {
	if !w.committed {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(data)
}

func (env *authTestEnv) do(t *testing.T, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterEndpoint(t *testing.T) {
	env := newAuthTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register",
		`{"name":"Dana Whitfield","email":"dana@example.com","password":"password123"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), `"email":"dana@example.com"`)
	require.NotContains(t, rec.Body.String(), "password")
}

func TestRegisterDuplicateEndpoint(t *testing.T) {
	env := newAuthTestEnv(t)

	body := `{"name":"Dana","email":"dana@example.com","password":"password123"}`
	rec := env.do(t, http.MethodPost, "/api/auth/register", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/register", body, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterValidationEndpoint(t *testing.T) {
	env := newAuthTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register",
		`{"name":"D","email":"not-an-email","password":"short"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "errors")
}

func TestLoginAndMeFlow(t *testing.T) {
	env := newAuthTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register",
		`{"name":"Dana","email":"dana@example.com","password":"password123"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/login",
		`{"email":"dana@example.com","password":"password123"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	rec = env.do(t, http.MethodGet, "/api/auth/me", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"email":"dana@example.com"`)
}

func TestLoginWrongPasswordEndpoint(t *testing.T) {
	env := newAuthTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register",
		`{"name":"Dana","email":"dana@example.com","password":"password123"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/login",
		`{"email":"dana@example.com","password":"wrongpassword"}`, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeWithoutSessionEndpoint(t *testing.T) {
	env := newAuthTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutEndpoint(t *testing.T) {
	env := newAuthTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register",
		`{"name":"Dana","email":"dana@example.com","password":"password123"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/login",
		`{"email":"dana@example.com","password":"password123"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()

	rec = env.do(t, http.MethodPost, "/api/auth/logout", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/auth/me", "", cookies)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
