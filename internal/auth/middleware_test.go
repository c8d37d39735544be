package auth

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/verdantfield/portal/internal/shared"
)

func newRoleGateServer(repo *memoryAuthRepo) http.Handler {
	m := Middleware{Service: NewService(repo), Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	r := chi.NewRouter()
	r.With(m.RequireRole(RoleAdmin)).Get("/admin", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

func getAs(srv http.Handler, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	sess := &shared.Session{}
	if userID != "" {
		sess.SetUser(userID)
	}
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestRequireRoleAdmitsAdmin(t *testing.T) {
	repo := newMemoryAuthRepo()
	repo.users[1] = &User{ID: 1, Name: "Admin", Email: "admin@example.com", Role: RoleAdmin}
	srv := newRoleGateServer(repo)

	rec := getAs(srv, "1")
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireRoleRejectsCustomer(t *testing.T) {
	repo := newMemoryAuthRepo()
	repo.users[1] = &User{ID: 1, Name: "Dana", Email: "dana@example.com", Role: RoleCustomer}
	srv := newRoleGateServer(repo)

	rec := getAs(srv, "1")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleRejectsUnauthenticated(t *testing.T) {
	srv := newRoleGateServer(newMemoryAuthRepo())

	rec := getAs(srv, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

// A User carrying a role outside the enum must be denied, regardless of how
// the value was produced.
func TestRequireRoleDeniesUnknownRole(t *testing.T) {
	repo := newMemoryAuthRepo()
	repo.users[1] = &User{ID: 1, Name: "Ghost", Email: "ghost@example.com", Role: Role("root"), CreatedAt: time.Now()}
	srv := newRoleGateServer(repo)

	rec := getAs(srv, "1")
	require.Equal(t, http.StatusForbidden, rec.Code)
}
