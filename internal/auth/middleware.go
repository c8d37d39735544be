package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/verdantfield/portal/internal/platform/httpx"
	"github.com/verdantfield/portal/internal/shared"
)

type userContextKey struct{}

// ContextWithUser stores the authenticated user in context.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext extracts the authenticated user from context.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey{}).(*User)
	return user
}

// Middleware wires authorization helpers for HTTP handlers.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// RequireUser loads the session's account into context, responding 401 when
// the request carries no authenticated session.
func (m Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := m.loadUser(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

// RequireRole gates a subtree to accounts holding the given role.
func (m Middleware) RequireRole(role Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := m.loadUser(w, r)
			if !ok {
				return
			}
			switch user.Role {
			case role:
				next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
			case RoleCustomer, RoleAdmin:
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "insufficient role")
			default:
				// scanUser already rejects rows with unknown roles, so this
				// only fires for User values built elsewhere. Log and deny.
				if m.Logger != nil {
					m.Logger.Error("unknown role on account", slog.Int64("user_id", user.ID), slog.String("role", string(user.Role)))
				}
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "insufficient role")
			}
		})
	}
}

func (m Middleware) loadUser(w http.ResponseWriter, r *http.Request) (*User, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.User() == "" {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return nil, false
	}
	id, err := strconv.ParseInt(sess.User(), 10, 64)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Error("parse session user id", slog.String("value", sess.User()))
		}
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return nil, false
	}
	user, err := m.Service.CurrentUser(r.Context(), id)
	if err != nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return nil, false
	}
	return user, true
}
