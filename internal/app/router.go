package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/verdantfield/portal/internal/auth"
	"github.com/verdantfield/portal/internal/inquiries"
	"github.com/verdantfield/portal/internal/invoices"
	"github.com/verdantfield/portal/internal/observability"
	"github.com/verdantfield/portal/internal/platform/httpx"
	"github.com/verdantfield/portal/internal/reviews"
	"github.com/verdantfield/portal/internal/shared"
	"github.com/verdantfield/portal/internal/stats"
	"github.com/verdantfield/portal/internal/tickets"
	"github.com/verdantfield/portal/internal/users"
	"github.com/verdantfield/portal/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	SessionManager   *shared.SessionManager
	CSRFManager      *shared.CSRFManager
	AuthHandler      *auth.Handler
	AuthMiddleware   auth.Middleware
	InvoicesHandler  *invoices.Handler
	TicketsHandler   *tickets.Handler
	InquiriesHandler *inquiries.Handler
	ReviewsHandler   *reviews.Handler
	UsersHandler     *users.Handler
	StatsHandler     *stats.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router serving the portal API.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// JSON clients fetch the CSRF token here and echo it back in the
	// X-CSRF-Token header on mutating requests.
	r.Get("/api/csrf", func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		token, err := params.CSRFManager.EnsureToken(r.Context(), sess)
		if err != nil {
			params.Logger.Error("issue csrf token", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"token": token})
	})

	r.Route("/api/auth", params.AuthHandler.MountRoutes)
	r.Route("/api/contact", params.InquiriesHandler.MountContactRoute)
	r.Route("/api/reviews", params.ReviewsHandler.MountRoutes)
	r.Route("/api/tickets", params.TicketsHandler.MountRoutes)

	adminOnly := params.AuthMiddleware.RequireRole(auth.RoleAdmin)

	r.Route("/api/invoices", func(r chi.Router) {
		r.Use(adminOnly)
		params.InvoicesHandler.MountRoutes(r)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(adminOnly)
		params.InquiriesHandler.MountAdminRoutes(r)
		params.ReviewsHandler.MountAdminRoutes(r)
		r.Route("/users", params.UsersHandler.MountRoutes)
		r.Route("/stats", params.StatsHandler.MountRoutes)
	})

	if params.JobHandler != nil {
		r.Route("/api/jobs", func(r chi.Router) {
			r.Use(adminOnly)
			params.JobHandler.MountRoutes(r)
		})
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "unknown route")
	})

	return r
}
