// Package stats serves the admin dashboard counters.
package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdantfield/portal/internal/platform/httpx"
)

// DashboardStats aggregates the counters shown on the admin landing page.
type DashboardStats struct {
	TotalTickets    int            `json:"totalTickets"`
	TicketsByStatus map[string]int `json:"ticketsByStatus"`
	QuoteRequests   int            `json:"quoteRequests"`
	RegisteredUsers int            `json:"registeredUsers"`
}

// Repository runs the COUNT queries behind the dashboard.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Collect gathers all dashboard counters.
func (r *Repository) Collect(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{TicketsByStatus: make(map[string]int)}

	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM tickets GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.TicketsByStatus[status] = count
		stats.TotalTickets += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM inquiries WHERE is_quote_request`).Scan(&stats.QuoteRequests)
	if err != nil {
		return nil, err
	}
	err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&stats.RegisteredUsers)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// CollectorPort abstracts the counter source for the handler.
type CollectorPort interface {
	Collect(ctx context.Context) (*DashboardStats, error)
}

// Handler serves the dashboard counters.
type Handler struct {
	logger    *slog.Logger
	collector CollectorPort
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, collector CollectorPort) *Handler {
	return &Handler{logger: logger, collector: collector}
}

// MountRoutes registers the stats route.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.dashboard)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.collector.Collect(r.Context())
	if err != nil {
		h.logger.Error("collect dashboard stats", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}
