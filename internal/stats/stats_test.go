package stats

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type stubCollector struct {
	stats *DashboardStats
	err   error
}

func (c stubCollector) Collect(ctx context.Context) (*DashboardStats, error) {
	return c.stats, c.err
}

func TestDashboardEndpoint(t *testing.T) {
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), stubCollector{stats: &DashboardStats{
		TotalTickets:    5,
		TicketsByStatus: map[string]int{"open": 3, "resolved": 2},
		QuoteRequests:   4,
		RegisteredUsers: 12,
	}})
	r := chi.NewRouter()
	r.Route("/api/admin/stats", h.MountRoutes)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"totalTickets":5`)
	require.Contains(t, rec.Body.String(), `"open":3`)
	require.Contains(t, rec.Body.String(), `"registeredUsers":12`)
}
