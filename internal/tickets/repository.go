package tickets

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdantfield/portal/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for tickets.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new ticket.
func (r *Repository) Create(ctx context.Context, ticket *Ticket) (*Ticket, error) {
	query := `
		INSERT INTO tickets (user_id, service_type, description, priority, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	stored := *ticket
	err := r.pool.QueryRow(ctx, query,
		ticket.UserID, string(ticket.ServiceType), ticket.Description,
		string(ticket.Priority), string(ticket.Status),
	).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// ListAll returns all tickets joined with the requesting user, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]TicketWithUser, error) {
	query := `
		SELECT t.id, t.user_id, t.service_type, t.description, t.priority, t.status,
			t.created_at, t.updated_at, u.name, u.email
		FROM tickets t
		JOIN users u ON u.id = t.user_id
		ORDER BY t.created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []TicketWithUser
	for rows.Next() {
		var t TicketWithUser
		var serviceType, priority, status string
		err := rows.Scan(
			&t.ID, &t.UserID, &serviceType, &t.Description, &priority, &status,
			&t.CreatedAt, &t.UpdatedAt, &t.UserName, &t.UserEmail,
		)
		if err != nil {
			return nil, err
		}
		t.ServiceType = ServiceType(serviceType)
		t.Priority = Priority(priority)
		t.Status = Status(status)
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// ListByUser returns one user's tickets, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]Ticket, error) {
	query := `
		SELECT id, user_id, service_type, description, priority, status, created_at, updated_at
		FROM tickets
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []Ticket
	for rows.Next() {
		var t Ticket
		var serviceType, priority, status string
		err := rows.Scan(&t.ID, &t.UserID, &serviceType, &t.Description, &priority, &status, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, err
		}
		t.ServiceType = ServiceType(serviceType)
		t.Priority = Priority(priority)
		t.Status = Status(status)
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// UpdateStatus sets a ticket's status and bumps updated_at.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status) (*Ticket, error) {
	query := `
		UPDATE tickets
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, user_id, service_type, description, priority, status, created_at, updated_at`

	var t Ticket
	var serviceType, priority, rawStatus string
	err := r.pool.QueryRow(ctx, query, id, string(status)).
		Scan(&t.ID, &t.UserID, &serviceType, &t.Description, &priority, &rawStatus, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.ServiceType = ServiceType(serviceType)
	t.Priority = Priority(priority)
	t.Status = Status(rawStatus)
	return &t, nil
}
