package inquiries

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdantfield/portal/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for inquiries.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts an inquiry.
func (r *Repository) Create(ctx context.Context, inquiry *Inquiry) (*Inquiry, error) {
	query := `
		INSERT INTO inquiries (name, email, phone, message, is_quote_request, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at`

	stored := *inquiry
	err := r.pool.QueryRow(ctx, query,
		inquiry.Name, inquiry.Email, inquiry.Phone, inquiry.Message, inquiry.IsQuoteRequest,
	).Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// List returns inquiries newest first, optionally restricted to quote
// requests.
func (r *Repository) List(ctx context.Context, quotesOnly bool) ([]Inquiry, error) {
	query := `
		SELECT id, name, email, phone, message, is_quote_request, created_at
		FROM inquiries`
	if quotesOnly {
		query += `
		WHERE is_quote_request`
	}
	query += `
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inquiries []Inquiry
	for rows.Next() {
		var inq Inquiry
		if err := rows.Scan(&inq.ID, &inq.Name, &inq.Email, &inq.Phone, &inq.Message, &inq.IsQuoteRequest, &inq.CreatedAt); err != nil {
			return nil, err
		}
		inquiries = append(inquiries, inq)
	}
	return inquiries, rows.Err()
}

// Update replaces an inquiry's contact fields.
func (r *Repository) Update(ctx context.Context, inquiry *Inquiry) (*Inquiry, error) {
	query := `
		UPDATE inquiries
		SET name = $2, email = $3, phone = $4, message = $5, is_quote_request = $6
		WHERE id = $1
		RETURNING created_at`

	stored := *inquiry
	err := r.pool.QueryRow(ctx, query,
		inquiry.ID, inquiry.Name, inquiry.Email, inquiry.Phone, inquiry.Message, inquiry.IsQuoteRequest,
	).Scan(&stored.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// Delete removes an inquiry by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM inquiries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
