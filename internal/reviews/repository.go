package reviews

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdantfield/portal/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for reviews.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a review.
func (r *Repository) Create(ctx context.Context, review *Review) (*Review, error) {
	query := `
		INSERT INTO reviews (name, rating, comment, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at`

	stored := *review
	err := r.pool.QueryRow(ctx, query, review.Name, review.Rating, review.Comment).
		Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// List returns all reviews ordered by creation time descending.
func (r *Repository) List(ctx context.Context) ([]Review, error) {
	query := `
		SELECT id, name, rating, comment, created_at
		FROM reviews
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var review Review
		if err := rows.Scan(&review.ID, &review.Name, &review.Rating, &review.Comment, &review.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

// Update replaces a review's content.
func (r *Repository) Update(ctx context.Context, review *Review) (*Review, error) {
	query := `
		UPDATE reviews
		SET name = $2, rating = $3, comment = $4
		WHERE id = $1
		RETURNING created_at`

	stored := *review
	err := r.pool.QueryRow(ctx, query,
		review.ID, review.Name, review.Rating, review.Comment,
	).Scan(&stored.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// Delete removes a review by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
