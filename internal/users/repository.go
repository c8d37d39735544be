package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdantfield/portal/internal/auth"
	"github.com/verdantfield/portal/internal/platform/db"
	"github.com/verdantfield/portal/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for user administration.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns one page of users matching the search term across name,
// email and role, with the total match count. Count and page run in one
// transaction so the pagination metadata matches the returned rows.
func (r *Repository) List(ctx context.Context, search string, offset, limit int) ([]auth.User, int, error) {
	pattern := "%" + search + "%"

	var users []auth.User
	var total int
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		countQuery := `
			SELECT COUNT(*)
			FROM users
			WHERE name ILIKE $1 OR email ILIKE $1 OR role ILIKE $1`
		if err := tx.QueryRow(ctx, countQuery, pattern).Scan(&total); err != nil {
			return err
		}

		query := `
			SELECT id, name, email, role, created_at, updated_at
			FROM users
			WHERE name ILIKE $1 OR email ILIKE $1 OR role ILIKE $1
			ORDER BY name, email
			OFFSET $2 LIMIT $3`

		rows, err := tx.Query(ctx, query, pattern, offset, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var u auth.User
			var role string
			if err := rows.Scan(&u.ID, &u.Name, &u.Email, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
				return err
			}
			u.Role = auth.Role(role)
			users = append(users, u)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateRole sets a user's role and bumps updated_at.
func (r *Repository) UpdateRole(ctx context.Context, id int64, role auth.Role) (*auth.User, error) {
	query := `
		UPDATE users
		SET role = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, email, role, created_at, updated_at`

	var u auth.User
	var rawRole string
	err := r.pool.QueryRow(ctx, query, id, string(role)).
		Scan(&u.ID, &u.Name, &u.Email, &rawRole, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Role = auth.Role(rawRole)
	return &u, nil
}
