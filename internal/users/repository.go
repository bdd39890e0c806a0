package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/boosteam/boosteam-api/internal/platform/db"
	"github.com/boosteam/boosteam-api/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userSelect = `SELECT u.id, u.username, u.email, u.created_at, u.last_login_at,
       COALESCE(array_agg(ro.name ORDER BY ro.name) FILTER (WHERE ro.name IS NOT NULL), '{}')
FROM users u
LEFT JOIN user_roles ur ON ur.user_id = u.id
LEFT JOIN roles ro ON ro.id = ur.role_id`

// CountUsers returns the number of accounts.
func (r *Repository) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, db.Translate(err)
	}
	return n, nil
}

// ListUsers returns one page of users ordered by ID.
func (r *Repository) ListUsers(ctx context.Context, limit, offset int) ([]User, error) {
	rows, err := r.pool.Query(ctx, userSelect+`
GROUP BY u.id
ORDER BY u.id
LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, db.Translate(err)
	}
	defer rows.Close()
	users := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt, &u.LastLogin, &u.RoleNames); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetUser fetches a user by ID.
func (r *Repository) GetUser(ctx context.Context, id int64) (User, error) {
	var u User
	err := r.pool.QueryRow(ctx, userSelect+`
WHERE u.id = $1
GROUP BY u.id`, id).Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt, &u.LastLogin, &u.RoleNames)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, db.Translate(err)
	}
	return u, nil
}
