package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/boosteam/boosteam-api/internal/platform/db"
	"github.com/boosteam/boosteam-api/internal/shared"
)

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `id, username, email, password_hash, created_at, updated_at, last_login_at`

// CreateUser inserts the account and grants input.Role atomically.
func (r *PGRepository) CreateUser(ctx context.Context, input NewUser) (User, error) {
	var user User
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `INSERT INTO users (username, email, password_hash)
VALUES ($1, $2, $3) RETURNING `+userColumns, input.Username, input.Email, input.PasswordHash)
		var err error
		user, err = scanUser(row)
		if err != nil {
			if _, ok := db.UniqueViolation(err); ok {
				return shared.ErrDuplicate
			}
			return db.Translate(err)
		}
		if input.Role == "" {
			return nil
		}
		tag, err := tx.Exec(ctx, `INSERT INTO user_roles (user_id, role_id)
SELECT $1, id FROM roles WHERE name = $2`, user.ID, input.Role)
		if err != nil {
			return db.Translate(err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("default role %q missing", input.Role)
		}
		return nil
	})
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// FindByID fetches a user by ID.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	return user, notFound(err)
}

// FindByLogin fetches a user by username or email.
func (r *PGRepository) FindByLogin(ctx context.Context, username, email string) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users
WHERE username = $1 OR email = $2
ORDER BY (username = $1) DESC
LIMIT 1`, username, email))
	return user, notFound(err)
}

// UpdatePassword replaces the stored hash.
func (r *PGRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, hash)
	if err != nil {
		return db.Translate(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteUser removes the account. Role assignments and roster data cascade.
func (r *PGRepository) DeleteUser(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return db.Translate(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// TouchLastLogin records the last authentication time.
func (r *PGRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login_at = $2 WHERE id = $1`, id, at)
	return db.Translate(err)
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt, &u.LastLogin)
	return u, err
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return shared.ErrNotFound
	}
	return db.Translate(err)
}
