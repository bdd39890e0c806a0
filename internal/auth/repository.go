package auth

import (
	"context"
	"time"
)

// Repository defines persistence operations for auth module.
type Repository interface {
	CreateUser(ctx context.Context, input NewUser) (User, error)
	FindByID(ctx context.Context, id int64) (User, error)
	// FindByLogin matches the identifier against username, then email.
	FindByLogin(ctx context.Context, username, email string) (User, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
	DeleteUser(ctx context.Context, id int64) error
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}
