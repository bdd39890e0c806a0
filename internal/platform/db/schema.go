package db

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema creates any missing tables and indexes. Every statement is
// idempotent; there is no versioning.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return Translate(fmt.Errorf("platform/db: ensure schema: %w", err))
	}
	return nil
}
