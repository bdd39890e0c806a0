package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// TxStarter is satisfied by *pgxpool.Pool and *pgx.Conn.
type TxStarter interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// WithTx executes a function within a transaction using the RepeatableRead isolation level.
func WithTx(ctx context.Context, starter TxStarter, fn func(pgx.Tx) error) error {
	tx, err := starter.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return Translate(fmt.Errorf("platform/db: begin tx: %w", err))
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return Translate(fmt.Errorf("platform/db: commit tx: %w", err))
	}

	return nil
}
