package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationName = "boosteam-api"

// New creates a PostgreSQL connection pool and verifies the server answers.
// Pool sizing comes from the DSN (pool_max_conns and friends).
func New(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("platform/db: parse config: %w", err)
	}
	config.MaxConnIdleTime = 5 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second
	if _, ok := config.ConnConfig.RuntimeParams["application_name"]; !ok {
		config.ConnConfig.RuntimeParams["application_name"] = applicationName
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, Translate(fmt.Errorf("platform/db: new pool: %w", err))
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, Translate(fmt.Errorf("platform/db: ping: %w", err))
	}

	return pool, nil
}
