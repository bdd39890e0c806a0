package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// New creates a Redis client and verifies the server answers.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := Ping(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

// Ping checks the connection within a bounded timeout. It backs the
// readiness probe and the startup check.
func Ping(ctx context.Context, client *redis.Client) error {
	if client == nil {
		return fmt.Errorf("platform/cache: client not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("platform/cache: ping: %w", err)
	}
	return nil
}
