package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeLastLogin records a successful authentication.
	TaskTypeLastLogin = "auth:last_login"
)

// LastLoginPayload identifies the user and the authentication time.
type LastLoginPayload struct {
	UserID int64     `json:"user_id"`
	At     time.Time `json:"at"`
}

// NewLastLoginTask constructs an Asynq task.
func NewLastLoginTask(payload LastLoginPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeLastLogin, data, asynq.MaxRetry(3), asynq.Timeout(10*time.Second)), nil
}

// LastLoginStore persists last login times.
type LastLoginStore interface {
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}

// LastLoginHandler processes TaskTypeLastLogin tasks.
func LastLoginHandler(store LastLoginStore, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload LastLoginPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.UserID <= 0 {
			if logger != nil {
				logger.Warn("drop malformed last login task", slog.String("payload", string(t.Payload())))
			}
			return fmt.Errorf("decode last login payload: %w", asynq.SkipRetry)
		}
		if err := store.TouchLastLogin(ctx, payload.UserID, payload.At); err != nil {
			return fmt.Errorf("touch last login: %w", err)
		}
		return nil
	}
}
