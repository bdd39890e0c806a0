package auth

import (
	"context"
	"log/slog"
	"time"
)

// LoginRecorder records successful authentications. Implementations must not
// block the caller or fail the request.
type LoginRecorder interface {
	RecordLogin(userID int64, at time.Time)
}

// LastLoginWriter persists the last login time.
type LastLoginWriter interface {
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}

const lastLoginUpdateTimeout = 2 * time.Second

// InlineRecorder writes the last login from a detached goroutine bounded by
// a short timeout.
type InlineRecorder struct {
	store  LastLoginWriter
	logger *slog.Logger
}

// NewInlineRecorder constructs an InlineRecorder.
func NewInlineRecorder(store LastLoginWriter, logger *slog.Logger) *InlineRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &InlineRecorder{store: store, logger: logger}
}

// RecordLogin schedules the write and returns immediately.
func (r *InlineRecorder) RecordLogin(userID int64, at time.Time) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), lastLoginUpdateTimeout)
		defer cancel()
		if err := r.store.TouchLastLogin(ctx, userID, at); err != nil {
			r.logger.Warn("update last login", slog.Int64("user_id", userID), slog.Any("error", err))
		}
	}()
}

type noopRecorder struct{}

func (noopRecorder) RecordLogin(int64, time.Time) {}
