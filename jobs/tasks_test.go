package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type touchStore struct {
	mu    sync.Mutex
	calls map[int64]time.Time
	err   error
}

func (s *touchStore) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if s.calls == nil {
		s.calls = map[int64]time.Time{}
	}
	s.calls[id] = at
	return nil
}

func TestLastLoginHandler(t *testing.T) {
	store := &touchStore{}
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	task, err := NewLastLoginTask(LastLoginPayload{UserID: 9, At: at})
	require.NoError(t, err)
	assert.Equal(t, TaskTypeLastLogin, task.Type())

	require.NoError(t, LastLoginHandler(store, nil)(context.Background(), task))
	assert.True(t, store.calls[9].Equal(at))
}

func TestLastLoginHandlerMalformedPayload(t *testing.T) {
	handler := LastLoginHandler(&touchStore{}, nil)
	err := handler(context.Background(), asynq.NewTask(TaskTypeLastLogin, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)

	err = handler(context.Background(), asynq.NewTask(TaskTypeLastLogin, []byte(`{"user_id":0}`)))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestLastLoginHandlerStoreFailureRetries(t *testing.T) {
	boom := errors.New("db down")
	task, err := NewLastLoginTask(LastLoginPayload{UserID: 1, At: time.Now()})
	require.NoError(t, err)

	err = LastLoginHandler(&touchStore{err: boom}, nil)(context.Background(), task)
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestClientRecordLoginEnqueues(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewClient(asynq.RedisClientOpt{Addr: mr.Addr()}, nil)
	t.Cleanup(func() { _ = client.Close() })

	client.RecordLogin(4, time.Now())

	require.Eventually(t, func() bool {
		if !mr.Exists("asynq:{default}:pending") {
			return false
		}
		items, err := mr.List("asynq:{default}:pending")
		return err == nil && len(items) == 1
	}, 2*time.Second, 20*time.Millisecond)
}

func TestNewWorkerRequiresHandlers(t *testing.T) {
	_, err := NewWorker(WorkerConfig{RedisOpts: asynq.RedisClientOpt{Addr: "127.0.0.1:0"}})
	require.Error(t, err)
}
