package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestNewPingsServer(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := New(context.Background(), mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, Ping(context.Background(), client))
}

func TestNewFailsWhenServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := New(context.Background(), addr)
	require.Error(t, err)
}

func TestPingNilClient(t *testing.T) {
	require.Error(t, Ping(context.Background(), nil))
}
