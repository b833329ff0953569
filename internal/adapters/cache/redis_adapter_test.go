package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisclient "github.com/riii-services/backend/internal/infrastructure/clients/redis"
)

func newTestAdapter(t *testing.T) (*RedisAdapter, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redisclient.NewClientFromRedis(redis.NewClient(&redis.Options{Addr: server.Addr()}))
	return NewRedisAdapter(client).(*RedisAdapter), server
}

func TestRedisAdapter_SetGetDelete(t *testing.T) {
	adapter, _ := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k", []byte("v"), 60))

	value, err := adapter.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)

	require.NoError(t, adapter.Delete(ctx, "k"))
	_, err = adapter.Get(ctx, "k")
	assert.Error(t, err)
}

func TestRedisAdapter_IncrSetsExpiryOnce(t *testing.T) {
	adapter, server := newTestAdapter(t)
	ctx := context.Background()

	count, err := adapter.Incr(ctx, "rl:1.2.3.4", 3600)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, time.Hour, server.TTL("rl:1.2.3.4"))

	server.FastForward(30 * time.Minute)
	count, err = adapter.Incr(ctx, "rl:1.2.3.4", 3600)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, 30*time.Minute, server.TTL("rl:1.2.3.4"))

	server.FastForward(31 * time.Minute)
	count, err = adapter.Incr(ctx, "rl:1.2.3.4", 3600)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
