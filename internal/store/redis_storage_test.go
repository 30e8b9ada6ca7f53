package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRedisStorage connects to the redis given by REDIS_URL, skipping the test otherwise.
func newTestRedisStorage(t *testing.T) *RedisStorage {
	t.Helper()
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set")
	}
	opts, err := redis.ParseURL(redisURL)
	require.NoError(t, err)

	rdb := redis.NewClient(opts)
	t.Cleanup(func() { rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())
	return NewRedisStorage(rdb)
}

func TestRedisStorage(t *testing.T) {
	storage := newTestRedisStorage(t)
	ctx := context.Background()
	key := "test:" + uuid.NewString()

	_, err := storage.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, storage.Set(ctx, key, []byte("value"), time.Minute))
	val, err := storage.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "value", string(val))

	ttl, err := storage.Conn().TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	exists, err := storage.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, storage.Delete(ctx, key))
	assert.ErrorIs(t, storage.Delete(ctx, key), ErrNotFound)
}
