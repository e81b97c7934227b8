package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCacheSetAndGet(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "closure:2025-02", "1", time.Minute))

	val, err := cache.Get(ctx, "closure:2025-02")
	require.NoError(t, err)
	require.Equal(t, "1", val)
}

func TestCacheGetMissing(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)

	_, err := cache.Get(context.Background(), "closure:2099-01")
	require.Error(t, err)
}

func TestCacheDelete(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "closure:2025-02", "0", time.Minute))
	require.NoError(t, cache.Delete(ctx, "closure:2025-02"))

	_, err := cache.Get(ctx, "closure:2025-02")
	require.Error(t, err)
}
