package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Guard = (*RedisClient)(nil)
	_ Guard = (*MockRedisClient)(nil)
)

func TestMockGuard(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	g := NewMockRedisClient("breakdown:")
	g.now = func() time.Time { return now }

	ok, err := g.Acquire(ctx, "k", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.Acquire(ctx, "k", 5*time.Second)
	require.NoError(t, err)
	assert.False(t, ok, "held key must not be acquired twice")

	ok, _ = g.Acquire(ctx, "other", 5*time.Second)
	assert.True(t, ok)

	now = now.Add(6 * time.Second)
	ok, _ = g.Acquire(ctx, "k", 5*time.Second)
	assert.True(t, ok, "expired key is free again")

	require.NoError(t, g.Release(ctx, "k"))
	ok, _ = g.Acquire(ctx, "k", 5*time.Second)
	assert.True(t, ok)
}

func TestMockGuardHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMockRedisClient("").Acquire(ctx, "k", time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRedisClientRejectsBadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not-a-redis-url", "breakdown:")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse Redis URL")
}
