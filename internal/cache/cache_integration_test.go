//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_RedisTier(t *testing.T) {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()

	writer := New(Options{RedisURL: redisURL, Prefix: "test:", TTL: time.Minute})
	defer func() { _ = writer.Close() }()
	require.NotNil(t, writer.rdb)

	key := Key("integration", time.Now().String())
	writer.Set(ctx, key, []byte("shared"), 0)

	// A second process sees the value through L2
	reader := New(Options{RedisURL: redisURL, Prefix: "test:", TTL: time.Minute})
	defer func() { _ = reader.Close() }()
	data, ok := reader.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, []byte("shared"), data)

	writer.Invalidate(ctx, key)
	reader.Invalidate(ctx, key)
	_, ok = reader.Get(ctx, key)
	assert.False(t, ok)
}

func TestCache_RedisHitKeepsRemainingTTL(t *testing.T) {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()

	writer := New(Options{RedisURL: redisURL, Prefix: "test:", TTL: time.Hour})
	defer func() { _ = writer.Close() }()
	key := Key("integration-ttl", time.Now().String())
	writer.Set(ctx, key, []byte("short"), 2*time.Second)
	defer writer.Invalidate(ctx, key)

	now := time.Now()
	reader := New(Options{RedisURL: redisURL, Prefix: "test:", TTL: time.Hour, Now: func() time.Time { return now }})
	defer func() { _ = reader.Close() }()
	_, ok := reader.Get(ctx, key)
	require.True(t, ok)

	reader.mu.Lock()
	e := reader.entries[key]
	reader.mu.Unlock()
	require.NotNil(t, e)
	assert.LessOrEqual(t, e.expiresAt.Sub(now), 2*time.Second)
}
