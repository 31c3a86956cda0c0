package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(t *testing.T, maxEntries int) (*Cache, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New(Options{TTL: time.Minute, MaxEntries: maxEntries, CleanupInterval: time.Hour, Now: clock.Now})
	t.Cleanup(func() { _ = c.Close() })
	return c, clock
}

func TestCache_SetGet(t *testing.T) {
	c, _ := newTestCache(t, 10)
	ctx := context.Background()

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	c.Set(ctx, "k", []byte("v"), 0)
	data, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), data)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestCache_Expiry(t *testing.T) {
	c, clock := newTestCache(t, 10)
	ctx := context.Background()

	c.Set(ctx, "short", []byte("1"), 10*time.Second)
	c.Set(ctx, "default", []byte("2"), 0)

	clock.Advance(30 * time.Second)
	_, ok := c.Get(ctx, "short")
	assert.False(t, ok, "custom ttl should have expired")
	_, ok = c.Get(ctx, "default")
	assert.True(t, ok)

	clock.Advance(time.Minute)
	_, ok = c.Get(ctx, "default")
	assert.False(t, ok)
}

func TestCache_BoundedEviction(t *testing.T) {
	c, clock := newTestCache(t, 3)
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		c.Set(ctx, key, []byte(key), 0)
		clock.Advance(time.Second)
	}
	c.Set(ctx, "d", []byte("d"), 0)

	assert.Equal(t, 3, c.Len())
	_, ok := c.Get(ctx, "a")
	assert.False(t, ok, "entry closest to expiry is evicted first")
	for _, key := range []string{"b", "c", "d"} {
		_, ok := c.Get(ctx, key)
		assert.True(t, ok, key)
	}

	// Overwriting an existing key never evicts another one
	c.Set(ctx, "d", []byte("d2"), 0)
	assert.Equal(t, 3, c.Len())
}

func TestCache_EvictionPrefersExpired(t *testing.T) {
	c, clock := newTestCache(t, 2)
	ctx := context.Background()

	c.Set(ctx, "old", []byte("1"), time.Second)
	c.Set(ctx, "keep", []byte("2"), time.Hour)
	clock.Advance(2 * time.Second)
	c.Set(ctx, "new", []byte("3"), 0)

	_, ok := c.Get(ctx, "keep")
	assert.True(t, ok)
	_, ok = c.Get(ctx, "new")
	assert.True(t, ok)
}

func TestCache_Invalidate(t *testing.T) {
	c, _ := newTestCache(t, 10)
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), 0)
	c.Invalidate(ctx, "k")

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	c.Invalidate(ctx, "never-set")
}

func TestCache_GetOrCompute(t *testing.T) {
	c, _ := newTestCache(t, 10)
	ctx := context.Background()

	var calls atomic.Int32
	compute := func(context.Context) ([]byte, error) {
		calls.Add(1)
		return []byte("computed"), nil
	}

	data, err := c.GetOrCompute(ctx, "k", 0, compute)
	require.NoError(t, err)
	assert.Equal(t, []byte("computed"), data)

	data, err = c.GetOrCompute(ctx, "k", 0, compute)
	require.NoError(t, err)
	assert.Equal(t, []byte("computed"), data)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCache_GetOrComputeErrorNotCached(t *testing.T) {
	c, _ := newTestCache(t, 10)
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := c.GetOrCompute(ctx, "k", 0, func(context.Context) ([]byte, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}

func TestCache_GetOrComputeConcurrent(t *testing.T) {
	c, _ := newTestCache(t, 10)
	ctx := context.Background()

	var calls atomic.Int32
	release := make(chan struct{})
	compute := func(context.Context) ([]byte, error) {
		calls.Add(1)
		<-release
		return []byte("v"), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := c.GetOrCompute(ctx, "shared", 0, compute)
			assert.NoError(t, err)
			assert.Equal(t, []byte("v"), data)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int32(8))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
	data, ok := c.Get(ctx, "shared")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), data)
}

func TestJSONHelpers(t *testing.T) {
	c, _ := newTestCache(t, 10)
	ctx := context.Background()

	type snapshot struct {
		Skills []string `json:"skills"`
	}

	require.NoError(t, StoreJSON(ctx, c, "snap", snapshot{Skills: []string{"go"}}, 0))
	got, ok := LoadJSON[snapshot](ctx, c, "snap")
	require.True(t, ok)
	assert.Equal(t, []string{"go"}, got.Skills)

	c.Set(ctx, "corrupt", []byte("{not json"), 0)
	_, ok = LoadJSON[snapshot](ctx, c, "corrupt")
	assert.False(t, ok)

	calls := 0
	compute := func(context.Context) (snapshot, error) {
		calls++
		return snapshot{Skills: []string{"sql"}}, nil
	}
	first, err := GetOrComputeJSON(ctx, c, "computed", 0, compute)
	require.NoError(t, err)
	second, err := GetOrComputeJSON(ctx, c, "computed", 0, compute)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("market", "100"), Key("market", "100"))
	assert.NotEqual(t, Key("market", "100"), Key("market", "50"))
	assert.Len(t, Key("x"), len("cm:")+24)
}

func TestNew_InvalidRedisURLDisablesL2(t *testing.T) {
	c := New(Options{RedisURL: "not-a-url://"})
	defer func() { _ = c.Close() }()

	assert.Nil(t, c.rdb)
	c.Set(context.Background(), "k", []byte("v"), 0)
	_, ok := c.Get(context.Background(), "k")
	assert.True(t, ok)
	assert.NoError(t, c.Close(), "close is idempotent")
}

func TestL1TTL(t *testing.T) {
	tests := []struct {
		name      string
		remaining time.Duration
		want      time.Duration
	}{
		{"shorter than default", 30 * time.Second, 30 * time.Second},
		{"longer than default", time.Hour, 10 * time.Minute},
		{"no expiry", -1, 10 * time.Minute},
		{"missing", -2, 10 * time.Minute},
		{"zero", 0, 10 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, l1TTL(tt.remaining, 10*time.Minute))
		})
	}
}
