// Package cache provides a bounded, time-expiring key/value cache with an optional
// Redis second tier. L1 is in-process and lost on restart; L2 survives restarts
// and is shared between processes.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/jonathan/career-matcher/internal/logging"
)

// Defaults applied by New when an option is zero
const (
	DefaultTTL             = 10 * time.Minute
	DefaultMaxEntries      = 256
	DefaultCleanupInterval = time.Minute
	redisPingTimeout       = 3 * time.Second
)

// Options configures a Cache
type Options struct {
	TTL             time.Duration
	MaxEntries      int
	CleanupInterval time.Duration
	// RedisURL enables the L2 tier; empty disables it.
	RedisURL string
	// Prefix namespaces L2 keys.
	Prefix string
	Logger *zap.Logger
	// Now overrides the clock (tests)
	Now func() time.Time
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Cache is safe for concurrent use. Close stops the cleanup loop and the Redis client.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*entry
	rdb        *redis.Client
	ttl        time.Duration
	maxEntries int
	prefix     string
	logger     *zap.Logger
	now        func() time.Time
	group      singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New creates the cache and starts its cleanup loop. An unreachable or invalid
// Redis URL disables L2 with a warning instead of failing.
func New(opts Options) *Cache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = DefaultCleanupInterval
	}
	opts.Logger = logging.OrNop(opts.Logger)
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &Cache{
		entries:    make(map[string]*entry),
		ttl:        opts.TTL,
		maxEntries: opts.MaxEntries,
		prefix:     opts.Prefix,
		logger:     opts.Logger,
		now:        opts.Now,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}

	if opts.RedisURL != "" {
		c.rdb = connectRedis(opts.RedisURL, opts.Logger)
	}
	c.logger.Info("cache initialized",
		zap.Duration("ttl", c.ttl),
		zap.Int("max_entries", c.maxEntries),
		zap.Bool("redis", c.rdb != nil))

	go c.cleanupLoop(opts.CleanupInterval)
	return c
}

func connectRedis(redisURL string, logger *zap.Logger) *redis.Client {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Warn("invalid redis URL, L2 disabled", zap.Error(err))
		return nil
	}
	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, L2 disabled", zap.Error(err))
		_ = rdb.Close()
		return nil
	}
	logger.Info("L2 redis connected", zap.String("addr", opts.Addr))
	return rdb
}

// Key builds a deterministic cache key from parts
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("cm:%x", hash[:12])
}

// Get tries L1, then L2. An L2 hit repopulates L1 for no longer than the
// key has left in Redis.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		if c.now().Before(e.expiresAt) {
			c.mu.Unlock()
			c.hits.Add(1)
			return e.data, true
		}
		delete(c.entries, key)
	}
	c.mu.Unlock()

	if c.rdb != nil {
		data, remaining, err := c.getL2(ctx, key)
		if err == nil {
			c.hits.Add(1)
			c.storeL1(key, data, l1TTL(remaining, c.ttl))
			return data, true
		}
		if !errors.Is(err, redis.Nil) {
			c.logger.Debug("L2 get failed", zap.String("key", key), zap.Error(err))
		}
	}

	c.misses.Add(1)
	return nil, false
}

// getL2 reads a value and its remaining lifetime in one round trip
func (c *Cache) getL2(ctx context.Context, key string) ([]byte, time.Duration, error) {
	var get *redis.StringCmd
	var pttl *redis.DurationCmd
	_, _ = c.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		get = pipe.Get(ctx, c.prefix+key)
		pttl = pipe.PTTL(ctx, c.prefix+key)
		return nil
	})
	data, err := get.Bytes()
	if err != nil {
		return nil, 0, err
	}
	return data, pttl.Val(), nil
}

// l1TTL caps the L1 lifetime at what remains in L2. Keys without an expiry
// report a negative remaining time and get the default.
func l1TTL(remaining, def time.Duration) time.Duration {
	if remaining <= 0 || remaining > def {
		return def
	}
	return remaining
}

// Set stores data in both tiers. A non-positive ttl uses the cache default.
func (c *Cache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	c.storeL1(key, data, ttl)

	if c.rdb != nil {
		if err := c.rdb.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
			c.logger.Debug("L2 set failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// GetOrCompute returns the cached value for key or computes, stores and returns
// it. Concurrent callers for the same key share a single computation. Errors
// from compute are returned and nothing is cached.
func (c *Cache) GetOrCompute(
	ctx context.Context,
	key string,
	ttl time.Duration,
	compute func(ctx context.Context) ([]byte, error),
) ([]byte, error) {
	if data, ok := c.Get(ctx, key); ok {
		return data, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if data, ok := c.Get(ctx, key); ok {
			return data, nil
		}
		data, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(ctx, key, data, ttl)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Invalidate removes key from both tiers
func (c *Cache) Invalidate(ctx context.Context, key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()

	if c.rdb != nil {
		if err := c.rdb.Del(ctx, c.prefix+key).Err(); err != nil {
			c.logger.Warn("L2 delete failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// Len returns the number of L1 entries, expired ones included until cleanup
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns hit/miss counters
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Close stops the cleanup loop and closes the Redis client. It is idempotent.
func (c *Cache) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.stop)
		<-c.done
		if c.rdb != nil {
			err = c.rdb.Close()
		}
	})
	return err
}

func (c *Cache) storeL1(key string, data []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists {
		c.evictLocked()
	}
	c.entries[key] = &entry{data: data, expiresAt: c.now().Add(ttl)}
}

// evictLocked makes room for one entry: expired entries go first, then the
// entries closest to expiry.
func (c *Cache) evictLocked() {
	if len(c.entries) < c.maxEntries {
		return
	}

	now := c.now()
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
		}
	}

	for len(c.entries) >= c.maxEntries {
		var oldestKey string
		var oldestAt time.Time
		for key, e := range c.entries {
			if oldestKey == "" || e.expiresAt.Before(oldestAt) ||
				(e.expiresAt.Equal(oldestAt) && key < oldestKey) {
				oldestKey, oldestAt = key, e.expiresAt
			}
		}
		delete(c.entries, oldestKey)
	}
}

func (c *Cache) removeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

func (c *Cache) cleanupLoop(interval time.Duration) {
	defer close(c.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			if n := c.removeExpired(); n > 0 {
				c.logger.Debug("cache cleanup", zap.Int("removed", n))
			}
		}
	}
}

// LoadJSON decodes a cached value. A miss or a decode error reports false.
func LoadJSON[T any](ctx context.Context, c *Cache, key string) (T, bool) {
	var out T
	data, ok := c.Get(ctx, key)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		var zero T
		return zero, false
	}
	return out, true
}

// StoreJSON encodes and stores v
func StoreJSON[T any](ctx context.Context, c *Cache, key string, v T, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	c.Set(ctx, key, data, ttl)
	return nil
}

// GetOrComputeJSON is GetOrCompute for JSON-encoded values
func GetOrComputeJSON[T any](
	ctx context.Context,
	c *Cache,
	key string,
	ttl time.Duration,
	compute func(ctx context.Context) (T, error),
) (T, error) {
	var zero T
	data, err := c.GetOrCompute(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return zero, fmt.Errorf("failed to decode cache value: %w", err)
	}
	return out, nil
}
