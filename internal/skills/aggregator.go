package skills

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jonathan/career-matcher/internal/cache"
	"github.com/jonathan/career-matcher/internal/logging"
	"github.com/jonathan/career-matcher/internal/parsing"
	"github.com/jonathan/career-matcher/internal/types"
	"go.uber.org/zap"
)

// Aggregator defaults
const (
	DefaultSampleSize    = 100
	DefaultCriticalCount = 10
)

// JobSource loads active job postings, most recent first
type JobSource interface {
	QueryActiveJobs(ctx context.Context, filter types.JobFilter, limit int) ([]types.JobPosting, error)
}

// AggregatorOptions configures a MarketAggregator
type AggregatorOptions struct {
	SampleSize    int
	CriticalCount int
	// TTL of the cached snapshot; zero uses the cache default
	TTL    time.Duration
	Logger *zap.Logger
}

// MarketAggregator builds market snapshots from a job sample and caches them.
// A nil cache disables caching.
type MarketAggregator struct {
	source JobSource
	cache  *cache.Cache
	opts   AggregatorOptions
	logger *zap.Logger
}

// NewMarketAggregator creates an aggregator
func NewMarketAggregator(source JobSource, c *cache.Cache, opts AggregatorOptions) *MarketAggregator {
	if opts.SampleSize <= 0 {
		opts.SampleSize = DefaultSampleSize
	}
	if opts.CriticalCount <= 0 {
		opts.CriticalCount = DefaultCriticalCount
	}
	logger := logging.OrNop(opts.Logger)
	return &MarketAggregator{source: source, cache: c, opts: opts, logger: logger}
}

// cacheKey changes whenever the sample parameters or the normalization rules change
func (a *MarketAggregator) cacheKey() string {
	return cache.Key("market",
		strconv.Itoa(a.opts.SampleSize),
		strconv.Itoa(a.opts.CriticalCount),
		parsing.VocabularyVersion)
}

// Snapshot returns the current market snapshot, from cache when fresh
func (a *MarketAggregator) Snapshot(ctx context.Context) (*MarketSnapshot, error) {
	if a.cache == nil {
		return a.build(ctx)
	}
	snapshot, err := cache.GetOrComputeJSON(ctx, a.cache, a.cacheKey(), a.opts.TTL,
		func(ctx context.Context) (*MarketSnapshot, error) {
			return a.build(ctx)
		})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Invalidate drops the cached snapshot so the next call rebuilds it
func (a *MarketAggregator) Invalidate(ctx context.Context) {
	if a.cache == nil {
		return
	}
	a.cache.Invalidate(ctx, a.cacheKey())
	a.logger.Info("market snapshot invalidated")
}

func (a *MarketAggregator) build(ctx context.Context) (*MarketSnapshot, error) {
	jobs, err := a.source.QueryActiveJobs(ctx, types.JobFilter{}, a.opts.SampleSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load market sample: %w", err)
	}
	snapshot := BuildMarketSnapshot(jobs, a.opts.CriticalCount)
	a.logger.Debug("market snapshot built",
		zap.Int("sample_size", snapshot.SampleSize),
		zap.Int("skills", len(snapshot.Skills)),
		zap.Strings("critical", snapshot.Critical))
	return snapshot, nil
}
