package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/career-matcher/internal/cache"
	"github.com/jonathan/career-matcher/internal/config"
	"github.com/jonathan/career-matcher/internal/db"
	"github.com/jonathan/career-matcher/internal/logging"
	"github.com/jonathan/career-matcher/internal/recommend"
	"github.com/jonathan/career-matcher/internal/skills"
)

var _ recommend.Store = (*db.DB)(nil)

// runtimeEnv is the loaded config and logger shared by subcommands
type runtimeEnv struct {
	cfg    *config.Config
	logger *zap.Logger
}

func loadRuntime() (*runtimeEnv, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	cfg.Verbose = cfg.Verbose || verbose
	cfg.JSONLogs = cfg.JSONLogs || jsonLogs

	logger, err := logging.New(cfg.JSONLogs, cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return &runtimeEnv{cfg: cfg, logger: logger}, nil
}

func serviceOptions(cfg *config.Config, logger *zap.Logger) recommend.Options {
	return recommend.Options{
		JobCutoff:      cfg.JobCutoff,
		LearningCutoff: cfg.LearningCutoff,
		CandidateLimit: cfg.CandidateLimit,
		DefaultLimit:   cfg.ResultLimit,
		MaxLimit:       cfg.MaxLimit,
		Workers:        cfg.Workers,
		Locale:         cfg.Locale(),
		Logger:         logger,
	}
}

// backend is a database-backed service with its resources
type backend struct {
	svc   *recommend.Service
	db    *db.DB
	cache *cache.Cache
}

func (b *backend) Close() {
	if b.cache != nil {
		_ = b.cache.Close()
	}
	if b.db != nil {
		b.db.Close()
	}
}

// openBackend connects to PostgreSQL and builds the cached service
func openBackend(ctx context.Context, rt *runtimeEnv) (*backend, error) {
	if rt.cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable (or database_url config) is required")
	}

	database, err := db.Connect(ctx, rt.cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ttl := time.Duration(rt.cfg.CacheTTL)
	c := cache.New(cache.Options{
		TTL:        ttl,
		MaxEntries: rt.cfg.CacheEntries,
		RedisURL:   rt.cfg.RedisURL,
		Prefix:     "career_matcher:",
		Logger:     rt.logger,
	})
	market := skills.NewMarketAggregator(database, c, skills.AggregatorOptions{
		SampleSize:    rt.cfg.SampleSize,
		CriticalCount: rt.cfg.CriticalCount,
		TTL:           ttl,
		Logger:        rt.logger,
	})

	return &backend{
		svc:   recommend.New(database, market, serviceOptions(rt.cfg, rt.logger)),
		db:    database,
		cache: c,
	}, nil
}
