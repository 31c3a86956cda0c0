// Package config loads service configuration from a JSON file and the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/career-matcher/internal/analysis"
)

// Defaults for tunables that have no value in the file or the environment
const (
	DefaultJobCutoff      = 0.25
	DefaultLearningCutoff = 0.2
	DefaultSampleSize     = 100
	DefaultCriticalCount  = 10
	DefaultCandidateLimit = 200
	DefaultResultLimit    = 10
	DefaultMaxLimit       = 100
	DefaultWorkers        = 8
	DefaultCacheTTL       = 10 * time.Minute
	DefaultCacheEntries   = 256
	DefaultPort           = 8080
	DefaultImportWorkers  = 2
)

// Config holds everything the service binaries need. All fields are optional
// in the file; MergeWithDefaults and ApplyEnv fill the rest.
type Config struct {
	// Connections
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	RedisURL    string `json:"redis_url,omitempty"`    // Enables the L2 market cache
	AMQPURL     string `json:"amqp_url,omitempty"`     // RabbitMQ URL for the import worker

	// Object storage
	S3Bucket    string `json:"s3_bucket,omitempty"`
	S3Region    string `json:"s3_region,omitempty"`
	S3Endpoint  string `json:"s3_endpoint,omitempty"`
	R2AccountID string `json:"r2_account_id,omitempty"`
	S3AccessKey string `json:"s3_access_key,omitempty"`
	S3SecretKey string `json:"s3_secret_key,omitempty"`

	// Scoring
	JobCutoff      float64 `json:"job_cutoff,omitempty"`
	LearningCutoff float64 `json:"learning_cutoff,omitempty"`
	SampleSize     int     `json:"sample_size,omitempty"`    // Jobs sampled for market demand
	CriticalCount  int     `json:"critical_count,omitempty"` // Top market skills marked critical
	CandidateLimit int     `json:"candidate_limit,omitempty"`
	ResultLimit    int     `json:"result_limit,omitempty"`
	MaxLimit       int     `json:"max_limit,omitempty"`
	Workers        int     `json:"workers,omitempty"`

	// Market cache
	CacheTTL     Duration `json:"cache_ttl,omitempty"`
	CacheEntries int      `json:"cache_entries,omitempty"`

	// Locale
	LocaleLanguages      []string `json:"locale_languages,omitempty"`
	LocaleMarketKeywords []string `json:"locale_market_keywords,omitempty"`

	// Runtime
	Port          int  `json:"port,omitempty"`
	ImportWorkers int  `json:"import_workers,omitempty"`
	JSONLogs      bool `json:"json_logs,omitempty"`
	Verbose       bool `json:"verbose,omitempty"`
}

// Duration is a time.Duration that decodes from "10m" style strings or seconds
type Duration time.Duration

// UnmarshalJSON accepts a duration string or a number of seconds
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var secs float64
	if err := json.Unmarshal(b, &secs); err != nil {
		return fmt.Errorf("invalid duration %s", string(b))
	}
	*d = Duration(time.Duration(secs * float64(time.Second)))
	return nil
}

// MarshalJSON writes the duration as a string
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load reads the optional file at path, then applies environment overrides and defaults
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	merged := cfg.MergeWithDefaults(Default())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Default returns the built-in tunables
func Default() Config {
	return Config{
		JobCutoff:      DefaultJobCutoff,
		LearningCutoff: DefaultLearningCutoff,
		SampleSize:     DefaultSampleSize,
		CriticalCount:  DefaultCriticalCount,
		CandidateLimit: DefaultCandidateLimit,
		ResultLimit:    DefaultResultLimit,
		MaxLimit:       DefaultMaxLimit,
		Workers:        DefaultWorkers,
		CacheTTL:       Duration(DefaultCacheTTL),
		CacheEntries:   DefaultCacheEntries,
		Port:           DefaultPort,
		ImportWorkers:  DefaultImportWorkers,
	}
}

// Locale returns the configured market locale
func (c *Config) Locale() analysis.Locale {
	return analysis.Locale{
		Languages:      c.LocaleLanguages,
		MarketKeywords: c.LocaleMarketKeywords,
	}
}

// ApplyEnv overrides fields from environment variables that are set
func (c *Config) ApplyEnv() {
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.RedisURL = getEnv("REDIS_URL", c.RedisURL)
	c.AMQPURL = getEnv("AMQP_URL", c.AMQPURL)

	c.S3Bucket = getEnv("S3_BUCKET", c.S3Bucket)
	c.S3Region = getEnv("S3_REGION", c.S3Region)
	c.S3Endpoint = getEnv("S3_ENDPOINT", c.S3Endpoint)
	c.R2AccountID = getEnv("R2_ACCOUNT_ID", c.R2AccountID)
	c.S3AccessKey = getEnv("S3_ACCESS_KEY", c.S3AccessKey)
	c.S3SecretKey = getEnv("S3_SECRET_KEY", c.S3SecretKey)

	c.JobCutoff = getEnvFloat("JOB_CUTOFF", c.JobCutoff)
	c.LearningCutoff = getEnvFloat("LEARNING_CUTOFF", c.LearningCutoff)
	c.SampleSize = getEnvInt("MARKET_SAMPLE_SIZE", c.SampleSize)
	c.CriticalCount = getEnvInt("CRITICAL_SKILL_COUNT", c.CriticalCount)
	c.CandidateLimit = getEnvInt("CANDIDATE_LIMIT", c.CandidateLimit)
	c.ResultLimit = getEnvInt("RESULT_LIMIT", c.ResultLimit)
	c.MaxLimit = getEnvInt("MAX_LIMIT", c.MaxLimit)
	c.Workers = getEnvInt("SCORING_WORKERS", c.Workers)

	c.CacheTTL = Duration(getEnvDuration("MARKET_CACHE_TTL", time.Duration(c.CacheTTL)))
	c.CacheEntries = getEnvInt("MARKET_CACHE_ENTRIES", c.CacheEntries)

	c.LocaleLanguages = getEnvList("LOCALE_LANGUAGES", c.LocaleLanguages)
	c.LocaleMarketKeywords = getEnvList("LOCALE_MARKET_KEYWORDS", c.LocaleMarketKeywords)

	c.Port = getEnvInt("PORT", c.Port)
	c.ImportWorkers = getEnvInt("IMPORT_WORKERS", c.ImportWorkers)
	c.JSONLogs = getEnvBool("LOG_JSON", c.JSONLogs)
	c.Verbose = getEnvBool("VERBOSE", c.Verbose)
}

// Validate checks that the configuration has valid values.
// Connection URLs are not required here; each command checks the ones it uses.
func (c *Config) Validate() error {
	if c.JobCutoff < 0 || c.JobCutoff > 1 {
		return fmt.Errorf("config error: 'job_cutoff' must be between 0 and 1")
	}
	if c.LearningCutoff < 0 || c.LearningCutoff > 1 {
		return fmt.Errorf("config error: 'learning_cutoff' must be between 0 and 1")
	}

	for name, v := range map[string]int{
		"sample_size":     c.SampleSize,
		"critical_count":  c.CriticalCount,
		"candidate_limit": c.CandidateLimit,
		"result_limit":    c.ResultLimit,
		"max_limit":       c.MaxLimit,
		"workers":         c.Workers,
		"cache_entries":   c.CacheEntries,
		"import_workers":  c.ImportWorkers,
	} {
		if v < 0 {
			return fmt.Errorf("config error: '%s' must be non-negative", name)
		}
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("config error: 'cache_ttl' must be non-negative")
	}

	if c.MaxLimit > 0 && c.ResultLimit > c.MaxLimit {
		return fmt.Errorf("config error: 'result_limit' must not exceed 'max_limit'")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be a valid TCP port")
	}
	if c.S3Endpoint != "" && c.R2AccountID != "" {
		return fmt.Errorf("config error: 's3_endpoint' and 'r2_account_id' are mutually exclusive")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	mergeString(&result.DatabaseURL, defaults.DatabaseURL)
	mergeString(&result.RedisURL, defaults.RedisURL)
	mergeString(&result.AMQPURL, defaults.AMQPURL)
	mergeString(&result.S3Bucket, defaults.S3Bucket)
	mergeString(&result.S3Region, defaults.S3Region)
	mergeString(&result.S3Endpoint, defaults.S3Endpoint)
	mergeString(&result.R2AccountID, defaults.R2AccountID)
	mergeString(&result.S3AccessKey, defaults.S3AccessKey)
	mergeString(&result.S3SecretKey, defaults.S3SecretKey)

	// Numeric fields: use default if zero
	if result.JobCutoff == 0 {
		result.JobCutoff = defaults.JobCutoff
	}
	if result.LearningCutoff == 0 {
		result.LearningCutoff = defaults.LearningCutoff
	}
	mergeInt(&result.SampleSize, defaults.SampleSize)
	mergeInt(&result.CriticalCount, defaults.CriticalCount)
	mergeInt(&result.CandidateLimit, defaults.CandidateLimit)
	mergeInt(&result.ResultLimit, defaults.ResultLimit)
	mergeInt(&result.MaxLimit, defaults.MaxLimit)
	mergeInt(&result.Workers, defaults.Workers)
	mergeInt(&result.CacheEntries, defaults.CacheEntries)
	mergeInt(&result.Port, defaults.Port)
	mergeInt(&result.ImportWorkers, defaults.ImportWorkers)
	if result.CacheTTL == 0 {
		result.CacheTTL = defaults.CacheTTL
	}

	// Lists
	if len(result.LocaleLanguages) == 0 {
		result.LocaleLanguages = defaults.LocaleLanguages
	}
	if len(result.LocaleMarketKeywords) == 0 {
		result.LocaleMarketKeywords = defaults.LocaleMarketKeywords
	}

	// Bool fields: true wins
	result.JSONLogs = result.JSONLogs || defaults.JSONLogs
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}

func mergeString(field *string, def string) {
	if *field == "" {
		*field = def
	}
}

func mergeInt(field *int, def int) {
	if *field == 0 {
		*field = def
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList reads a comma-separated list, lowercased and trimmed
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
