package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))
	return tmpFile
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, `{
		"database_url": "postgres://localhost/careers",
		"job_cutoff": 0.3,
		"sample_size": 50,
		"cache_ttl": "5m",
		"locale_languages": ["english", "french"],
		"verbose": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "postgres://localhost/careers", cfg.DatabaseURL)
	assert.Equal(t, 0.3, cfg.JobCutoff)
	assert.Equal(t, 50, cfg.SampleSize)
	assert.Equal(t, Duration(5*time.Minute), cfg.CacheTTL)
	assert.Equal(t, []string{"english", "french"}, cfg.LocaleLanguages)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `{ invalid json }`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Duration
		wantErr bool
	}{
		{"string", `"90s"`, Duration(90 * time.Second), false},
		{"seconds", `120`, Duration(2 * time.Minute), false},
		{"bad string", `"soon"`, 0, true},
		{"bad type", `true`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"cutoff above one", func(c *Config) { c.JobCutoff = 1.5 }, "job_cutoff"},
		{"negative learning cutoff", func(c *Config) { c.LearningCutoff = -0.1 }, "learning_cutoff"},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "workers"},
		{"result limit over max", func(c *Config) { c.ResultLimit = 500 }, "result_limit"},
		{"bad port", func(c *Config) { c.Port = 70000 }, "port"},
		{"endpoint and r2", func(c *Config) {
			c.S3Endpoint = "http://localhost:9000"
			c.R2AccountID = "abc"
		}, "mutually exclusive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{
		DatabaseURL: "postgres://file",
		JobCutoff:   0.4,
		Workers:     2,
	}
	defaults := Default()
	defaults.DatabaseURL = "postgres://default"
	defaults.LocaleLanguages = []string{"english"}

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "postgres://file", merged.DatabaseURL)
	assert.Equal(t, 0.4, merged.JobCutoff)
	assert.Equal(t, 2, merged.Workers)
	assert.Equal(t, DefaultLearningCutoff, merged.LearningCutoff)
	assert.Equal(t, DefaultSampleSize, merged.SampleSize)
	assert.Equal(t, Duration(DefaultCacheTTL), merged.CacheTTL)
	assert.Equal(t, []string{"english"}, merged.LocaleLanguages)
	// Original is untouched.
	assert.Equal(t, 0, cfg.SampleSize)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://file", Verbose: true}
	merged := cfg.MergeWithDefaults(Config{})
	assert.Equal(t, "postgres://file", merged.DatabaseURL)
	assert.True(t, merged.Verbose)
	assert.Equal(t, 0, merged.Workers)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("JOB_CUTOFF", "0.35")
	t.Setenv("SCORING_WORKERS", "4")
	t.Setenv("MARKET_CACHE_TTL", "30s")
	t.Setenv("LOCALE_LANGUAGES", " English, Kinyarwanda ,,")
	t.Setenv("LOG_JSON", "true")
	t.Setenv("CANDIDATE_LIMIT", "not-a-number")

	cfg := &Config{DatabaseURL: "postgres://file", CandidateLimit: 150}
	cfg.ApplyEnv()

	assert.Equal(t, "postgres://env", cfg.DatabaseURL)
	assert.Equal(t, 0.35, cfg.JobCutoff)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, Duration(30*time.Second), cfg.CacheTTL)
	assert.Equal(t, []string{"english", "kinyarwanda"}, cfg.LocaleLanguages)
	assert.True(t, cfg.JSONLogs)
	assert.Equal(t, 150, cfg.CandidateLimit, "unparseable values keep the current value")
}

func TestLoad_FileEnvAndDefaults(t *testing.T) {
	path := writeConfig(t, `{"sample_size": 40, "locale_market_keywords": ["kigali"]}`)
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.SampleSize)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, DefaultJobCutoff, cfg.JobCutoff)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, []string{"kigali"}, cfg.Locale().MarketKeywords)
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeConfig(t, `{"learning_cutoff": 2}`)
	_, err := Load(path)
	assert.Error(t, err)
}
