package ratelimit

import (
	"testing"
	"time"
)

func TestLoadConfig_Fallbacks(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "lots")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "")

	cfg := LoadConfig()
	if !cfg.Enabled {
		t.Fatal("Expected rate limiting to be enabled by default")
	}
	if cfg.DefaultLimit != fallbackLimit {
		t.Errorf("Expected fallback limit %d for malformed value, got %d", fallbackLimit, cfg.DefaultLimit)
	}
	if cfg.DefaultWindow != time.Minute {
		t.Errorf("Expected one minute window, got %v", cfg.DefaultWindow)
	}
	if len(cfg.EndpointConfigs) != len(DefaultEndpointConfigs()) {
		t.Errorf("Expected default endpoint configs, got %d", len(cfg.EndpointConfigs))
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "50")
	t.Setenv("RATE_LIMIT_IDLE_TIMEOUT", "10m")
	t.Setenv("RATE_LIMIT_WHITELIST", " 10.0.0.1, ,10.0.0.2")
	t.Setenv("RATE_LIMIT_BLACKLIST", "")

	cfg := LoadConfig()
	if cfg.DefaultLimit != 50 {
		t.Errorf("Expected limit 50, got %d", cfg.DefaultLimit)
	}
	if cfg.IdleTimeout != 10*time.Minute {
		t.Errorf("Expected idle timeout 10m, got %v", cfg.IdleTimeout)
	}
	if len(cfg.Whitelist) != 2 || !cfg.Whitelist["10.0.0.1"] || !cfg.Whitelist["10.0.0.2"] {
		t.Errorf("Unexpected whitelist %v", cfg.Whitelist)
	}
	if cfg.Blacklist == nil || len(cfg.Blacklist) != 0 {
		t.Errorf("Expected empty blacklist, got %v", cfg.Blacklist)
	}
}

func TestLoadConfig_Disabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "50")

	cfg := LoadConfig()
	if cfg.Enabled || cfg.DefaultLimit != 0 {
		t.Errorf("Expected an empty disabled config, got %+v", cfg)
	}
}
