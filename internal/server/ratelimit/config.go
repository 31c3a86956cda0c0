package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig overrides the default limit for one method and path.
// Path is an exact path, a "{param}" pattern, or a prefix ending in "/".
// Burst falls back to Limit when zero.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// Fallbacks applied when the RATE_LIMIT_* variables are unset or malformed
const (
	fallbackLimit           = 1000
	fallbackWindow          = time.Minute
	fallbackCleanupInterval = 5 * time.Minute
	fallbackIdleTimeout     = time.Hour
)

// LoadConfig reads RATE_LIMIT_* variables. Malformed values keep the fallback.
func LoadConfig() *Config {
	if !envOr("RATE_LIMIT_ENABLED", true, strconv.ParseBool) {
		return &Config{}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    envOr("RATE_LIMIT_DEFAULT_LIMIT", fallbackLimit, strconv.Atoi),
		DefaultWindow:   envOr("RATE_LIMIT_DEFAULT_WINDOW", fallbackWindow, time.ParseDuration),
		CleanupInterval: envOr("RATE_LIMIT_CLEANUP_INTERVAL", fallbackCleanupInterval, time.ParseDuration),
		IdleTimeout:     envOr("RATE_LIMIT_IDLE_TIMEOUT", fallbackIdleTimeout, time.ParseDuration),
		Whitelist:       addressSet(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       addressSet(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs lists the stricter per-route limits. Routes not listed
// use the default limit and GET /health is never limited.
func DefaultEndpointConfigs() []EndpointConfig {
	upload := EndpointConfig{Method: "POST", Limit: 30, Window: time.Minute, Burst: 5}
	parse, importCV := upload, upload
	parse.Path = "/cv/parse"
	importCV.Path = "/users/{id}/cv"

	return []EndpointConfig{
		{Path: "/market/invalidate", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
		parse,
		importCV,
	}
}

func envOr[T any](key string, fallback T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	v, err := parse(raw)
	if err != nil {
		return fallback
	}
	return v
}

// addressSet splits a comma-separated address list
func addressSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, addr := range strings.FieldsFunc(list, func(r rune) bool { return r == ',' }) {
		if addr = strings.TrimSpace(addr); addr != "" {
			set[addr] = true
		}
	}
	return set
}
