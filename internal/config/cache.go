package config

import (
	"os"
	"time"
)

// CacheConfig defines settings for the availability cache.  When Enabled
// is false or no Redis client is configured, caching will be disabled and
// every availability check goes to the database.  TTL defines the lifetime
// of cache entries; Prefix namespaces the keys so multiple deployments can
// share one Redis instance.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: getenv("CACHE_ENABLED", "true") == "true",
		TTL:     parseDur(getenv("CACHE_TTL", "30s")),
		Prefix:  getenv("CACHE_PREFIX", "avail"),
	}
}

// Helper functions shared with redis.go
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Second
	}
	return d
}
