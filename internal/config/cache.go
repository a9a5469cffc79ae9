package config

import "time"

// CacheConfig tunes the Redis cache in front of object reads.
//
// Entries are keyed by path (plus the query when KeyStrategy is
// "route_query") and the requester's clearance level, so a level-3 body is
// never served to a guest.  Successful object writes drop every entry under
// Prefix unless PurgeOnWrite is off, in which case entries only expire.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	KeyStrategy  string // "route" or "route_query"
	Prefix       string
	MaxBodyBytes int  // larger bodies are served but not stored
	PurgeOnWrite bool
}

const (
	defaultCacheTTL     = 30 * time.Second
	defaultCacheMaxBody = 1 << 20
)

// LoadCacheConfig reads CACHE_* variables.
func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", defaultCacheTTL),
		KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       envStr("CACHE_PREFIX", "es:cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", defaultCacheMaxBody),
		PurgeOnWrite: envBool("CACHE_PURGE_ON_WRITE", true),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultCacheTTL
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultCacheMaxBody
	}
	if cfg.KeyStrategy != "route" {
		cfg.KeyStrategy = "route_query"
	}
	return cfg
}
