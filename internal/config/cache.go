package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ContentCacheConfig defines settings for the ephemeral content cache.
// Backend selects where entries live: "memory" (in process), "redis" or
// "memcached".  TTL is the hard freshness bound of an entry.  ClearOnStart
// wipes cached content when the service boots; it is meant for local
// development where content is edited while the service runs.
type ContentCacheConfig struct {
	Backend          string
	TTL              time.Duration
	Prefix           string
	MaxEntries       int64
	MemcachedServers []string
	ClearOnStart     bool
}

// LoadContentCacheConfig reads environment variables to build a
// ContentCacheConfig.  Defaults are used when variables are not set.
func LoadContentCacheConfig() ContentCacheConfig {
	return ContentCacheConfig{
		Backend:          strings.ToLower(getenv("CONTENT_CACHE_BACKEND", "memory")),
		TTL:              parseDur(getenv("CONTENT_CACHE_TTL", "5m")),
		Prefix:           getenv("CONTENT_CACHE_PREFIX", "content"),
		MaxEntries:       int64(atoi(getenv("CONTENT_CACHE_MAX_ENTRIES", "1000"))),
		MemcachedServers: parseList(getenv("MEMCACHED_SERVERS", "localhost:11211")),
		ClearOnStart:     getenv("CONTENT_CACHE_CLEAR_ON_START", "false") == "true",
	}
}

func parseList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Helper functions reused from redis.go and ratelimit.go
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}
