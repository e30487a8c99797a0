// Package cache implements the ephemeral content cache.  Entries live
// for a fixed time-to-live and are evicted lazily when read after that.
// The cache is an optimization only: store failures are logged and
// reported to callers as a miss.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/iliyamo/hospitality-booking/internal/model"
)

// HeroSectionsKey is the cache key for the landing page hero carousel.
const HeroSectionsKey = "hero_sections_cache"

// DefaultTTL bounds how long content is served without refetching.
const DefaultTTL = 5 * time.Minute

// ErrMiss is returned by a Store when the key does not exist.
var ErrMiss = errors.New("cache miss")

// Store is a byte-oriented key/value backend.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Recorder observes lookups; metrics.Metrics satisfies it.
type Recorder interface {
	CacheLookup(hit bool)
}

// Options configures a ContentCache.  Zero values pick defaults.
type Options struct {
	TTL      time.Duration
	Prefix   string
	Clock    func() time.Time
	Logger   *slog.Logger
	Recorder Recorder
}

// ContentCache stores JSON payloads together with a content hash and
// the time they were written.
type ContentCache struct {
	store  Store
	ttl    time.Duration
	prefix string
	now    func() time.Time
	log    *slog.Logger
	rec    Recorder
}

// New wraps store.  The returned cache is owned by the caller and must
// be closed with Close when the application shuts down.
func New(store Store, opts Options) *ContentCache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &ContentCache{
		store:  store,
		ttl:    opts.TTL,
		prefix: opts.Prefix,
		now:    opts.Clock,
		log:    opts.Logger.With("component", "content-cache"),
		rec:    opts.Recorder,
	}
}

// TTL returns the configured time-to-live.
func (c *ContentCache) TTL() time.Duration { return c.ttl }

func (c *ContentCache) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

// Get returns the payload and hash stored under key.  Missing, corrupt
// or expired entries report ok=false; expired and corrupt entries are
// removed from the store.
func (c *ContentCache) Get(ctx context.Context, key string) (payload json.RawMessage, hash string, ok bool) {
	defer func() { c.record(ok) }()
	if c == nil || c.store == nil {
		return nil, "", false
	}
	full := c.key(key)
	bs, err := c.store.Get(ctx, full)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			c.log.Warn("cache read failed", "key", full, "err", err)
		}
		return nil, "", false
	}
	var e model.CacheEntry
	if err := json.Unmarshal(bs, &e); err != nil {
		c.log.Warn("discarding corrupt cache entry", "key", full, "err", err)
		c.evict(ctx, full)
		return nil, "", false
	}
	if !e.Fresh(c.now(), c.ttl) {
		c.evict(ctx, full)
		return nil, "", false
	}
	return e.Payload, e.Hash, true
}

// GetInto decodes a cached payload into v.
func (c *ContentCache) GetInto(ctx context.Context, key string, v any) (hash string, ok bool) {
	payload, hash, ok := c.Get(ctx, key)
	if !ok {
		return "", false
	}
	if err := json.Unmarshal(payload, v); err != nil {
		c.log.Warn("cached payload does not decode", "key", key, "err", err)
		return "", false
	}
	return hash, true
}

// Put overwrites the entry for key, stamping the current time.
func (c *ContentCache) Put(ctx context.Context, key string, payload any, hash string) {
	if c == nil || c.store == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		c.log.Warn("cache payload does not encode", "key", key, "err", err)
		return
	}
	bs, err := json.Marshal(model.CacheEntry{Payload: data, Timestamp: c.now().UnixMilli(), Hash: hash})
	if err != nil {
		c.log.Warn("cache entry does not encode", "key", key, "err", err)
		return
	}
	full := c.key(key)
	if err := c.store.Set(ctx, full, bs, c.ttl); err != nil {
		c.log.Warn("cache write failed", "key", full, "err", err)
	}
}

// Delete removes key.
func (c *ContentCache) Delete(ctx context.Context, key string) {
	if c == nil || c.store == nil {
		return
	}
	c.evict(ctx, c.key(key))
}

// Close releases the backing store when it holds resources.
func (c *ContentCache) Close() error {
	if c == nil {
		return nil
	}
	if cl, ok := c.store.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}

func (c *ContentCache) evict(ctx context.Context, full string) {
	if err := c.store.Delete(ctx, full); err != nil && !errors.Is(err, ErrMiss) {
		c.log.Warn("cache delete failed", "key", full, "err", err)
	}
}

func (c *ContentCache) record(hit bool) {
	if c != nil && c.rec != nil {
		c.rec.CacheLookup(hit)
	}
}

// Fingerprint is the stable subset of a content record that decides
// whether the content changed.
type Fingerprint struct {
	ID       string
	Title    string
	MediaURL string
}

// Hash is a deterministic digest of the fingerprints in order.
func Hash(fps []Fingerprint) string {
	var b strings.Builder
	for _, fp := range fps {
		fmt.Fprintf(&b, "%s\x1f%s\x1f%s\x1e", fp.ID, fp.Title, fp.MediaURL)
	}
	sum := sha1.Sum([]byte(b.String()))
	return fmt.Sprintf("%x", sum[:])
}
