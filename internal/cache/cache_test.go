package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

type countingRecorder struct{ hits, misses int }

func (r *countingRecorder) CacheLookup(hit bool) {
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}

// brokenStore fails every call.
type brokenStore struct{}

var errDown = errors.New("store unavailable")

func (brokenStore) Get(context.Context, string) ([]byte, error)                  { return nil, errDown }
func (brokenStore) Set(context.Context, string, []byte, time.Duration) error    { return errDown }
func (brokenStore) Delete(context.Context, string) error                        { return errDown }

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newTestCache(t *testing.T, store Store) (*ContentCache, *fakeClock, *countingRecorder) {
	t.Helper()
	clk := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	rec := &countingRecorder{}
	c := New(store, Options{Clock: clk.Now, Logger: quietLogger(), Recorder: rec, Prefix: "test"})
	t.Cleanup(func() { _ = c.Close() })
	return c, clk, rec
}

func TestGetAfterPut(t *testing.T) {
	c, clk, rec := newTestCache(t, NewMemoryStore(10))
	ctx := context.Background()

	c.Put(ctx, HeroSectionsKey, []string{"a", "b"}, "h1")
	clk.Advance(time.Second)

	var got []string
	hash, ok := c.GetInto(ctx, HeroSectionsKey, &got)
	require.True(t, ok)
	assert.Equal(t, "h1", hash)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, rec.hits)
}

func TestEntryExpiresAfterTTL(t *testing.T) {
	store := NewMemoryStore(10)
	c, clk, rec := newTestCache(t, store)
	ctx := context.Background()

	c.Put(ctx, HeroSectionsKey, "payload", "h")
	clk.Advance(5*time.Minute + time.Second)

	_, _, ok := c.Get(ctx, HeroSectionsKey)
	assert.False(t, ok)
	assert.Equal(t, 1, rec.misses)

	// evicted on read
	_, err := store.Get(ctx, "test:"+HeroSectionsKey)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestEntryExpiresExactlyAtTTL(t *testing.T) {
	c, clk, _ := newTestCache(t, NewMemoryStore(10))
	ctx := context.Background()
	c.Put(ctx, "k", 1, "")
	clk.Advance(DefaultTTL)
	_, _, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestPutOverwrites(t *testing.T) {
	c, clk, _ := newTestCache(t, NewMemoryStore(10))
	ctx := context.Background()

	c.Put(ctx, "k", "old", "h1")
	clk.Advance(4 * time.Minute)
	c.Put(ctx, "k", "new", "h2")
	clk.Advance(2 * time.Minute)

	payload, hash, ok := c.Get(ctx, "k")
	require.True(t, ok, "second write restarts the ttl")
	assert.JSONEq(t, `"new"`, string(payload))
	assert.Equal(t, "h2", hash)
}

func TestMissingKey(t *testing.T) {
	c, _, rec := newTestCache(t, NewMemoryStore(10))
	_, _, ok := c.Get(context.Background(), "nope")
	assert.False(t, ok)
	assert.Equal(t, 1, rec.misses)
}

func TestStoreFailuresAreMisses(t *testing.T) {
	c, _, rec := newTestCache(t, brokenStore{})
	ctx := context.Background()

	assert.NotPanics(t, func() { c.Put(ctx, "k", "v", "h") })
	_, _, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.NotPanics(t, func() { c.Delete(ctx, "k") })
	assert.Equal(t, 1, rec.misses)
}

func TestCorruptEntryIsEvicted(t *testing.T) {
	store := NewMemoryStore(10)
	c, _, _ := newTestCache(t, store)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "test:k", []byte("{not json"), time.Minute))
	_, _, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	_, err := store.Get(ctx, "test:k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestNilCacheIsSafe(t *testing.T) {
	var c *ContentCache
	_, _, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
	c.Put(context.Background(), "k", "v", "")
	assert.NoError(t, c.Close())
}

func TestHashDeterministicAndSensitive(t *testing.T) {
	a := []Fingerprint{{ID: "1", Title: "Beach", MediaURL: "https://cdn/x.jpg"}, {ID: "2", Title: "Bar"}}
	b := []Fingerprint{{ID: "1", Title: "Beach", MediaURL: "https://cdn/x.jpg"}, {ID: "2", Title: "Bar"}}
	assert.Equal(t, Hash(a), Hash(b))

	b[1].Title = "Bars"
	assert.NotEqual(t, Hash(a), Hash(b))

	swapped := []Fingerprint{a[1], a[0]}
	assert.NotEqual(t, Hash(a), Hash(swapped))

	// field boundaries matter
	assert.NotEqual(t,
		Hash([]Fingerprint{{ID: "1", Title: "2"}}),
		Hash([]Fingerprint{{ID: "12", Title: ""}}))
}

func TestPrefixedKeys(t *testing.T) {
	store := NewMemoryStore(10)
	c, _, _ := newTestCache(t, store)
	c.Put(context.Background(), "k", 1, "")
	_, err := store.Get(context.Background(), "test:k")
	assert.NoError(t, err)
}
