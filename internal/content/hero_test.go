package content

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

	"github.com/iliyamo/hospitality-booking/internal/cache"
)

type stubFetcher struct {
	mu    sync.Mutex
	body  string
	err   error
	calls int
	paths []string
}

func (s *stubFetcher) Get(_ context.Context, path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.paths = append(s.paths, path)
	if s.err != nil {
		return nil, s.err
	}
	return []byte(s.body), nil
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

const heroBody = `{"data": [
	{"id": 2, "title": "Spa", "mediaUrl": "https://cdn/spa.jpg", "displayOrder": 2, "active": true},
	{"id": 1, "title": "Lobby", "imageUrl": "https://cdn/lobby.jpg", "displayOrder": 1, "active": true},
	{"id": 3, "title": "Old", "mediaUrl": "https://cdn/old.jpg", "displayOrder": 0, "active": false}
]}`

func newLoader(f Fetcher) (*Loader, *clock) {
	clk := &clock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := cache.New(cache.NewMemoryStore(10), cache.Options{Clock: clk.Now, Logger: log})
	return NewLoader(f, c, log), clk
}

func TestParseHeroSectionsFiltersAndSorts(t *testing.T) {
	got := ParseHeroSections([]byte(heroBody))
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "https://cdn/lobby.jpg", got[0].MediaURL)
	assert.Equal(t, "2", got[1].ID)
}

func TestParseHeroSectionsEnvelopes(t *testing.T) {
	items := `[{"id": "a", "title": "A", "displayOrder": 1}]`
	for name, body := range map[string]string{
		"bare":      items,
		"wrapped":   `{"data": ` + items + `}`,
		"paginated": `{"content": ` + items + `, "totalElements": 1}`,
	} {
		t.Run(name, func(t *testing.T) {
			got := ParseHeroSections([]byte(body))
			require.Len(t, got, 1)
			assert.Equal(t, "a", got[0].ID)
		})
	}
	assert.Empty(t, ParseHeroSections([]byte(`{"oops": 1}`)))
}

func TestHeroServedFromCacheWithinTTL(t *testing.T) {
	f := &stubFetcher{body: heroBody}
	l, clk := newLoader(f)
	ctx := context.Background()

	first, err := l.Hero(ctx)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.True(t, first.Changed)
	assert.Equal(t, []string{HeroSectionsPath}, f.paths)

	clk.now = clk.now.Add(4 * time.Minute)
	second, err := l.Hero(ctx)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.False(t, second.Changed)
	assert.Equal(t, first.Sections, second.Sections)
	assert.Equal(t, 1, f.calls)
}

func TestHeroRefetchedAfterTTL(t *testing.T) {
	f := &stubFetcher{body: heroBody}
	l, clk := newLoader(f)
	ctx := context.Background()

	first, err := l.Hero(ctx)
	require.NoError(t, err)

	clk.now = clk.now.Add(6 * time.Minute)
	again, err := l.Hero(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, f.calls)
	assert.False(t, again.Cached)
	assert.False(t, again.Changed, "same content hashes the same")
	assert.Equal(t, first.Hash, again.Hash)

	f.body = `[{"id": 9, "title": "New", "mediaUrl": "https://cdn/new.jpg"}]`
	clk.now = clk.now.Add(6 * time.Minute)
	changed, err := l.Hero(ctx)
	require.NoError(t, err)
	assert.True(t, changed.Changed)
	assert.NotEqual(t, first.Hash, changed.Hash)
}

func TestHeroFetchFailureIsNotMaskedByStaleCopy(t *testing.T) {
	f := &stubFetcher{body: heroBody}
	l, clk := newLoader(f)
	ctx := context.Background()
	_, err := l.Hero(ctx)
	require.NoError(t, err)

	f.err = errors.New("503")
	clk.now = clk.now.Add(6 * time.Minute)
	_, err = l.Hero(ctx)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestClearForcesRefetch(t *testing.T) {
	f := &stubFetcher{body: heroBody}
	l, _ := newLoader(f)
	ctx := context.Background()
	_, err := l.Hero(ctx)
	require.NoError(t, err)

	l.Clear(ctx)
	_, err = l.Hero(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, f.calls)
}
