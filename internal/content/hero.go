// Package content loads the landing page hero carousel from the content
// API and keeps it in the content cache.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/iliyamo/hospitality-booking/internal/cache"
	"github.com/iliyamo/hospitality-booking/internal/model"
	"github.com/iliyamo/hospitality-booking/internal/normalize"
)

// HeroSectionsPath is requested relative to the content API base URL.
const HeroSectionsPath = "/api/hero-sections"

// ErrUpstream wraps every failure to fetch content.
var ErrUpstream = errors.New("content api unavailable")

// Fetcher performs a GET under the content API; *roomapi.Client
// implements it.
type Fetcher interface {
	Get(ctx context.Context, path string) ([]byte, error)
}

// HeroResult is what Loader.Hero returns.  Changed is false when the
// sections hash the same as the last set this loader handed out.
type HeroResult struct {
	Sections []model.HeroSection `json:"sections"`
	Hash     string              `json:"hash"`
	Cached   bool                `json:"cached"`
	Changed  bool                `json:"changed"`
}

type Loader struct {
	fetch Fetcher
	cache *cache.ContentCache
	log   *slog.Logger

	mu   sync.Mutex
	last string
}

func NewLoader(f Fetcher, c *cache.ContentCache, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{fetch: f, cache: c, log: log.With("component", "content")}
}

// Hero returns the active hero sections ordered by display order.  A
// fresh cache entry is served without contacting the API.  An expired
// entry is never served, even when the refetch fails.
func (l *Loader) Hero(ctx context.Context) (HeroResult, error) {
	var cached []model.HeroSection
	if hash, ok := l.cache.GetInto(ctx, cache.HeroSectionsKey, &cached); ok {
		return HeroResult{Sections: cached, Hash: hash, Cached: true, Changed: l.remember(hash)}, nil
	}

	body, err := l.fetch.Get(ctx, HeroSectionsPath)
	if err != nil {
		l.log.Warn("hero sections fetch failed", "err", err)
		return HeroResult{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	sections := ParseHeroSections(body)
	hash := HashSections(sections)
	changed := l.remember(hash)
	if changed {
		l.log.Info("hero sections updated", "count", len(sections), "hash", hash)
	}
	l.cache.Put(ctx, cache.HeroSectionsKey, sections, hash)
	return HeroResult{Sections: sections, Hash: hash, Changed: changed}, nil
}

// Clear drops the cached hero sections.
func (l *Loader) Clear(ctx context.Context) {
	l.cache.Delete(ctx, cache.HeroSectionsKey)
}

func (l *Loader) remember(hash string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if hash == l.last {
		return false
	}
	l.last = hash
	return true
}

// HashSections fingerprints sections by id, title and media URL.
func HashSections(sections []model.HeroSection) string {
	fps := make([]cache.Fingerprint, len(sections))
	for i, s := range sections {
		fps[i] = cache.Fingerprint{ID: s.ID, Title: s.Title, MediaURL: s.MediaURL}
	}
	return cache.Hash(fps)
}

type rawHero struct {
	ID           normalize.FlexString `json:"id"`
	Title        string               `json:"title"`
	Subtitle     string               `json:"subtitle"`
	MediaURL     string               `json:"mediaUrl"`
	ImageURL     string               `json:"imageUrl"`
	MediaType    string               `json:"mediaType"`
	CTAText      string               `json:"ctaText"`
	CTALink      string               `json:"ctaLink"`
	DisplayOrder int                  `json:"displayOrder"`
	Active       *bool                `json:"active"`
	IsActive     *bool                `json:"isActive"`
}

func (r rawHero) active() bool {
	if r.Active != nil {
		return *r.Active
	}
	if r.IsActive != nil {
		return *r.IsActive
	}
	return true
}

// ParseHeroSections accepts the same envelopes as room search results
// and keeps active sections sorted by display order.  Elements that do
// not decode are skipped.
func ParseHeroSections(body []byte) []model.HeroSection {
	env := normalize.Resolve(body)
	out := make([]model.HeroSection, 0, len(env.Units))
	for _, el := range env.Units {
		var r rawHero
		if err := json.Unmarshal(el, &r); err != nil || !r.active() {
			continue
		}
		media := r.MediaURL
		if media == "" {
			media = r.ImageURL
		}
		out = append(out, model.HeroSection{
			ID:           string(r.ID),
			Title:        r.Title,
			Subtitle:     r.Subtitle,
			MediaURL:     media,
			MediaType:    r.MediaType,
			CTAText:      r.CTAText,
			CTALink:      r.CTALink,
			DisplayOrder: r.DisplayOrder,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out
}
