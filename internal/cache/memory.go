package cache

import (
	"context"
	"time"

	"github.com/karlseguin/ccache/v3"
)

// MemoryStore keeps entries in process using ccache.
type MemoryStore struct {
	c *ccache.Cache[[]byte]
}

// NewMemoryStore returns an in-process store holding at most maxSize entries.
func NewMemoryStore(maxSize int64) *MemoryStore {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &MemoryStore{c: ccache.New(ccache.Configure[[]byte]().MaxSize(maxSize))}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	item := s.c.Get(key)
	if item == nil || item.Expired() {
		return nil, ErrMiss
	}
	return item.Value(), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	s.c.Set(key, val, ttl)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.c.Delete(key)
	return nil
}

// Close stops the ccache worker goroutine.
func (s *MemoryStore) Close() error {
	s.c.Stop()
	return nil
}
