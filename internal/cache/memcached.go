package cache

import (
	"context"
	"errors"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// MemcachedStore keeps entries in memcached.  Memcached has no context
// support; ctx is accepted for interface parity only.
type MemcachedStore struct {
	mc *memcache.Client
}

func NewMemcachedStore(servers ...string) *MemcachedStore {
	return &MemcachedStore{mc: memcache.New(servers...)}
}

func (s *MemcachedStore) Get(_ context.Context, key string) ([]byte, error) {
	it, err := s.mc.Get(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return it.Value, nil
}

func (s *MemcachedStore) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	secs := int32(ttl / time.Second)
	if secs < 1 {
		secs = 1
	}
	return s.mc.Set(&memcache.Item{Key: key, Value: val, Expiration: secs})
}

func (s *MemcachedStore) Delete(_ context.Context, key string) error {
	err := s.mc.Delete(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil
	}
	return err
}
