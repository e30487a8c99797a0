package model

import (
	"encoding/json"
	"time"
)

// CacheEntry is the value stored by the content cache.  The JSON form
// is {data, timestamp, hash} with timestamp in Unix milliseconds.
type CacheEntry struct {
	Payload   json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
	Hash      string          `json:"hash"`
}

// StoredAt returns the entry timestamp as a time.Time.
func (e CacheEntry) StoredAt() time.Time { return time.UnixMilli(e.Timestamp) }

// Fresh reports whether the entry is still inside its time-to-live.
func (e CacheEntry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.StoredAt()) < ttl
}
