package cache

import (
	"context"
	"errors"
	"time"
)

const (
	// DefaultTTL is the lifetime applied when Set is called without a positive TTL.
	DefaultTTL = 3 * time.Hour

	// DefaultSweepInterval is how often the janitor evicts expired entries.
	DefaultSweepInterval = 30 * time.Minute
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache or has expired
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the stored entry could not be decoded
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Store is the contract shared by the in-memory and Redis cache backends.
//
// Get returns ErrCacheMiss for absent or expired keys; an expired key is evicted
// as a side effect of the read. Backends that serialize values (Redis) return the
// encoded payload as []byte; the in-memory backend returns the stored value as is.
type Store interface {
	Get(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context) (int, error)
	SweepExpired(ctx context.Context) (int, error)
	Stats(ctx context.Context) (*Stats, error)
}

// Stats describes the current content of a cache.
type Stats struct {
	TotalEntries int          `json:"totalEntries"`
	Entries      []EntryStats `json:"entries"`
}

// EntryStats describes one cached entry.
type EntryStats struct {
	Key          string `json:"key"`
	IsExpired    bool   `json:"isExpired"`
	AgeSeconds   int64  `json:"ageSeconds"`
	TTLSeconds   int64  `json:"ttlSeconds"`
	SizeEstimate int    `json:"sizeEstimate"`
}

// Clock supplies the current time to the cache.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// entryStats builds the stats line for one entry.
func entryStats(key string, entry *Entry, size int, now time.Time) EntryStats {
	return EntryStats{
		Key:          key,
		IsExpired:    entry.IsExpiredAt(now),
		AgeSeconds:   int64(entry.Age(now) / time.Second),
		TTLSeconds:   int64(entry.TTL() / time.Second),
		SizeEstimate: size,
	}
}

// normalizeTTL applies the fallback TTL for non-positive values.
func normalizeTTL(ttl, fallback time.Duration) time.Duration {
	if ttl > 0 {
		return ttl
	}
	if fallback > 0 {
		return fallback
	}
	return DefaultTTL
}
