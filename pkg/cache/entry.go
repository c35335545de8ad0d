package cache

import (
	"encoding/json"
	"time"
)

// Entry represents a cached value together with its lifetime.
// Entries are never mutated after being stored; updates replace the whole entry.
type Entry struct {
	// Value is the cached payload
	Value any `json:"value"`

	// CreatedAt is when the entry was stored
	CreatedAt time.Time `json:"created_at"`

	// Expires is when the entry becomes stale
	Expires time.Time `json:"expires"`
}

// newEntry creates an entry stored at now that lives for ttl.
func newEntry(value any, now time.Time, ttl time.Duration) *Entry {
	return &Entry{
		Value:     value,
		CreatedAt: now,
		Expires:   now.Add(ttl),
	}
}

// IsExpiredAt returns true if the entry has expired at the given instant.
// An entry is live while now < Expires.
func (e *Entry) IsExpiredAt(now time.Time) bool {
	return !now.Before(e.Expires)
}

// Age returns how long the entry has existed at the given instant.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt)
}

// TTL returns the lifetime the entry was stored with.
func (e *Entry) TTL() time.Duration {
	return e.Expires.Sub(e.CreatedAt)
}

// approximateSize estimates the entry size by serializing its value.
// Values that cannot be serialized report 0.
func approximateSize(value any) int {
	if raw, ok := value.([]byte); ok {
		return len(raw)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return 0
	}
	return len(data)
}
