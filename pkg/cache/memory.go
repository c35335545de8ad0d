package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const backendMemory = "memory"

// Manager is the in-memory TTL cache.
// It is safe for concurrent use. Entries are replaced as whole units, so readers
// never observe a partially updated entry.
type Manager struct {
	mu         sync.RWMutex
	entries    map[string]*Entry
	clock      Clock
	defaultTTL time.Duration
	logger     zerolog.Logger
}

// NewManager creates a new in-memory cache manager.
func NewManager(opts ...Option) *Manager {
	o := newOptions(backendMemory, opts)
	return &Manager{
		entries:    make(map[string]*Entry),
		clock:      o.clock,
		defaultTTL: o.defaultTTL,
		logger:     *o.logger,
	}
}

// Get retrieves a value by key.
// Returns ErrCacheMiss if the key doesn't exist or the entry is expired.
// Expired entries are removed as a side effect.
func (m *Manager) Get(_ context.Context, key string) (any, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		CacheMisses.WithLabelValues(backendMemory).Inc()
		m.logger.Debug().Str("key", key).Msg("Cache miss")
		return nil, ErrCacheMiss
	}

	if entry.IsExpiredAt(m.clock.Now()) {
		m.mu.Lock()
		// Only evict the entry we inspected; a concurrent Set may have replaced it.
		if current, ok := m.entries[key]; ok && current == entry {
			delete(m.entries, key)
			CacheExpirations.WithLabelValues(backendMemory, "read").Inc()
		}
		CacheEntries.WithLabelValues(backendMemory).Set(float64(len(m.entries)))
		m.mu.Unlock()

		CacheMisses.WithLabelValues(backendMemory).Inc()
		m.logger.Debug().Str("key", key).Msg("Cache entry expired, evicted")
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues(backendMemory).Inc()
	m.logger.Debug().Str("key", key).Msg("Cache hit")
	return entry.Value, nil
}

// Set stores a value, replacing any existing entry.
// A non-positive ttl falls back to the manager's default TTL.
func (m *Manager) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	ttl = normalizeTTL(ttl, m.defaultTTL)
	entry := newEntry(value, m.clock.Now(), ttl)

	m.mu.Lock()
	m.entries[key] = entry
	CacheEntries.WithLabelValues(backendMemory).Set(float64(len(m.entries)))
	m.mu.Unlock()

	m.logger.Debug().Str("key", key).Dur("ttl", ttl).Msg("Cached value")
	return nil
}

// Delete removes an entry and reports whether it existed.
func (m *Manager) Delete(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	_, existed := m.entries[key]
	delete(m.entries, key)
	CacheEntries.WithLabelValues(backendMemory).Set(float64(len(m.entries)))
	m.mu.Unlock()

	if existed {
		m.logger.Debug().Str("key", key).Msg("Cache entry deleted")
	}
	return existed, nil
}

// Clear removes all entries and returns how many were removed.
func (m *Manager) Clear(_ context.Context) (int, error) {
	m.mu.Lock()
	removed := len(m.entries)
	m.entries = make(map[string]*Entry)
	CacheEntries.WithLabelValues(backendMemory).Set(0)
	m.mu.Unlock()

	m.logger.Info().Int("removed", removed).Msg("Cache cleared")
	return removed, nil
}

// SweepExpired evicts every entry whose expiry has passed and returns the count.
// Entries that are still live are untouched.
func (m *Manager) SweepExpired(_ context.Context) (int, error) {
	now := m.clock.Now()

	m.mu.Lock()
	removed := 0
	for key, entry := range m.entries {
		if entry.IsExpiredAt(now) {
			delete(m.entries, key)
			removed++
		}
	}
	CacheEntries.WithLabelValues(backendMemory).Set(float64(len(m.entries)))
	m.mu.Unlock()

	CacheSweeps.Inc()
	if removed > 0 {
		CacheExpirations.WithLabelValues(backendMemory, "sweep").Add(float64(removed))
		m.logger.Info().Int("removed", removed).Msg("Expired cache entries swept")
	}
	return removed, nil
}

// Stats returns a description of every entry, sorted by key.
// Sizes are estimated by serializing the stored values.
func (m *Manager) Stats(_ context.Context) (*Stats, error) {
	now := m.clock.Now()

	m.mu.RLock()
	snapshot := make(map[string]*Entry, len(m.entries))
	for key, entry := range m.entries {
		snapshot[key] = entry
	}
	m.mu.RUnlock()

	stats := &Stats{
		TotalEntries: len(snapshot),
		Entries:      make([]EntryStats, 0, len(snapshot)),
	}
	for key, entry := range snapshot {
		stats.Entries = append(stats.Entries, entryStats(key, entry, approximateSize(entry.Value), now))
	}
	sort.Slice(stats.Entries, func(i, j int) bool {
		return stats.Entries[i].Key < stats.Entries[j].Key
	})

	return stats, nil
}

// Len returns the number of stored entries, expired or not.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
