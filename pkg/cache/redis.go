package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	backendRedis = "redis"

	// scanCount is the COUNT hint for SCAN iterations.
	scanCount = 100
)

// evictScript deletes KEYS[1] only while it still holds ARGV[1], so an entry
// written after the expired one was read survives the eviction.
var evictScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// redisEnvelope is the stored representation of an entry in Redis.
type redisEnvelope struct {
	Value     json.RawMessage `json:"value"`
	CreatedAt time.Time       `json:"created_at"`
	Expires   time.Time       `json:"expires"`
}

func (e *redisEnvelope) entry() *Entry {
	return &Entry{Value: []byte(e.Value), CreatedAt: e.CreatedAt, Expires: e.Expires}
}

// RedisStore is the Redis-backed TTL cache.
// Values are stored as JSON; Get returns the encoded value as []byte.
// Keys carry a Redis TTL as well, so Redis drops them even if nothing reads them.
type RedisStore struct {
	redis      *redis.Client
	clock      Clock
	defaultTTL time.Duration
	namespace  Namespace
	logger     zerolog.Logger
}

// NewRedisStore creates a new cache store with Redis backend.
func NewRedisStore(redisClient *redis.Client, opts ...Option) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	o := newOptions(backendRedis, opts)
	return &RedisStore{
		redis:      redisClient,
		clock:      o.clock,
		defaultTTL: o.defaultTTL,
		namespace:  o.namespace,
		logger:     *o.logger,
	}
}

// Get retrieves the encoded value for a key.
// Returns ErrCacheMiss if the key doesn't exist or the entry is expired.
func (s *RedisStore) Get(ctx context.Context, key string) (any, error) {
	data, err := s.redis.Get(ctx, s.namespace.Key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			CacheMisses.WithLabelValues(backendRedis).Inc()
			return nil, ErrCacheMiss
		}
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var env redisEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	if env.entry().IsExpiredAt(s.clock.Now()) {
		evicted, err := s.evict(ctx, s.namespace.Key(key), data)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("key", key).Msg("Failed to evict expired entry")
		case evicted:
			CacheExpirations.WithLabelValues(backendRedis, "read").Inc()
		}
		CacheMisses.WithLabelValues(backendRedis).Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues(backendRedis).Inc()
	s.logger.Debug().Str("key", key).Msg("Cache hit")
	return []byte(env.Value), nil
}

// Set stores a value with the given TTL, replacing any existing entry.
// []byte and json.RawMessage values must already hold JSON; anything else is marshaled.
func (s *RedisStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	ttl = normalizeTTL(ttl, s.defaultTTL)

	raw, err := encodeValue(value)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return err
	}

	now := s.clock.Now()
	data, err := json.Marshal(redisEnvelope{
		Value:     raw,
		CreatedAt: now,
		Expires:   now.Add(ttl),
	})
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	// Store in Redis with TTL
	if err := s.redis.Set(ctx, s.namespace.Key(key), data, ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	s.logger.Debug().Str("key", key).Dur("ttl", ttl).Int("bytes", len(data)).Msg("Cached value")
	return nil
}

// Delete removes an entry and reports whether it existed.
func (s *RedisStore) Delete(ctx context.Context, key string) (bool, error) {
	n, err := s.redis.Del(ctx, s.namespace.Key(key)).Result()
	if err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return false, fmt.Errorf("redis del: %w", err)
	}
	return n > 0, nil
}

// Clear removes every key of the store's namespace and returns how many were removed.
func (s *RedisStore) Clear(ctx context.Context) (int, error) {
	removed := 0
	err := s.scan(ctx, func(keys []string) error {
		n, err := s.redis.Del(ctx, keys...).Result()
		if err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
		removed += int(n)
		return nil
	})
	if err != nil {
		CacheErrors.WithLabelValues("clear").Inc()
		return removed, err
	}

	CacheEntries.WithLabelValues(backendRedis).Set(0)
	s.logger.Info().Int("removed", removed).Msg("Cache cleared")
	return removed, nil
}

// SweepExpired deletes entries whose envelope expiry has passed.
// Redis already drops keys whose TTL elapsed; this catches entries whose
// stored expiry is behind the store clock.
func (s *RedisStore) SweepExpired(ctx context.Context) (int, error) {
	now := s.clock.Now()
	removed := 0

	err := s.scanEntries(ctx, func(key string, raw []byte, env *redisEnvelope) error {
		if !env.entry().IsExpiredAt(now) {
			return nil
		}
		evicted, err := s.evict(ctx, key, raw)
		if err != nil {
			return err
		}
		if evicted {
			removed++
		}
		return nil
	})
	CacheSweeps.Inc()
	if err != nil {
		CacheErrors.WithLabelValues("sweep").Inc()
		return removed, err
	}

	if removed > 0 {
		CacheExpirations.WithLabelValues(backendRedis, "sweep").Add(float64(removed))
		s.logger.Info().Int("removed", removed).Msg("Expired cache entries swept")
	}
	return removed, nil
}

// Stats describes every entry of the namespace, sorted by key.
func (s *RedisStore) Stats(ctx context.Context) (*Stats, error) {
	now := s.clock.Now()
	stats := &Stats{Entries: []EntryStats{}}

	err := s.scanEntries(ctx, func(key string, _ []byte, env *redisEnvelope) error {
		stats.Entries = append(stats.Entries, entryStats(s.namespace.Name(key), env.entry(), len(env.Value), now))
		return nil
	})
	if err != nil {
		CacheErrors.WithLabelValues("stats").Inc()
		return nil, err
	}

	sort.Slice(stats.Entries, func(i, j int) bool {
		return stats.Entries[i].Key < stats.Entries[j].Key
	})
	stats.TotalEntries = len(stats.Entries)
	CacheEntries.WithLabelValues(backendRedis).Set(float64(stats.TotalEntries))
	return stats, nil
}

// scan walks the namespace with SCAN and hands each non-empty batch of keys to fn.
func (s *RedisStore) scan(ctx context.Context, fn func(keys []string) error) error {
	var cursor uint64
	for {
		keys, next, err := s.redis.Scan(ctx, cursor, s.namespace.Pattern(), scanCount).Result()
		if err != nil {
			return fmt.Errorf("redis scan: %w", err)
		}
		if len(keys) > 0 {
			if err := fn(keys); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// evict deletes the namespaced key if it still holds data.
func (s *RedisStore) evict(ctx context.Context, fullKey string, data []byte) (bool, error) {
	n, err := evictScript.Run(ctx, s.redis, []string{fullKey}, data).Int()
	if err != nil {
		CacheErrors.WithLabelValues("evict").Inc()
		return false, fmt.Errorf("redis evict: %w", err)
	}
	return n > 0, nil
}

// scanEntries walks the namespace and decodes each envelope, passing the raw
// stored bytes along. Keys that vanished between SCAN and MGET, or hold foreign
// data, are skipped.
func (s *RedisStore) scanEntries(ctx context.Context, fn func(key string, raw []byte, env *redisEnvelope) error) error {
	return s.scan(ctx, func(keys []string) error {
		values, err := s.redis.MGet(ctx, keys...).Result()
		if err != nil {
			return fmt.Errorf("redis mget: %w", err)
		}
		for i, v := range values {
			str, ok := v.(string)
			if !ok {
				continue
			}
			raw := []byte(str)
			var env redisEnvelope
			if err := json.Unmarshal(raw, &env); err != nil {
				s.logger.Warn().Err(err).Str("key", keys[i]).Msg("Skipping undecodable cache entry")
				continue
			}
			if err := fn(keys[i], raw, &env); err != nil {
				return err
			}
		}
		return nil
	})
}

// encodeValue converts a value to the JSON stored in the envelope.
func encodeValue(value any) (json.RawMessage, error) {
	switch v := value.(type) {
	case json.RawMessage:
		if !json.Valid(v) {
			return nil, fmt.Errorf("%w: value is not valid JSON", ErrInvalidEntry)
		}
		return v, nil
	case []byte:
		if !json.Valid(v) {
			return nil, fmt.Errorf("%w: value is not valid JSON", ErrInvalidEntry)
		}
		return json.RawMessage(v), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal cache value: %w", err)
		}
		return data, nil
	}
}
