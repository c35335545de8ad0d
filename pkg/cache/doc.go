// Package cache provides the catalog TTL cache with in-memory and Redis backends.
//
// Both backends implement Store and share the same semantics:
//
// - Get returns ErrCacheMiss for absent keys; a miss is the normal trigger for a rebuild
// - Expired entries are evicted lazily when read
// - Set overwrites the whole entry; a non-positive TTL uses the default (3 hours)
// - SweepExpired evicts every expired entry and returns the count
// - Stats reports age, TTL and an approximate size for every entry
//
// # Basic Usage
//
//	// In-memory cache
//	manager := cache.NewManager()
//
//	// Or Redis
//	store := cache.NewRedisStore(redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	}))
//
//	value, err := manager.Get(ctx, "cache_de_productos")
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// Cache miss - rebuild and store
//		_ = manager.Set(ctx, "cache_de_productos", snapshot, cache.DefaultTTL)
//	}
//
// # Background Sweep
//
// The Janitor sweeps expired entries on a fixed interval (30 minutes by default)
// through a cron scheduler, so entries that are never read again still get evicted:
//
//	janitor := cache.NewJanitor(manager, cache.DefaultSweepInterval)
//	if err := janitor.Start(); err != nil {
//		return err
//	}
//	defer janitor.Stop()
//
// # Metrics
//
// The cache exports Prometheus metrics:
//
//   - catalog_cache_hits_total{backend} - Cache hits
//   - catalog_cache_misses_total{backend} - Cache misses
//   - catalog_cache_expirations_total{backend,trigger} - Expired entries evicted on read or sweep
//   - catalog_cache_entries{backend} - Stored entries
//   - catalog_cache_sweeps_total - Sweep runs
//   - catalog_cache_errors_total{operation} - Backend errors
package cache
