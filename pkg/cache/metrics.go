package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by backend
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_hits_total",
			Help: "Total number of catalog cache hits",
		},
		[]string{"backend"}, // "memory", "redis"
	)

	// CacheMisses tracks cache misses by backend
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_misses_total",
			Help: "Total number of catalog cache misses",
		},
		[]string{"backend"},
	)

	// CacheExpirations tracks entries evicted because their TTL passed
	CacheExpirations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_expirations_total",
			Help: "Total number of expired cache entries evicted",
		},
		[]string{"backend", "trigger"}, // trigger: "read", "sweep"
	)

	// CacheEntries tracks the number of stored entries
	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_cache_entries",
			Help: "Current number of catalog cache entries",
		},
		[]string{"backend"},
	)

	// CacheSweeps tracks background and on-demand sweep runs
	CacheSweeps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_cache_sweeps_total",
			Help: "Total number of expired-entry sweeps",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete", "evict", "clear", "sweep", "stats"
	)
)
