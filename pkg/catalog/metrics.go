package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rebuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_rebuilds_total",
			Help: "Cache-miss rebuilds by cache key and result",
		},
		[]string{"key", "result"},
	)

	rebuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_rebuild_duration_seconds",
			Help:    "Duration of cache-miss rebuilds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"key"},
	)

	rebuildsShared = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_rebuilds_shared_total",
			Help: "Callers that waited on a rebuild already in flight",
		},
		[]string{"key"},
	)

	snapshotProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_snapshot_products",
			Help: "Products in the most recently built snapshot",
		},
	)
)
