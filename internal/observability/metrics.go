// Package observability provides metrics and tracing for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheRequests counts cache manager operations by name.
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tomosu_cache_requests_total",
		Help: "Total number of cache manager operations by name",
	}, []string{"operation"})

	// CacheErrors counts failed cache manager operations by name and error code.
	CacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tomosu_cache_errors_total",
		Help: "Total number of failed cache manager operations by name and code",
	}, []string{"operation", "code"})

	// CacheOperationLatency records cache operation latency. Everything is
	// in-memory so the sub-200ms target shows up as the top bucket staying empty.
	CacheOperationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tomosu_cache_operation_latency_seconds",
		Help:    "Cache operation latency in seconds",
		Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .2},
	}, []string{"operation"})

	// SnapshotLoadDuration reports the duration of the last snapshot load.
	SnapshotLoadDuration = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tomosu_snapshot_load_duration_seconds",
		Help: "Duration of the last backing-store snapshot load",
	})

	// CachedRecords reports the number of cached records per entity type.
	CachedRecords = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tomosu_cached_records",
		Help: "Number of cached records by entity type",
	}, []string{"entity"})

	// PostsCreated counts in-memory post creations since startup.
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tomosu_posts_created_total",
		Help: "Total number of posts created in memory since startup",
	})
)
