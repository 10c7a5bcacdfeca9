// Package metrics defines the Prometheus instrumentation for the page
// lifecycle. Collectors are registered on the default registry and exposed
// via /metrics when enabled.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PagesCreated counts successful page creations.
	PagesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pagebin_pages_created_total",
		Help: "Total number of pages created.",
	})

	// PagesExpired counts deleted-by-expiry pages, partitioned by which path
	// observed the expiry first.
	PagesExpired = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pagebin_pages_expired_total",
		Help: "Total number of pages deleted after expiry.",
	}, []string{"path"}) // "lazy" or "sweep"

	// AssetsRemoved counts asset files removed during page deletion.
	AssetsRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pagebin_assets_removed_total",
		Help: "Total number of asset files removed during page deletion.",
	})

	// SweepDuration observes the wall time of each sweep cycle.
	SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pagebin_sweep_duration_seconds",
		Help:    "Duration of expiry sweep cycles.",
		Buckets: prometheus.DefBuckets,
	})

	// SweepFailures counts sweep cycles that failed at the store level.
	SweepFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pagebin_sweep_failures_total",
		Help: "Total number of sweep cycles aborted by a store error.",
	})
)
