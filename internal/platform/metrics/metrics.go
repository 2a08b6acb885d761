package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	MutationsTotal      *prometheus.CounterVec
	IndexSyncTotal      *prometheus.CounterVec
	IndexSyncFailures   prometheus.Counter
	ReconcileRuns       prometheus.Counter
	ReconcileOpsApplied *prometheus.CounterVec
	BundleBuildSeconds  prometheus.Histogram
	BundleBytes         prometheus.Histogram
	EventPublishDropped prometheus.Counter
}

// New creates and registers all metrics on the default Prometheus registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on a caller-supplied registry. Tests use this
// to avoid duplicate registration on the default registry.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		MutationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quizbank_mutations_total",
			Help: "Primary store mutations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		IndexSyncTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quizbank_index_sync_total",
			Help: "Search index sync attempts by operation.",
		}, []string{"operation"}),
		IndexSyncFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "quizbank_index_sync_failures_total",
			Help: "Search index syncs that failed and were dropped.",
		}),
		ReconcileRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "quizbank_reconcile_runs_total",
			Help: "Infographic reconciliation runs.",
		}),
		ReconcileOpsApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quizbank_reconcile_ops_applied_total",
			Help: "Reconciliation operations applied by kind.",
		}, []string{"kind"}),
		BundleBuildSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "quizbank_bundle_build_seconds",
			Help:    "Wall time spent building bundles.",
			Buckets: prometheus.DefBuckets,
		}),
		BundleBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "quizbank_bundle_bytes",
			Help:    "Size of generated bundles.",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		}),
		EventPublishDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "quizbank_event_publish_dropped_total",
			Help: "Catalog events dropped after a failed best-effort publish.",
		}),
	}
}
