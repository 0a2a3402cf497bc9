package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StorageOpLatency records key-value backend latency by backend and operation.
	StorageOpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "momskitchen_storage_op_latency_seconds",
		Help:    "Key-value storage operation latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend", "operation"})

	// StorageErrors counts key-value backend failures by backend and operation.
	StorageErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "momskitchen_storage_errors_total",
		Help: "Total number of key-value storage errors",
	}, []string{"backend", "operation"})

	// SessionTransitions counts session operations by outcome.
	SessionTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "momskitchen_session_transitions_total",
		Help: "Total number of session operations by operation and outcome",
	}, []string{"operation", "outcome"})

	// SessionSubscribers is the number of registered session subscribers.
	SessionSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "momskitchen_session_subscribers",
		Help: "Number of registered session subscribers",
	})

	// SessionStreamDrops counts snapshots dropped for slow websocket clients.
	SessionStreamDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "momskitchen_session_stream_drops_total",
		Help: "Total number of session snapshots dropped due to backpressure",
	})
)

// TrackStorageOp returns a function that records latency and, when *errp is
// non-nil at call time, an error. Use with defer.
func TrackStorageOp(backend, operation string, errp *error) func() {
	start := time.Now()
	return func() {
		StorageOpLatency.WithLabelValues(backend, operation).Observe(time.Since(start).Seconds())
		if errp != nil && *errp != nil {
			StorageErrors.WithLabelValues(backend, operation).Inc()
		}
	}
}
