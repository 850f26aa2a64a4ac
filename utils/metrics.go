package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Duration of entry store operations",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "backend"},
	)

	StoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_errors_total",
			Help: "Total number of entry store failures",
		},
		[]string{"backend", "reason"},
	)
)

// TrackDBOperation tracks entry store operation duration
func TrackDBOperation(operation, backend string) *prometheus.Timer {
	return prometheus.NewTimer(StoreOperationDuration.WithLabelValues(operation, backend))
}

// TrackStoreError increments the store failure counter
func TrackStoreError(backend, reason string) {
	StoreErrorsTotal.WithLabelValues(backend, reason).Inc()
}
