package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "photo_backend",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "photo_backend",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	PhotoOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "photo_backend",
			Name:      "photo_operations_total",
			Help:      "Photo store operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "photo_backend",
			Name:      "uploads_total",
			Help:      "Total image uploads",
		},
		[]string{"content_type", "status"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, route, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, route, status).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(durationSec)
}

// RecordOperation records the outcome of a photo store operation
func RecordOperation(operation, outcome string) {
	PhotoOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordUpload records an image upload
func RecordUpload(contentType, status string) {
	UploadsTotal.WithLabelValues(contentType, status).Inc()
}
