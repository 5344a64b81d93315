package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fileconverter_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fileconverter_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Conversion metrics
var (
	ConversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fileconverter_conversions_total",
			Help: "Total number of conversion jobs by outcome",
		},
		[]string{"category", "target_format", "outcome"},
	)

	ConversionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fileconverter_conversion_duration_seconds",
			Help:    "End-to-end conversion job duration in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	UploadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fileconverter_uploads_total",
			Help: "Total number of raw staging uploads",
		},
	)
)

// RecordConversion observes one finished conversion job.
func RecordConversion(category, targetFormat, outcome string, seconds float64) {
	if category == "" {
		category = "none"
	}
	ConversionsTotal.WithLabelValues(category, targetFormat, outcome).Inc()
	ConversionDuration.Observe(seconds)
}
