package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestCounter counts HTTP requests by method, route and status.
	HTTPRequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aviauth_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestDuration observes HTTP request latencies.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aviauth_http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// ResetTokensIssued counts password reset tokens created.
	ResetTokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aviauth_password_reset_tokens_issued_total",
			Help: "Total number of password reset tokens issued.",
		},
	)

	// ResetTokensConsumed counts password reset tokens successfully consumed.
	ResetTokensConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aviauth_password_reset_tokens_consumed_total",
			Help: "Total number of password reset tokens consumed by a successful reset.",
		},
	)
)
