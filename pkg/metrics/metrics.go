package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records login attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrcore_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// AccessDecisions counts permission resolutions by outcome (allow|deny|bypass).
	AccessDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrcore_access_decisions_total",
			Help: "Total number of endpoint access decisions",
		},
		[]string{"method", "result"},
	)

	// BulkReplacements counts bulk permission replacements by result (success|failure).
	BulkReplacements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrcore_permission_bulk_replacements_total",
			Help: "Total number of bulk permission replacements",
		},
		[]string{"result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hrcore_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
