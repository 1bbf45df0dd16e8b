// Package metrics defines the Prometheus collectors used across the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ingestion metrics
var (
	// SubmissionsTotal tracks accepted feedback submissions
	SubmissionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedback_submissions_total",
			Help: "Total accepted feedback submissions",
		},
	)

	// SubmissionsRejectedTotal tracks rejected ingestion payloads
	SubmissionsRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedback_submissions_rejected_total",
			Help: "Total rejected feedback payloads",
		},
	)

	// AggregateComputeDuration tracks aggregate computation latency in seconds
	AggregateComputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aggregate_compute_duration_seconds",
			Help:    "Aggregate computation duration in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
	)
)

// Store metrics
var (
	// StoreOpsTotal tracks store operations by backend, operation, and status
	StoreOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operations_total",
			Help: "Total store operations by backend, operation, and status",
		},
		[]string{"backend", "operation", "status"},
	)

	// StoreOpDuration tracks store operation latency in seconds
	StoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Store operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"backend", "operation"},
	)

	// MirrorForwardFailuresTotal tracks best-effort mirror writes that failed
	MirrorForwardFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mirror_forward_failures_total",
			Help: "Total best-effort mirror forwards that failed",
		},
	)

	// MirrorCircuitState tracks the mirror circuit breaker state (0=closed, 1=half-open, 2=open)
	MirrorCircuitState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mirror_circuit_state",
			Help: "Mirror circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)

// Stream metrics
var (
	// StreamActiveClients tracks currently connected notification stream clients
	StreamActiveClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stream_active_clients",
			Help: "Currently connected notification stream clients",
		},
	)

	// StreamEventsTotal tracks pushed stream events by event name
	StreamEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stream_events_total",
			Help: "Total pushed stream events by event name",
		},
		[]string{"event"},
	)

	// StreamPollErrorsTotal tracks swallowed per-iteration poll failures
	StreamPollErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stream_poll_errors_total",
			Help: "Total swallowed notification poll failures",
		},
	)

	// StreamLifetimeExpiredTotal tracks connections closed by max lifetime
	StreamLifetimeExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stream_lifetime_expired_total",
			Help: "Total stream connections closed after reaching max lifetime",
		},
	)
)

// Auth metrics
var (
	// LoginAttemptsTotal tracks admin login attempts by outcome
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Total admin login attempts by outcome",
		},
		[]string{"outcome"},
	)
)
