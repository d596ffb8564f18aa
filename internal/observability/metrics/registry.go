// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Remote service metrics track calls made by the HTTP adapter.
var (
	// RemoteRequestsTotal counts calls to the remote entity service by resource, method, and status.
	// Status is the HTTP status code, or "error" when no response was received.
	RemoteRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remote_requests_total",
			Help: "Total number of requests sent to the remote entity service",
		},
		[]string{"resource", "method", "status"},
	)

	// RemoteRequestDuration measures remote call latency, retries included.
	RemoteRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "remote_request_duration_seconds",
			Help:    "Remote entity service request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"resource", "method"},
	)

	// RemoteBreakerState is 0 while closed, 1 while half-open, 2 while open.
	RemoteBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "remote_circuit_breaker_state",
			Help: "Circuit breaker state for the remote entity service (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	// RemoteRetriesTotal counts read attempts beyond the first.
	RemoteRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remote_retries_total",
			Help: "Total number of retried reads against the remote entity service",
		},
		[]string{"resource"},
	)
)

// Snapshot metrics track the entity cache.
var (
	// SnapshotLoadsTotal counts snapshot loads by status (success, failure).
	SnapshotLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_loads_total",
			Help: "Total number of snapshot loads",
		},
		[]string{"status"},
	)

	// SnapshotLoadDuration measures the time to fetch and swap a snapshot.
	SnapshotLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "snapshot_load_duration_seconds",
			Help:    "Time taken to load a snapshot",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		},
	)

	// SnapshotLists is the number of lists in the current snapshot.
	SnapshotLists = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_lists",
			Help: "Number of lists in the current snapshot",
		},
	)

	// SnapshotArticles is the number of articles in the current snapshot.
	SnapshotArticles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_articles",
			Help: "Number of articles in the current snapshot",
		},
	)
)

// Mutation metrics track the coordinator.
var (
	// MutationOperationsTotal counts mutations by operation and outcome.
	MutationOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mutation_operations_total",
			Help: "Total number of mutation operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	// MutationInflightRejections counts mutations refused because the entity was busy.
	MutationInflightRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mutation_inflight_rejections_total",
			Help: "Total number of mutations rejected because one was already in flight",
		},
		[]string{"kind"},
	)
)

// HTTP server metrics track the in-memory entity service.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)
)
