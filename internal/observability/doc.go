// Package observability groups logging, metrics, tracing, and request-id
// propagation for the client and the in-memory entity service.
//
// Subpackages:
//   - logging: slog construction and context helpers
//   - metrics: Prometheus collectors for remote calls, snapshots, and mutations
//   - tracing: OpenTelemetry client and server spans
//   - requestid: X-Request-ID context and middleware
package observability
