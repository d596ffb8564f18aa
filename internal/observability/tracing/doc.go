// Package tracing provides OpenTelemetry tracing helpers.
//
// Client spans wrap every call to the remote entity service and carry the
// W3C trace context in the outgoing headers. The fake service continues
// those traces with Middleware so a CLI invocation and the requests it made
// share one trace ID.
//
// Example usage:
//
//	shutdown := tracing.Setup()
//	defer shutdown(context.Background())
package tracing
