package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TracerName identifies spans emitted by this module.
const TracerName = "listkeeper"

// Tracer returns the tracer from the currently installed global provider.
// It is looked up on every call so providers swapped in tests take effect.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// Setup installs an SDK tracer provider and the W3C trace-context propagator
// as globals. The returned function flushes and shuts the provider down.
func Setup(opts ...sdktrace.TracerProviderOption) func(context.Context) error {
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp.Shutdown
}

// StartClientSpan starts a client span for an outgoing call to the remote
// service and injects the trace context into the outgoing headers.
func StartClientSpan(ctx context.Context, resource, method string, header http.Header) (context.Context, trace.Span) {
	ctx, span := Tracer().Start(ctx, method+" "+resource,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("remote.resource", resource),
		),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(header))
	return ctx, span
}

// EndClientSpan records the response status and error, then ends the span.
// A zero status means the call never got a response.
func EndClientSpan(span trace.Span, status int, err error) {
	if status > 0 {
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
