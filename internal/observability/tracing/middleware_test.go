package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func installRecorder(t *testing.T) (*tracetest.InMemoryExporter, *sdktrace.TracerProvider) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() {
		otel.SetTracerProvider(sdktrace.NewTracerProvider())
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator())
	})
	return exporter, tp
}

func TestMiddleware_NamesSpanAfterRouteTemplate(t *testing.T) {
	exporter, tp := installRecorder(t)

	r := mux.NewRouter()
	r.Use(Middleware)
	r.HandleFunc("/api/listas/{id}/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/listas/10/", nil))
	_ = tp.ForceFlush(context.Background())

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "GET /api/listas/{id}/" {
		t.Errorf("expected span name 'GET /api/listas/{id}/', got '%s'", spans[0].Name)
	}

	foundStatus := false
	for _, attr := range spans[0].Attributes {
		if attr.Key == "http.status_code" {
			foundStatus = true
			if attr.Value.AsInt64() != 200 {
				t.Errorf("expected http.status_code=200, got %d", attr.Value.AsInt64())
			}
		}
	}
	if !foundStatus {
		t.Error("http.status_code attribute not found")
	}
	if len(rr.Header().Get("X-Trace-Id")) != 32 {
		t.Errorf("expected 32-char X-Trace-Id, got %q", rr.Header().Get("X-Trace-Id"))
	}
}

func TestMiddleware_MarksErrorSpansFor5xx(t *testing.T) {
	exporter, tp := installRecorder(t)

	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/articulos/", nil))
	_ = tp.ForceFlush(context.Background())

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	foundError := false
	for _, attr := range spans[0].Attributes {
		if attr.Key == "error" && attr.Value.AsBool() {
			foundError = true
		}
	}
	if !foundError {
		t.Error("expected error attribute on 5xx span")
	}
}

func TestClientSpan_PropagatesToServer(t *testing.T) {
	exporter, tp := installRecorder(t)

	var serverTraceID string
	srv := httptest.NewServer(Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serverTraceID = w.Header().Get("X-Trace-Id")
		w.WriteHeader(http.StatusNoContent)
	})))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/articulos/7/", nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx, span := StartClientSpan(context.Background(), "articulos", http.MethodDelete, req.Header)
	resp, err := http.DefaultClient.Do(req.WithContext(ctx))
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	EndClientSpan(span, resp.StatusCode, nil)
	_ = tp.ForceFlush(context.Background())

	if serverTraceID != span.SpanContext().TraceID().String() {
		t.Errorf("server trace %s does not match client trace %s", serverTraceID, span.SpanContext().TraceID())
	}
	if got := len(exporter.GetSpans()); got != 2 {
		t.Errorf("expected client and server spans, got %d", got)
	}
}

func TestEndClientSpan_RecordsError(t *testing.T) {
	exporter, tp := installRecorder(t)

	_, span := StartClientSpan(context.Background(), "listas", http.MethodPost, http.Header{})
	EndClientSpan(span, 0, errors.New("connection refused"))
	_ = tp.ForceFlush(context.Background())

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("expected error status, got %v", spans[0].Status.Code)
	}
	if spans[0].Name != "POST listas" {
		t.Errorf("unexpected span name %q", spans[0].Name)
	}
}

func TestSetup_ReturnsShutdown(t *testing.T) {
	shutdown := Setup()
	t.Cleanup(func() { otel.SetTracerProvider(sdktrace.NewTracerProvider()) })

	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown returned error: %v", err)
	}
}
