package tracing

import (
	"context"
	"net/http"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestSetup_InjectsTraceparent(t *testing.T) {
	shutdown := Setup()
	defer shutdown(context.Background())

	ctx, span := otel.Tracer("test").Start(context.Background(), "checkout")
	defer span.End()
	if !span.SpanContext().IsValid() {
		t.Fatalf("expected a sampled span from the installed provider")
	}

	header := http.Header{}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(header))
	if header.Get("traceparent") == "" {
		t.Fatalf("expected traceparent header, got %v", header)
	}

	got := trace.SpanContextFromContext(Propagator().Extract(context.Background(), propagation.HeaderCarrier(header)))
	if got.TraceID() != span.SpanContext().TraceID() {
		t.Fatalf("expected trace id %s, got %s", span.SpanContext().TraceID(), got.TraceID())
	}
}
