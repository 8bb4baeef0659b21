// Package tracing installs the process-wide tracer provider and W3C
// propagators. Outgoing shop backend calls carry traceparent so the
// backend's logs line up with the storefront's.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Propagator is the trace-context plus baggage propagator used for every
// inbound and outbound request.
func Propagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})
}

// Setup registers a sampling tracer provider and Propagator globally. The
// returned func flushes and stops the provider.
func Setup() func(context.Context) error {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(Propagator())
	return tp.Shutdown
}
