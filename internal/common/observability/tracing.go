package observability

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// TracingOptions configures the span exporter.
type TracingOptions struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	SampleRatio    float64
}

// EnableTracing installs a global tracer provider exporting to a Jaeger
// collector. Until it is called, otel.Tracer returns no-op tracers.
func (o *Observability) EnableTracing(opts TracingOptions) error {
	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(opts.Endpoint)))
	if err != nil {
		return fmt.Errorf("failed to create jaeger exporter: %w", err)
	}

	provider := NewTracerProvider(exporter, opts)
	otel.SetTracerProvider(provider)
	o.tracerProvider = provider
	return nil
}

// NewTracerProvider builds a batching provider sampling a ratio of root spans.
func NewTracerProvider(exporter sdktrace.SpanExporter, opts TracingOptions) *sdktrace.TracerProvider {
	res := resource.NewSchemaless(
		attribute.String("service.name", opts.ServiceName),
		attribute.String("service.version", opts.ServiceVersion),
	)

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(Sampler(opts.SampleRatio)),
	)
}

// Sampler honours the parent decision and samples ratio of new traces.
func Sampler(ratio float64) sdktrace.Sampler {
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}
