package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewTracerProvider_Sampling(t *testing.T) {
	tests := []struct {
		name          string
		ratio         float64
		expectedSpans int
	}{
		{name: "always sample", ratio: 1, expectedSpans: 3},
		{name: "never sample", ratio: 0, expectedSpans: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter := tracetest.NewInMemoryExporter()
			provider := sdktrace.NewTracerProvider(
				sdktrace.WithSyncer(exporter),
				sdktrace.WithSampler(Sampler(tt.ratio)),
			)
			t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

			tracer := provider.Tracer("test")
			for i := 0; i < 3; i++ {
				_, span := tracer.Start(context.Background(), "matching.search")
				span.End()
			}

			assert.Len(t, exporter.GetSpans(), tt.expectedSpans)
		})
	}
}

func TestNewTracerProvider(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := NewTracerProvider(exporter, TracingOptions{ServiceName: "property-matching", SampleRatio: 1})
	require.NotNil(t, provider)

	_, span := provider.Tracer("test").Start(context.Background(), "matching.recommend")
	span.End()
	require.NoError(t, provider.ForceFlush(context.Background()))
	require.NoError(t, provider.Shutdown(context.Background()))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "matching.recommend", spans[0].Name)
}

func TestObservability_RecordJob(t *testing.T) {
	obs := New("property-matching-test")
	require.NotNil(t, obs)
	t.Cleanup(obs.Shutdown)

	assert.NotPanics(t, func() {
		obs.RecordJobProcessed(context.Background(), "search-properties", "success")
		obs.RecordJobDuration(context.Background(), "search-properties", 0, "success")
	})

	var nilObs *Observability
	assert.NotPanics(t, func() { nilObs.RecordJobProcessed(context.Background(), "x", "failed") })
}
