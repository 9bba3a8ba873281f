package jwtfilter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestDefaultTracer(t *testing.T) {
	_, span := defaultTracer().Start(context.Background(), SpanName)
	assert.False(t, span.SpanContext().IsValid(), "default tracer should not record")
	span.End()
}

func TestFilter_Tracing(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	filter, err := New(
		WithValidator(newTestValidator(t)),
		WithTracer(provider.Tracer("test")),
	)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "alice", testNow.Add(-time.Minute)))
	filter.Authenticate(request)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, SpanName, spans[0].Name)
	assert.Contains(t, spans[0].Attributes, attribute.String(OutcomeAttribute, "token_expired"))
}

func TestFilter_NoopTracerOption(t *testing.T) {
	filter, err := New(
		WithValidator(newTestValidator(t)),
		WithTracer(noop.NewTracerProvider().Tracer("test")),
	)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		filter.Authenticate(httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
