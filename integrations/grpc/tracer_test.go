package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"

	jwtfilter "github.com/codesoom/go-jwt-filter"
)

func TestWithTracer(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	interceptor, err := New(
		WithValidator(createTestValidator(t)),
		WithTracer(provider.Tracer("test")),
	)
	require.NoError(t, err)

	validToken := buildTestToken(t, testSecret, "alice", testNow.Add(time.Hour))
	expiredToken := buildTestToken(t, testSecret, "alice", testNow)

	unary := interceptor.UnaryServerInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/test.Service/Method"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, nil
	}

	_, err = unary(incomingContext("authorization", "Bearer "+validToken), "request", info, handler)
	require.NoError(t, err)
	_, err = unary(incomingContext("authorization", "Bearer "+expiredToken), "request", info, handler)
	require.NoError(t, err)

	stream := &mockServerStream{ctx: incomingContext("authorization", "Basic abc123")}
	err = interceptor.StreamServerInterceptor()(nil, stream, &grpc.StreamServerInfo{FullMethod: "/test.Service/Stream"},
		func(interface{}, grpc.ServerStream) error { return nil })
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 3)

	wantOutcomes := []string{"authenticated", "token_expired", "absent"}
	for idx, span := range spans {
		assert.Equal(t, jwtfilter.SpanName, span.Name)
		assert.Equal(t, trace.SpanKindServer, span.SpanKind)
		assert.Contains(t, span.Attributes, attribute.String(jwtfilter.OutcomeAttribute, wantOutcomes[idx]))
	}
}
