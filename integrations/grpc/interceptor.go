package grpc

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"

	jwtfilter "github.com/codesoom/go-jwt-filter"
	"github.com/codesoom/go-jwt-filter/core"
)

// JWTInterceptor resolves caller identities for gRPC servers. It never
// rejects a call: the handler always runs, with the identity in its context
// when the presented token is valid.
type JWTInterceptor struct {
	core            *core.Core
	tokenExtractor  TokenExtractor
	excludedMethods map[string]bool
	logger          Logger
	metrics         jwtfilter.Metrics
	tracer          trace.Tracer

	// Internal builder for accumulating core options
	coreBuilder *coreBuilder
}

// New creates a new gRPC JWT interceptor with the provided options.
// WithValidator or WithCore is required.
func New(opts ...Option) (*JWTInterceptor, error) {
	interceptor := &JWTInterceptor{
		tokenExtractor:  MetadataTokenExtractor,
		excludedMethods: make(map[string]bool),
		metrics:         jwtfilter.NoopMetrics{},
		tracer:          noop.NewTracerProvider().Tracer(jwtfilter.InstrumentationName),
	}

	for _, opt := range opts {
		if err := opt(interceptor); err != nil {
			return nil, err
		}
	}

	if interceptor.core != nil && interceptor.coreBuilder != nil && interceptor.coreBuilder.validator != nil {
		return nil, errors.New("WithValidator and WithCore are mutually exclusive")
	}

	// Build core from accumulated options if builder was used
	if interceptor.core == nil && interceptor.coreBuilder != nil {
		c, err := interceptor.coreBuilder.build()
		if err != nil {
			return nil, err
		}
		interceptor.core = c
	}

	if interceptor.core == nil {
		return nil, errors.New("validator is required, use WithValidator option")
	}

	interceptor.coreBuilder = nil
	return interceptor, nil
}

// UnaryServerInterceptor returns a grpc.UnaryServerInterceptor that resolves
// the caller identity and always invokes the handler.
func (i *JWTInterceptor) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		return handler(i.authenticate(ctx, info.FullMethod), req)
	}
}

// StreamServerInterceptor returns a grpc.StreamServerInterceptor that resolves
// the caller identity and always invokes the handler.
func (i *JWTInterceptor) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		return handler(srv, &wrappedServerStream{
			ServerStream: ss,
			ctx:          i.authenticate(ss.Context(), info.FullMethod),
		})
	}
}

// authenticate returns ctx with the identity installed, or ctx itself when
// no identity could be resolved.
func (i *JWTInterceptor) authenticate(ctx context.Context, method string) context.Context {
	spanCtx, span := i.tracer.Start(ctx, jwtfilter.SpanName, trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	start := time.Now()
	identity, outcome := i.resolve(spanCtx, method)

	span.SetAttributes(attribute.String(jwtfilter.OutcomeAttribute, string(outcome)))
	i.metrics.ObserveResolution(string(outcome), time.Since(start))

	if identity == nil {
		return ctx
	}

	if i.logger != nil {
		i.logger.Debug("identity installed into call context",
			"subject", identity.Subject,
			"method", method)
	}
	return core.SetIdentity(ctx, identity)
}

func (i *JWTInterceptor) resolve(ctx context.Context, method string) (*core.Identity, core.Outcome) {
	if i.excludedMethods[method] {
		if i.logger != nil {
			i.logger.Debug("skipping identity resolution for excluded method",
				"method", method)
		}
		return nil, core.OutcomeSkipped
	}

	token, ok := i.tokenExtractor(ctx)
	if !ok {
		if i.logger != nil {
			i.logger.Debug("no bearer token in metadata, continuing unauthenticated",
				"method", method)
		}
		return nil, core.OutcomeAbsent
	}

	return i.core.Resolve(ctx, token)
}

// wrappedServerStream wraps grpc.ServerStream with a custom context.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

// Context returns the wrapped context with the identity.
func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}
