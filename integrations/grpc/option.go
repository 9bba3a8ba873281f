package grpc

import (
	"errors"

	"go.opentelemetry.io/otel/trace"

	jwtfilter "github.com/codesoom/go-jwt-filter"
	"github.com/codesoom/go-jwt-filter/core"
)

// Option configures the JWT interceptor.
type Option func(*JWTInterceptor) error

// Logger defines an optional logging interface compatible with log/slog.
// This is the same interface used by core for consistent logging across the stack.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// coreBuilder helps build a core.Core with accumulated options.
type coreBuilder struct {
	validator core.TokenValidator
	logger    Logger
}

func (b *coreBuilder) build() (*core.Core, error) {
	if b.validator == nil {
		return nil, errors.New("validator is required")
	}

	opts := []core.Option{
		core.WithValidator(b.validator),
	}
	if b.logger != nil {
		opts = append(opts, core.WithLogger(b.logger))
	}

	return core.New(opts...)
}

func (i *JWTInterceptor) builder() *coreBuilder {
	if i.coreBuilder == nil {
		i.coreBuilder = &coreBuilder{}
	}
	return i.coreBuilder
}

// WithValidator sets the token validator.
//
// Example:
//
//	interceptor, _ := grpc.New(
//	    grpc.WithValidator(validator),
//	    grpc.WithLogger(logger),
//	)
func WithValidator(v core.TokenValidator) Option {
	return func(i *JWTInterceptor) error {
		if v == nil {
			return errors.New("validator cannot be nil")
		}
		i.builder().validator = v
		return nil
	}
}

// WithCore shares a core.Core with other transports, such as the HTTP filter.
func WithCore(c *core.Core) Option {
	return func(i *JWTInterceptor) error {
		if c == nil {
			return errors.New("core cannot be nil")
		}
		i.core = c
		return nil
	}
}

// WithLogger sets an optional logger for the interceptor.
// The logger will be used throughout the resolution flow in both interceptor and core.
func WithLogger(logger Logger) Option {
	return func(i *JWTInterceptor) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		i.builder().logger = logger
		i.logger = logger // Set on interceptor for its own logging
		return nil
	}
}

// WithTokenExtractor sets a custom token extractor function.
// Default is MetadataTokenExtractor which extracts from "authorization" metadata.
func WithTokenExtractor(extractor TokenExtractor) Option {
	return func(i *JWTInterceptor) error {
		if extractor == nil {
			return errors.New("token extractor cannot be nil")
		}
		i.tokenExtractor = extractor
		return nil
	}
}

// WithMetrics records every resolution outcome, sharing the HTTP filter's
// Metrics implementations.
func WithMetrics(m jwtfilter.Metrics) Option {
	return func(i *JWTInterceptor) error {
		if m == nil {
			return errors.New("metrics cannot be nil")
		}
		i.metrics = m
		return nil
	}
}

// WithTracer opens a span around every resolution, named and labeled like
// the HTTP filter's.
func WithTracer(tracer trace.Tracer) Option {
	return func(i *JWTInterceptor) error {
		if tracer == nil {
			return errors.New("tracer cannot be nil")
		}
		i.tracer = tracer
		return nil
	}
}

// WithExcludedMethods skips resolution for specific gRPC methods.
// Methods should be provided in the format: "/package.Service/Method"
// Example: "/myapp.MyService/PublicMethod", "/grpc.health.v1.Health/Check"
func WithExcludedMethods(methods ...string) Option {
	return func(i *JWTInterceptor) error {
		if i.excludedMethods == nil {
			i.excludedMethods = make(map[string]bool)
		}
		for _, method := range methods {
			i.excludedMethods[method] = true
		}
		return nil
	}
}
