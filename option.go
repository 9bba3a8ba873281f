package jwtfilter

import (
	"errors"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/codesoom/go-jwt-filter/core"
)

// Option configures the Filter.
// Returns error for validation failures.
type Option func(*Filter) error

// WithValidator sets the validator used to verify and decode tokens.
// Either WithValidator or WithCore is required.
//
// Example:
//
//	v, err := validator.New(
//	    validator.WithSecret([]byte(secret)),
//	    validator.WithAlgorithm(validator.HS256),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	filter, err := jwtfilter.New(
//	    jwtfilter.WithValidator(v),
//	)
func WithValidator(v core.TokenValidator) Option {
	return func(f *Filter) error {
		if v == nil {
			return ErrValidatorNil
		}
		f.validator = v
		return nil
	}
}

// WithCore shares an already configured core.Core, for example between the
// HTTP filter and a gRPC interceptor.
func WithCore(c *core.Core) Option {
	return func(f *Filter) error {
		if c == nil {
			return ErrCoreNil
		}
		f.core = c
		return nil
	}
}

// WithValidateOnOptions sets whether OPTIONS requests should have their
// identity resolved.
//
// Default: true
func WithValidateOnOptions(value bool) Option {
	return func(f *Filter) error {
		f.validateOnOptions = value
		return nil
	}
}

// WithTokenExtractor sets the function to extract the token from the request.
//
// Default: BearerTokenExtractor
func WithTokenExtractor(e TokenExtractor) Option {
	return func(f *Filter) error {
		if e == nil {
			return ErrTokenExtractorNil
		}
		f.tokenExtractor = e
		return nil
	}
}

// WithExclusionURLs configures URLs that skip identity resolution.
// URLs can be full URLs or just paths. Excluded requests still reach the next
// handler, unauthenticated.
func WithExclusionURLs(exclusions []string) Option {
	return func(f *Filter) error {
		if len(exclusions) == 0 {
			return ErrExclusionURLsEmpty
		}
		set := make(map[string]struct{}, len(exclusions))
		for _, exclusion := range exclusions {
			set[exclusion] = struct{}{}
		}

		f.exclusionURLHandler = func(r *http.Request) bool {
			if _, ok := set[r.URL.Path]; ok {
				return true
			}
			_, ok := set[r.URL.String()]
			return ok
		}
		return nil
	}
}

// WithExclusionURLHandler sets a custom predicate for skipping resolution.
func WithExclusionURLHandler(h ExclusionURLHandler) Option {
	return func(f *Filter) error {
		if h == nil {
			return ErrExclusionURLHandlerNil
		}
		f.exclusionURLHandler = h
		return nil
	}
}

// WithLogger sets an optional logger for the filter.
// The logger will be used throughout the resolution flow in both filter and core.
//
// The logger interface is compatible with log/slog.Logger and similar loggers.
// See NewZapLogger, NewZerologLogger and NewLogrusLogger for adapters.
func WithLogger(logger Logger) Option {
	return func(f *Filter) error {
		if logger == nil {
			return ErrLoggerNil
		}
		f.logger = logger
		return nil
	}
}

// WithMetrics records every resolution outcome.
//
// Default: NoopMetrics
func WithMetrics(m Metrics) Option {
	return func(f *Filter) error {
		if m == nil {
			return ErrMetricsNil
		}
		f.metrics = m
		return nil
	}
}

// WithTracer wraps every resolution in a span.
//
// Default: a no-op tracer
func WithTracer(t trace.Tracer) Option {
	return func(f *Filter) error {
		if t == nil {
			return ErrTracerNil
		}
		f.tracer = t
		return nil
	}
}

// Sentinel errors for configuration validation
var (
	ErrValidatorNotSet        = errors.New("validator is required but not set (use WithValidator or WithCore)")
	ErrValidatorAndCore       = errors.New("WithValidator and WithCore are mutually exclusive")
	ErrValidatorNil           = errors.New("validator cannot be nil")
	ErrCoreNil                = errors.New("core cannot be nil")
	ErrTokenExtractorNil      = errors.New("tokenExtractor cannot be nil")
	ErrExclusionURLsEmpty     = errors.New("exclusion URLs list cannot be empty")
	ErrExclusionURLHandlerNil = errors.New("exclusion URL handler cannot be nil")
	ErrLoggerNil              = errors.New("logger cannot be nil")
	ErrMetricsNil             = errors.New("metrics cannot be nil")
	ErrTracerNil              = errors.New("tracer cannot be nil")
)
