package jwtfilter

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/codesoom/go-jwt-filter/core"
)

// Filter resolves the caller's identity from a bearer token and installs it
// into the request context. It never rejects a request: whatever happens
// during resolution, the next handler is called exactly once.
type Filter struct {
	core                *core.Core
	tokenExtractor      TokenExtractor
	validateOnOptions   bool
	exclusionURLHandler ExclusionURLHandler
	logger              Logger
	metrics             Metrics
	tracer              trace.Tracer

	// Temporary field used during construction
	validator core.TokenValidator
}

// Logger defines an optional logging interface compatible with log/slog.
// This is the same interface used by core for consistent logging across the stack.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ExclusionURLHandler is a function that takes in a http.Request and returns
// true if the request should skip identity resolution.
type ExclusionURLHandler func(r *http.Request) bool

// New constructs a new Filter instance with the supplied options.
//
// Example:
//
//	v, err := validator.New(
//	    validator.WithSecret(secret),
//	    validator.WithAlgorithm(validator.HS256),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	filter, err := jwtfilter.New(jwtfilter.WithValidator(v))
//	if err != nil {
//	    log.Fatalf("failed to create filter: %v", err)
//	}
//
//	http.Handle("/", filter.Handler(mux))
func New(opts ...Option) (*Filter, error) {
	f := &Filter{
		validateOnOptions: true,
	}

	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("invalid filter configuration: %w", err)
	}

	f.applyDefaults()

	if f.core == nil {
		if err := f.createCore(); err != nil {
			return nil, fmt.Errorf("failed to create core: %w", err)
		}
	}
	f.validator = nil

	return f, nil
}

func (f *Filter) validate() error {
	switch {
	case f.validator == nil && f.core == nil:
		return ErrValidatorNotSet
	case f.validator != nil && f.core != nil:
		return ErrValidatorAndCore
	}
	return nil
}

func (f *Filter) createCore() error {
	coreOpts := []core.Option{
		core.WithValidator(f.validator),
	}

	if f.logger != nil {
		coreOpts = append(coreOpts, core.WithLogger(f.logger))
	}

	c, err := core.New(coreOpts...)
	if err != nil {
		return err
	}
	f.core = c
	return nil
}

func (f *Filter) applyDefaults() {
	if f.tokenExtractor == nil {
		f.tokenExtractor = BearerTokenExtractor
	}
	if f.metrics == nil {
		f.metrics = NoopMetrics{}
	}
	if f.tracer == nil {
		f.tracer = defaultTracer()
	}
}

// Handler wraps next so that every request reaching it carries the resolved
// identity in its context when, and only when, the presented token is valid.
func (f *Filter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, f.Authenticate(r))
	})
}

// HandlerFunc is Handler for plain functions.
func (f *Filter) HandlerFunc(next http.HandlerFunc) http.Handler {
	return f.Handler(next)
}

// Authenticate runs extraction and resolution for r. It returns r with the
// identity installed into its context on success and r itself otherwise.
// Framework adapters use it to share the exact behavior of Handler.
func (f *Filter) Authenticate(r *http.Request) *http.Request {
	ctx, span := f.tracer.Start(r.Context(), SpanName, trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	start := time.Now()
	identity, outcome := f.resolve(ctx, r)

	span.SetAttributes(attribute.String(OutcomeAttribute, string(outcome)))
	f.metrics.ObserveResolution(string(outcome), time.Since(start))

	if identity == nil {
		return r
	}

	if f.logger != nil {
		f.logger.Debug("identity installed into request context",
			"subject", identity.Subject,
			"method", r.Method,
			"path", r.URL.Path)
	}
	return r.WithContext(core.SetIdentity(r.Context(), identity))
}

func (f *Filter) resolve(ctx context.Context, r *http.Request) (*core.Identity, core.Outcome) {
	if f.exclusionURLHandler != nil && f.exclusionURLHandler(r) {
		if f.logger != nil {
			f.logger.Debug("skipping identity resolution for excluded URL",
				"method", r.Method,
				"path", r.URL.Path)
		}
		return nil, core.OutcomeSkipped
	}

	if !f.validateOnOptions && r.Method == http.MethodOptions {
		if f.logger != nil {
			f.logger.Debug("skipping identity resolution for OPTIONS request")
		}
		return nil, core.OutcomeSkipped
	}

	token, ok := f.tokenExtractor(r)
	if !ok {
		if f.logger != nil {
			f.logger.Debug("no bearer token on request, continuing unauthenticated",
				"method", r.Method,
				"path", r.URL.Path)
		}
		return nil, core.OutcomeAbsent
	}

	return f.core.Resolve(ctx, token)
}
