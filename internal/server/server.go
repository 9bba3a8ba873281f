// Package server wires the filter into a small HTTP service: a chi router with
// a public health check, a prometheus endpoint, and /me, which reports the
// caller identity or answers 401.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	jwtfilter "github.com/codesoom/go-jwt-filter"
	"github.com/codesoom/go-jwt-filter/core"
	"github.com/codesoom/go-jwt-filter/internal/config"
	jwtgo "github.com/codesoom/go-jwt-filter/validate/jwt-go"
	"github.com/codesoom/go-jwt-filter/validator"
)

const shutdownTimeout = 10 * time.Second

// Server is the demo HTTP server.
type Server struct {
	cfg     *config.Config
	logger  *zap.Logger
	handler http.Handler
}

// New builds the validator selected by cfg, the filter and the routes.
func New(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	tokenValidator, err := NewValidator(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create validator: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics, err := jwtfilter.NewPrometheusMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("could not register metrics: %w", err)
	}

	opts := []jwtfilter.Option{
		jwtfilter.WithValidator(tokenValidator),
		jwtfilter.WithLogger(jwtfilter.NewZapLogger(logger.Named("jwtfilter"))),
		jwtfilter.WithMetrics(metrics),
	}
	if len(cfg.Exclude) > 0 {
		opts = append(opts, jwtfilter.WithExclusionURLs(cfg.Exclude))
	}

	filter, err := jwtfilter.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("could not create filter: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(filter.Handler)

	r.Get("/healthz", healthz)
	r.Get("/me", me)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return &Server{
		cfg:     cfg,
		logger:  logger,
		handler: r,
	}, nil
}

// NewValidator returns the token validator for the configured backend.
func NewValidator(cfg *config.Config) (core.TokenValidator, error) {
	switch cfg.Backend {
	case config.BackendJWTGo:
		opts := []jwtgo.Option{jwtgo.WithLeeway(cfg.ClockSkew)}
		if cfg.Issuer != "" {
			opts = append(opts, jwtgo.WithIssuer(cfg.Issuer))
		}
		if cfg.Audience != "" {
			opts = append(opts, jwtgo.WithAudience(cfg.Audience))
		}
		return jwtgo.New(jwtgo.SecretKeyFunc([]byte(cfg.Secret)), cfg.Algorithm, opts...)

	default:
		opts := []validator.Option{
			validator.WithSecret([]byte(cfg.Secret)),
			validator.WithAlgorithm(validator.SignatureAlgorithm(cfg.Algorithm)),
			validator.WithAllowedClockSkew(cfg.ClockSkew),
		}
		if cfg.Issuer != "" {
			opts = append(opts, validator.WithIssuer(cfg.Issuer))
		}
		if cfg.Audience != "" {
			opts = append(opts, validator.WithAudience(cfg.Audience))
		}
		return validator.New(opts...)
	}
}

// Handler returns the root handler, filter included.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is canceled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.cfg.Addr), zap.String("backend", s.cfg.Backend))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// me is the authorization layer: the filter never rejects, so this is where
// an unauthenticated caller gets a 401.
func me(w http.ResponseWriter, r *http.Request) {
	identity, ok := jwtfilter.CurrentIdentity(r.Context())
	if !ok {
		w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "JWT is invalid or missing."})
		return
	}

	writeJSON(w, http.StatusOK, identity)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
