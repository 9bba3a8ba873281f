package jwtfilter

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records the outcome of every identity resolution.
// Implementations must be safe for concurrent use.
type Metrics interface {
	ObserveResolution(outcome string, duration time.Duration)
}

// NoopMetrics is a default metrics implementation that does nothing.
type NoopMetrics struct{}

func (NoopMetrics) ObserveResolution(string, time.Duration) {}

// PrometheusMetrics implements the Metrics interface using Prometheus.
type PrometheusMetrics struct {
	resolutions *prometheus.CounterVec
	durations   *prometheus.HistogramVec
}

// NewPrometheusMetrics registers the filter's collectors with reg and
// returns a Metrics backed by them. Collectors already registered by an
// earlier call are reused.
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	resolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jwtfilter",
		Name:      "resolutions_total",
		Help:      "Number of identity resolutions by outcome.",
	}, []string{"outcome"})

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "jwtfilter",
		Name:      "resolution_duration_seconds",
		Help:      "Time spent resolving the caller identity.",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
	}, []string{"outcome"})

	var err error
	if resolutions, err = register(reg, resolutions); err != nil {
		return nil, err
	}
	if durations, err = register(reg, durations); err != nil {
		return nil, err
	}

	return &PrometheusMetrics{
		resolutions: resolutions,
		durations:   durations,
	}, nil
}

func (m *PrometheusMetrics) ObserveResolution(outcome string, duration time.Duration) {
	m.resolutions.WithLabelValues(outcome).Inc()
	m.durations.WithLabelValues(outcome).Observe(duration.Seconds())
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}
