package jwtfilter

import (
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Span naming shared by every transport that resolves identities.
const (
	InstrumentationName = "github.com/codesoom/go-jwt-filter"

	SpanName         = "jwtfilter.resolve"
	OutcomeAttribute = "jwtfilter.outcome"
)

func defaultTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer(InstrumentationName)
}
