package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/bacalhau-project/cortex"

// GetTracer returns the module's tracer from the global provider. With no
// provider installed this is a no-op tracer.
func GetTracer() oteltrace.Tracer {
	return otel.Tracer(tracerName)
}

// NewSpan starts a span named after the operation, e.g. "pkg/fetch.Download".
func NewSpan(ctx context.Context, t oteltrace.Tracer, name string,
	opts ...oteltrace.SpanStartOption) (context.Context, oteltrace.Span) {
	return t.Start(ctx, name, opts...)
}

// EndSpan records *errp on the span, if set, and ends it. Meant to be
// deferred with a pointer to a named error result.
func EndSpan(span oteltrace.Span, errp *error) {
	if errp != nil && *errp != nil {
		recordError(span, *errp)
	}
	span.End()
}

// RecordErrorOnSpan returns a function that records the error on the span
// and passes it through. The span is left open.
func RecordErrorOnSpan(span oteltrace.Span) func(error) error {
	return func(err error) error {
		if err != nil {
			recordError(span, err)
		}
		return err
	}
}

// RecordErrorOnSpanTwo is RecordErrorOnSpan for functions that return a
// value alongside the error.
func RecordErrorOnSpanTwo[T any](span oteltrace.Span) func(T, error) (T, error) {
	return func(t T, err error) (T, error) {
		if err != nil {
			recordError(span, err)
		}
		return t, err
	}
}

// WithAttributes is a convenience for span attributes built from strings.
func WithAttributes(kv ...string) oteltrace.SpanStartOption {
	attrs := make([]attribute.KeyValue, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		attrs = append(attrs, attribute.String(kv[i], kv[i+1]))
	}
	return oteltrace.WithAttributes(attrs...)
}

func recordError(span oteltrace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
