package cahc

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/rbaliyan/config-cahc"

const (
	opEncode = "encode"
	opDecode = "decode"
)

// telemetry records spans and metrics for codec operations. Attributes
// carry operation names, outcomes and sizes only.
type telemetry struct {
	tracer     trace.Tracer
	operations metric.Int64Counter
	sizes      metric.Int64Histogram
}

func newTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) (*telemetry, error) {
	meter := mp.Meter(instrumentationName)

	operations, err := meter.Int64Counter("cahc.operations",
		metric.WithDescription("Number of CAHC codec operations by outcome."),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("cahc: failed to create operations counter: %w", err)
	}

	sizes, err := meter.Int64Histogram("cahc.payload.size",
		metric.WithDescription("Size of encoded envelopes handled by the codec."),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("cahc: failed to create payload size histogram: %w", err)
	}

	return &telemetry{
		tracer:     tp.Tracer(instrumentationName),
		operations: operations,
		sizes:      sizes,
	}, nil
}

// start opens a span for op. The returned func ends it and records the
// outcome and the envelope size.
func (t *telemetry) start(ctx context.Context, op string) (context.Context, func(err error, size int)) {
	ctx, span := t.tracer.Start(ctx, "cahc."+op, trace.WithSpanKind(trace.SpanKindInternal))
	return ctx, func(err error, size int) {
		result := outcome(err)
		attrs := metric.WithAttributes(
			attribute.String("operation", op),
			attribute.String("outcome", result),
		)
		t.operations.Add(ctx, 1, attrs)
		if err == nil {
			t.sizes.Record(ctx, int64(size), metric.WithAttributes(attribute.String("operation", op)))
			span.SetAttributes(attribute.Int("cahc.envelope.size", size))
		} else {
			span.SetStatus(codes.Error, result)
		}
		span.End()
	}
}

func (t *telemetry) event(ctx context.Context, name string) {
	trace.SpanFromContext(ctx).AddEvent(name)
}

// outcome classifies err without exposing its message.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsMalformedEncoding(err), IsTruncated(err):
		return "malformed"
	case IsUnsupportedVersion(err):
		return "unsupported_version"
	case IsAuthenticationFailed(err):
		return "authentication_failed"
	case IsInvalidParameter(err), IsInvalidKey(err):
		return "invalid_parameter"
	default:
		return "error"
	}
}
