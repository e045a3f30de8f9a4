package cahc

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/rbaliyan/config/codec"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Codec wraps an inner codec with CAHC encryption.
// On Encode, the inner codec serializes the value, then the result is sealed
// into a base64 envelope under the provider's current key.
// On Decode, the envelope is opened with the first provider key that
// authenticates, then the inner codec deserializes the plaintext.
//
// Codec is safe for concurrent use if the underlying KeyProvider and inner codec are safe
// for concurrent use. StaticKeyProvider satisfies this requirement.
type Codec struct {
	inner      codec.Codec
	provider   KeyProvider
	name       string
	iterations int
	tel        *telemetry
}

// Compile-time interface check.
var _ codec.Codec = (*Codec)(nil)

// CodecOption configures a Codec.
type CodecOption func(*codecOptions)

type codecOptions struct {
	iterations     int
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithCodecIterations sets the PBKDF2 iteration count for new envelopes.
// The value is clamped like WithIterations.
func WithCodecIterations(n int) CodecOption {
	return func(o *codecOptions) {
		o.iterations = n
	}
}

// WithTracerProvider sets the tracer provider. Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) CodecOption {
	return func(o *codecOptions) {
		o.tracerProvider = tp
	}
}

// WithMeterProvider sets the meter provider. Defaults to the global provider.
func WithMeterProvider(mp metric.MeterProvider) CodecOption {
	return func(o *codecOptions) {
		o.meterProvider = mp
	}
}

// NewCodec creates an encrypting codec that wraps the given inner codec.
// The codec name is "cahc:<inner>", e.g. "cahc:json".
// Returns an error if inner or provider is nil.
func NewCodec(inner codec.Codec, provider KeyProvider, opts ...CodecOption) (*Codec, error) {
	if inner == nil {
		return nil, fmt.Errorf("cahc: NewCodec inner codec is nil")
	}
	if provider == nil {
		return nil, fmt.Errorf("cahc: NewCodec provider is nil")
	}

	o := codecOptions{
		iterations:     DefaultIterations,
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	tel, err := newTelemetry(o.tracerProvider, o.meterProvider)
	if err != nil {
		return nil, err
	}

	return &Codec{
		inner:      inner,
		provider:   provider,
		name:       "cahc:" + inner.Name(),
		iterations: clampIterations(o.iterations),
		tel:        tel,
	}, nil
}

// Name returns the codec name, e.g. "cahc:json".
func (c *Codec) Name() string {
	return c.name
}

// Encode serializes the value using the inner codec, then encrypts the result.
func (c *Codec) Encode(v any) (data []byte, err error) {
	ctx, done := c.tel.start(context.Background(), opEncode)
	defer func() { done(err, len(data)) }()

	plaintext, err := c.inner.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("cahc: inner encode failed: %w", err)
	}
	defer clear(plaintext)

	key, err := c.provider.CurrentKey()
	if err != nil {
		return nil, fmt.Errorf("cahc: failed to get current key: %w", err)
	}
	c.tel.event(ctx, "key.selected")

	text, _, err := encrypt(plaintext, key.Secret, nil, c.iterations, rand.Reader)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// Decode decrypts the data, then deserializes the plaintext using the inner codec.
func (c *Codec) Decode(data []byte, v any) (err error) {
	_, done := c.tel.start(context.Background(), opDecode)
	defer func() { done(err, len(data)) }()

	plaintext, err := decrypt(string(data), c.provider)
	if err != nil {
		return fmt.Errorf("cahc: decrypt failed: %w", err)
	}
	defer clear(plaintext)

	if err := c.inner.Decode(plaintext, v); err != nil {
		return fmt.Errorf("cahc: inner decode failed: %w", err)
	}
	return nil
}
