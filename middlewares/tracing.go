package middlewares

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/pagon/internal"
)

const defaultTracerName = "github.com/dmitrymomot/pagon"

// TracingConfig configures the OpenTelemetry middleware.
type TracingConfig struct {
	// Provider creates the tracer. Defaults to the global provider.
	Provider trace.TracerProvider

	// Filter returns false for requests that should not be traced.
	Filter func(c internal.Context) bool

	// Attributes adds custom attributes to the span.
	Attributes func(c internal.Context) []attribute.KeyValue

	TracerName string
}

// TracingOption configures TracingConfig.
type TracingOption func(*TracingConfig)

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(p trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.Provider = p
	}
}

// WithTracerName sets the instrumentation name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTraceFilter sets a filter for requests that should be traced.
func WithTraceFilter(fn func(c internal.Context) bool) TracingOption {
	return func(c *TracingConfig) {
		c.Filter = fn
	}
}

// WithTraceAttributes sets an extractor for custom span attributes.
func WithTraceAttributes(fn func(c internal.Context) []attribute.KeyValue) TracingOption {
	return func(c *TracingConfig) {
		c.Attributes = fn
	}
}

// Tracing returns middleware that wraps the rest of the dispatch in a
// server span. The span context replaces the request context, so handlers
// passing c to clients propagate it. Pass and stop signals end the span
// with an Ok status.
func Tracing(opts ...TracingOption) internal.HandlerFunc {
	cfg := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Provider == nil {
		cfg.Provider = otel.GetTracerProvider()
	}
	tracer := cfg.Provider.Tracer(cfg.TracerName)

	return func(c internal.Context, next internal.Next) error {
		if cfg.Filter != nil && !cfg.Filter(c) {
			return next()
		}

		attrs := []attribute.KeyValue{
			attribute.String("http.request.method", c.Method()),
			attribute.String("url.path", c.Path()),
		}
		if cfg.Attributes != nil {
			attrs = append(attrs, cfg.Attributes(c)...)
		}

		ctx, span := tracer.Start(c.Context(),
			fmt.Sprintf("%s %s", c.Method(), c.Path()),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attrs...),
		)
		defer span.End()
		c.SetContext(ctx)

		err := next()

		if r := c.Route(); r != nil {
			span.SetName(fmt.Sprintf("%s %s", c.Method(), r.Pattern()))
			span.SetAttributes(attribute.String("http.route", r.Pattern()))
		}
		span.SetAttributes(attribute.Int("http.response.status_code", c.ResponseWriter().Status()))

		if err != nil && !internal.IsSignal(err) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		return err
	}
}

// SpanFromContext returns the span started by Tracing, or a no-op span.
func SpanFromContext(c internal.Context) trace.Span {
	return trace.SpanFromContext(c)
}
