package middlewares

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/pagon/internal"
	"github.com/dmitrymomot/pagon/pkg/logger"
)

// requestIDKey is the context key for storing the request ID.
type requestIDKey struct{}

// DefaultRequestIDHeaders are the headers checked (in order) for an existing request ID.
var DefaultRequestIDHeaders = []string{"X-Request-ID", "X-Correlation-ID"}

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	Generator      func() string // ID generator function
	ResponseHeader string        // Response header name
	Sources        []internal.ExtractorSource
}

// RequestIDOption configures RequestIDConfig.
type RequestIDOption func(*RequestIDConfig)

// WithRequestIDHeaders sets the headers to check for existing request IDs.
func WithRequestIDHeaders(headers ...string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.Sources = headerSources(headers)
	}
}

// WithRequestIDSources replaces the places an incoming ID is read from.
func WithRequestIDSources(sources ...internal.ExtractorSource) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.Sources = sources
	}
}

// WithRequestIDGenerator sets a custom ID generator function.
func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		if gen != nil {
			cfg.Generator = gen
		}
	}
}

// WithRequestIDResponseHeader sets the response header name.
func WithRequestIDResponseHeader(header string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.ResponseHeader = header
	}
}

// RequestID returns middleware that assigns a unique request ID to each request.
// An upstream ID is reused when one of the sources carries it; otherwise a
// UUIDv4 is generated. The ID is stored in the context and echoed in the
// response header.
func RequestID(opts ...RequestIDOption) internal.HandlerFunc {
	cfg := &RequestIDConfig{
		Sources:        headerSources(DefaultRequestIDHeaders),
		Generator:      uuid.NewString,
		ResponseHeader: "X-Request-ID",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	extractor := internal.NewExtractor(cfg.Sources...)

	return func(c internal.Context, next internal.Next) error {
		reqID, ok := extractor.Extract(c)
		if !ok {
			reqID = cfg.Generator()
		}

		c.Set(requestIDKey{}, reqID)
		if cfg.ResponseHeader != "" {
			c.SetHeader(cfg.ResponseHeader, reqID)
		}

		return next()
	}
}

// GetRequestID extracts the request ID from the context.
// Returns an empty string if no request ID is set.
func GetRequestID(c internal.Context) string {
	if v, ok := c.Get(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// RequestIDExtractor returns a ContextExtractor for use with WithLogger.
// Automatically adds "request_id" to all log entries.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v, ok := ctx.Value(requestIDKey{}).(string); ok && v != "" {
			return slog.String("request_id", v), true
		}
		return slog.Attr{}, false
	}
}

func headerSources(headers []string) []internal.ExtractorSource {
	sources := make([]internal.ExtractorSource, 0, len(headers))
	for _, h := range headers {
		sources = append(sources, internal.FromHeader(h))
	}
	return sources
}
