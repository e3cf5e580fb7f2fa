package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/pagon/internal"
)

// AccessLogConfig configures the access log middleware.
type AccessLogConfig struct {
	// Skip excludes requests from the log, e.g. static assets.
	Skip func(c internal.Context) bool

	// Level is used for requests answered below 500.
	Level slog.Level
}

// AccessLogOption configures AccessLogConfig.
type AccessLogOption func(*AccessLogConfig)

// WithAccessLogSkip sets a filter for requests that should not be logged.
func WithAccessLogSkip(fn func(c internal.Context) bool) AccessLogOption {
	return func(cfg *AccessLogConfig) {
		cfg.Skip = fn
	}
}

// WithAccessLogLevel sets the level for successful requests.
func WithAccessLogLevel(level slog.Level) AccessLogOption {
	return func(cfg *AccessLogConfig) {
		cfg.Level = level
	}
}

// AccessLog returns middleware that logs one line per request once the
// rest of the chain returned. Pass and stop signals are dispatch outcomes,
// not failures, and are reported as such.
func AccessLog(opts ...AccessLogOption) internal.HandlerFunc {
	cfg := &AccessLogConfig{Level: slog.LevelInfo}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c internal.Context, next internal.Next) error {
		if cfg.Skip != nil && cfg.Skip(c) {
			return next()
		}

		start := time.Now()
		err := next()

		rw := c.ResponseWriter()
		status := rw.Status()
		unmatched := err == nil && !c.Written() && internal.Exhausted(c)
		if unmatched {
			status = http.StatusNotFound
		}
		attrs := []slog.Attr{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Int64("size", rw.Size()),
			slog.Duration("duration", time.Since(start)),
		}
		if r := c.Route(); r != nil {
			attrs = append(attrs, slog.String("pattern", r.Pattern()))
		}

		level := cfg.Level
		switch {
		case unmatched:
			attrs = append(attrs, slog.String("outcome", "unmatched"))
		case internal.IsPass(err):
			attrs = append(attrs, slog.String("outcome", "pass"))
		case internal.IsStop(err):
			attrs = append(attrs, slog.String("outcome", "stop"))
		case err != nil:
			level = slog.LevelError
			attrs = append(attrs, slog.Any("error", err))
		case status >= 500:
			level = slog.LevelError
		}

		c.Logger().LogAttrs(c, level, "request", attrs...)
		return err
	}
}
