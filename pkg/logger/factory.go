package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Config describes where and how much to log.
type Config struct {
	// Output receives the log lines. Defaults to os.Stdout.
	Output io.Writer

	// Level is the minimum level written to Output.
	Level slog.Level `env:"LOG_LEVEL" envDefault:"info"`

	// Format is FormatJSON (default) or FormatText.
	Format string `env:"LOG_FORMAT" envDefault:"json"`

	// Sentry enables error reporting when its DSN is set.
	Sentry SentryConfig
}

// ConfigFromEnv reads LOG_LEVEL, LOG_FORMAT, SENTRY_DSN, SENTRY_ENVIRONMENT
// and SENTRY_MIN_LEVEL. A malformed value is reported as an error; the
// returned Config then holds whatever was parsed before it.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse logger config: %w", err)
	}
	cfg.Format = strings.ToLower(cfg.Format)
	return cfg, nil
}

// New creates a logger from cfg with optional context extractors.
// Extractors apply to every destination, Sentry included.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: cfg.Level}
	var handler slog.Handler
	if cfg.Format == FormatText {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	if cfg.Sentry.DSN != "" {
		sh, err := newSentryHandler(cfg.Sentry)
		if err != nil {
			// Graceful degradation: keep logging to Output
			slog.New(handler).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		} else {
			handler = newMultiHandler(handler, sh)
		}
	}

	return slog.New(NewLogHandlerDecorator(handler, extractors...))
}
