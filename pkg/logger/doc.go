// Package logger builds slog loggers with context extraction and optional
// Sentry reporting.
//
// A ContextExtractor pulls one attribute out of the context passed to the
// *Context logging methods. Extractors run on every call, so values stored
// per request (request IDs, the matched route) always show up fresh:
//
//	requestID := func(ctx context.Context) (slog.Attr, bool) {
//		if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
//			return slog.String("request_id", id), true
//		}
//		return slog.Attr{}, false
//	}
//
//	log := logger.New(logger.Config{Level: slog.LevelDebug}, requestID)
//	log.InfoContext(ctx, "request processed", slog.Int("status", 200))
//
// Config.Sentry enables error tracking. With an empty DSN, or when the SDK
// fails to initialize, the logger writes to Config.Output only, so the same
// code path works in development and production. ConfigFromEnv parses the
// whole configuration from the environment with caarlos0/env; Config and
// SentryConfig carry env tags, so they can also be embedded in a larger
// application config.
//
// NewLogHandlerDecorator adds extraction to any slog.Handler, and NewNope
// returns a logger that discards everything.
package logger
