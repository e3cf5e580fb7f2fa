package logger

import (
	"io"
	"log/slog"
)

// NewNope returns a logger that writes nothing. Apps, contexts and the
// server runtime start with it until a real logger is configured.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
