package middlewares

import (
	"runtime"

	"github.com/dmitrymomot/pagon/internal"
)

// DefaultStackSize is the default maximum stack trace size in bytes.
const DefaultStackSize = 4096

// RecoverConfig configures the recover middleware.
type RecoverConfig struct {
	StackSize         int  // Max stack trace size (default: 4096)
	DisablePrintStack bool // Disable stack trace in logs
}

// RecoverOption configures RecoverConfig.
type RecoverOption func(*RecoverConfig)

// WithRecoverStackSize sets the maximum stack trace size.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		if size > 0 {
			cfg.StackSize = size
		}
	}
}

// WithRecoverDisablePrintStack disables including stack trace in logs.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisablePrintStack = true
	}
}

// Recover returns middleware that turns a panic anywhere downstream of it
// into a PanicError for the error handler. Register it first so it covers
// the whole chain.
func Recover(opts ...RecoverOption) internal.HandlerFunc {
	cfg := &RecoverConfig{
		StackSize: DefaultStackSize,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(c internal.Context, next internal.Next) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			if cfg.DisablePrintStack {
				c.LogError("panic recovered", "panic", r)
				err = &PanicError{Value: r}
				return
			}

			stack := make([]byte, cfg.StackSize)
			stack = stack[:runtime.Stack(stack, false)]
			c.LogError("panic recovered", "panic", r, "stack", string(stack))
			err = &PanicError{Value: r, Stack: stack}
		}()

		return next()
	}
}
