package middlewares

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrymomot/pagon/internal"
)

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 30 * time.Second

// Timeout returns middleware that puts a deadline on the request context.
// Downstream handlers see it through c.Done() and c.Err() and are expected
// to give up once it passes. When the deadline was hit and nothing has been
// written yet, the request fails with a 503 whose cause is a TimeoutError.
//
// A non-positive timeout uses DefaultTimeout.
func Timeout(timeout time.Duration) internal.HandlerFunc {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return func(c internal.Context, next internal.Next) error {
		ctx, cancel := context.WithTimeout(c.Context(), timeout)
		defer cancel()

		c.SetContext(ctx)
		err := next()

		if !errors.Is(ctx.Err(), context.DeadlineExceeded) || c.Written() {
			return err
		}
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		c.LogWarn("request timeout", "timeout", timeout.String())
		return internal.NewHTTPError(http.StatusServiceUnavailable, "request timeout",
			internal.WithCause(&TimeoutError{Duration: timeout}))
	}
}
