// Package middlewares provides stack entries for pagon applications.
//
// Every middleware is a pagon.HandlerFunc: it runs its own code, calls
// next to continue the dispatch and inspects what the rest of the chain
// returned. Register them with pagon.WithMiddleware or app.Use, or scope
// them to a path prefix with pagon.WithMiddlewareAt.
//
//	app := pagon.New(
//	    pagon.WithLogger("api", middlewares.RequestIDExtractor(), pagon.RouteExtractor()),
//	    pagon.WithMiddleware(
//	        middlewares.Recover(),
//	        middlewares.RequestID(),
//	        middlewares.AccessLog(),
//	        middlewares.Tracing(),
//	        middlewares.Metrics(),
//	    ),
//	    pagon.WithMiddlewareAt("/api/", middlewares.CORS(
//	        middlewares.WithAllowOrigins("https://app.example.com"),
//	    ), nil),
//	)
//
// # Recover
//
// Recover turns panics raised downstream into a *PanicError returned to
// the error handler, which may inspect it with AsPanicError.
//
// # Request ID
//
// RequestID reuses an upstream X-Request-ID (or X-Correlation-ID) header
// or generates a UUID. GetRequestID reads it back; RequestIDExtractor
// adds it to every log entry.
//
// # Access Log
//
// AccessLog writes one entry per request after the chain returned, with
// status, size, duration and the matched route pattern.
//
// # Timeout
//
// Timeout puts a deadline on the request context. Handlers that honor
// c.Done() give up in time, and the request fails with a 503 carrying a
// *TimeoutError.
//
// # CORS
//
// CORS sets the Access-Control headers for allowed origins. Preflight
// requests are answered directly and stop the dispatch.
//
// # Metrics and Tracing
//
// Metrics records Prometheus counters and a duration histogram labelled by
// route pattern. Tracing starts an OpenTelemetry server span and places it
// in the request context.
package middlewares
