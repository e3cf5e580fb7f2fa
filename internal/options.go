package internal

import (
	"log/slog"

	"github.com/dmitrymomot/pagon/pkg/logger"
)

// Option configures the application.
type Option func(*App)

// WithLogger creates a logger with a component name and optional extractors.
// The component name is added to every log entry for easy filtering.
// Extractors pull values from context (e.g., request_id, route).
//
// Example:
//
//	pagon.New(
//	    pagon.WithLogger("api", middlewares.RequestIDExtractor(), pagon.RouteExtractor()),
//	)
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		cfg, err := logger.ConfigFromEnv()
		a.logger = logger.New(cfg, extractors...).With("component", component)
		if err != nil {
			a.logger.Warn("invalid logger environment, using defaults", slog.String("error", err.Error()))
		}
	}
}

// WithCustomLogger sets a fully custom logger.
// Use this when you need complete control over logging configuration.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMiddleware adds global middleware to the application.
// Middleware runs in the order provided, before routes and before
// middleware added later.
func WithMiddleware(refs ...any) Option {
	return func(a *App) {
		for _, ref := range refs {
			a.middleware = append(a.middleware, pendingMiddleware{ref: ref})
		}
	}
}

// WithMiddlewareAt adds middleware active only for paths starting with
// prefix. The match is a plain string prefix: "/admin" also covers
// "/administrator". opts are handed to the factory when ref is a name.
//
// Example:
//
//	pagon.New(
//	    pagon.WithFactory("auth", auth.Factory),
//	    pagon.WithMiddlewareAt("/admin", "auth", pagon.HandlerOptions{"role": "admin"}),
//	)
func WithMiddlewareAt(prefix string, ref any, opts HandlerOptions) Option {
	return func(a *App) {
		a.middleware = append(a.middleware, pendingMiddleware{ref: ref, opts: opts, prefix: prefix})
	}
}

// WithModules registers modules that declare routes.
// Each module's Routes method is called during setup, in order.
func WithModules(m ...Module) Option {
	return func(a *App) {
		a.modules = append(a.modules, m...)
	}
}

// WithFactory registers a named handler factory. Routes, middleware,
// manifests and the fallback refer to it by name.
func WithFactory(name string, f Factory) Option {
	return func(a *App) {
		if name != "" && f != nil {
			a.factories[name] = f
		}
	}
}

// WithHandler registers a named handler that takes no options.
func WithHandler(name string, h HandlerFunc) Option {
	return func(a *App) {
		if name != "" && h != nil {
			a.factories[name] = func(HandlerOptions) (HandlerFunc, error) { return h, nil }
		}
	}
}

// WithResolver replaces the handler registry.
// Factories registered with WithFactory are added to it during setup.
func WithResolver(r *Resolver) Option {
	return func(a *App) {
		if r != nil {
			a.resolver = r
		}
	}
}

// WithFallback sets the resolver that maps unmatched paths to handler
// names. It runs after the last route, before the request is declared
// not found.
func WithFallback(fb FallbackFunc) Option {
	return func(a *App) {
		a.fallback = fb
	}
}

// WithErrorHandler sets a custom error handler.
// Called when a handler returns an error other than a control signal.
// A nil return or a signal marks the error as handled.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithNotFoundHandler sets the handler for exhausted dispatches.
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithDebug makes errors escaping the dispatch panic instead of being
// turned into error responses. Intended for development and tests.
func WithDebug(debug bool) Option {
	return func(a *App) {
		a.debug = debug
	}
}

// WithManifest registers routes and middleware declared in a manifest.
// Handler names in the manifest must resolve through registered factories.
func WithManifest(m *Manifest) Option {
	return func(a *App) {
		if m != nil {
			a.manifests = append(a.manifests, m)
		}
	}
}

// WithLivenessPath changes the liveness probe path of App.Handler.
// An empty path disables the probe.
func WithLivenessPath(path string) Option {
	return func(a *App) {
		a.livenessPath = path
	}
}

// WithReadinessChecks adds named checks served at the readiness path.
//
// Example:
//
//	pagon.New(
//	    pagon.WithReadinessChecks(map[string]pagon.CheckFunc{
//	        "db": pool.Ping,
//	    }),
//	)
func WithReadinessChecks(checks map[string]CheckFunc) Option {
	return func(a *App) {
		if a.readiness == nil {
			a.readiness = make(healthChecks, len(checks))
		}
		for name, check := range checks {
			if check != nil {
				a.readiness[name] = check
			}
		}
	}
}

// WithReadinessPath changes the readiness probe path of App.Handler.
func WithReadinessPath(path string) Option {
	return func(a *App) {
		if path != "" {
			a.readinessPath = path
		}
	}
}
