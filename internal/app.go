package internal

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/pagon/pkg/logger"
)

// Default server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// DefaultLivenessPath answers liveness probes ahead of the dispatcher.
const DefaultLivenessPath = "/_pagon/live"

// App owns the route table, the middleware stack and the dispatcher that
// runs requests through them. Everything is registered during setup, via
// options or the Router methods; once requests are served the App is only
// read.
type App struct {
	*group

	logger          *slog.Logger
	routes          *RouteTable
	stack           *MiddlewareStack
	resolver        *Resolver
	dispatcher      *Dispatcher
	fallback        FallbackFunc
	errorHandler    ErrorHandler
	notFoundHandler HandlerFunc
	livenessPath    string
	readinessPath   string
	readiness       healthChecks

	factories  map[string]Factory
	middleware []pendingMiddleware
	manifests  []*Manifest
	modules    []Module

	debug bool
}

// pendingMiddleware is middleware declared through options; it is
// resolved once all options have been applied.
type pendingMiddleware struct {
	ref    any
	opts   HandlerOptions
	prefix string
}

// New creates an application with the given options.
// Invalid routes or middleware make New panic with a RouteSpecError.
//
// Example:
//
//	app := pagon.New(
//	    pagon.WithLogger("web"),
//	    pagon.WithMiddleware(middlewares.Recover(), middlewares.RequestID()),
//	    pagon.WithModules(handlers.NewUsers(repo)),
//	    pagon.WithFallback(pagon.ConventionFallback("web.")),
//	)
func New(opts ...Option) *App {
	a := &App{
		logger:        logger.NewNope(),
		routes:        NewRouteTable(),
		stack:         NewMiddlewareStack(),
		resolver:      NewResolver(),
		livenessPath:  DefaultLivenessPath,
		readinessPath: DefaultReadinessPath,
		factories:     make(map[string]Factory),
	}
	a.group = &group{app: a}

	for _, opt := range opts {
		opt(a)
	}

	a.dispatcher = NewDispatcher(a.stack, a.routes,
		WithDispatchFallback(a.fallback),
		WithDispatchResolver(a.resolver),
		WithDispatchLogger(a.logger),
	)
	a.setup()
	return a
}

// setup resolves everything declared through options, in a fixed order:
// named factories, global middleware, manifests, modules.
func (a *App) setup() {
	for name, f := range a.factories {
		a.resolver.Register(name, f)
	}
	for _, m := range a.middleware {
		a.UseAt(m.prefix, m.ref, m.opts)
	}
	for _, m := range a.manifests {
		if err := m.Apply(a.stack, a.routes, a.resolver); err != nil {
			panic(err)
		}
	}
	for _, m := range a.modules {
		m.Routes(a.group)
	}
}

// Routes returns the route table.
func (a *App) Routes() *RouteTable { return a.routes }

// Stack returns the middleware stack.
func (a *App) Stack() *MiddlewareStack { return a.stack }

// Resolver returns the handler registry.
func (a *App) Resolver() *Resolver { return a.resolver }

// Dispatcher returns the dispatcher.
func (a *App) Dispatcher() *Dispatcher { return a.dispatcher }

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// URLFor builds a path from a named route.
func (a *App) URLFor(name string, params map[string]string, args ...string) (string, error) {
	return a.routes.URLFor(name, params, args...)
}

// ServeHTTP dispatches the request. An exhausted dispatch without a
// written response becomes a 404; errors go to the error handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c := newContext(w, r, a)

	handled, err := a.dispatcher.Run(c)
	if err != nil {
		a.handleError(c, err)
		return
	}
	if !handled && !c.Written() {
		a.handleNotFound(c)
	}
}

// Handler returns the HTTP entry point: a chi router that answers health
// probes and resolves the client IP before every request reaches ServeHTTP.
func (a *App) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	if a.livenessPath != "" {
		r.Use(middleware.Heartbeat(a.livenessPath))
	}
	r.Get(a.readinessPath, readinessHandler(a.readiness, a.logger))
	r.Handle("/", a)
	r.Handle("/*", a)
	return r
}

// Run starts the HTTP server on addr and blocks until shutdown.
//
// Example:
//
//	err := app.Run(":8080", pagon.Logger(slog.Default()))
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if cfg.logger == nil {
		cfg.logger = a.logger
	}
	return runServer(runtimeConfig{
		handler:         a.Handler(),
		address:         addr,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		shutdownHooks:   cfg.shutdownHooks,
		baseCtx:         cfg.baseCtx,
	})
}

func (a *App) handleNotFound(c Context) {
	if a.notFoundHandler == nil {
		http.NotFound(c.Response(), c.Request())
		return
	}
	err := a.notFoundHandler(c, func() error { return nil })
	if err != nil && !IsSignal(err) {
		a.handleError(c, err)
	}
}

// handleError is the boundary for errors escaping the dispatch.
// In debug mode the error is re-raised as a panic.
func (a *App) handleError(c Context, err error) {
	if a.debug {
		panic(err)
	}

	if c.Written() {
		c.LogError("error after response was written", slog.Any("error", err))
		return
	}

	if a.errorHandler != nil {
		herr := a.errorHandler(c, err)
		if herr == nil || IsSignal(herr) {
			return
		}
		err = herr
	}

	code, msg := http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	if he := AsHTTPError(err); he != nil {
		code, msg = he.Code, he.Message
	}
	if code >= http.StatusInternalServerError {
		c.LogError("request failed", slog.Any("error", err))
	}
	http.Error(c.Response(), msg, code)
}
