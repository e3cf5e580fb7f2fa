package pagon

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/pagon/internal"
	"github.com/dmitrymomot/pagon/pkg/logger"
	"github.com/dmitrymomot/pagon/pkg/pattern"
)

// Type aliases - public API
type (
	// App owns the route table, the middleware stack and the dispatcher.
	App = internal.App

	// Router is the registration surface handed to modules and groups.
	Router = internal.Router

	// Module declares routes on a router.
	Module = internal.Module

	// Context provides request/response access and the matched route's captures.
	Context = internal.Context

	// Next invokes the rest of the dispatch chain.
	Next = internal.Next

	// HandlerFunc is the signature for middleware and route handlers.
	HandlerFunc = internal.HandlerFunc

	// Handler is implemented by types usable as a handler reference.
	Handler = internal.Handler

	// Middleware wraps a HandlerFunc in the decorator style.
	Middleware = internal.Middleware

	// ErrorHandler handles errors returned from the dispatch.
	ErrorHandler = internal.ErrorHandler

	// HandlerOptions are passed to named factories.
	HandlerOptions = internal.HandlerOptions

	// Factory builds a handler from reference options.
	Factory = internal.Factory

	// FallbackFunc maps unmatched paths to handler names.
	FallbackFunc = internal.FallbackFunc

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// Route is one entry of the route table.
	Route = internal.Route

	// RouteOption configures a route at registration time.
	RouteOption = internal.RouteOption

	// RouteTable holds routes in registration order.
	RouteTable = internal.RouteTable

	// MiddlewareStack holds middleware entries in registration order.
	MiddlewareStack = internal.MiddlewareStack

	// MiddlewareEntry is one element of the middleware stack.
	MiddlewareEntry = internal.MiddlewareEntry

	// Resolver turns handler references into handlers.
	Resolver = internal.Resolver

	// Dispatcher runs requests through a stack and a route table.
	Dispatcher = internal.Dispatcher

	// DispatcherOption configures a Dispatcher.
	DispatcherOption = internal.DispatcherOption

	// Manifest declares middleware and routes by handler name.
	Manifest = internal.Manifest

	// MiddlewareSpec declares one middleware entry of a manifest.
	MiddlewareSpec = internal.MiddlewareSpec

	// RouteSpec declares one route of a manifest.
	RouteSpec = internal.RouteSpec

	// ContextOption configures a Context built with NewContext.
	ContextOption = internal.ContextOption

	// ResponseWriter records the status and size of the response.
	ResponseWriter = internal.ResponseWriter

	// HTTPError carries the status code the error boundary answers with.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// RouteSpecError reports a route or middleware that cannot be registered.
	RouteSpecError = internal.RouteSpecError

	// CheckFunc is a readiness check.
	CheckFunc = internal.CheckFunc

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// Extractor tries several request sources in order.
	Extractor = internal.Extractor

	// ExtractorSource reads one value from the request.
	ExtractorSource = internal.ExtractorSource
)

// MethodAny allows every HTTP method on a route.
const MethodAny = internal.MethodAny

// Probe paths served by App.Handler ahead of the dispatcher.
const (
	DefaultLivenessPath  = internal.DefaultLivenessPath
	DefaultReadinessPath = internal.DefaultReadinessPath
)

// Control signals and sentinel errors.
var (
	// ErrPass declines the request; the next candidate handler runs.
	ErrPass = internal.ErrPass

	// ErrStop ends the dispatch; the request counts as handled.
	ErrStop = internal.ErrStop

	ErrUnknownRouteName = internal.ErrUnknownRouteName
	ErrUnknownHandler   = internal.ErrUnknownHandler
	ErrInvalidHandler   = internal.ErrInvalidHandler
	ErrNoHandlers       = internal.ErrNoHandlers
	ErrInvalidManifest  = internal.ErrInvalidManifest

	// Pattern errors, wrapped by route registration and URLFor.
	ErrInvalidPattern = pattern.ErrInvalidPattern
	ErrMissingParam   = pattern.ErrMissingParam
	ErrNotReversible  = pattern.ErrNotReversible
)

// Constructors

// New creates a new application with the given options.
// Invalid routes or middleware make New panic with a *RouteSpecError.
//
// Example:
//
//	app := pagon.New(
//	    pagon.WithLogger("web", middlewares.RequestIDExtractor()),
//	    pagon.WithMiddleware(middlewares.Recover(), middlewares.RequestID()),
//	    pagon.WithModules(handlers.NewUsers(repo)),
//	)
//
//	err := app.Run(":8080", pagon.ShutdownHook(db.Close))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// NewDispatcher creates a standalone dispatcher over stack and routes.
func NewDispatcher(stack *MiddlewareStack, routes *RouteTable, opts ...DispatcherOption) *Dispatcher {
	return internal.NewDispatcher(stack, routes, opts...)
}

// NewRouteTable creates an empty route table.
func NewRouteTable() *RouteTable {
	return internal.NewRouteTable()
}

// NewMiddlewareStack creates an empty middleware stack.
func NewMiddlewareStack() *MiddlewareStack {
	return internal.NewMiddlewareStack()
}

// NewResolver creates an empty handler registry.
func NewResolver() *Resolver {
	return internal.NewResolver()
}

// NewContext creates a Context outside an App, for tests and tools.
func NewContext(w http.ResponseWriter, r *http.Request, opts ...ContextOption) Context {
	return internal.NewContext(w, r, opts...)
}

// NewHTTPError creates an HTTPError.
//
//	return pagon.NewHTTPError(http.StatusForbidden, "forbidden")
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

// ErrNotFound creates a 404 HTTPError.
func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrNotFound(message, opts...)
}

// ErrBadRequest creates a 400 HTTPError.
func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrBadRequest(message, opts...)
}

// ErrInternal creates a 500 HTTPError.
func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrInternal(message, opts...)
}

// Dispatch control

// Pass declines the request so the next candidate handler runs.
func Pass() error { return internal.Pass() }

// Stop ends the dispatch with the response as written.
func Stop() error { return internal.Stop() }

// IsPass reports whether err is the pass signal.
func IsPass(err error) bool { return internal.IsPass(err) }

// IsStop reports whether err is the stop signal.
func IsStop(err error) bool { return internal.IsStop(err) }

// Exhausted reports whether nothing handled the request dispatched on c.
// Middleware reads it after next returned, before the not-found response
// is written.
func Exhausted(c Context) bool { return internal.Exhausted(c) }

// IsSignal reports whether err is one of the dispatch control signals.
func IsSignal(err error) bool { return internal.IsSignal(err) }

// Chain composes handlers into one, with the dispatcher's continuation rules.
func Chain(handlers ...HandlerFunc) HandlerFunc {
	return internal.Chain(handlers...)
}

// ConventionFallback derives handler names from unmatched paths:
// "/admin/user-list" becomes namespace+"Admin.UserList".
func ConventionFallback(namespace string) FallbackFunc {
	return internal.ConventionFallback(namespace)
}

// Manifests

// ParseManifest decodes a YAML manifest.
func ParseManifest(r io.Reader) (*Manifest, error) {
	return internal.ParseManifest(r)
}

// LoadManifest reads and decodes a YAML manifest file.
func LoadManifest(path string) (*Manifest, error) {
	return internal.LoadManifest(path)
}

// App options

// WithLogger creates a logger with a component name and optional extractors.
// Level, format and Sentry reporting are read from the environment
// (LOG_LEVEL, LOG_FORMAT, SENTRY_DSN, SENTRY_ENVIRONMENT).
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithMiddleware adds global middleware to the application.
// Middleware runs in the order provided.
func WithMiddleware(refs ...any) Option {
	return internal.WithMiddleware(refs...)
}

// WithMiddlewareAt adds middleware active for paths starting with prefix.
func WithMiddlewareAt(prefix string, ref any, opts HandlerOptions) Option {
	return internal.WithMiddlewareAt(prefix, ref, opts)
}

// WithModules registers modules that declare routes.
func WithModules(m ...Module) Option {
	return internal.WithModules(m...)
}

// WithFactory registers a named handler factory.
func WithFactory(name string, f Factory) Option {
	return internal.WithFactory(name, f)
}

// WithHandler registers a named handler that takes no options.
func WithHandler(name string, h HandlerFunc) Option {
	return internal.WithHandler(name, h)
}

// WithResolver replaces the handler registry.
func WithResolver(r *Resolver) Option {
	return internal.WithResolver(r)
}

// WithFallback sets the resolver consulted after the last route.
//
//	pagon.New(pagon.WithFallback(pagon.ConventionFallback("pages.")))
func WithFallback(fb FallbackFunc) Option {
	return internal.WithFallback(fb)
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler sets the handler for exhausted dispatches.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithDebug makes escaping errors panic instead of becoming responses.
func WithDebug(debug bool) Option {
	return internal.WithDebug(debug)
}

// WithManifest registers the routes and middleware of a manifest.
func WithManifest(m *Manifest) Option {
	return internal.WithManifest(m)
}

// WithLivenessPath changes the liveness probe path. Empty disables it.
func WithLivenessPath(path string) Option {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath changes the readiness probe path.
func WithReadinessPath(path string) Option {
	return internal.WithReadinessPath(path)
}

// WithReadinessChecks adds named checks served at the readiness path.
func WithReadinessChecks(checks map[string]CheckFunc) Option {
	return internal.WithReadinessChecks(checks)
}

// Route options

// WithRules overrides the capture body of named placeholders.
func WithRules(rules map[string]string) RouteOption {
	return internal.WithRules(rules)
}

// WithDefaults sets fallback values for captures that matched empty.
func WithDefaults(defaults map[string]string) RouteOption {
	return internal.WithDefaults(defaults)
}

// Dispatcher options

// WithDispatchFallback sets the fallback of a standalone dispatcher.
func WithDispatchFallback(fb FallbackFunc) DispatcherOption {
	return internal.WithDispatchFallback(fb)
}

// WithDispatchResolver sets the handler registry of a standalone dispatcher.
func WithDispatchResolver(r *Resolver) DispatcherOption {
	return internal.WithDispatchResolver(r)
}

// WithDispatchLogger sets the logger of a standalone dispatcher.
func WithDispatchLogger(l *slog.Logger) DispatcherOption {
	return internal.WithDispatchLogger(l)
}

// Context options

// WithContextLogger sets the logger of a standalone Context.
func WithContextLogger(l *slog.Logger) ContextOption {
	return internal.WithContextLogger(l)
}

// WithContextRoutes sets the route table a standalone Context uses for URLFor.
func WithContextRoutes(t *RouteTable) ContextOption {
	return internal.WithContextRoutes(t)
}

// Run options

// Logger sets the runtime logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the timeout for graceful shutdown.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// ShutdownHook registers a cleanup function to run during shutdown.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets a custom base context for signal handling.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Errors

// WithCause attaches the underlying error to an HTTPError.
func WithCause(err error) HTTPErrorOption {
	return internal.WithCause(err)
}

// AsHTTPError returns the HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}

// IsRouteSpecError reports whether err is a RouteSpecError.
func IsRouteSpecError(err error) bool {
	return internal.IsRouteSpecError(err)
}

// Logging

// RouteExtractor adds the matched route to every log entry.
func RouteExtractor() ContextExtractor {
	return internal.RouteExtractor()
}

// Request helpers

// ContextValue returns the value stored with c.Set(key, ...) as T.
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// Param retrieves a typed named capture of the matched route.
func Param[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string) T {
	return internal.Param[T](c, name)
}

// Arg retrieves a typed positional capture by index.
func Arg[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, i int) T {
	return internal.Arg[T](c, i)
}

// Query retrieves a typed query parameter.
func Query[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string) T {
	return internal.Query[T](c, name)
}

// QueryDefault retrieves a typed query parameter with a default value.
func QueryDefault[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string, defaultValue T) T {
	return internal.QueryDefault(c, name, defaultValue)
}

// Extractors

// NewExtractor creates an Extractor that tries the given sources in order.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return internal.NewExtractor(sources...)
}

// FromHeader reads a request header.
func FromHeader(name string) ExtractorSource { return internal.FromHeader(name) }

// FromQuery reads a query parameter.
func FromQuery(name string) ExtractorSource { return internal.FromQuery(name) }

// FromParam reads a named capture of the matched route.
func FromParam(name string) ExtractorSource { return internal.FromParam(name) }

// FromArg reads a positional capture of the matched route.
func FromArg(i int) ExtractorSource { return internal.FromArg(i) }

// FromForm reads a form field.
func FromForm(name string) ExtractorSource { return internal.FromForm(name) }

// FromBearerToken reads a Bearer token from the Authorization header.
func FromBearerToken() ExtractorSource { return internal.FromBearerToken() }
