package internal

import (
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"net/http"
	"time"

	"github.com/dmitrymomot/pagon/pkg/logger"
	"github.com/dmitrymomot/pagon/pkg/pattern"
)

// Context is the per-request view handlers work with: the inbound request,
// the outbound response and the parameters of the matched route.
// It also implements context.Context by delegating to the request context.
// A Context belongs to one request and must not be shared.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// Response returns the response writer.
	Response() http.ResponseWriter

	// ResponseWriter returns the wrapped writer for status and size inspection.
	ResponseWriter() *ResponseWriter

	// Context returns the request's context.Context.
	Context() context.Context

	// Method returns the request method.
	Method() string

	// Path returns the request path used for dispatch.
	Path() string

	// Param returns a named capture of the matched route.
	// Returns empty string if the parameter doesn't exist.
	Param(name string) string

	// Params returns a copy of all named captures of the matched route.
	Params() map[string]string

	// Args returns the positional captures of the matched route.
	Args() []string

	// Route returns the matched route, or nil before a route matched.
	Route() *Route

	// Query returns the query parameter value by name.
	Query(name string) string

	// QueryDefault returns the query parameter value or a default.
	QueryDefault(name, defaultValue string) string

	// Form returns the form value by name.
	Form(name string) string

	// Header returns the request header value by name.
	Header(name string) string

	// SetHeader sets a response header.
	SetHeader(name, value string)

	// JSON writes a JSON response with the given status code.
	JSON(code int, v any) error

	// String writes a plain text response with the given status code.
	String(code int, s string) error

	// NoContent writes a response with no body.
	NoContent(code int) error

	// Redirect redirects to the given URL with the given status code.
	Redirect(code int, url string) error

	// Error creates an HTTPError without writing a response.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	// URLFor builds a path from a named route.
	URLFor(name string, params map[string]string, args ...string) (string, error)

	// Written returns true if a response has already been written.
	Written() bool

	// Logger returns the request logger.
	Logger() *slog.Logger

	// LogDebug logs a debug message with optional attributes.
	LogDebug(msg string, attrs ...any)

	// LogInfo logs an info message with optional attributes.
	LogInfo(msg string, attrs ...any)

	// LogWarn logs a warning message with optional attributes.
	LogWarn(msg string, attrs ...any)

	// LogError logs an error message with optional attributes.
	LogError(msg string, attrs ...any)

	// Set stores a value in the request context.
	// The value can be retrieved using Get or from c.Context().Value(key).
	Set(key any, value any)

	// Get retrieves a value stored with Set.
	Get(key any) any

	// SetContext replaces the request's context.Context, e.g. with one
	// carrying a trace span. Values stored with Set before are kept only
	// if ctx derives from the previous context.
	SetContext(ctx context.Context)

	// bind records the matched route and its captures.
	bind(r *Route, m pattern.Match)
}

// routeKey stores the matched route in the request context for log extractors.
type routeKey struct{}

// requestContext implements the Context interface.
type requestContext struct {
	request  *http.Request
	response *ResponseWriter
	logger   *slog.Logger
	routes   *RouteTable
	route    *Route
	match    pattern.Match
}

// ContextOption configures a Context built with NewContext.
type ContextOption func(*requestContext)

// WithContextLogger sets the logger of a standalone Context.
func WithContextLogger(l *slog.Logger) ContextOption {
	return func(c *requestContext) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithContextRoutes sets the route table used by URLFor.
func WithContextRoutes(t *RouteTable) ContextOption {
	return func(c *requestContext) {
		c.routes = t
	}
}

// NewContext creates a Context outside an App, for tests and tools that
// drive a Dispatcher directly.
func NewContext(w http.ResponseWriter, r *http.Request, opts ...ContextOption) Context {
	c := &requestContext{
		request:  r,
		response: NewResponseWriter(w),
		logger:   logger.NewNope(),
		routes:   NewRouteTable(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	return &requestContext{
		request:  r,
		response: NewResponseWriter(w),
		logger:   app.logger,
		routes:   app.routes,
	}
}

func (c *requestContext) Request() *http.Request { return c.request }

func (c *requestContext) Response() http.ResponseWriter { return c.response }

func (c *requestContext) ResponseWriter() *ResponseWriter { return c.response }

func (c *requestContext) Context() context.Context { return c.request.Context() }

func (c *requestContext) Deadline() (time.Time, bool) { return c.request.Context().Deadline() }

func (c *requestContext) Done() <-chan struct{} { return c.request.Context().Done() }

func (c *requestContext) Err() error { return c.request.Context().Err() }

func (c *requestContext) Value(key any) any { return c.request.Context().Value(key) }

func (c *requestContext) Method() string { return c.request.Method }

func (c *requestContext) Path() string { return c.request.URL.Path }

func (c *requestContext) Param(name string) string { return c.match.Params[name] }

func (c *requestContext) Params() map[string]string {
	if c.match.Params == nil {
		return map[string]string{}
	}
	return maps.Clone(c.match.Params)
}

func (c *requestContext) Args() []string { return c.match.Args }

func (c *requestContext) Route() *Route { return c.route }

func (c *requestContext) bind(r *Route, m pattern.Match) {
	c.route = r
	c.match = m
	c.Set(routeKey{}, r)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) QueryDefault(name, defaultValue string) string {
	if v := c.request.URL.Query().Get(name); v != "" {
		return v
	}
	return defaultValue
}

func (c *requestContext) Form(name string) string {
	return c.request.FormValue(name)
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.response.Header().Set(name, value)
}

func (c *requestContext) JSON(code int, v any) error {
	c.response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}

func (c *requestContext) String(code int, s string) error {
	c.response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.response.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	http.Redirect(c.response, c.request, url, code)
	return nil
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) URLFor(name string, params map[string]string, args ...string) (string, error) {
	return c.routes.URLFor(name, params, args...)
}

func (c *requestContext) Written() bool { return c.response.Written() }

func (c *requestContext) Logger() *slog.Logger { return c.logger }

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c, msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c, msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c, msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c, msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	c.request = c.request.WithContext(context.WithValue(c.request.Context(), key, value))
}

func (c *requestContext) SetContext(ctx context.Context) {
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

// RouteExtractor returns a ContextExtractor adding the matched route's
// name (or pattern when unnamed) to every log entry.
func RouteExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		r, ok := ctx.Value(routeKey{}).(*Route)
		if !ok || r == nil {
			return slog.Attr{}, false
		}
		if name := r.RouteName(); name != "" {
			return slog.String("route", name), true
		}
		return slog.String("route", r.Pattern()), true
	}
}
