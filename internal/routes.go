package internal

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrymomot/pagon/pkg/pattern"
)

// MethodAny allows every HTTP method on a route.
const MethodAny = "*"

// Route is one entry of the route table: a compiled pattern, the handlers
// tried in order for it, and the methods it accepts.
type Route struct {
	table    *RouteTable
	pattern  *pattern.Pattern
	methods  map[string]struct{} // nil accepts any method
	defaults map[string]string
	name     string
	handlers []HandlerFunc
}

// RouteOption configures a route at registration time.
type RouteOption func(*routeConfig)

type routeConfig struct {
	rules    pattern.Rules
	defaults map[string]string
}

// WithRules overrides the capture body of named placeholders.
func WithRules(rules map[string]string) RouteOption {
	return func(c *routeConfig) {
		c.rules = rules
	}
}

// WithDefaults sets fallback values for captures that matched empty.
func WithDefaults(defaults map[string]string) RouteOption {
	return func(c *routeConfig) {
		c.defaults = defaults
	}
}

// Name registers name as a reverse-lookup alias for the route.
// A later route registered under the same name takes it over, leaving
// this route unnamed.
func (r *Route) Name(name string) *Route {
	r.table.Name(name, r)
	return r
}

// Defaults sets fallback values for captures that matched empty.
// Like every registration call it must happen before dispatch starts.
func (r *Route) Defaults(defaults map[string]string) *Route {
	r.defaults = maps.Clone(defaults)
	return r
}

// Where recompiles the route's pattern with rules overriding the capture
// body of named placeholders. It panics with a RouteSpecError if the
// rules do not compile.
func (r *Route) Where(rules map[string]string) *Route {
	p, err := pattern.Compile(r.pattern.Raw(), rules)
	if err != nil {
		panic(&RouteSpecError{Pattern: r.pattern.Raw(), Err: err})
	}
	r.pattern = p
	return r
}

// RouteName returns the name the route was registered under, if any.
func (r *Route) RouteName() string {
	r.table.mu.RLock()
	defer r.table.mu.RUnlock()
	return r.name
}

// Pattern returns the source pattern string.
func (r *Route) Pattern() string { return r.pattern.Raw() }

// Methods returns the accepted methods in sorted order, or nil for any.
func (r *Route) Methods() []string {
	if r.methods == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.methods))
}

// Len returns the number of handlers chained on the route.
func (r *Route) Len() int { return len(r.handlers) }

// AllowsMethod reports whether the route accepts method.
func (r *Route) AllowsMethod(method string) bool {
	if r.methods == nil {
		return true
	}
	_, ok := r.methods[strings.ToUpper(method)]
	return ok
}

// match runs the pattern and the method filter, merging defaults into
// captures that came back empty.
func (r *Route) match(path, method string) (pattern.Match, bool) {
	m, ok := r.pattern.Match(path)
	if !ok || !r.AllowsMethod(method) {
		return pattern.Match{}, false
	}
	for k, v := range r.defaults {
		if m.Params == nil {
			m.Params = make(map[string]string, len(r.defaults))
		}
		if m.Params[k] == "" {
			m.Params[k] = v
		}
	}
	return m, true
}

// RouteTable is the ordered collection of registered routes.
// Routes are matched in registration order; the first match wins.
// Registration is expected to finish before the first dispatch; the table
// is guarded so concurrent dispatches only ever take the read lock.
type RouteTable struct {
	names  map[string]*Route
	routes []*Route
	mu     sync.RWMutex
}

// NewRouteTable creates an empty route table.
func NewRouteTable() *RouteTable {
	return &RouteTable{names: make(map[string]*Route)}
}

// Add compiles raw and appends a route for it.
// An empty methods list accepts any method.
func (t *RouteTable) Add(raw string, handlers []HandlerFunc, methods []string, opts ...RouteOption) (*Route, error) {
	if len(handlers) == 0 {
		return nil, &RouteSpecError{Pattern: raw, Err: ErrNoHandlers}
	}
	for _, h := range handlers {
		if h == nil {
			return nil, &RouteSpecError{Pattern: raw, Err: ErrInvalidHandler}
		}
	}

	cfg := &routeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	p, err := pattern.Compile(raw, cfg.rules)
	if err != nil {
		return nil, &RouteSpecError{Pattern: raw, Err: err}
	}

	r := &Route{
		table:    t,
		pattern:  p,
		methods:  methodSet(methods),
		defaults: maps.Clone(cfg.defaults),
		handlers: slices.Clone(handlers),
	}

	t.mu.Lock()
	t.routes = append(t.routes, r)
	t.mu.Unlock()
	return r, nil
}

// Name registers name for r, or for the most recently added route when r is nil.
// A name belongs to one route at a time: the route previously holding it
// loses it, and r's previous name is released. An empty name unnames r.
func (t *RouteTable) Name(name string, r *Route) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if r == nil {
		if len(t.routes) == 0 {
			return
		}
		r = t.routes[len(t.routes)-1]
	}
	if r.name != "" && r.name != name && t.names[r.name] == r {
		delete(t.names, r.name)
	}
	if prev, ok := t.names[name]; ok && prev != r {
		prev.name = ""
	}
	r.name = name
	if name != "" {
		t.names[name] = r
	}
}

// LookupByName returns the pattern registered under name.
func (t *RouteTable) LookupByName(name string) (string, bool) {
	r, ok := t.Named(name)
	if !ok {
		return "", false
	}
	return r.Pattern(), true
}

// Named returns the route registered under name.
func (t *RouteTable) Named(name string) (*Route, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.names[name]
	return r, ok
}

// URLFor builds a path from the route registered under name.
// Named placeholders are filled from params, positional ones from args.
// Values are not checked against the route's rules.
func (t *RouteTable) URLFor(name string, params map[string]string, args ...string) (string, error) {
	r, ok := t.Named(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRouteName, name)
	}

	if len(r.defaults) > 0 {
		merged := maps.Clone(r.defaults)
		for k, v := range params {
			if v != "" {
				merged[k] = v
			}
		}
		params = merged
	}

	path, err := r.pattern.Build(params, args)
	if err != nil {
		return "", fmt.Errorf("pagon: route %q: %w", name, err)
	}
	return path, nil
}

// Match returns the first route accepting path and method.
func (t *RouteTable) Match(path, method string) (*Route, pattern.Match, bool) {
	routes := t.Routes()
	if i, m, ok := matchFrom(routes, 0, path, method); ok {
		return routes[i], m, true
	}
	return nil, pattern.Match{}, false
}

// Routes returns a snapshot of the registered routes in order.
func (t *RouteTable) Routes() []*Route {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.routes)
}

// Len returns the number of registered routes.
func (t *RouteTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.routes)
}

// matchFrom scans routes starting at index start. A route whose pattern
// matches but whose methods do not is skipped; scanning continues.
func matchFrom(routes []*Route, start int, path, method string) (int, pattern.Match, bool) {
	for i := start; i < len(routes); i++ {
		if m, ok := routes[i].match(path, method); ok {
			return i, m, true
		}
	}
	return -1, pattern.Match{}, false
}

func methodSet(methods []string) map[string]struct{} {
	if len(methods) == 0 || slices.Contains(methods, MethodAny) {
		return nil
	}
	set := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		set[strings.ToUpper(strings.TrimSpace(m))] = struct{}{}
	}
	return set
}
