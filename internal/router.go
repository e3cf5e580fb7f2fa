package internal

import (
	"net/http"
	"strings"
)

// Router is the registration surface handed to modules and groups.
// Handler references are anything the App's Resolver accepts.
// Registration methods panic with a RouteSpecError on invalid input:
// a bad route is a setup bug, not a runtime condition.
type Router interface {
	// GET registers handlers for GET requests.
	GET(pattern string, refs ...any) *Route

	// POST registers handlers for POST requests.
	POST(pattern string, refs ...any) *Route

	// PUT registers handlers for PUT requests.
	PUT(pattern string, refs ...any) *Route

	// PATCH registers handlers for PATCH requests.
	PATCH(pattern string, refs ...any) *Route

	// DELETE registers handlers for DELETE requests.
	DELETE(pattern string, refs ...any) *Route

	// HEAD registers handlers for HEAD requests.
	HEAD(pattern string, refs ...any) *Route

	// OPTIONS registers handlers for OPTIONS requests.
	OPTIONS(pattern string, refs ...any) *Route

	// Any registers handlers for every method.
	Any(pattern string, refs ...any) *Route

	// Add registers handlers for the given methods. Several handlers form
	// a chain: each may pass to the next one registered for the path.
	Add(methods []string, pattern string, refs ...any) *Route

	// Group registers routes and middleware under a literal path prefix.
	Group(prefix string, fn func(r Router))

	// Use appends middleware active under the router's prefix.
	Use(refs ...any)

	// UseAt appends middleware active for paths starting with prefix
	// (relative to the router's prefix). opts are passed to named factories.
	UseAt(prefix string, ref any, opts ...HandlerOptions)

	// Mount grafts h under prefix. A mounted *App keeps its own stack and
	// routes and falls through to the outer chain when they are exhausted;
	// any other http.Handler terminates the dispatch.
	Mount(prefix string, h http.Handler)
}

// Module declares routes on a router.
//
// Example:
//
//	type Users struct{ repo *repository.Queries }
//
//	func (m *Users) Routes(r pagon.Router) {
//	    r.GET("/user/:id", m.show).Name("user")
//	    r.POST("/user", m.create)
//	}
type Module interface {
	Routes(r Router)
}

// group implements Router for a path prefix of an App.
type group struct {
	app    *App
	prefix string
}

func (g *group) GET(pattern string, refs ...any) *Route {
	return g.Add([]string{http.MethodGet}, pattern, refs...)
}

func (g *group) POST(pattern string, refs ...any) *Route {
	return g.Add([]string{http.MethodPost}, pattern, refs...)
}

func (g *group) PUT(pattern string, refs ...any) *Route {
	return g.Add([]string{http.MethodPut}, pattern, refs...)
}

func (g *group) PATCH(pattern string, refs ...any) *Route {
	return g.Add([]string{http.MethodPatch}, pattern, refs...)
}

func (g *group) DELETE(pattern string, refs ...any) *Route {
	return g.Add([]string{http.MethodDelete}, pattern, refs...)
}

func (g *group) HEAD(pattern string, refs ...any) *Route {
	return g.Add([]string{http.MethodHead}, pattern, refs...)
}

func (g *group) OPTIONS(pattern string, refs ...any) *Route {
	return g.Add([]string{http.MethodOptions}, pattern, refs...)
}

func (g *group) Any(pattern string, refs ...any) *Route {
	return g.Add(nil, pattern, refs...)
}

func (g *group) Add(methods []string, pattern string, refs ...any) *Route {
	full := g.prefix + pattern
	if g.prefix != "" && strings.HasPrefix(pattern, "^") {
		panic(&RouteSpecError{Pattern: full, Err: errRawInGroup})
	}

	handlers := make([]HandlerFunc, 0, len(refs))
	for _, ref := range refs {
		h, err := g.app.resolver.Resolve(ref, nil)
		if err != nil {
			panic(&RouteSpecError{Pattern: full, Err: err})
		}
		handlers = append(handlers, h)
	}

	r, err := g.app.routes.Add(full, handlers, methods)
	if err != nil {
		panic(err)
	}
	return r
}

func (g *group) Group(prefix string, fn func(Router)) {
	fn(&group{app: g.app, prefix: g.prefix + prefix})
}

func (g *group) Use(refs ...any) {
	for _, ref := range refs {
		g.UseAt("", ref)
	}
}

func (g *group) UseAt(prefix string, ref any, opts ...HandlerOptions) {
	full := g.prefix + prefix
	merged := mergeOptions(opts)

	h, err := g.app.resolver.Resolve(ref, merged)
	if err != nil {
		panic(&RouteSpecError{Pattern: full, Err: err})
	}
	g.push(MiddlewareEntry{Prefix: full, Handler: h, Options: merged, Ref: refString(ref)})
}

func (g *group) Mount(prefix string, h http.Handler) {
	full := g.prefix + prefix
	if h == nil {
		panic(&RouteSpecError{Pattern: full, Err: ErrInvalidHandler})
	}

	entry := MiddlewareEntry{Prefix: full, Ref: refString(h)}
	if sub, ok := h.(*App); ok {
		entry.Handler = sub.dispatcher.Handle
	} else {
		entry.Handler = adaptHTTP(h)
	}
	g.push(entry)
}

func (g *group) push(e MiddlewareEntry) {
	if err := g.app.stack.Push(e); err != nil {
		panic(err)
	}
}

func mergeOptions(opts []HandlerOptions) HandlerOptions {
	if len(opts) == 0 {
		return nil
	}
	merged := make(HandlerOptions)
	for _, o := range opts {
		for k, v := range o {
			merged[k] = v
		}
	}
	return merged
}
