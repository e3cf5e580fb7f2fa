// Package internal provides the core types and implementation of pagon.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/pagon" instead, which re-exports the public API.
//
// # Core Types
//
//   - App: owns the route table, middleware stack and dispatcher; serves HTTP
//   - Dispatcher: runs a request through the stack and then the routes
//   - RouteTable: ordered routes with name-based reverse lookup
//   - MiddlewareStack: ordered, optionally prefix-scoped middleware entries
//   - Resolver: turns handler references (functions, names) into HandlerFuncs
//   - Context: request/response access plus the matched route's captures
//   - Router: registration surface for modules and groups
//
// # Continuations
//
// Every handler has the same shape:
//
//	func(c pagon.Context, next pagon.Next) error
//
// next runs the rest of the chain and returns once it is done, so code
// after next() runs on the way back out. A handler decides the outcome by
// what it returns:
//
//   - nil after writing a response: the request is handled
//   - next(): delegate, then return what the rest of the chain returned
//   - pagon.Pass(): decline; the next handler or route is tried instead
//   - pagon.Stop(): finish the dispatch right here, nothing else runs
//   - any other error: propagated to the error handler
//
// A dispatch whose continuation runs past the last route and the fallback
// is exhausted; App answers it with 404.
//
// # Routes
//
// Patterns are compiled by package pattern:
//
//	/user/:id          named capture, one segment
//	/user/:id(/:tab)   optional group
//	/files/*           positional capture
//	^/legacy/(\d+)$    raw regular expression
//
// Routes are tried in registration order. A route whose pattern matches but
// whose methods do not is skipped and the scan continues. Several handlers
// on one route form a chain: each may pass to the next.
//
//	app.GET("/user/:id", loadUser, showUser).Name("user")
//	app.URLFor("user", map[string]string{"id": "42"}) // "/user/42"
//
// # Middleware
//
// Middleware entries run in registration order ahead of the routes. An
// entry registered with a prefix only runs when the request path starts
// with that prefix:
//
//	app.UseAt("/admin", requireAdmin)
//
// The check is a plain string prefix, so "/admin" also covers
// "/administrator". Use "/admin/" to limit it to the subtree.
//
// # Grafting
//
// A mounted App behaves as if its stack and routes were spliced into the
// parent's chain: when nothing in it handles the request, the parent
// continues with its own entries.
//
//	app.Mount("/api", api)
//
// # Named Handlers
//
// Handlers may be registered under a name with WithFactory and referenced
// by that name from routes, middleware, manifests and the fallback. A
// factory receives the options given at the reference site:
//
//	pagon.WithFactory("auth", func(o pagon.HandlerOptions) (pagon.HandlerFunc, error) {
//	    role, _ := o["role"].(string)
//	    return requireRole(role), nil
//	})
//
// # Context as context.Context
//
// Context embeds context.Context, so it can be passed directly to any
// function that expects a standard library context.
package internal
