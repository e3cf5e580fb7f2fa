// Package pagon is a request dispatch engine: an ordered middleware stack
// in front of an ordered route table, where every handler decides with its
// return value whether the request is handled, passed on or stopped.
//
// # Quick Start
//
//	app := pagon.New(
//	    pagon.WithLogger("web", middlewares.RequestIDExtractor()),
//	    pagon.WithMiddleware(middlewares.Recover(), middlewares.RequestID()),
//	)
//
//	app.GET("/", func(c pagon.Context, _ pagon.Next) error {
//	    return c.String(http.StatusOK, "hello")
//	})
//	app.GET("/user/:id", loadUser, showUser).Name("user")
//
//	if err := app.Run(":8080"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Handlers
//
// Middleware and route handlers share one signature:
//
//	func(c pagon.Context, next pagon.Next) error
//
// Calling next runs the rest of the chain and returns what it returned.
// Returning [Pass] declines the request, so the next handler or route is
// tried. Returning [Stop] ends the dispatch. Any other error goes to the
// error handler; an [HTTPError] selects the status code.
//
// # Routes
//
// Patterns support named captures (":id"), optional groups ("(/:tab)"),
// positional wildcards ("*") and raw regular expressions (leading "^").
// Routes are tried in registration order; a route whose methods do not
// accept the request is skipped. Named routes can be reversed with
// App.URLFor and Context.URLFor.
//
// # Modules
//
// Types implementing [Module] declare routes on a [Router]:
//
//	type Users struct{ repo *repository.Queries }
//
//	func (m *Users) Routes(r pagon.Router) {
//	    r.Group("/users", func(r pagon.Router) {
//	        r.GET("", m.list)
//	        r.GET("/:id", m.show).Name("user")
//	    })
//	}
//
//	app := pagon.New(pagon.WithModules(&Users{repo: repo}))
//
// # Named Handlers and Manifests
//
// Handlers registered with [WithFactory] are referenced by name from
// routes, middleware, YAML manifests and the fallback resolver:
//
//	m, err := pagon.LoadManifest("routes.yaml")
//	app := pagon.New(
//	    pagon.WithFactory("users.show", showUserFactory),
//	    pagon.WithManifest(m),
//	    pagon.WithFallback(pagon.ConventionFallback("pages.")),
//	)
//
// # Serving
//
// App implements http.Handler. App.Handler adds client IP resolution and
// liveness and readiness probes in front of it, and App.Run serves that
// handler with graceful shutdown on SIGINT and SIGTERM.
package pagon
