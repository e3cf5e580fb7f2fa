package internal

import (
	"log/slog"

	"github.com/dmitrymomot/pagon/pkg/logger"
	"github.com/dmitrymomot/pagon/pkg/pattern"
)

// Dispatcher runs a request through the middleware stack and then the
// route table, which always sits at the end of the stack.
//
// Every handler receives a continuation bound to the entry after it.
// Calling it recurses depth-first into the rest of the chain. Returning
// ErrPass makes the nearest enclosing continuation try the next candidate;
// returning ErrStop unwinds the whole dispatch. Any other error propagates
// to the caller untouched.
type Dispatcher struct {
	stack    *MiddlewareStack
	routes   *RouteTable
	resolver *Resolver
	fallback FallbackFunc
	logger   *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatchFallback sets the resolver consulted once no route matched.
// Names it returns are looked up in the dispatcher's Resolver.
func WithDispatchFallback(fb FallbackFunc) DispatcherOption {
	return func(d *Dispatcher) {
		d.fallback = fb
	}
}

// WithDispatchResolver sets the handler registry used for fallback names.
func WithDispatchResolver(r *Resolver) DispatcherOption {
	return func(d *Dispatcher) {
		d.resolver = r
	}
}

// WithDispatchLogger sets the logger for dispatch diagnostics.
func WithDispatchLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDispatcher creates a dispatcher over stack and routes. Both are
// only read during dispatch.
func NewDispatcher(stack *MiddlewareStack, routes *RouteTable, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		stack:  stack,
		routes: routes,
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run dispatches one request. It reports false when the chain was
// exhausted: the continuation ran past the last entry, no route matched
// and no fallback handled the path. A stop signal counts as handled.
// Errors other than the control signals are returned as is.
func (d *Dispatcher) Run(c Context) (bool, error) {
	exhausted := false
	err := d.Handle(c, func() error {
		exhausted = true
		c.Set(exhaustedKey{}, true)
		return nil
	})

	switch {
	case err == nil:
		if exhausted {
			d.logger.DebugContext(c, "dispatch exhausted",
				slog.String("method", c.Method()),
				slog.String("path", c.Path()),
			)
		}
		return !exhausted, nil
	case IsStop(err):
		return true, nil
	case IsPass(err):
		return false, nil
	default:
		return false, err
	}
}

// Handle is the dispatcher as a handler. Once its own stack and routes are
// exhausted it calls next, so a dispatcher can be grafted into another
// chain and behave as if its entries were spliced in place.
func (d *Dispatcher) Handle(c Context, next Next) error {
	handlers := d.stack.Active(c.Path())
	handlers = append(handlers, d.dispatchRoutes)
	return invoke(c, handlers, 0, next)
}

// dispatchRoutes is the terminal stack entry.
func (d *Dispatcher) dispatchRoutes(c Context, next Next) error {
	return d.walk(c, d.routes.Routes(), 0, next)
}

// walk invokes the handler chain of the first route at or after start that
// accepts the request. When that chain passes or delegates past its last
// handler, the walk resumes after the route. Running out of routes hands
// over to the fallback.
func (d *Dispatcher) walk(c Context, routes []*Route, start int, next Next) error {
	i, m, ok := matchFrom(routes, start, c.Path(), c.Method())
	if !ok {
		if c.Route() != nil {
			c.bind(nil, pattern.Match{})
		}
		return d.runFallback(c, next)
	}

	r := routes[i]
	c.bind(r, m)
	d.logger.DebugContext(c, "route matched",
		slog.String("pattern", r.Pattern()),
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
	)

	return invoke(c, r.handlers, 0, func() error {
		return d.walk(c, routes, i+1, next)
	})
}

func (d *Dispatcher) runFallback(c Context, next Next) error {
	if d.fallback == nil || d.resolver == nil {
		return next()
	}

	name := d.fallback(c.Path())
	if name == "" {
		return next()
	}

	h, ok := d.resolver.Lookup(name)
	if !ok {
		d.logger.DebugContext(c, "fallback unresolved", slog.String("handler", name))
		return next()
	}

	d.logger.DebugContext(c, "fallback resolved", slog.String("handler", name))
	return invoke(c, []HandlerFunc{h}, 0, next)
}

// Chain composes handlers into one. Inside the composition handlers see
// the same continuation rules as the dispatcher: ErrPass moves on to the
// next handler, and running past the last one calls the outer next.
//
//	admin := pagon.Chain(requireAdmin, auditLog)
//	app.UseAt("/admin", admin)
func Chain(handlers ...HandlerFunc) HandlerFunc {
	return func(c Context, next Next) error {
		return invoke(c, handlers, 0, next)
	}
}

// invoke runs handlers[i] with a continuation bound to i+1. A handler
// returning ErrPass is skipped in favour of the next one; past the end,
// tail runs. A pass from a handler that already called its continuation
// ends the chain instead, so no candidate runs twice. ErrPass never
// escapes invoke.
func invoke(c Context, handlers []HandlerFunc, i int, tail Next) error {
	for ; i < len(handlers); i++ {
		j := i
		delegated := false
		err := handlers[j](c, func() error {
			delegated = true
			return invoke(c, handlers, j+1, tail)
		})
		if IsPass(err) {
			if delegated {
				return nil
			}
			continue
		}
		return err
	}
	if tail == nil {
		return nil
	}
	return tail()
}

type exhaustedKey struct{}

// Exhausted reports whether the dispatch of c ran past every middleware,
// route and fallback without a handler taking the request. Middleware reads
// it after next returned; the not-found response is written later.
func Exhausted(c Context) bool {
	v, _ := c.Get(exhaustedKey{}).(bool)
	return v
}
