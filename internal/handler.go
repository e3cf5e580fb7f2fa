package internal

import "net/http"

// Next invokes the rest of the dispatch chain. It returns once the
// downstream handlers have run.
type Next func() error

// HandlerFunc is the signature for middleware and route handlers.
// Call next to delegate downstream, return ErrPass to decline the request,
// return ErrStop to end the dispatch with the response as written.
// Returning ErrPass after next has run ends the chain: the candidates
// downstream already had their turn and are not tried again.
//
// Example:
//
//	func Auth(c pagon.Context, next pagon.Next) error {
//	    if c.Header("Authorization") == "" {
//	        _ = c.String(http.StatusUnauthorized, "unauthorized")
//	        return pagon.Stop()
//	    }
//	    return next()
//	}
type HandlerFunc func(c Context, next Next) error

// Handler is implemented by types that can serve as a handler reference.
//
// Example:
//
//	type ShowUser struct{ repo *repository.Queries }
//
//	func (h *ShowUser) Handle(c pagon.Context, next pagon.Next) error {
//	    return c.JSON(http.StatusOK, h.repo.Find(c.Param("id")))
//	}
type Handler interface {
	Handle(c Context, next Next) error
}

// Middleware wraps a HandlerFunc in the decorator style.
// It is accepted wherever a handler reference is expected and is adapted
// into a HandlerFunc whose inner handler is the continuation.
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors returned from the dispatch.
type ErrorHandler func(Context, error) error

// HandlerOptions are passed to a registered factory when a handler
// reference is resolved by name.
type HandlerOptions map[string]any

// adaptMiddleware turns a decorator-style middleware into a continuation
// handler. The wrapped handler calls the continuation it was given.
func adaptMiddleware(mw Middleware) HandlerFunc {
	return func(c Context, next Next) error {
		inner := func(Context, Next) error { return next() }
		return mw(inner)(c, next)
	}
}

// adaptHTTP turns a plain http.Handler into a terminal handler.
// The wrapped handler always writes the response and never delegates.
func adaptHTTP(h http.Handler) HandlerFunc {
	return func(c Context, _ Next) error {
		h.ServeHTTP(c.Response(), c.Request())
		return nil
	}
}
