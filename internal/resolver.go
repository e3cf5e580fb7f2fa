package internal

import (
	"fmt"
	"maps"
	"net/http"
	"slices"
	"sync"
)

// Factory builds a handler from the options it was referenced with.
type Factory func(opts HandlerOptions) (HandlerFunc, error)

// Resolver turns handler references into invocable handlers.
//
// A reference is one of:
//   - HandlerFunc or func(Context, Next) error, used as is
//   - Handler, invoked through its Handle method
//   - Middleware, adapted so the continuation becomes its inner handler
//   - http.Handler, used as a terminal handler
//   - string, the name of a registered factory
//
// Named references without options are built once and cached, so every
// route that refers to the same name shares one instance.
type Resolver struct {
	factories map[string]Factory
	cache     map[string]HandlerFunc
	mu        sync.RWMutex
}

// NewResolver creates an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{
		factories: make(map[string]Factory),
		cache:     make(map[string]HandlerFunc),
	}
}

// Register adds a named factory. Registering a name again replaces it.
func (r *Resolver) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
	delete(r.cache, name)
}

// RegisterFunc adds a named handler that takes no options.
func (r *Resolver) RegisterFunc(name string, h HandlerFunc) {
	r.Register(name, func(HandlerOptions) (HandlerFunc, error) { return h, nil })
}

// Has reports whether name is registered.
func (r *Resolver) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Names returns the registered names in sorted order.
func (r *Resolver) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.factories))
}

// Resolve turns ref into a handler.
func (r *Resolver) Resolve(ref any, opts HandlerOptions) (HandlerFunc, error) {
	switch h := ref.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrInvalidHandler)
	case HandlerFunc:
		return h, nil
	case func(Context, Next) error:
		return h, nil
	case Middleware:
		return adaptMiddleware(h), nil
	case func(HandlerFunc) HandlerFunc:
		return adaptMiddleware(h), nil
	case Handler:
		return h.Handle, nil
	case string:
		return r.byName(h, opts)
	case http.Handler:
		return adaptHTTP(h), nil
	case func(http.ResponseWriter, *http.Request):
		return adaptHTTP(http.HandlerFunc(h)), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidHandler, ref)
	}
}

// Lookup returns the cached handler for name without options.
// It reports false if name is not registered or its factory fails.
func (r *Resolver) Lookup(name string) (HandlerFunc, bool) {
	h, err := r.byName(name, nil)
	return h, err == nil
}

func (r *Resolver) byName(name string, opts HandlerOptions) (HandlerFunc, error) {
	if len(opts) == 0 {
		r.mu.RLock()
		h, ok := r.cache[name]
		r.mu.RUnlock()
		if ok {
			return h, nil
		}
	}

	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownHandler, name)
	}

	h, err := f(opts)
	if err != nil {
		return nil, fmt.Errorf("pagon: build handler %q: %w", name, err)
	}
	if h == nil {
		return nil, fmt.Errorf("%w: factory %q returned nil", ErrInvalidHandler, name)
	}

	if len(opts) == 0 {
		r.mu.Lock()
		r.cache[name] = h
		r.mu.Unlock()
	}
	return h, nil
}

// refString renders a handler reference for listings and logs.
func refString(ref any) string {
	if s, ok := ref.(string); ok {
		return s
	}
	return fmt.Sprintf("%T", ref)
}
