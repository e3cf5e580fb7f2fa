package internal

import (
	"slices"
	"strings"
	"sync"
)

// MiddlewareEntry is one element of the middleware stack.
type MiddlewareEntry struct {
	Handler HandlerFunc
	Options HandlerOptions

	// Prefix limits the entry to request paths starting with it.
	// Empty means always active.
	Prefix string

	// Ref is a printable form of the reference the handler was resolved from.
	Ref string
}

// Active reports whether the entry runs for path. The test is a plain
// string prefix comparison: "/admin" is also active for "/administrator".
func (e MiddlewareEntry) Active(path string) bool {
	return e.Prefix == "" || strings.HasPrefix(path, e.Prefix)
}

// MiddlewareStack is the ordered list of middleware entries that run
// ahead of the route table.
type MiddlewareStack struct {
	entries []MiddlewareEntry
	mu      sync.RWMutex
}

// NewMiddlewareStack creates an empty stack.
func NewMiddlewareStack() *MiddlewareStack {
	return &MiddlewareStack{}
}

// Push appends an entry.
func (s *MiddlewareStack) Push(e MiddlewareEntry) error {
	if e.Handler == nil {
		return &RouteSpecError{Pattern: e.Prefix, Err: ErrInvalidHandler}
	}
	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()
	return nil
}

// Entries returns a snapshot of all entries in order.
func (s *MiddlewareStack) Entries() []MiddlewareEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries)
}

// Active returns the handlers of the entries active for path, in order.
// The result is fixed for the duration of one dispatch.
func (s *MiddlewareStack) Active(path string) []HandlerFunc {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]HandlerFunc, 0, len(s.entries)+1)
	for _, e := range s.entries {
		if e.Active(path) {
			out = append(out, e.Handler)
		}
	}
	return out
}

// Len returns the number of entries.
func (s *MiddlewareStack) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
