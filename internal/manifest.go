package internal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ErrInvalidManifest is returned for manifests that cannot be decoded or
// that declare an entry without a handler.
var ErrInvalidManifest = errors.New("pagon: invalid manifest")

// Manifest declares middleware and routes by handler name, so an
// application's dispatch table can live in a file next to the binary.
//
//	middleware:
//	  - handler: access_log
//	  - handler: auth
//	    prefix: /admin
//	    options:
//	      role: admin
//	routes:
//	  - pattern: /user/:id
//	    methods: [GET]
//	    name: user
//	    rules:
//	      id: "[0-9]+"
//	    handlers: [users.show]
type Manifest struct {
	Middleware []MiddlewareSpec `yaml:"middleware"`
	Routes     []RouteSpec      `yaml:"routes"`
}

// MiddlewareSpec declares one middleware stack entry.
type MiddlewareSpec struct {
	Options HandlerOptions `yaml:"options"`
	Handler string         `yaml:"handler"`
	Prefix  string         `yaml:"prefix"`
}

// RouteSpec declares one route.
type RouteSpec struct {
	Rules    map[string]string `yaml:"rules"`
	Defaults map[string]string `yaml:"defaults"`
	Pattern  string            `yaml:"pattern"`
	Name     string            `yaml:"name"`
	Methods  []string          `yaml:"methods"`
	Handlers []string          `yaml:"handlers"`
}

// ParseManifest decodes a YAML manifest. Unknown fields are rejected.
func ParseManifest(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return &m, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifest reads and decodes the manifest file at path.
func LoadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	return ParseManifest(f)
}

// HandlerNames returns every handler name the manifest refers to,
// sorted and without duplicates.
func (m *Manifest) HandlerNames() []string {
	var names []string
	for _, mw := range m.Middleware {
		names = append(names, mw.Handler)
	}
	for _, r := range m.Routes {
		names = append(names, r.Handlers...)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// Apply resolves every handler name through resolver and registers the
// middleware on stack and the routes on routes, in manifest order.
// An empty method list or "*" accepts any method.
func (m *Manifest) Apply(stack *MiddlewareStack, routes *RouteTable, resolver *Resolver) error {
	for _, mw := range m.Middleware {
		h, err := resolver.Resolve(mw.Handler, mw.Options)
		if err != nil {
			return &RouteSpecError{Pattern: mw.Prefix, Err: err}
		}
		if err := stack.Push(MiddlewareEntry{
			Handler: h,
			Options: mw.Options,
			Prefix:  mw.Prefix,
			Ref:     mw.Handler,
		}); err != nil {
			return err
		}
	}

	for _, spec := range m.Routes {
		handlers := make([]HandlerFunc, 0, len(spec.Handlers))
		for _, name := range spec.Handlers {
			h, err := resolver.Resolve(name, nil)
			if err != nil {
				return &RouteSpecError{Pattern: spec.Pattern, Err: err}
			}
			handlers = append(handlers, h)
		}

		r, err := routes.Add(spec.Pattern, handlers, spec.Methods,
			WithRules(spec.Rules),
			WithDefaults(spec.Defaults),
		)
		if err != nil {
			return err
		}
		if spec.Name != "" {
			r.Name(spec.Name)
		}
	}
	return nil
}

func (m *Manifest) validate() error {
	for i, mw := range m.Middleware {
		if mw.Handler == "" {
			return fmt.Errorf("%w: middleware #%d has no handler", ErrInvalidManifest, i+1)
		}
	}
	for i, r := range m.Routes {
		if len(r.Handlers) == 0 || slices.Contains(r.Handlers, "") {
			return fmt.Errorf("%w: route #%d (%q) has an empty handler list or name", ErrInvalidManifest, i+1, r.Pattern)
		}
	}
	return nil
}
