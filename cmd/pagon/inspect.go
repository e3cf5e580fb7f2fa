package main

import (
	"github.com/dmitrymomot/pagon"
)

// recorder stands in for every handler named in a manifest. Middleware
// recorders delegate; route recorders terminate the dispatch.
type recorder struct {
	middleware map[string]bool
	trace      []string
}

func (r *recorder) factory(name string) pagon.Factory {
	return func(pagon.HandlerOptions) (pagon.HandlerFunc, error) {
		return func(c pagon.Context, next pagon.Next) error {
			r.trace = append(r.trace, name)
			if r.middleware[name] {
				return next()
			}
			return nil
		}, nil
	}
}

// loadApp builds an App from the manifest at path with every handler
// replaced by a recorder.
func loadApp(path string) (*pagon.App, *pagon.Manifest, *recorder, error) {
	m, err := pagon.LoadManifest(path)
	if err != nil {
		return nil, nil, nil, err
	}

	rec := &recorder{middleware: make(map[string]bool)}
	for _, mw := range m.Middleware {
		rec.middleware[mw.Handler] = true
	}

	opts := []pagon.Option{pagon.WithManifest(m)}
	for _, name := range m.HandlerNames() {
		opts = append(opts, pagon.WithFactory(name, rec.factory(name)))
	}

	app, err := newApp(opts...)
	if err != nil {
		return nil, nil, nil, err
	}
	return app, m, rec, nil
}

// newApp converts setup panics into errors.
func newApp(opts ...pagon.Option) (app *pagon.App, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()
	return pagon.New(opts...), nil
}
