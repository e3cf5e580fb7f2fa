package internal_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pagon/internal"
)

type greeter struct{ greeting string }

func (g *greeter) Handle(c internal.Context, _ internal.Next) error {
	return c.String(http.StatusOK, g.greeting)
}

func TestResolver(t *testing.T) {
	t.Parallel()

	run := func(t *testing.T, h internal.HandlerFunc) (string, bool) {
		t.Helper()
		c, w := newCtx(http.MethodGet, "/")
		var delegated bool
		require.NoError(t, h(c, func() error { delegated = true; return nil }))
		return w.Body.String(), delegated
	}

	t.Run("function references", func(t *testing.T) {
		t.Parallel()

		r := internal.NewResolver()

		h, err := r.Resolve(internal.HandlerFunc(noop), nil)
		require.NoError(t, err)
		require.NotNil(t, h)

		h, err = r.Resolve(func(c internal.Context, _ internal.Next) error {
			return c.String(http.StatusOK, "plain func")
		}, nil)
		require.NoError(t, err)
		body, _ := run(t, h)
		assert.Equal(t, "plain func", body)
	})

	t.Run("Handler interface", func(t *testing.T) {
		t.Parallel()

		h, err := internal.NewResolver().Resolve(&greeter{greeting: "hi"}, nil)
		require.NoError(t, err)
		body, delegated := run(t, h)
		assert.Equal(t, "hi", body)
		assert.False(t, delegated)
	})

	t.Run("decorator middleware delegates through its inner handler", func(t *testing.T) {
		t.Parallel()

		var before bool
		mw := internal.Middleware(func(next internal.HandlerFunc) internal.HandlerFunc {
			return func(c internal.Context, n internal.Next) error {
				before = true
				return next(c, n)
			}
		})

		h, err := internal.NewResolver().Resolve(mw, nil)
		require.NoError(t, err)
		_, delegated := run(t, h)
		assert.True(t, before)
		assert.True(t, delegated)
	})

	t.Run("http handlers are terminal", func(t *testing.T) {
		t.Parallel()

		h, err := internal.NewResolver().Resolve(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("std"))
		}, nil)
		require.NoError(t, err)
		body, delegated := run(t, h)
		assert.Equal(t, "std", body)
		assert.False(t, delegated)

		h, err = internal.NewResolver().Resolve(http.NotFoundHandler(), nil)
		require.NoError(t, err)
		require.NotNil(t, h)
	})

	t.Run("invalid references", func(t *testing.T) {
		t.Parallel()

		r := internal.NewResolver()
		_, err := r.Resolve(nil, nil)
		require.ErrorIs(t, err, internal.ErrInvalidHandler)
		_, err = r.Resolve(42, nil)
		require.ErrorIs(t, err, internal.ErrInvalidHandler)
		_, err = r.Resolve("missing", nil)
		require.ErrorIs(t, err, internal.ErrUnknownHandler)
	})
}

func TestResolverFactories(t *testing.T) {
	t.Parallel()

	t.Run("named references are built once", func(t *testing.T) {
		t.Parallel()

		var builds int
		r := internal.NewResolver()
		r.Register("users.show", func(internal.HandlerOptions) (internal.HandlerFunc, error) {
			builds++
			return noop, nil
		})

		for range 3 {
			_, err := r.Resolve("users.show", nil)
			require.NoError(t, err)
		}
		_, ok := r.Lookup("users.show")
		assert.True(t, ok)
		assert.Equal(t, 1, builds)
	})

	t.Run("options reach the factory and bypass the cache", func(t *testing.T) {
		t.Parallel()

		var roles []string
		r := internal.NewResolver()
		r.Register("auth", func(o internal.HandlerOptions) (internal.HandlerFunc, error) {
			role, _ := o["role"].(string)
			roles = append(roles, role)
			return noop, nil
		})

		_, err := r.Resolve("auth", internal.HandlerOptions{"role": "admin"})
		require.NoError(t, err)
		_, err = r.Resolve("auth", internal.HandlerOptions{"role": "editor"})
		require.NoError(t, err)
		assert.Equal(t, []string{"admin", "editor"}, roles)
	})

	t.Run("factory errors are wrapped", func(t *testing.T) {
		t.Parallel()

		want := errors.New("missing secret")
		r := internal.NewResolver()
		r.Register("jwt", func(internal.HandlerOptions) (internal.HandlerFunc, error) { return nil, want })
		r.Register("nil", func(internal.HandlerOptions) (internal.HandlerFunc, error) { return nil, nil })

		_, err := r.Resolve("jwt", nil)
		require.ErrorIs(t, err, want)
		_, err = r.Resolve("nil", nil)
		require.ErrorIs(t, err, internal.ErrInvalidHandler)

		_, ok := r.Lookup("jwt")
		assert.False(t, ok)
	})

	t.Run("re-registering replaces the cached handler", func(t *testing.T) {
		t.Parallel()

		r := internal.NewResolver()
		r.RegisterFunc("page", func(c internal.Context, _ internal.Next) error { return c.String(http.StatusOK, "v1") })
		_, err := r.Resolve("page", nil)
		require.NoError(t, err)

		r.RegisterFunc("page", func(c internal.Context, _ internal.Next) error { return c.String(http.StatusOK, "v2") })
		h, ok := r.Lookup("page")
		require.True(t, ok)

		c, w := newCtx(http.MethodGet, "/")
		require.NoError(t, h(c, nil))
		assert.Equal(t, "v2", w.Body.String())
	})

	t.Run("names", func(t *testing.T) {
		t.Parallel()

		r := internal.NewResolver()
		r.RegisterFunc("b", noop)
		r.RegisterFunc("a", noop)
		assert.True(t, r.Has("a"))
		assert.False(t, r.Has("c"))
		assert.Equal(t, []string{"a", "b"}, r.Names())
	})
}
