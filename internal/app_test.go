package internal_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pagon/internal"
)

type usersModule struct{}

func (usersModule) Routes(r internal.Router) {
	r.GET("/users", func(c internal.Context, _ internal.Next) error {
		return c.String(http.StatusOK, "list")
	}).Name("users")
	r.GET("/users/:id", func(c internal.Context, _ internal.Next) error {
		return c.String(http.StatusOK, "user "+c.Param("id"))
	}).Where(map[string]string{"id": "[0-9]+"}).Name("user")
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestAppServeHTTP(t *testing.T) {
	t.Parallel()

	t.Run("modules and named routes", func(t *testing.T) {
		t.Parallel()

		app := internal.New(internal.WithModules(usersModule{}))

		rec := serve(app, http.MethodGet, "/users/7")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user 7", rec.Body.String())

		url, err := app.URLFor("user", map[string]string{"id": "7"})
		require.NoError(t, err)
		assert.Equal(t, "/users/7", url)

		assert.Equal(t, http.StatusNotFound, serve(app, http.MethodGet, "/users/bob").Code)
		assert.Equal(t, http.StatusNotFound, serve(app, http.MethodPost, "/users").Code)
	})

	t.Run("custom not found handler", func(t *testing.T) {
		t.Parallel()

		app := internal.New(internal.WithNotFoundHandler(func(c internal.Context, _ internal.Next) error {
			return c.String(http.StatusNotFound, "nothing at "+c.Path())
		}))

		rec := serve(app, http.MethodGet, "/missing")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "nothing at /missing", rec.Body.String())
	})

	t.Run("stop without a response is not a 404", func(t *testing.T) {
		t.Parallel()

		app := internal.New(internal.WithMiddleware(func(internal.Context, internal.Next) error {
			return internal.Stop()
		}))

		assert.Equal(t, http.StatusOK, serve(app, http.MethodGet, "/anything").Code)
	})

	t.Run("handler chain passes to the next route", func(t *testing.T) {
		t.Parallel()

		app := internal.New()
		app.GET("/page/:slug", func(c internal.Context, next internal.Next) error {
			if c.Param("slug") != "home" {
				return internal.Pass()
			}
			return c.String(http.StatusOK, "home")
		})
		app.Any("/page/*", func(c internal.Context, _ internal.Next) error {
			return c.String(http.StatusOK, "page "+strings.Join(c.Args(), "/"))
		})

		assert.Equal(t, "home", serve(app, http.MethodGet, "/page/home").Body.String())
		assert.Equal(t, "page about", serve(app, http.MethodGet, "/page/about").Body.String())
	})
}

func TestAppErrors(t *testing.T) {
	t.Parallel()

	failing := func(err error) internal.HandlerFunc {
		return func(internal.Context, internal.Next) error { return err }
	}

	t.Run("plain error is a 500", func(t *testing.T) {
		t.Parallel()

		app := internal.New()
		app.GET("/", failing(errors.New("boom")))

		rec := serve(app, http.MethodGet, "/")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "boom")
	})

	t.Run("http error keeps its code", func(t *testing.T) {
		t.Parallel()

		app := internal.New()
		app.GET("/", failing(internal.ErrBadRequest("missing name")))

		rec := serve(app, http.MethodGet, "/")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "missing name")
	})

	t.Run("error handler", func(t *testing.T) {
		t.Parallel()

		var got error
		app := internal.New(internal.WithErrorHandler(func(c internal.Context, err error) error {
			got = err
			return c.JSON(http.StatusTeapot, map[string]string{"error": err.Error()})
		}))
		app.GET("/", failing(errors.New("boom")))

		rec := serve(app, http.MethodGet, "/")
		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.JSONEq(t, `{"error":"boom"}`, rec.Body.String())
		require.EqualError(t, got, "boom")
	})

	t.Run("error handler failure falls back to the default response", func(t *testing.T) {
		t.Parallel()

		app := internal.New(internal.WithErrorHandler(func(internal.Context, error) error {
			return internal.ErrNotFound("gone")
		}))
		app.GET("/", failing(errors.New("boom")))

		rec := serve(app, http.MethodGet, "/")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "gone")
	})

	t.Run("error after the response was written", func(t *testing.T) {
		t.Parallel()

		app := internal.New()
		app.GET("/", func(c internal.Context, _ internal.Next) error {
			_ = c.String(http.StatusAccepted, "partial")
			return errors.New("late")
		})

		rec := serve(app, http.MethodGet, "/")
		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Equal(t, "partial", rec.Body.String())
	})

	t.Run("debug mode panics", func(t *testing.T) {
		t.Parallel()

		app := internal.New(internal.WithDebug(true))
		app.GET("/", failing(errors.New("boom")))

		assert.Panics(t, func() { serve(app, http.MethodGet, "/") })
	})
}

func TestAppMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("prefix middleware and groups", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		app := internal.New(
			internal.WithMiddleware(rec.through("global")),
			internal.WithMiddlewareAt("/admin", rec.through("admin"), nil),
		)
		app.Group("/admin", func(r internal.Router) {
			r.Use(rec.through("group"))
			r.GET("/users", rec.handle("users"))
		})
		app.GET("/", rec.handle("home"))

		serve(app, http.MethodGet, "/admin/users")
		assert.Equal(t, []string{"global", "admin", "group", "users"}, rec.trace)

		rec.trace = nil
		serve(app, http.MethodGet, "/")
		assert.Equal(t, []string{"global", "home"}, rec.trace)
	})

	t.Run("named factory with options", func(t *testing.T) {
		t.Parallel()

		auth := func(o internal.HandlerOptions) (internal.HandlerFunc, error) {
			role, _ := o["role"].(string)
			return func(c internal.Context, next internal.Next) error {
				if c.Header("X-Role") != role {
					_ = c.String(http.StatusForbidden, "forbidden")
					return internal.Stop()
				}
				return next()
			}, nil
		}

		app := internal.New(
			internal.WithFactory("auth", auth),
			internal.WithMiddlewareAt("/admin", "auth", internal.HandlerOptions{"role": "admin"}),
		)
		app.GET("/admin", func(c internal.Context, _ internal.Next) error {
			return c.String(http.StatusOK, "welcome")
		})

		assert.Equal(t, http.StatusForbidden, serve(app, http.MethodGet, "/admin").Code)

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("X-Role", "admin")
		rw := httptest.NewRecorder()
		app.ServeHTTP(rw, req)
		assert.Equal(t, "welcome", rw.Body.String())
	})

	t.Run("invalid registrations panic", func(t *testing.T) {
		t.Parallel()

		app := internal.New()
		assert.Panics(t, func() { app.GET("/user/:id(", rec404) })
		assert.Panics(t, func() { app.GET("/", "unknown.handler") })
		assert.Panics(t, func() { app.Use(42) })
		assert.Panics(t, func() {
			app.Group("/api", func(r internal.Router) { r.GET("^/raw$", rec404) })
		})
		assert.Panics(t, func() {
			internal.New(internal.WithMiddleware("missing"))
		})
	})
}

func rec404(c internal.Context, _ internal.Next) error {
	return c.NoContent(http.StatusNotFound)
}

func TestAppNamedHandlers(t *testing.T) {
	t.Parallel()

	t.Run("routes by name", func(t *testing.T) {
		t.Parallel()

		app := internal.New(internal.WithHandler("pages.show", func(c internal.Context, _ internal.Next) error {
			return c.String(http.StatusOK, "page")
		}))
		app.GET("/page", "pages.show")

		assert.Equal(t, "page", serve(app, http.MethodGet, "/page").Body.String())
	})

	t.Run("fallback", func(t *testing.T) {
		t.Parallel()

		app := internal.New(
			internal.WithHandler("web.About", func(c internal.Context, _ internal.Next) error {
				return c.String(http.StatusOK, "about")
			}),
			internal.WithFallback(internal.ConventionFallback("web.")),
		)

		assert.Equal(t, "about", serve(app, http.MethodGet, "/about").Body.String())
		assert.Equal(t, http.StatusNotFound, serve(app, http.MethodGet, "/contact").Code)
	})

	t.Run("manifest", func(t *testing.T) {
		t.Parallel()

		m, err := internal.ParseManifest(strings.NewReader(
			"routes:\n  - pattern: /hello/:name\n    name: hello\n    handlers: [hello]\n",
		))
		require.NoError(t, err)

		app := internal.New(
			internal.WithHandler("hello", func(c internal.Context, _ internal.Next) error {
				return c.String(http.StatusOK, "hello "+c.Param("name"))
			}),
			internal.WithManifest(m),
		)

		assert.Equal(t, "hello ann", serve(app, http.MethodGet, "/hello/ann").Body.String())
		url, err := app.URLFor("hello", map[string]string{"name": "bob"})
		require.NoError(t, err)
		assert.Equal(t, "/hello/bob", url)
	})

	t.Run("manifest with unknown handler panics", func(t *testing.T) {
		t.Parallel()

		m, err := internal.ParseManifest(strings.NewReader("routes:\n  - pattern: /\n    handlers: [nope]\n"))
		require.NoError(t, err)

		assert.Panics(t, func() { internal.New(internal.WithManifest(m)) })
	})
}

func TestAppMount(t *testing.T) {
	t.Parallel()

	t.Run("sub app falls through to the outer routes", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		api := internal.New(internal.WithMiddleware(rec.through("api")))
		api.GET("/api/ping", rec.handle("ping"))

		app := internal.New()
		app.Mount("/api", api)
		app.GET("/api/version", rec.handle("version"))

		assert.Equal(t, "ping", serve(app, http.MethodGet, "/api/ping").Body.String())
		assert.Equal(t, []string{"api", "ping"}, rec.trace)

		rec.trace = nil
		assert.Equal(t, "version", serve(app, http.MethodGet, "/api/version").Body.String())
		assert.Equal(t, []string{"api", "version"}, rec.trace)

		rec.trace = nil
		serve(app, http.MethodGet, "/home")
		assert.Empty(t, rec.trace)
	})

	t.Run("plain http handler terminates", func(t *testing.T) {
		t.Parallel()

		app := internal.New()
		app.Mount("/static", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("static " + r.URL.Path))
		}))
		app.GET("/static/app.js", rec404)

		assert.Equal(t, "static /static/app.js", serve(app, http.MethodGet, "/static/app.js").Body.String())
	})
}

func TestAppHandler(t *testing.T) {
	t.Parallel()

	t.Run("liveness", func(t *testing.T) {
		t.Parallel()

		h := internal.New().Handler()
		rec := serve(h, http.MethodGet, internal.DefaultLivenessPath)
		assert.Equal(t, http.StatusOK, rec.Code)

		h = internal.New(internal.WithLivenessPath("")).Handler()
		assert.Equal(t, http.StatusNotFound, serve(h, http.MethodGet, internal.DefaultLivenessPath).Code)
	})

	t.Run("readiness", func(t *testing.T) {
		t.Parallel()

		healthy := internal.New(internal.WithReadinessChecks(map[string]internal.CheckFunc{
			"db": func(context.Context) error { return nil },
		})).Handler()

		rec := serve(healthy, http.MethodGet, internal.DefaultReadinessPath)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())

		failing := internal.New(
			internal.WithReadinessPath("/ready"),
			internal.WithReadinessChecks(map[string]internal.CheckFunc{
				"db":    func(context.Context) error { return nil },
				"cache": func(context.Context) error { return errors.New("connection refused") },
			}),
		).Handler()

		rec = serve(failing, http.MethodGet, "/ready?format=json")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{
			"status": "unhealthy",
			"checks": {
				"db": {"status": "healthy"},
				"cache": {"status": "unhealthy", "error": "connection refused"}
			}
		}`, rec.Body.String())
	})

	t.Run("requests reach the dispatcher with the real ip", func(t *testing.T) {
		t.Parallel()

		app := internal.New()
		app.GET("/", func(c internal.Context, _ internal.Next) error {
			return c.String(http.StatusOK, c.Request().RemoteAddr)
		})
		app.GET("/deep/path", rec404)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Real-IP", "203.0.113.7")
		rec := httptest.NewRecorder()
		app.Handler().ServeHTTP(rec, req)
		assert.Equal(t, "203.0.113.7", rec.Body.String())

		assert.Equal(t, http.StatusNotFound, serve(app.Handler(), http.MethodGet, "/deep/path").Code)
		assert.Equal(t, http.StatusNotFound, serve(app.Handler(), http.MethodGet, "/missing").Code)
	})
}

func TestAppRun(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	app := internal.New()
	app.GET("/", func(c internal.Context, _ internal.Next) error {
		return c.String(http.StatusOK, "up")
	})

	ctx, cancel := context.WithCancel(context.Background())
	hookRan := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- app.Run(addr,
			internal.WithContext(ctx),
			internal.ShutdownTimeout(time.Second),
			internal.ShutdownHook(func(context.Context) error {
				close(hookRan)
				return nil
			}),
		)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
	<-hookRan
}
