package pagon_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pagon"
	"github.com/dmitrymomot/pagon/middlewares"
	"github.com/dmitrymomot/pagon/pkg/logger"
)

type pages struct{}

func (pages) Routes(r pagon.Router) {
	r.GET("/", func(c pagon.Context, _ pagon.Next) error {
		return c.String(http.StatusOK, "home")
	}).Name("home")

	r.Group("/blog", func(r pagon.Router) {
		r.GET("/:slug", func(c pagon.Context, _ pagon.Next) error {
			if c.Param("slug") == "drafts" {
				return pagon.Pass()
			}
			return c.String(http.StatusOK, "post "+c.Param("slug"))
		}).Name("post")
		r.GET("/*", func(c pagon.Context, _ pagon.Next) error {
			return c.String(http.StatusOK, "listing "+strings.Join(c.Args(), ","))
		})
	})

	r.GET("/fail", func(pagon.Context, pagon.Next) error {
		return pagon.ErrBadRequest("bad input")
	})
	r.GET("/panic", func(pagon.Context, pagon.Next) error {
		panic("boom")
	})
}

func do(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestApp(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	log := logger.New(logger.Config{Output: &logs}, middlewares.RequestIDExtractor(), pagon.RouteExtractor())

	app := pagon.New(
		pagon.WithCustomLogger(log),
		pagon.WithMiddleware(
			middlewares.Recover(),
			middlewares.RequestID(middlewares.WithRequestIDGenerator(func() string { return "req-1" })),
			middlewares.AccessLog(),
		),
		pagon.WithModules(pages{}),
		pagon.WithHandler("site.About", func(c pagon.Context, _ pagon.Next) error {
			return c.String(http.StatusOK, "about")
		}),
		pagon.WithFallback(pagon.ConventionFallback("site.")),
		pagon.WithErrorHandler(func(c pagon.Context, err error) error {
			if middlewares.IsPanicError(err) {
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal"})
			}
			return err
		}),
	)
	h := app.Handler()

	t.Run("routes", func(t *testing.T) {
		rec := do(h, http.MethodGet, "/")
		assert.Equal(t, "home", rec.Body.String())
		assert.Equal(t, "req-1", rec.Header().Get("X-Request-ID"))

		assert.Equal(t, "post hello", do(h, http.MethodGet, "/blog/hello").Body.String())
		assert.Equal(t, "listing drafts", do(h, http.MethodGet, "/blog/drafts").Body.String())
		assert.Equal(t, "about", do(h, http.MethodGet, "/about").Body.String())
		assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/contact").Code)
	})

	t.Run("errors", func(t *testing.T) {
		rec := do(h, http.MethodGet, "/fail")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "bad input")

		rec = do(h, http.MethodGet, "/panic")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"internal"}`, rec.Body.String())
	})

	t.Run("url building", func(t *testing.T) {
		url, err := app.URLFor("post", map[string]string{"slug": "go"})
		require.NoError(t, err)
		assert.Equal(t, "/blog/go", url)

		_, err = app.URLFor("post", nil)
		require.ErrorIs(t, err, pagon.ErrMissingParam)

		_, err = app.URLFor("nope", nil)
		require.ErrorIs(t, err, pagon.ErrUnknownRouteName)
	})

	t.Run("access log carries request id and route", func(t *testing.T) {
		logs.Reset()
		do(h, http.MethodGet, "/blog/hello")

		var entry map[string]any
		for line := range strings.Lines(logs.String()) {
			var e map[string]any
			require.NoError(t, json.Unmarshal([]byte(line), &e))
			if e["msg"] == "request" {
				entry = e
			}
		}
		require.NotNil(t, entry)
		assert.Equal(t, "req-1", entry["request_id"])
		assert.Equal(t, "post", entry["route"])
	})
}

func TestSignals(t *testing.T) {
	t.Parallel()

	wrapped := errors.Join(errors.New("context"), pagon.Stop())
	assert.True(t, pagon.IsStop(wrapped))
	assert.True(t, pagon.IsSignal(wrapped))
	assert.False(t, pagon.IsPass(wrapped))
	assert.True(t, pagon.IsPass(pagon.ErrPass))
	assert.False(t, pagon.IsSignal(errors.New("plain")))
}
