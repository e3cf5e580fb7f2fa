package middlewares_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pagon/internal"
	"github.com/dmitrymomot/pagon/middlewares"
)

func loggedContext(method, target string) (internal.Context, *bytes.Buffer) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	req := httptest.NewRequest(method, target, nil)
	return internal.NewContext(httptest.NewRecorder(), req, internal.WithContextLogger(log)), &buf
}

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestAccessLog(t *testing.T) {
	t.Parallel()

	t.Run("logs handled request", func(t *testing.T) {
		t.Parallel()

		c, buf := loggedContext(http.MethodGet, "/users")
		var calls int
		require.NoError(t, middlewares.AccessLog()(c, terminal(c, &calls)))

		entry := decodeEntry(t, buf)
		require.Equal(t, "INFO", entry["level"])
		require.Equal(t, "request", entry["msg"])
		require.Equal(t, "GET", entry["method"])
		require.Equal(t, "/users", entry["path"])
		require.EqualValues(t, 200, entry["status"])
		require.EqualValues(t, 2, entry["size"])
	})

	t.Run("unmatched request is logged as not found", func(t *testing.T) {
		t.Parallel()

		stack := internal.NewMiddlewareStack()
		require.NoError(t, stack.Push(internal.MiddlewareEntry{Handler: middlewares.AccessLog()}))
		d := internal.NewDispatcher(stack, internal.NewRouteTable())

		c, buf := loggedContext(http.MethodGet, "/nowhere")
		handled, err := d.Run(c)
		require.NoError(t, err)
		require.False(t, handled)

		var entry map[string]any
		for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
			var e map[string]any
			require.NoError(t, json.Unmarshal(line, &e))
			if e["msg"] == "request" {
				entry = e
			}
		}
		require.NotNil(t, entry)
		require.EqualValues(t, http.StatusNotFound, entry["status"])
		require.Equal(t, "unmatched", entry["outcome"])
	})

	t.Run("stop signal is not an error", func(t *testing.T) {
		t.Parallel()

		c, buf := loggedContext(http.MethodGet, "/")
		err := middlewares.AccessLog()(c, func() error { return internal.Stop() })
		require.ErrorIs(t, err, internal.ErrStop)

		entry := decodeEntry(t, buf)
		require.Equal(t, "INFO", entry["level"])
		require.Equal(t, "stop", entry["outcome"])
		require.NotContains(t, entry, "error")
	})

	t.Run("handler error is logged at error level", func(t *testing.T) {
		t.Parallel()

		c, buf := loggedContext(http.MethodGet, "/")
		err := middlewares.AccessLog()(c, func() error { return errors.New("db down") })
		require.Error(t, err)

		entry := decodeEntry(t, buf)
		require.Equal(t, "ERROR", entry["level"])
		require.Equal(t, "db down", entry["error"])
	})

	t.Run("skip filter", func(t *testing.T) {
		t.Parallel()

		c, buf := loggedContext(http.MethodGet, "/static/app.css")
		mw := middlewares.AccessLog(middlewares.WithAccessLogSkip(func(c internal.Context) bool {
			return c.Path() != "/"
		}))
		var calls int
		require.NoError(t, mw(c, terminal(c, &calls)))
		require.Equal(t, 1, calls)
		require.Zero(t, buf.Len())
	})

	t.Run("custom level", func(t *testing.T) {
		t.Parallel()

		c, buf := loggedContext(http.MethodGet, "/")
		var calls int
		require.NoError(t, middlewares.AccessLog(middlewares.WithAccessLogLevel(slog.LevelDebug))(c, terminal(c, &calls)))
		require.Equal(t, "DEBUG", decodeEntry(t, buf)["level"])
	})
}
