package middlewares_test

import (
	"net/http"
	"net/http/httptest"

	"github.com/dmitrymomot/pagon/internal"
)

func newContext(method, target string) (internal.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	return internal.NewContext(rec, req), rec
}

// terminal returns a continuation that writes 200 and counts its calls.
func terminal(c internal.Context, calls *int) internal.Next {
	return func() error {
		*calls++
		return c.String(http.StatusOK, "ok")
	}
}
