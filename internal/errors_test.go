package internal_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pagon/internal"
	"github.com/dmitrymomot/pagon/pkg/pattern"
)

func TestAsHTTPError(t *testing.T) {
	t.Parallel()

	t.Run("direct HTTPError", func(t *testing.T) {
		t.Parallel()
		httpErr := internal.NewHTTPError(http.StatusNotFound, "not found")
		got := internal.AsHTTPError(httpErr)
		require.NotNil(t, got)
		require.Equal(t, http.StatusNotFound, got.Code)
		require.Equal(t, "not found", got.Message)
	})

	t.Run("wrapped HTTPError", func(t *testing.T) {
		t.Parallel()
		httpErr := internal.ErrBadRequest("bad input")
		got := internal.AsHTTPError(fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", httpErr)))
		require.Same(t, httpErr, got)
	})

	t.Run("unrelated and nil errors", func(t *testing.T) {
		t.Parallel()
		require.Nil(t, internal.AsHTTPError(errors.New("something went wrong")))
		require.Nil(t, internal.AsHTTPError(nil))
	})
}

func TestHTTPError(t *testing.T) {
	t.Parallel()

	t.Run("empty message defaults to status text", func(t *testing.T) {
		t.Parallel()
		err := internal.NewHTTPError(http.StatusForbidden, "")
		require.Equal(t, "Forbidden", err.Message)
		require.Equal(t, "403 Forbidden", err.Error())
	})

	t.Run("cause is unwrapped and formatted", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("row not found")
		err := internal.ErrNotFound("user not found", internal.WithCause(cause))
		require.ErrorIs(t, err, cause)
		require.Equal(t, "404 user not found: row not found", err.Error())
	})

	t.Run("helpers set codes", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, http.StatusNotFound, internal.ErrNotFound("").Code)
		require.Equal(t, http.StatusBadRequest, internal.ErrBadRequest("").Code)
		require.Equal(t, http.StatusInternalServerError, internal.ErrInternal("").Code)
	})
}

func TestRouteSpecError(t *testing.T) {
	t.Parallel()

	_, err := internal.NewRouteTable().Add("/user/:id", nil, nil)
	require.True(t, internal.IsRouteSpecError(err))
	require.ErrorIs(t, err, internal.ErrNoHandlers)
	require.Contains(t, err.Error(), `"/user/:id"`)

	h := func(internal.Context, internal.Next) error { return nil }
	_, err = internal.NewRouteTable().Add("/user/:id(", []internal.HandlerFunc{h}, nil)
	require.True(t, internal.IsRouteSpecError(err))
	require.ErrorIs(t, err, pattern.ErrInvalidPattern)

	require.False(t, internal.IsRouteSpecError(errors.New("plain")))
}
