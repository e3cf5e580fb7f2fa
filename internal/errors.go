package internal

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for routing and handler resolution.
var (
	// ErrUnknownRouteName is returned by URLFor when no route carries the name.
	ErrUnknownRouteName = errors.New("pagon: unknown route name")

	// ErrUnknownHandler is returned when a handler name is not registered.
	ErrUnknownHandler = errors.New("pagon: unknown handler")

	// ErrInvalidHandler is returned for handler references of an unsupported type.
	ErrInvalidHandler = errors.New("pagon: invalid handler reference")

	// ErrNoHandlers is returned when a route is registered without handlers.
	ErrNoHandlers = errors.New("pagon: route has no handlers")

	errRawInGroup = errors.New("raw regexp patterns cannot be prefixed by a group")
)

// RouteSpecError reports a route or middleware that cannot be registered.
// It is raised during application setup and never during dispatch.
type RouteSpecError struct {
	Err     error
	Pattern string
}

func (e *RouteSpecError) Error() string {
	return fmt.Sprintf("pagon: bad route %q: %v", e.Pattern, e.Err)
}

func (e *RouteSpecError) Unwrap() error {
	return e.Err
}

// IsRouteSpecError reports whether err is a RouteSpecError.
func IsRouteSpecError(err error) bool {
	var rse *RouteSpecError
	return errors.As(err, &rse)
}

// HTTPError is an error carrying the status code the error boundary
// should answer with.
type HTTPError struct {
	// Err is the underlying cause. It is logged, never written to the client.
	Err error

	// Message is written to the client.
	Message string

	// Code is the HTTP status code.
	Code int
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Code, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// WithCause attaches the underlying error.
func WithCause(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

// NewHTTPError creates an HTTPError. An empty message defaults to the
// status text of code.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	if message == "" {
		message = http.StatusText(code)
	}
	e := &HTTPError{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ErrNotFound creates a 404 HTTPError.
func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, opts...)
}

// ErrBadRequest creates a 400 HTTPError.
func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

// ErrInternal creates a 500 HTTPError.
func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, opts...)
}

// AsHTTPError extracts the HTTPError from an error if present.
// Returns nil if the error is not an HTTPError.
func AsHTTPError(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}
	return nil
}
