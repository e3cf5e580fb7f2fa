package internal

import "strings"

// ExtractorSource reads one candidate value from the request.
// It reports false when the value is absent or empty.
type ExtractorSource = func(Context) (string, bool)

// Extractor tries its sources in order and returns the first value found.
// Middlewares use it to accept the same input from several places, e.g. a
// request ID from X-Request-ID or X-Correlation-ID.
type Extractor struct {
	sources []ExtractorSource
}

// NewExtractor creates an Extractor over sources.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return Extractor{sources: sources}
}

// Extract returns the first non-empty value, or ("", false).
func (e Extractor) Extract(c Context) (string, bool) {
	for _, src := range e.sources {
		if v, ok := src(c); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// nonEmpty turns a plain getter into a source.
func nonEmpty(get func(Context) string) ExtractorSource {
	return func(c Context) (string, bool) {
		v := get(c)
		return v, v != ""
	}
}

// FromHeader reads a request header.
func FromHeader(name string) ExtractorSource {
	return nonEmpty(func(c Context) string { return c.Header(name) })
}

// FromQuery reads a query parameter.
func FromQuery(name string) ExtractorSource {
	return nonEmpty(func(c Context) string { return c.Query(name) })
}

// FromParam reads a named capture of the matched route. It finds nothing
// in middleware that runs before a route matched.
func FromParam(name string) ExtractorSource {
	return nonEmpty(func(c Context) string { return c.Param(name) })
}

// FromArg reads the i-th positional capture of the matched route.
func FromArg(i int) ExtractorSource {
	return nonEmpty(func(c Context) string {
		if args := c.Args(); i >= 0 && i < len(args) {
			return args[i]
		}
		return ""
	})
}

// FromForm reads a form field.
func FromForm(name string) ExtractorSource {
	return nonEmpty(func(c Context) string { return c.Form(name) })
}

// FromBearerToken reads the token of an "Authorization: Bearer" header.
// The scheme is matched case-insensitively.
func FromBearerToken() ExtractorSource {
	return nonEmpty(func(c Context) string {
		scheme, token, ok := strings.Cut(c.Header("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	})
}
