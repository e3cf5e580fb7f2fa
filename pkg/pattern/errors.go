package pattern

import "errors"

// Sentinel errors for the pattern package.
var (
	// ErrInvalidPattern is returned when a pattern or one of its rules does not compile.
	ErrInvalidPattern = errors.New("pattern: invalid pattern")

	// ErrMissingParam is returned by Build when a required placeholder has no value.
	ErrMissingParam = errors.New("pattern: missing parameter")

	// ErrNotReversible is returned by Build for raw regular expression patterns.
	ErrNotReversible = errors.New("pattern: raw regexp pattern cannot be reversed")
)
