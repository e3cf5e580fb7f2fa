package internal

import "errors"

// Control signals. They are returned like errors but are not failures:
// the dispatcher consumes them and they are never reported as errors.
var (
	// ErrPass declines the request. The nearest enclosing continuation
	// moves on to the next candidate handler.
	ErrPass = errors.New("pagon: pass")

	// ErrStop ends the dispatch immediately. The response is final as written.
	ErrStop = errors.New("pagon: stop")
)

// Pass returns the pass signal.
//
//	if !ownsRequest(c) {
//	    return pagon.Pass()
//	}
func Pass() error { return ErrPass }

// Stop returns the stop signal.
func Stop() error { return ErrStop }

// IsPass reports whether err is (or wraps) the pass signal.
func IsPass(err error) bool { return errors.Is(err, ErrPass) }

// IsStop reports whether err is (or wraps) the stop signal.
func IsStop(err error) bool { return errors.Is(err, ErrStop) }

// IsSignal reports whether err is a control signal rather than a failure.
func IsSignal(err error) bool { return IsPass(err) || IsStop(err) }
