package reactive

import (
	"errors"
	"fmt"
)

// ErrInvalidWatchSource is reported when a watch source is not a ref,
// reactive wrapper, getter function, or array of those. The watcher's
// getter becomes a no-op.
var ErrInvalidWatchSource = errors.New("reactive: invalid watch source")

// ErrorCode identifies where a user-provided function failed.
type ErrorCode int

const (
	// ErrCodeWatchGetter is a failure inside a watch source getter.
	ErrCodeWatchGetter ErrorCode = iota + 1

	// ErrCodeWatchCallback is a failure inside a watch callback or a
	// watch-effect body.
	ErrCodeWatchCallback

	// ErrCodeWatchCleanup is a failure inside an onCleanup-registered
	// function.
	ErrCodeWatchCleanup

	// ErrCodeScheduler is a failure inside an effect scheduler.
	ErrCodeScheduler
)

// String returns a human-readable name for the error code.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeWatchGetter:
		return "watch getter"
	case ErrCodeWatchCallback:
		return "watch callback"
	case ErrCodeWatchCleanup:
		return "watch cleanup"
	case ErrCodeScheduler:
		return "effect scheduler"
	default:
		return "unknown"
	}
}

// ErrorHandler receives errors recovered from user-provided functions.
type ErrorHandler func(err error, code ErrorCode)

// errorHandler routes recovered user errors. Defaults to a dev warning so
// one misbehaving effect cannot corrupt registry state.
var errorHandler ErrorHandler = func(err error, code ErrorCode) {
	warnf("unhandled error in %s: %v", code, err)
}

// SetErrorHandler installs the handler for errors recovered from
// user-provided functions (getters, callbacks, cleanups, schedulers).
// Passing nil restores the default warning handler.
func SetErrorHandler(h ErrorHandler) {
	if h == nil {
		h = func(err error, code ErrorCode) {
			warnf("unhandled error in %s: %v", code, err)
		}
	}
	errorHandler = h
}

// reportError forwards an error to the installed handler.
func reportError(err error, code ErrorCode) {
	errorHandler(err, code)
}

// recoveredError converts a recovered panic value into an error.
func recoveredError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}

// callWithErrorHandling invokes a user-provided function, recovering panics
// and routing them to the error handler. The panic is swallowed at the call
// site; triggering stays best-effort.
func callWithErrorHandling(fn func(), code ErrorCode) {
	defer func() {
		if r := recover(); r != nil {
			reportError(recoveredError(r), code)
		}
	}()
	fn()
}
