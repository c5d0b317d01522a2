package reactive

import (
	"fmt"
	"os"
	"sync"
)

// DebugMode enables dev warnings (writes to readonly wrappers, invalid
// watch sources, non-wrappable values). Set at startup; warnings are
// suppressed when false unless a custom warn handler is installed.
var DebugMode bool

// WarnHandler receives dev warnings. The default writes to stderr when
// DebugMode is set.
type WarnHandler func(msg string)

var (
	warnMu      sync.Mutex
	warnHandler WarnHandler
)

// SetWarnHandler installs a custom warning sink. Passing nil restores the
// default stderr behavior. Handlers receive warnings regardless of
// DebugMode.
func SetWarnHandler(h WarnHandler) {
	warnMu.Lock()
	warnHandler = h
	warnMu.Unlock()
}

// warnf emits a dev warning.
func warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	warnMu.Lock()
	h := warnHandler
	warnMu.Unlock()

	if h != nil {
		h(msg)
		return
	}
	if DebugMode {
		fmt.Fprintf(os.Stderr, "[reactive] %s\n", msg)
	}
}
