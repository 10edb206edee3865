// Package debugassert states the preconditions between the non-virtual
// fast-path wrappers in package stream and the slow paths they dispatch
// to. They are not user-facing errors — they are bugs in this module (or
// in a caller that reached into a stream's internals) if they ever fire.
package debugassert

import "fmt"

// AssertionsEnabled gates every Precondition/Invariant call. It defaults
// to true; a binary embedding this module that has already validated its
// own build may set it to false to skip the checks in a hot loop.
var AssertionsEnabled = true

// Precondition panics with msg if cond is false and assertions are
// enabled. Used at slow-path entry points to state what the fast-path
// wrapper is required to have already ruled out (e.g. "PullSlow requires
// available() == 0").
func Precondition(cond bool, format string, args ...any) {
	if !AssertionsEnabled || cond {
		return
	}
	panic(fmt.Sprintf("streamio: precondition violated: "+format, args...))
}

// Invariant panics with msg if cond is false and assertions are enabled.
// Used to state invariants that must hold across every public entry and
// exit (e.g. a ChainBackwardWriter's limit_pos matching its backing
// chain's size), including ones a caller can only break by reaching past
// this module's API (mutating a Chain concurrently with the writer that
// owns it) — documented as undefined behavior, not a recoverable error.
func Invariant(cond bool, format string, args ...any) {
	if !AssertionsEnabled || cond {
		return
	}
	panic(fmt.Sprintf("streamio: invariant violated: "+format, args...))
}
