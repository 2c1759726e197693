// Package diag centralizes the debug toggles and fatal-assertion style
// used across this module's passes: valid IR in implies valid IR out,
// and any violation discovered mid-pass is a compiler bug, not a
// user-recoverable error.
package diag

import "fmt"

// These consts must be disabled by default; enable only when debugging
// a specific pass, the same way wazevoapi.RegAllocLoggingEnabled gates
// optional trace output in the teacher.
const (
	// LivenessLoggingEnabled prints each fixpoint iteration of the
	// liveness dataflow when debugging non-termination.
	LivenessLoggingEnabled = false
	// CoalesceLoggingEnabled prints coloring decisions as they are made.
	CoalesceLoggingEnabled = false
)

// These validations are enabled by default and are cheap enough to run
// in every build; they exist to catch a violated invariant as close to
// its source as possible rather than downstream as a miscompilation.
const (
	// LivenessValidationEnabled asserts monotonic growth of liveness
	// sets at each fixpoint step (Testable Property #2).
	LivenessValidationEnabled = true
	// InterferenceValidationEnabled asserts no two live writes share an
	// index at a Write action.
	InterferenceValidationEnabled = true
	// CoalesceValidationEnabled asserts coalescing soundness (Testable
	// Property #3) after every coloring run.
	CoalesceValidationEnabled = true
)

// Bug panics identifying the offending function by name, the analog of
// wazero's panic(fmt.Sprintf("BUG: ...")) calls, scoped to a single
// helper so every pass reports failures uniformly.
func Bug(functionName, format string, args ...interface{}) {
	panic(fmt.Sprintf("BUG in function %q: %s", functionName, fmt.Sprintf(format, args...)))
}

// Assert panics via Bug if cond is false.
func Assert(cond bool, functionName, format string, args ...interface{}) {
	if !cond {
		Bug(functionName, format, args...)
	}
}
