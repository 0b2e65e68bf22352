// Package session owns the lifetime of one workflow run. The Session
// coordinates an unbounded, dynamically-growing set of concurrent task
// producers through a completion barrier, broadcasts lifecycle events to a
// fixed set of observers, and guarantees that shutdown hooks run exactly
// once regardless of whether termination came from normal completion, an
// explicit abort, or a process interrupt.
//
// Lifecycle: New → Init → Start → (task producers register and deregister)
// → Await → Destroy. Abort short-circuits from any running state to process
// exit after asking every known producer to terminate.
package session
