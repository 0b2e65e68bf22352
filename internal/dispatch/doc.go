// Package dispatch is a minimal in-process task dispatcher built on the
// session's register/deregister protocol. How tasks are actually executed is
// a boundary concern; this implementation runs them as local goroutines and
// exists so the engine has a concrete dispatch collaborator and so the
// session's drain semantics are exercised end to end.
package dispatch
