// Package workerpool wraps a fixed-size concurrent execution service for
// session-scoped background work. Sizing comes from explicit configuration
// with a CPU-count default; teardown is orderly and idempotent.
package workerpool
