// Package cleanup provides the session's shutdown hook chain: an ordered list
// of actions any component may register during a run, executed exactly once
// at termination with per-hook failure isolation.
package cleanup
