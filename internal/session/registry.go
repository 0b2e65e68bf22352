package session

import "sync"

// A process hosts exactly one live run at a time; the ambient registry holds
// that session for call sites that cannot receive it as a parameter. It is
// explicit state with an explicit lifecycle: the composition root sets it
// right after construction and clears it when the run is destroyed. Nothing
// initializes it behind the caller's back.

var (
	currentMu sync.RWMutex
	current   *Session
)

// SetCurrent installs s as the process-wide ambient session.
func SetCurrent(s *Session) {
	currentMu.Lock()
	defer currentMu.Unlock()
	current = s
}

// Current returns the ambient session, or nil when no run is active.
func Current() *Session {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

// ClearCurrent removes the ambient session at the end of the run's lifecycle.
func ClearCurrent() {
	currentMu.Lock()
	defer currentMu.Unlock()
	current = nil
}
