package session

import (
	"os"
	"os/signal"
	"syscall"
)

// armSignalHandler hooks the session's shutdown chain into process
// termination signals so an interrupt still triggers cleanup. The handler
// runs the same idempotent path as Destroy, so whichever of the two fires
// first wins and the other is a no-op.
func (s *Session) armSignalHandler() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sigCh != nil {
		return
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	s.sigCh = ch

	go func() {
		sig, ok := <-ch
		if !ok {
			return
		}
		s.logger.Warn("Received termination signal, shutting session down.", "signal", sig.String())
		s.aborted.Store(true)
		s.terminateProducers()
		s.Destroy()
		s.exit(InterruptExitStatus)
	}()
}

// disarmSignalHandler detaches the signal hook on normal teardown.
func (s *Session) disarmSignalHandler() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sigCh == nil {
		return
	}
	signal.Stop(s.sigCh)
	close(s.sigCh)
	s.sigCh = nil
}
