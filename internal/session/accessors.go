package session

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ufonion/nextflow/internal/config"
	"github.com/ufonion/nextflow/internal/workerpool"
)

// UniqueID returns the run's immutable unique identifier.
func (s *Session) UniqueID() uuid.UUID { return s.uniqueID }

// RunName returns the human-readable run name derived from the unique id.
func (s *Session) RunName() string { return s.runName }

// WorkDir returns the directory where task work unfolds.
func (s *Session) WorkDir() string { return s.workDir }

// BaseDir returns the directory holding the workflow script.
func (s *Session) BaseDir() string { return s.baseDir }

// ScriptName returns the name of the workflow script.
func (s *Session) ScriptName() string { return s.scriptName }

// Config returns the configuration model the session was constructed with.
func (s *Session) Config() *config.Model { return s.cfg }

// Exec returns the executor-scoped configuration accessor.
func (s *Session) Exec() *config.Accessor { return s.accessor }

// Pool returns the session's worker pool. Nil before Start. Collaborators
// treat the handle as read-only: submit work, never tear it down.
func (s *Session) Pool() *workerpool.Pool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool
}

// IsCacheable reports whether task results of this run may be cached.
func (s *Session) IsCacheable() bool { return s.cacheable }

// IsResumeMode reports whether this run resumes a prior one.
func (s *Session) IsResumeMode() bool { return s.resumeMode }

// Aborted reports whether Abort has been invoked.
func (s *Session) Aborted() bool { return s.aborted.Load() }

// Terminated reports whether the barrier has fully drained at least once.
func (s *Session) Terminated() bool { return s.terminated.Load() }

// Producers returns a snapshot of every task producer registered so far.
func (s *Session) Producers() []TaskProducer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TaskProducer, len(s.producers))
	copy(out, s.producers)
	return out
}

// LibDirs returns the library directories for this run: the explicitly
// configured list when one was given (validated at Init), otherwise a `lib`
// directory beside the base directory when it exists. Resolution happens once;
// later calls return the cached result without touching the filesystem.
func (s *Session) LibDirs() []string {
	s.libDirsOnce.Do(func() {
		if len(s.explicitLibDirs) > 0 {
			s.libDirs = s.explicitLibDirs
			return
		}
		if s.baseDir == "" {
			return
		}
		candidate := filepath.Join(s.baseDir, "lib")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			s.libDirs = []string{candidate}
		}
	})
	return s.libDirs
}

// BinDir returns the `bin` directory beside the base directory for
// script-local executables. Computed once and cached; an unset base directory
// or an absent bin directory yields ok=false, never an error.
func (s *Session) BinDir() (dir string, ok bool) {
	s.binDirOnce.Do(func() {
		if s.baseDir == "" {
			return
		}
		candidate := filepath.Join(s.baseDir, "bin")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			s.binDir = candidate
			s.binDirOK = true
		}
	})
	return s.binDir, s.binDirOK
}
