package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ufonion/nextflow/internal/barrier"
	"github.com/ufonion/nextflow/internal/cleanup"
	"github.com/ufonion/nextflow/internal/config"
	"github.com/ufonion/nextflow/internal/ctxlog"
	"github.com/ufonion/nextflow/internal/workerpool"
)

// Process exit statuses for abnormal termination paths.
const (
	// AbortExitStatus is the distinguished exit status for an explicit abort.
	AbortExitStatus = 10
	// InterruptExitStatus is the exit status after a termination signal
	// (128 + SIGINT).
	InterruptExitStatus = 130
)

// Options carries the run options applied by Init.
type Options struct {
	// WorkDir is where task work unfolds. Defaults to "work"; created if
	// missing.
	WorkDir string

	// BaseDir is the directory holding the workflow script. Lazily resolved
	// lib/ and bin/ subdirectories hang off it. Defaults to the script's
	// directory when ScriptName is set.
	BaseDir string

	// ScriptName is the workflow script being run.
	ScriptName string

	// LibDirs lists explicitly configured library directories. Every entry
	// must exist; a missing path fails Init before any producer is created.
	LibDirs []string

	// PoolSize overrides the worker pool size. Zero falls back to the
	// configuration model's poolSize, then to the CPU count.
	PoolSize int

	// Resume continues a prior run: RunID must carry its unique identifier.
	Resume bool
	RunID  string

	// Observers is the fixed set of lifecycle observers, notified in the
	// order given here.
	Observers []Observer
}

// Session is the run-time object owning one workflow run. See the package
// documentation for the lifecycle contract.
type Session struct {
	logger *slog.Logger

	uniqueID uuid.UUID
	runName  string

	cfg      *config.Model
	accessor *config.Accessor

	cacheable  bool
	resumeMode bool

	workDir    string
	baseDir    string
	scriptName string

	explicitLibDirs []string
	libDirsOnce     sync.Once
	libDirs         []string
	binDirOnce      sync.Once
	binDir          string
	binDirOK        bool

	poolSize int
	pool     *workerpool.Pool

	barrier   *barrier.Barrier
	hooks     *cleanup.Chain
	observers []Observer

	mu          sync.Mutex
	producers   []TaskProducer
	initialized bool
	started     bool

	aborted    atomic.Bool
	terminated atomic.Bool

	sigCh chan os.Signal

	// exit is os.Exit in production; tests substitute it to observe abort.
	exit func(code int)
}

// New constructs a Session in the Created state from a configuration model.
// The context supplies the logger used for the session's own lifecycle
// messages.
func New(ctx context.Context, cfg *config.Model) *Session {
	if cfg == nil {
		cfg = config.NewModel(nil)
	}

	cacheable := true
	if v, ok := cfg.Get("cacheable"); ok {
		if b, isBool := v.(bool); isBool {
			cacheable = b
		}
	}

	return &Session{
		logger:    ctxlog.FromContext(ctx),
		uniqueID:  uuid.New(),
		cfg:       cfg,
		accessor:  config.NewAccessor(cfg),
		cacheable: cacheable,
		barrier:   barrier.New(),
		hooks:     cleanup.New(),
		exit:      os.Exit,
	}
}

// Init applies run options, moving the session from Created to Initialized.
// Setup-time errors (missing library paths, a malformed prior run id) are
// returned here, before any task producer exists.
func (s *Session) Init(opts Options) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return fmt.Errorf("session %s already initialized", s.uniqueID)
	}

	if opts.Resume {
		id, err := uuid.Parse(opts.RunID)
		if err != nil {
			return fmt.Errorf("cannot resume: invalid prior run id %q: %w", opts.RunID, err)
		}
		s.uniqueID = id
		s.resumeMode = true
	}
	s.runName = RunNameFor(s.uniqueID)

	// Validate before creating anything, so a bad option set leaves no
	// half-made work directory behind.
	for _, dir := range opts.LibDirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("library path does not exist: %s", dir)
		}
	}
	s.explicitLibDirs = opts.LibDirs

	workDir := opts.WorkDir
	if workDir == "" {
		workDir = "work"
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("cannot create work directory %s: %w", workDir, err)
	}
	s.workDir = workDir

	s.scriptName = opts.ScriptName
	s.baseDir = opts.BaseDir
	if s.baseDir == "" && opts.ScriptName != "" {
		abs, err := filepath.Abs(opts.ScriptName)
		if err != nil {
			return fmt.Errorf("cannot resolve script path %s: %w", opts.ScriptName, err)
		}
		s.baseDir = filepath.Dir(abs)
		s.scriptName = filepath.Base(abs)
	}

	s.poolSize = opts.PoolSize
	if s.poolSize <= 0 {
		if v, ok := s.cfg.Get("poolSize"); ok {
			if n, isInt := v.(int); isInt {
				s.poolSize = n
			}
		}
	}

	s.observers = opts.Observers
	s.initialized = true
	return nil
}

// Start arms the worker pool and the completion barrier, then broadcasts the
// flow start to every observer. The session takes one standing barrier
// registration of its own so the barrier cannot drain "by accident" before
// Await releases it. Each observer's OnFlowComplete is queued on the shutdown
// chain here, which is what makes it fire exactly once, after the drain, in
// declaration order.
func (s *Session) Start() error {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return fmt.Errorf("session %s not initialized", s.uniqueID)
	}
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("session %s already started", s.uniqueID)
	}
	s.pool = workerpool.New(s.poolSize)
	s.pool.Start()
	s.barrier.Register()
	s.started = true
	observers := s.observers
	s.mu.Unlock()

	s.armSignalHandler()

	s.logger.Info("Session started.", "runName", s.runName, "uniqueId", s.uniqueID, "poolSize", s.pool.Size())

	for _, obs := range observers {
		obs.OnFlowStart(s)
		s.hooks.Add(obs.OnFlowComplete)
	}
	return nil
}

// OnShutdown registers a hook on the shutdown chain. Safe to call from any
// goroutine at any point during the run.
func (s *Session) OnShutdown(h cleanup.Hook) {
	s.hooks.Add(h)
}

// TaskRegister records a new task producer. Observers are notified before the
// barrier registration takes effect; an observer panic therefore propagates
// to the caller with the barrier untouched.
func (s *Session) TaskRegister(p TaskProducer) {
	s.logger.Debug("Task producer registered.", "producer", p.Name())
	for _, obs := range s.observers {
		obs.OnProcessCreate(p)
	}
	s.barrier.Register()

	s.mu.Lock()
	s.producers = append(s.producers, p)
	s.mu.Unlock()
}

// TaskDeregister records the completion of a task producer. Observers are
// notified before the barrier deregistration takes effect.
func (s *Session) TaskDeregister(p TaskProducer) {
	s.logger.Debug("Task producer deregistered.", "producer", p.Name())
	for _, obs := range s.observers {
		obs.OnProcessDestroy(p)
	}
	s.barrier.Deregister()
}

// Await releases the session's standing barrier registration and blocks until
// every registered task producer has deregistered, across however many
// generations of registration the run produces. On a clean drain the session
// is marked terminated.
func (s *Session) Await(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return fmt.Errorf("session %s not started", s.uniqueID)
	}
	s.mu.Unlock()

	s.logger.Debug("Session awaiting barrier drain.", "parties", s.barrier.Parties())
	s.barrier.Deregister()
	if err := s.AwaitBarrier(ctx); err != nil {
		return err
	}

	s.terminated.Store(true)
	s.logger.Info("Session drained, all task producers complete.", "runName", s.runName)
	return nil
}

// AwaitBarrier blocks on the completion barrier without touching the standing
// registration. Exposed for collaborators that need an additional bounded
// wait on outstanding work.
func (s *Session) AwaitBarrier(ctx context.Context) error {
	return s.barrier.AwaitAll(ctx)
}

// Destroy tears down the worker pool and runs the shutdown chain. It is
// idempotent: the chain's snapshot-and-clear means a second call, or a racing
// signal handler, observes nothing left to run.
func (s *Session) Destroy() {
	s.disarmSignalHandler()

	s.mu.Lock()
	pool := s.pool
	s.mu.Unlock()
	if pool != nil {
		pool.Shutdown()
	}

	s.hooks.Run(ctxlog.WithLogger(context.Background(), s.logger))
	s.logger.Debug("Session destroyed.", "runName", s.runName)
}

// Abort is the deliberate fast path to termination: it marks the session
// aborted, synchronously asks every known task producer to terminate, tears
// the session down, and exits the process with AbortExitStatus. The normal
// drain is bypassed.
func (s *Session) Abort(cause error) {
	if s.aborted.Swap(true) {
		return
	}
	s.logger.Error("Session aborted.", "runName", s.runName, "cause", cause)

	s.terminateProducers()
	s.Destroy()
	s.exit(AbortExitStatus)
}

// terminateProducers asks every tracked producer to stop. The list is
// append-mostly; iterating a snapshot tolerates concurrent registration.
func (s *Session) terminateProducers() {
	s.mu.Lock()
	producers := make([]TaskProducer, len(s.producers))
	copy(producers, s.producers)
	s.mu.Unlock()

	for _, p := range producers {
		s.logger.Debug("Requesting producer termination.", "producer", p.Name())
		p.Terminate()
	}
}
