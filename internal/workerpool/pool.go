package workerpool

import (
	"errors"
	"runtime"
	"sync"

	"github.com/sourcegraph/conc/pool"
)

// ErrNotRunning is returned by Submit when the pool has not been started or
// has already begun shutting down.
var ErrNotRunning = errors.New("workerpool: pool is not running")

// Pool is a fixed-size background execution service owned by a session. It is
// created at session start and torn down at session destruction; collaborators
// receive it read-only for submitting background work such as trace flushing.
type Pool struct {
	// mu is held for reading across the whole of Submit so that Shutdown
	// cannot begin waiting while a submission is still in flight.
	mu      sync.RWMutex
	size    int
	workers *pool.Pool
	started bool
	closed  bool
}

// New creates a Pool with the given size. A size of zero or less falls back
// to the number of CPUs on the host.
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	return &Pool{size: size}
}

// Size returns the configured worker count.
func (p *Pool) Size() int {
	return p.size
}

// Start arms the pool. Starting an already-started pool is a no-op.
func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.closed {
		return
	}
	p.workers = pool.New().WithMaxGoroutines(p.size)
	p.started = true
}

// Running reports whether the pool accepts work.
func (p *Pool) Running() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.started && !p.closed
}

// Submit schedules fn to run on one of the pool's workers. It blocks only if
// every worker is busy, and returns ErrNotRunning once Shutdown has begun or
// if the pool was never started.
func (p *Pool) Submit(fn func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.started || p.closed {
		return ErrNotRunning
	}
	p.workers.Go(fn)
	return nil
}

// Shutdown stops accepting new work and waits for in-flight work to finish.
// It is idempotent and safe to call on a pool that was never started.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	wasRunning := p.started && !p.closed
	p.closed = true
	workers := p.workers
	p.mu.Unlock()

	if wasRunning {
		workers.Wait()
	}
}
