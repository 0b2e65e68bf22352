package barrier

import (
	"context"
	"fmt"
	"sync"
)

// Barrier is a dynamic-membership completion barrier. Parties register before
// starting work and deregister when done; a waiter blocks until the registered
// count drains to zero.
//
// Unlike sync.WaitGroup, registration is legal at any point, including while
// another goroutine is already blocked in AwaitAll. The count draining to zero
// and rising again is one "generation"; a waiter that has not yet observed a
// drain keeps waiting through any number of generations.
type Barrier struct {
	mu      sync.Mutex
	count   int
	drained chan struct{}
}

// New creates an empty Barrier with no registered parties.
func New() *Barrier {
	return &Barrier{}
}

// Register adds one party to the barrier. It never blocks and may be called
// from any goroutine at any time.
func (b *Barrier) Register() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count++
}

// Deregister removes one party from the barrier. Each call must be matched by
// a prior Register; dropping the count below zero is a collaborator bug and
// panics rather than being silently corrected.
func (b *Barrier) Deregister() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == 0 {
		panic("barrier: Deregister called with no registered parties")
	}

	b.count--
	if b.count == 0 && b.drained != nil {
		close(b.drained)
		b.drained = nil
	}
}

// Parties returns the number of currently registered parties.
func (b *Barrier) Parties() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// AwaitAll blocks until the registered-party count reaches zero, or until ctx
// is canceled, in which case it returns ctx.Err().
//
// If new parties register while AwaitAll is blocked, it keeps waiting: each
// observed drain is re-checked under the lock, so a generation that completes
// while another is already forming does not unblock the waiter early. At most
// one waiter is expected; concurrent waiters all unblock on the same drain.
func (b *Barrier) AwaitAll(ctx context.Context) error {
	for {
		b.mu.Lock()
		if b.count == 0 {
			b.mu.Unlock()
			return nil
		}
		if b.drained == nil {
			b.drained = make(chan struct{})
		}
		drained := b.drained
		b.mu.Unlock()

		select {
		case <-ctx.Done():
			return fmt.Errorf("awaiting %d registered parties: %w", b.Parties(), ctx.Err())
		case <-drained:
			// Loop: a new generation may have started before we woke up.
		}
	}
}
