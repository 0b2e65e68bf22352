package cleanup

import (
	"context"
	"sync"

	"github.com/ufonion/nextflow/internal/ctxlog"
)

// Hook is a zero-argument cleanup action. A hook that panics is recovered and
// logged; it never prevents later hooks from running.
type Hook func()

// Chain is an ordered, thread-safe list of shutdown hooks. Hooks run exactly
// once, in registration order, no matter how many callers invoke Run or how
// termination was triggered.
type Chain struct {
	mu    sync.Mutex
	hooks []Hook
}

// New creates an empty Chain.
func New() *Chain {
	return &Chain{}
}

// Add appends a hook to the chain. Safe to call from any goroutine at any
// point before the chain has run; hooks added after Run are kept and will be
// executed by a subsequent Run.
func (c *Chain) Add(h Hook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, h)
}

// Len returns the number of pending hooks.
func (c *Chain) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.hooks)
}

// Run atomically snapshots and clears the hook list, then executes each
// captured hook in registration order. A second Run observes an empty
// snapshot and is a no-op, which is what makes shutdown idempotent across
// normal completion, abort, and interrupt paths all calling it.
func (c *Chain) Run(ctx context.Context) {
	c.mu.Lock()
	hooks := c.hooks
	c.hooks = nil
	c.mu.Unlock()

	if len(hooks) == 0 {
		return
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Running shutdown hooks.", "count", len(hooks))
	for i, h := range hooks {
		c.runHook(ctx, i, h)
	}
}

// runHook executes a single hook, containing any panic so the remaining
// hooks still run.
func (c *Chain) runHook(ctx context.Context, index int, h Hook) {
	defer func() {
		if r := recover(); r != nil {
			ctxlog.FromContext(ctx).Error("Shutdown hook failed.", "index", index, "error", r)
		}
	}()
	h()
}
