package dispatch

import (
	"context"
	"sync"

	"github.com/ufonion/nextflow/internal/ctxlog"
	"github.com/ufonion/nextflow/internal/session"
)

// Task is one unit of pipeline work handed to the Dispatcher.
type Task struct {
	// Name identifies the task in logs, traces and observer events.
	Name string

	// Run executes the task. The context is canceled when the session asks
	// the task's producer to terminate.
	Run func(ctx context.Context) error
}

// Dispatcher launches tasks as concurrent task producers of a session. Each
// task registers with the session before its work begins and deregisters
// unconditionally when done, including on failure, so the session's drain
// accounting always balances.
type Dispatcher struct {
	sess *session.Session

	mu   sync.Mutex
	errs []error
}

// New creates a Dispatcher bound to the given session.
func New(sess *session.Session) *Dispatcher {
	return &Dispatcher{sess: sess}
}

// Dispatch registers every task with the session and launches it on its own
// goroutine. It returns as soon as all tasks are launched; completion is
// observed through the session's Await.
//
// Registration happens on the calling goroutine, before any work starts, so
// the session's barrier can never drain between this call and the tasks
// actually running.
func (d *Dispatcher) Dispatch(ctx context.Context, tasks []Task) {
	logger := ctxlog.FromContext(ctx)

	for _, t := range tasks {
		taskCtx, cancel := context.WithCancel(ctx)
		p := &producer{name: t.Name, cancel: cancel}
		d.sess.TaskRegister(p)

		go func(t Task) {
			defer d.sess.TaskDeregister(p)
			defer cancel()

			if err := t.Run(taskCtx); err != nil {
				logger.Error("Task failed.", "task", t.Name, "error", err)
				d.mu.Lock()
				d.errs = append(d.errs, err)
				d.mu.Unlock()
			}
		}(t)
	}
}

// Errs returns the errors collected from completed tasks so far.
func (d *Dispatcher) Errs() []error {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]error, len(d.errs))
	copy(out, d.errs)
	return out
}

// producer is the session.TaskProducer handle for one dispatched task.
// Terminate is cooperative: it cancels the task's context.
type producer struct {
	name   string
	cancel context.CancelFunc
}

func (p *producer) Name() string { return p.name }
func (p *producer) Terminate()   { p.cancel() }
