package observer

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/ufonion/nextflow/internal/session"
	"github.com/ufonion/nextflow/internal/workerpool"
)

// TraceObserver appends one record per task-producer lifecycle event to a
// tab-separated trace file. Writes land in a buffered writer; flushes are
// submitted to the session's worker pool so the registration path stays
// non-blocking, falling back to an inline flush when the pool is unavailable.
type TraceObserver struct {
	path   string
	logger *slog.Logger

	mu   sync.Mutex
	file *os.File
	w    *bufio.Writer
	pool *workerpool.Pool

	// now is time.Now in production; tests pin it for stable output.
	now func() time.Time
}

// NewTraceObserver creates a TraceObserver writing to the given file path.
func NewTraceObserver(path string, logger *slog.Logger) *TraceObserver {
	return &TraceObserver{path: path, logger: logger, now: time.Now}
}

// OnFlowStart implements session.Observer: it creates the trace file and
// captures the session's worker pool for background flushing.
func (o *TraceObserver) OnFlowStart(s *session.Session) {
	o.mu.Lock()
	defer o.mu.Unlock()

	file, err := os.Create(o.path)
	if err != nil {
		o.logger.Error("Cannot create trace file, tracing disabled.", "path", o.path, "error", err)
		return
	}
	o.file = file
	o.w = bufio.NewWriter(file)
	o.pool = s.Pool()

	fmt.Fprintf(o.w, "run_name\tprocess\tevent\ttimestamp\n")
	o.writeRecord(s.RunName(), "-", "flow_start")
}

// OnProcessCreate implements session.Observer.
func (o *TraceObserver) OnProcessCreate(p session.TaskProducer) {
	o.record(p.Name(), "submitted")
}

// OnProcessDestroy implements session.Observer.
func (o *TraceObserver) OnProcessDestroy(p session.TaskProducer) {
	o.record(p.Name(), "completed")
}

// OnFlowComplete implements session.Observer: final flush and close.
func (o *TraceObserver) OnFlowComplete() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.file == nil {
		return
	}

	o.writeRecord("-", "-", "flow_complete")
	if err := o.w.Flush(); err != nil {
		o.logger.Error("Trace file flush failed.", "path", o.path, "error", err)
	}
	if err := o.file.Close(); err != nil {
		o.logger.Error("Trace file close failed.", "path", o.path, "error", err)
	}
	o.file = nil
	o.w = nil
}

func (o *TraceObserver) record(process, event string) {
	o.mu.Lock()
	if o.file == nil {
		o.mu.Unlock()
		return
	}
	o.writeRecord("-", process, event)
	pool := o.pool
	o.mu.Unlock()

	if pool == nil || pool.Submit(o.flush) != nil {
		o.flush()
	}
}

// writeRecord appends one line. Caller holds o.mu.
func (o *TraceObserver) writeRecord(runName, process, event string) {
	fmt.Fprintf(o.w, "%s\t%s\t%s\t%s\n", runName, process, event, o.now().UTC().Format(time.RFC3339))
}

func (o *TraceObserver) flush() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.w == nil {
		return
	}
	if err := o.w.Flush(); err != nil {
		o.logger.Error("Trace file flush failed.", "path", o.path, "error", err)
	}
}
