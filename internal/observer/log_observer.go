package observer

import (
	"log/slog"

	"github.com/ufonion/nextflow/internal/session"
)

// LogObserver emits a structured log line for every session lifecycle event.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates a LogObserver writing through the given logger.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

// OnFlowStart implements session.Observer.
func (o *LogObserver) OnFlowStart(s *session.Session) {
	o.logger.Info("Flow started.", "runName", s.RunName(), "uniqueId", s.UniqueID(), "resume", s.IsResumeMode())
}

// OnProcessCreate implements session.Observer.
func (o *LogObserver) OnProcessCreate(p session.TaskProducer) {
	o.logger.Info("Process created.", "process", p.Name())
}

// OnProcessDestroy implements session.Observer.
func (o *LogObserver) OnProcessDestroy(p session.TaskProducer) {
	o.logger.Info("Process completed.", "process", p.Name())
}

// OnFlowComplete implements session.Observer.
func (o *LogObserver) OnFlowComplete() {
	o.logger.Info("Flow completed.")
}
