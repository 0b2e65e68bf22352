package observer

import (
	"log/slog"
	"time"

	"resty.dev/v3"

	"github.com/ufonion/nextflow/internal/session"
)

// Weblog event kinds, one per lifecycle transition.
const (
	weblogStarted          = "started"
	weblogProcessSubmitted = "process_submitted"
	weblogProcessCompleted = "process_completed"
	weblogCompleted        = "completed"
)

// weblogEvent is the JSON payload posted for every lifecycle event.
type weblogEvent struct {
	Event   string    `json:"event"`
	RunID   string    `json:"runId,omitempty"`
	RunName string    `json:"runName,omitempty"`
	Process string    `json:"process,omitempty"`
	UTC     time.Time `json:"utc"`
}

// WebLogObserver POSTs session lifecycle events as JSON to an HTTP endpoint.
// Delivery failures are logged, never propagated: a flaky collector must not
// take the run down with it.
type WebLogObserver struct {
	url    string
	client *resty.Client
	logger *slog.Logger

	runID   string
	runName string
}

// NewWebLogObserver creates a WebLogObserver posting to the given URL.
func NewWebLogObserver(url string, logger *slog.Logger) *WebLogObserver {
	client := resty.New().SetTimeout(5 * time.Second)
	return &WebLogObserver{url: url, client: client, logger: logger}
}

// OnFlowStart implements session.Observer.
func (o *WebLogObserver) OnFlowStart(s *session.Session) {
	o.runID = s.UniqueID().String()
	o.runName = s.RunName()
	o.send(weblogEvent{Event: weblogStarted})
}

// OnProcessCreate implements session.Observer.
func (o *WebLogObserver) OnProcessCreate(p session.TaskProducer) {
	o.send(weblogEvent{Event: weblogProcessSubmitted, Process: p.Name()})
}

// OnProcessDestroy implements session.Observer.
func (o *WebLogObserver) OnProcessDestroy(p session.TaskProducer) {
	o.send(weblogEvent{Event: weblogProcessCompleted, Process: p.Name()})
}

// OnFlowComplete implements session.Observer: posts the final event and
// releases the HTTP client.
func (o *WebLogObserver) OnFlowComplete() {
	o.send(weblogEvent{Event: weblogCompleted})
	if err := o.client.Close(); err != nil {
		o.logger.Debug("Weblog client close failed.", "error", err)
	}
}

func (o *WebLogObserver) send(ev weblogEvent) {
	ev.RunID = o.runID
	ev.RunName = o.runName
	ev.UTC = time.Now().UTC()

	res, err := o.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(ev).
		Post(o.url)
	if err != nil {
		o.logger.Error("Weblog event delivery failed.", "event", ev.Event, "url", o.url, "error", err)
		return
	}
	if res.IsError() {
		o.logger.Error("Weblog endpoint rejected event.", "event", ev.Event, "url", o.url, "status", res.StatusCode())
	}
}
