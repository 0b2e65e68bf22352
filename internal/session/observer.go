package session

// TaskProducer is an opaque handle to one dynamically-created concurrent unit
// of work, e.g. one pipeline stage instance. Producers are created by the
// dispatch component, which calls Session.TaskRegister before beginning work
// and Session.TaskDeregister unconditionally when done. The session only
// tracks registration state and keeps the handle for bulk termination on
// abort.
type TaskProducer interface {
	// Name identifies the producer in logs and traces.
	Name() string

	// Terminate asks the producer to stop. Cooperative: a producer that
	// ignores the request is moot once abort exits the process.
	Terminate()
}

// Observer is a passive listener notified of session lifecycle events.
// The observer set is fixed once the session starts. Delivery is synchronous
// and in declaration order.
//
// Observers are trusted extensions of the run: a panicking observer is not
// contained at this layer and may prevent later observers from seeing the
// same event. That mirrors the historical behavior of this engine; isolating
// observers from each other is a candidate change, not something to do
// silently here.
type Observer interface {
	// OnFlowStart fires once, during Start, after the worker pool is ready.
	OnFlowStart(s *Session)

	// OnProcessCreate fires once per producer registration, before the
	// barrier registration takes effect.
	OnProcessCreate(p TaskProducer)

	// OnProcessDestroy fires once per producer deregistration, before the
	// barrier deregistration takes effect.
	OnProcessDestroy(p TaskProducer)

	// OnFlowComplete fires exactly once during the shutdown chain, after the
	// barrier has fully drained, in observer declaration order.
	OnFlowComplete()
}
