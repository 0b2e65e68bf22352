// Package observer provides session.Observer implementations.
//
//   - LogObserver: structured lifecycle logging through slog.
//   - TraceObserver: appends one record per task producer to a TSV trace
//     file under the run's work directory, flushing through the session's
//     worker pool.
//   - WebLogObserver: POSTs lifecycle events as JSON to an HTTP endpoint.
package observer
