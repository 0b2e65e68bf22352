package app

import (
	"context"
	"fmt"

	"github.com/ufonion/nextflow/internal/ctxlog"
	"github.com/ufonion/nextflow/internal/dispatch"
	"github.com/ufonion/nextflow/internal/observer"
	"github.com/ufonion/nextflow/internal/session"
)

// observers assembles the fixed observer set for the run: lifecycle logging
// always, trace file and weblog observers when configured.
func (a *App) observers() []session.Observer {
	obs := []session.Observer{observer.NewLogObserver(a.logger)}
	if a.config.TraceFile != "" {
		obs = append(obs, observer.NewTraceObserver(a.config.TraceFile, a.logger))
	}
	if a.config.WeblogURL != "" {
		obs = append(obs, observer.NewWebLogObserver(a.config.WeblogURL, a.logger))
	}
	return obs
}

// Runner is the dispatch boundary: it receives the live session and a
// dispatcher and launches whatever task producers the workflow calls for.
// Pipeline compilation and execution strategy live behind this function.
type Runner func(ctx context.Context, sess *session.Session, d *dispatch.Dispatcher) error

// Run drives one workflow run through its complete lifecycle: session
// construction, observer wiring, start, dispatch, drain, destroy.
func (a *App) Run(ctx context.Context, runner Runner) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	sess := session.New(ctx, a.model)
	if err := sess.Init(session.Options{
		WorkDir:    a.config.WorkDir,
		ScriptName: a.config.ScriptPath,
		LibDirs:    a.config.LibDirs,
		PoolSize:   a.config.PoolSize,
		Resume:     a.config.Resume,
		RunID:      a.config.RunID,
		Observers:  a.observers(),
	}); err != nil {
		return fmt.Errorf("session setup failed: %w", err)
	}

	session.SetCurrent(sess)
	defer session.ClearCurrent()

	if err := sess.Start(); err != nil {
		return fmt.Errorf("session start failed: %w", err)
	}
	defer sess.Destroy()

	d := dispatch.New(sess)
	if runner != nil {
		if err := runner(ctx, sess, d); err != nil {
			return fmt.Errorf("workflow execution failed: %w", err)
		}
	}

	a.logger.Info("Waiting for all task producers to complete...")
	if err := sess.Await(ctx); err != nil {
		return fmt.Errorf("awaiting completion: %w", err)
	}

	if errs := d.Errs(); len(errs) > 0 {
		return fmt.Errorf("workflow completed with %d failed tasks, first failure: %w", len(errs), errs[0])
	}

	a.logger.Info("Workflow completed.", "runName", sess.RunName())
	return nil
}
