package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ufonion/nextflow/internal/dispatch"
	"github.com/ufonion/nextflow/internal/session"
)

func writeScriptProject(t *testing.T, configSrc string) (script string) {
	t.Helper()
	dir := t.TempDir()
	script = filepath.Join(dir, "main.nf")
	require.NoError(t, os.WriteFile(script, []byte("workflow {}"), 0o644))
	if configSrc != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "nextflow.hcl"), []byte(configSrc), 0o644))
	}
	return script
}

func baseConfig(t *testing.T, script string) *Config {
	t.Helper()
	cfg, err := NewConfig(Config{
		ScriptPath: script,
		WorkDir:    filepath.Join(t.TempDir(), "work"),
		LogLevel:   "error",
		LogFormat:  "text",
	})
	require.NoError(t, err)
	return cfg
}

func TestNewConfigValidation(t *testing.T) {
	_, err := NewConfig(Config{})
	assert.Error(t, err)

	_, err = NewConfig(Config{ScriptPath: "main.nf", Resume: true})
	assert.Error(t, err)

	cfg, err := NewConfig(Config{ScriptPath: "main.nf"})
	require.NoError(t, err)
	assert.Equal(t, "main.nf", cfg.ScriptPath)
}

func TestNewConfigLogSettings(t *testing.T) {
	// Empty values take defaults; unknown values are rejected up front.
	cfg, err := NewConfig(Config{ScriptPath: "main.nf"})
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)

	_, err = NewConfig(Config{ScriptPath: "main.nf", LogLevel: "verbose"})
	assert.Error(t, err)

	_, err = NewConfig(Config{ScriptPath: "main.nf", LogFormat: "xml"})
	assert.Error(t, err)
}

func TestNewLoggerHonorsLevelAndFormat(t *testing.T) {
	var out bytes.Buffer
	logger := newLogger(&Config{LogLevel: "warn", LogFormat: "json"}, &out)

	logger.Info("dropped")
	logger.Warn("kept")

	assert.NotContains(t, out.String(), "dropped")
	assert.Contains(t, out.String(), `"msg":"kept"`)
}

func TestNewAppDiscoversConfigBesideScript(t *testing.T) {
	script := writeScriptProject(t, `poolSize = 3`)

	var out bytes.Buffer
	a := NewApp(&out, baseConfig(t, script))

	v, ok := a.Model().Get("poolSize")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestNewAppPanicsOnBrokenConfig(t *testing.T) {
	script := writeScriptProject(t, `poolSize = `)

	var out bytes.Buffer
	assert.Panics(t, func() { NewApp(&out, baseConfig(t, script)) })
}

func TestRunCompletesFullLifecycle(t *testing.T) {
	script := writeScriptProject(t, `poolSize = 2`)

	var out bytes.Buffer
	a := NewApp(&out, baseConfig(t, script))

	var ran atomic.Int32
	var observed *session.Session
	err := a.Run(context.Background(), func(ctx context.Context, sess *session.Session, d *dispatch.Dispatcher) error {
		observed = sess
		require.Same(t, sess, session.Current())
		d.Dispatch(ctx, []dispatch.Task{
			{Name: "one", Run: func(ctx context.Context) error { ran.Add(1); return nil }},
			{Name: "two", Run: func(ctx context.Context) error { ran.Add(1); return nil }},
		})
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, int32(2), ran.Load())
	assert.True(t, observed.Terminated())
	assert.Nil(t, session.Current())
	assert.Equal(t, 2, observed.Pool().Size())
}

func TestRunReportsTaskFailures(t *testing.T) {
	script := writeScriptProject(t, "")

	var out bytes.Buffer
	a := NewApp(&out, baseConfig(t, script))

	boom := errors.New("task failed")
	err := a.Run(context.Background(), func(ctx context.Context, sess *session.Session, d *dispatch.Dispatcher) error {
		d.Dispatch(ctx, []dispatch.Task{{Name: "bad", Run: func(ctx context.Context) error { return boom }}})
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestRunWiresTraceObserver(t *testing.T) {
	script := writeScriptProject(t, "")
	traceFile := filepath.Join(t.TempDir(), "trace.txt")

	cfg := baseConfig(t, script)
	cfg.TraceFile = traceFile

	var out bytes.Buffer
	a := NewApp(&out, cfg)
	err := a.Run(context.Background(), func(ctx context.Context, sess *session.Session, d *dispatch.Dispatcher) error {
		d.Dispatch(ctx, []dispatch.Task{{Name: "align", Run: func(ctx context.Context) error { return nil }}})
		return nil
	})
	require.NoError(t, err)

	data, err := os.ReadFile(traceFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "align")
}

func TestRunFailsFastOnMissingLibraryPath(t *testing.T) {
	script := writeScriptProject(t, "")

	cfg := baseConfig(t, script)
	cfg.LibDirs = []string{filepath.Join(t.TempDir(), "nope")}

	var out bytes.Buffer
	a := NewApp(&out, cfg)
	err := a.Run(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "library path does not exist")
}
