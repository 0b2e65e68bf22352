package session

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterruptRunsShutdownChainOnceAndExits(t *testing.T) {
	s := New(context.Background(), nil)
	exited := make(chan int, 1)
	s.exit = func(code int) { exited <- code }
	require.NoError(t, s.Init(Options{WorkDir: filepath.Join(t.TempDir(), "work")}))
	require.NoError(t, s.Start())

	p := &fakeProducer{name: "long-running"}
	s.TaskRegister(p)

	var hookRuns atomic.Int32
	s.OnShutdown(func() { hookRuns.Add(1) })

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGINT))

	select {
	case code := <-exited:
		assert.Equal(t, InterruptExitStatus, code)
	case <-time.After(2 * time.Second):
		t.Fatal("signal handler never reached process exit")
	}

	assert.True(t, s.Aborted())
	assert.True(t, p.terminated.Load())
	assert.EqualValues(t, 1, hookRuns.Load())

	// Whichever of the handler and Destroy runs first drains the chain; a
	// follow-up Destroy finds nothing left.
	s.Destroy()
	assert.EqualValues(t, 1, hookRuns.Load())
}

func TestDestroyDisarmsSignalHandler(t *testing.T) {
	s := newTestSession(t, Options{})
	require.NoError(t, s.Start())
	require.NoError(t, s.Await(context.Background()))
	s.Destroy()

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Nil(t, s.sigCh)
}