package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePopulatesConfig(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse([]string{
		"-c", "custom.hcl",
		"-w", "scratch",
		"-lib", "lib1,lib2",
		"-pool-size", "8",
		"-with-trace", "trace.txt",
		"-with-weblog", "http://localhost:9000/events",
		"-log-level", "DEBUG",
		"main.nf",
	}, &out)
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, "main.nf", cfg.ScriptPath)
	assert.Equal(t, "custom.hcl", cfg.ConfigPath)
	assert.Equal(t, "scratch", cfg.WorkDir)
	assert.Equal(t, []string{"lib1", "lib2"}, cfg.LibDirs)
	assert.Equal(t, 8, cfg.PoolSize)
	assert.Equal(t, "trace.txt", cfg.TraceFile)
	assert.Equal(t, "http://localhost:9000/events", cfg.WeblogURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.Resume)
}

func TestParseResume(t *testing.T) {
	var out bytes.Buffer
	cfg, _, err := Parse([]string{"-resume", "0a0f3a2c-0000-0000-0000-000000000000", "main.nf"}, &out)
	require.NoError(t, err)
	assert.True(t, cfg.Resume)
	assert.Equal(t, "0a0f3a2c-0000-0000-0000-000000000000", cfg.RunID)
}

func TestParseNoScriptPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse(nil, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParseInvalidLogOptions(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"-log-format", "xml", "main.nf"}, &out)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)

	_, _, err = Parse([]string{"-log-level", "verbose", "main.nf"}, &out)
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParseUnknownFlag(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"-definitely-not-a-flag"}, &out)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}
