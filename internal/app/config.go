package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ScriptPath string // workflow script
	ConfigPath string // explicit config file; discovered beside the script when empty

	WorkDir  string
	LibDirs  []string
	PoolSize int

	Resume bool
	RunID  string

	TraceFile string // trace observer output; disabled when empty
	WeblogURL string // weblog observer endpoint; disabled when empty

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config, returning it ready for use. Empty log level
// and format take the defaults; unknown values are rejected here rather than
// silently downgraded by the logger.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ScriptPath == "" {
		return nil, errors.New("ScriptPath is a required configuration field and cannot be empty")
	}
	if cfg.Resume && cfg.RunID == "" {
		return nil, errors.New("resume requires the unique id of the prior run")
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, ok := logLevels[cfg.LogLevel]; !ok {
		return nil, fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}

	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}

	return &cfg, nil
}
