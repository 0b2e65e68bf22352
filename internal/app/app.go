package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ufonion/nextflow/internal/config"
	"github.com/ufonion/nextflow/internal/ctxlog"
	"github.com/ufonion/nextflow/internal/fsutil"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	model  *config.Model
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and a loaded
// configuration model. A failure to load configuration is a fatal startup
// error and panics; the entrypoint recovers to present it cleanly.
func NewApp(outW io.Writer, appConfig *Config) *App {
	logger := newLogger(appConfig, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	paths, err := configFiles(appConfig)
	if err != nil {
		panic(fmt.Errorf("failed to locate configuration: %w", err))
	}

	model, err := config.NewLoader().Load(ctx, paths...)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded and translated into unified model.", "files", len(paths))

	return &App{
		outW:   outW,
		logger: logger,
		config: appConfig,
		model:  model,
	}
}

// Model returns the loaded configuration model. Primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}

// configFiles resolves which configuration files to load: the explicit path
// when one was given, otherwise every .hcl file beside the workflow script.
// A script with no sibling config files is valid and yields an empty model.
func configFiles(appConfig *Config) ([]string, error) {
	if appConfig.ConfigPath != "" {
		if _, err := os.Stat(appConfig.ConfigPath); err != nil {
			return nil, fmt.Errorf("config file %s: %w", appConfig.ConfigPath, err)
		}
		return []string{appConfig.ConfigPath}, nil
	}

	scriptDir := filepath.Dir(appConfig.ScriptPath)
	if _, err := os.Stat(scriptDir); err != nil {
		return nil, fmt.Errorf("script directory %s: %w", scriptDir, err)
	}
	return fsutil.FindFilesByExtension(scriptDir, ".hcl")
}
