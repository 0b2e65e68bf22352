package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/ufonion/nextflow/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("nextflow", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
Nextflow - a workflow session runner.

Usage:
  nextflow [options] SCRIPT

Arguments:
  SCRIPT
    Path to the workflow script to run.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("c", "", "Path to the configuration file. Defaults to the .hcl files beside the script.")
	workDirFlag := flagSet.String("w", "work", "Directory where task work unfolds.")
	libFlag := flagSet.String("lib", "", "Comma-separated list of library directories.")
	poolSizeFlag := flagSet.Int("pool-size", 0, "Worker pool size. 0 derives it from configuration, then CPU count.")
	resumeFlag := flagSet.String("resume", "", "Unique id of a prior run to resume.")
	traceFlag := flagSet.String("with-trace", "", "Write an execution trace file to the given path.")
	weblogFlag := flagSet.String("with-weblog", "", "POST lifecycle events to the given HTTP endpoint.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return nil, true, nil
	}
	script := flagSet.Arg(0)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	var libDirs []string
	if *libFlag != "" {
		libDirs = strings.Split(*libFlag, ",")
	}

	config, err := app.NewConfig(app.Config{
		ScriptPath: script,
		ConfigPath: *configFlag,
		WorkDir:    *workDirFlag,
		LibDirs:    libDirs,
		PoolSize:   *poolSizeFlag,
		Resume:     *resumeFlag != "",
		RunID:      *resumeFlag,
		TraceFile:  *traceFlag,
		WeblogURL:  *weblogFlag,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
