package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vk/stepplan/internal/app"
	"github.com/vk/stepplan/internal/dag"
	"github.com/vk/stepplan/internal/fsutil"
	"github.com/vk/stepplan/internal/precedence"
	"github.com/vk/stepplan/internal/report"
	"github.com/vk/stepplan/internal/scheduler"
)

// Exit codes, following sysexits.h.
const (
	ExitFailure = 1
	ExitUsage   = 64 // EX_USAGE
	ExitDataErr = 65 // EX_DATAERR
	ExitNoInput = 66 // EX_NOINPUT
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

const longUsage = `Stepplan reads rules of the form
"Step A must be finished before step B can begin." and simulates a pool of
workers completing the steps. Each step takes its position in the alphabet
(A=1 ... Z=26) plus the base offset; the smallest ready step always goes
first.

In time mode (default) it prints how long the work takes. In order mode it
prints the order in which a single worker completes the steps.`

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var (
		cfg       *app.Config
		parseErr  error
		workers   int
		offset    int
		mode      string
		universe  string
		format    string
		logFormat string
		logLevel  string
		cfgPath   string
		scenario  string
	)

	cmd := &cobra.Command{
		Use:           "stepplan [flags] [RULES_FILE]",
		Short:         "Plan dependency-ordered steps across a pool of workers",
		Long:          longUsage,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rulesPath := ""
			if len(args) == 1 {
				rulesPath = args[0]
			}
			if rulesPath == "" && cfgPath == "" {
				return &ExitError{Code: ExitUsage, Message: cmd.UsageString()}
			}
			if rulesPath != "" && !fsutil.FileExists(rulesPath) {
				return &ExitError{Code: ExitNoInput, Message: fmt.Sprintf("File not found: %s\n\n%s", rulesPath, cmd.UsageString())}
			}

			explicit := map[string]bool{}
			for _, name := range []string{app.SettingWorkers, app.SettingBaseOffset, app.SettingMode, app.SettingUniverse} {
				explicit[name] = cmd.Flags().Changed(name)
			}

			cfg, parseErr = app.NewConfig(app.Config{
				RulesPath:  rulesPath,
				ConfigPath: cfgPath,
				Scenario:   scenario,
				Workers:    workers,
				BaseOffset: offset,
				Mode:       scheduler.Mode(strings.ToLower(mode)),
				Universe:   dag.Universe(strings.ToLower(universe)),
				Format:     report.Format(strings.ToLower(format)),
				LogFormat:  strings.ToLower(logFormat),
				LogLevel:   strings.ToLower(logLevel),
				Explicit:   explicit,
			})
			if parseErr != nil {
				return &ExitError{Code: ExitUsage, Message: parseErr.Error()}
			}
			return nil
		},
	}
	if args == nil {
		// cobra falls back to os.Args when given nil.
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(output)
	cmd.SetErr(output)

	flags := cmd.Flags()
	flags.IntVarP(&workers, app.SettingWorkers, "w", 5, "Number of simulated workers.")
	flags.IntVarP(&offset, app.SettingBaseOffset, "o", 60, "Time added to every step's alphabet position.")
	flags.StringVarP(&mode, app.SettingMode, "m", string(scheduler.ModeTime), "What to report: 'time' or 'order'.")
	flags.StringVar(&universe, app.SettingUniverse, string(dag.UniverseAlphabet), "Which steps exist: 'alphabet' (A-Z) or 'declared' (only those in rules).")
	flags.StringVarP(&format, "format", "f", string(report.FormatAnswer), "Output format: 'answer', 'timeline' or 'yaml'.")
	flags.StringVarP(&cfgPath, "config", "c", "", "HCL scenario file or directory.")
	flags.StringVarP(&scenario, "scenario", "s", "", "Scenario to use from the config.")
	flags.StringVar(&logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	flags.StringVar(&logLevel, "log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := cmd.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return nil, false, exitErr
		}
		// Flag and argument-count errors come straight from cobra.
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error() + "\n\n" + cmd.UsageString()}
	}
	if cfg == nil {
		// Help was requested and already printed.
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}

// AsExitError maps any error from a run to the exit code the process
// should use.
func AsExitError(err error) *ExitError {
	var exitErr *ExitError
	switch {
	case errors.As(err, &exitErr):
		return exitErr
	case errors.Is(err, app.ErrInvalidConfig):
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	case errors.Is(err, precedence.ErrMalformed),
		errors.Is(err, dag.ErrCycle),
		errors.Is(err, scheduler.ErrStalled):
		return &ExitError{Code: ExitDataErr, Message: err.Error()}
	case errors.Is(err, os.ErrNotExist):
		return &ExitError{Code: ExitNoInput, Message: err.Error()}
	default:
		return &ExitError{Code: ExitFailure, Message: err.Error()}
	}
}
