package app

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vk/stepplan/internal/config"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	loader config.Loader
	runID  string
}

// NewApp is the constructor for the main application. Results are written to
// outW and logs to logW. Each App gets its own logger tagged with a run id.
// loader may be nil when cfg has no ConfigPath.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader) *App {
	runID := uuid.NewString()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW).With("run_id", runID)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		loader: loader,
		runID:  runID,
	}
}

// RunID returns the identifier attached to every log line of this App.
func (a *App) RunID() string {
	return a.runID
}
