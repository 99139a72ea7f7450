package app

import (
	"errors"
	"fmt"

	"github.com/vk/stepplan/internal/config"
	"github.com/vk/stepplan/internal/dag"
	"github.com/vk/stepplan/internal/report"
	"github.com/vk/stepplan/internal/scheduler"
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Setting names, used to record which values were given explicitly.
const (
	SettingWorkers    = "workers"
	SettingBaseOffset = "base-offset"
	SettingMode       = "mode"
	SettingUniverse   = "universe"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	RulesPath  string // precedence rules, one per line
	ConfigPath string // hcl scenario file or directory
	Scenario   string

	Workers    int
	BaseOffset int
	Mode       scheduler.Mode
	Universe   dag.Universe
	Format     report.Format

	LogFormat string
	LogLevel  string

	// Explicit lists the settings given on the command line. They win over
	// values from a scenario.
	Explicit map[string]bool
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.RulesPath == "" && cfg.ConfigPath == "" {
		return nil, fmt.Errorf("%w: a rules file or a scenario config is required", ErrInvalidConfig)
	}
	if cfg.Scenario != "" && cfg.ConfigPath == "" {
		return nil, fmt.Errorf("%w: scenario %q given without a config path", ErrInvalidConfig, cfg.Scenario)
	}
	if !cfg.Format.Valid() {
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, cfg.Format)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("%w: log-format must be 'text' or 'json'", ErrInvalidConfig)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("%w: log-level must be 'debug', 'info', 'warn', or 'error'", ErrInvalidConfig)
	}
	if err := cfg.validatePlan(); err != nil {
		return nil, err
	}
	if cfg.Explicit == nil {
		cfg.Explicit = map[string]bool{}
	}
	return &cfg, nil
}

// validatePlan checks the settings a scenario may change.
func (c *Config) validatePlan() error {
	if !c.Mode.Valid() {
		return fmt.Errorf("%w: mode must be 'time' or 'order', got %q", ErrInvalidConfig, c.Mode)
	}
	if !c.Universe.Valid() {
		return fmt.Errorf("%w: universe must be 'alphabet' or 'declared', got %q", ErrInvalidConfig, c.Universe)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.BaseOffset < 0 {
		return fmt.Errorf("%w: base-offset must not be negative, got %d", ErrInvalidConfig, c.BaseOffset)
	}
	return nil
}

// plan is the fully resolved input of one simulation.
type plan struct {
	opts     scheduler.Options
	universe dag.Universe
	rules    []string // inline scenario rules
}

// resolvePlan merges a scenario (may be nil) into the command-line settings.
func (c *Config) resolvePlan(s *config.Scenario) (*plan, error) {
	merged := *c
	var rules []string
	if s != nil {
		if s.Workers != nil && !c.Explicit[SettingWorkers] {
			merged.Workers = *s.Workers
		}
		if s.BaseOffset != nil && !c.Explicit[SettingBaseOffset] {
			merged.BaseOffset = *s.BaseOffset
		}
		if s.Mode != nil && !c.Explicit[SettingMode] {
			merged.Mode = scheduler.Mode(*s.Mode)
		}
		if s.Universe != nil && !c.Explicit[SettingUniverse] {
			merged.Universe = dag.Universe(*s.Universe)
		}
		rules = s.Rules
	}

	// Ordering runs on a single worker unless --workers was given, in which
	// case the scheduler rejects any other count.
	if merged.Mode == scheduler.ModeOrder && !c.Explicit[SettingWorkers] {
		merged.Workers = 1
	}

	if err := merged.validatePlan(); err != nil {
		return nil, err
	}
	return &plan{
		opts: scheduler.Options{
			Workers:    merged.Workers,
			BaseOffset: merged.BaseOffset,
			Mode:       merged.Mode,
		},
		universe: merged.Universe,
		rules:    rules,
	}, nil
}
