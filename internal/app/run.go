package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/stepplan/internal/config"
	"github.com/vk/stepplan/internal/ctxlog"
	"github.com/vk/stepplan/internal/dag"
	"github.com/vk/stepplan/internal/precedence"
	"github.com/vk/stepplan/internal/report"
	"github.com/vk/stepplan/internal/scheduler"
)

// Run executes the main application logic: resolve the plan, build the
// graph, simulate, and write the report.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	scenario, err := a.loadScenario(ctx)
	if err != nil {
		return err
	}
	p, err := a.config.resolvePlan(scenario)
	if err != nil {
		return err
	}

	rules, err := a.readRules(p)
	if err != nil {
		return err
	}
	a.logger.Info("Rules loaded.", "count", len(rules))

	graph, err := dag.Build(ctx, rules, p.universe)
	if err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}
	if err := graph.DetectCycles(); err != nil {
		return fmt.Errorf("error validating dependency graph: %w", err)
	}
	a.logger.Debug("Dependency graph built.", "step_count", graph.Len(), "edge_count", graph.EdgeCount())

	sched, err := scheduler.New(graph, p.opts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	result, err := sched.Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	a.logger.Info("Simulation finished.", "mode", p.opts.Mode, "workers", p.opts.Workers, "base_offset", p.opts.BaseOffset, "elapsed", result.Elapsed)

	if err := report.Write(a.outW, result, a.config.Format); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// loadScenario returns the selected scenario, or nil when no config path
// was given.
func (a *App) loadScenario(ctx context.Context) (*config.Scenario, error) {
	if a.config.ConfigPath == "" {
		return nil, nil
	}
	if a.loader == nil {
		return nil, errors.New("a config path was given but no loader is configured")
	}

	model, err := a.loader.Load(ctx, a.config.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	scenario, err := model.Select(a.config.Scenario)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	a.logger.Debug("Scenario selected.", "name", scenario.Name, "source", scenario.Source)
	return scenario, nil
}

// readRules combines the rules file with any inline scenario rules.
func (a *App) readRules(p *plan) ([]precedence.Rule, error) {
	var rules []precedence.Rule
	if a.config.RulesPath != "" {
		fromFile, err := precedence.ReadFile(a.config.RulesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read rules: %w", err)
		}
		rules = append(rules, fromFile...)
	}
	if len(p.rules) > 0 {
		inline, err := precedence.ParseAll(p.rules)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario rules: %w", err)
		}
		rules = append(rules, inline...)
	}
	if a.config.RulesPath == "" && len(p.rules) == 0 {
		return nil, fmt.Errorf("%w: the scenario defines no rules and no rules file was given", ErrInvalidConfig)
	}
	return rules, nil
}
