package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/stepplan/internal/config"
	"github.com/vk/stepplan/internal/ctxlog"
	"github.com/vk/stepplan/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL scenario loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is the set of top-level blocks allowed in a scenario file.
// Anything else is rejected by the decoder.
type fileRoot struct {
	Scenarios []*scenarioBlock `hcl:"scenario,block"`
}

// scenarioBlock holds the raw attribute expressions of a `scenario` block.
// They are evaluated later against the scenario EvalContext.
type scenarioBlock struct {
	Name       string         `hcl:"name,label"`
	Workers    hcl.Expression `hcl:"workers,optional"`
	BaseOffset hcl.Expression `hcl:"base_offset,optional"`
	Mode       hcl.Expression `hcl:"mode,optional"`
	Universe   hcl.Expression `hcl:"universe,optional"`
	Rules      hcl.Expression `hcl:"rules,optional"`
}

// Load parses every .hcl file under the given paths and merges their
// scenarios into one model. A path that does not exist is an error.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	model := config.NewModel()
	parser := hclparse.NewParser()
	evalCtx := newEvalContext()

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, block := range root.Scenarios {
			scenario, err := l.translateScenario(ctx, block, evalCtx)
			if err != nil {
				return nil, fmt.Errorf("in %s: %w", file, err)
			}
			scenario.Source = file
			if err := model.Add(scenario); err != nil {
				return nil, err
			}
		}
	}

	logger.Debug("HCL loading complete.", "scenarios", len(model.Scenarios))
	return model, nil
}

// translateScenario evaluates each attribute that was written in the block.
func (l *Loader) translateScenario(ctx context.Context, b *scenarioBlock, evalCtx *hcl.EvalContext) (*config.Scenario, error) {
	s := &config.Scenario{Name: b.Name}
	owner := fmt.Sprintf("scenario %q", b.Name)

	if isExprDefined(ctx, b.Workers, "workers") {
		var v int
		if err := decodeExpr(ctx, b.Workers, evalCtx, &v); err != nil {
			return nil, fmt.Errorf("%s, attribute 'workers': %w", owner, err)
		}
		s.Workers = &v
	}
	if isExprDefined(ctx, b.BaseOffset, "base_offset") {
		var v int
		if err := decodeExpr(ctx, b.BaseOffset, evalCtx, &v); err != nil {
			return nil, fmt.Errorf("%s, attribute 'base_offset': %w", owner, err)
		}
		s.BaseOffset = &v
	}
	if isExprDefined(ctx, b.Mode, "mode") {
		var v string
		if err := decodeExpr(ctx, b.Mode, evalCtx, &v); err != nil {
			return nil, fmt.Errorf("%s, attribute 'mode': %w", owner, err)
		}
		s.Mode = &v
	}
	if isExprDefined(ctx, b.Universe, "universe") {
		var v string
		if err := decodeExpr(ctx, b.Universe, evalCtx, &v); err != nil {
			return nil, fmt.Errorf("%s, attribute 'universe': %w", owner, err)
		}
		s.Universe = &v
	}
	if isExprDefined(ctx, b.Rules, "rules") {
		var v []string
		if err := decodeExpr(ctx, b.Rules, evalCtx, &v); err != nil {
			return nil, fmt.Errorf("%s, attribute 'rules': %w", owner, err)
		}
		s.Rules = v
	}
	return s, nil
}

// findAllHCLFiles walks all given paths and returns a flat, de-duplicated
// list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			files, err := fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				add(f)
			}
		} else if filepath.Ext(path) == ".hcl" {
			add(path)
		} else {
			return nil, fmt.Errorf("scenario file %s must have the .hcl extension", path)
		}
	}
	return allFiles, nil
}
