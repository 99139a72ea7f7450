package dag

import (
	"context"
	"fmt"

	"github.com/vk/stepplan/internal/ctxlog"
	"github.com/vk/stepplan/internal/precedence"
	"github.com/vk/stepplan/internal/step"
)

// Build constructs the precedence graph from parsed rules. Rule order does
// not matter and duplicate rules collapse into a single edge. Cycles are not
// rejected here; call DetectCycles for that.
func Build(ctx context.Context, rules []precedence.Rule, universe Universe) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.", "rules", len(rules), "universe", universe)

	if !universe.Valid() {
		return nil, fmt.Errorf("unknown step universe %q", universe)
	}

	graph := New()

	// First pass: create every step.
	if universe == UniverseAlphabet {
		for _, id := range step.Alphabet() {
			graph.AddNode(id)
		}
	}
	for _, rule := range rules {
		graph.AddNode(rule.Before)
		graph.AddNode(rule.After)
	}
	logger.Debug("Build: Step creation complete.", "step_count", graph.Len())

	// Second pass: link precedence edges.
	for _, rule := range rules {
		if err := graph.AddEdge(rule.Before, rule.After); err != nil {
			return nil, fmt.Errorf("invalid rule %q: %w", rule, err)
		}
	}
	logger.Debug("Build: Graph construction successful.", "edge_count", graph.EdgeCount())

	return graph, nil
}
