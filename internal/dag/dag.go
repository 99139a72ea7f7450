package dag

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vk/stepplan/internal/step"
)

// ErrCycle is wrapped by the error DetectCycles returns.
var ErrCycle = errors.New("cycle detected")

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[step.ID]*node),
	}
}

// AddNode adds a step to the graph. If the step already exists, the
// function does nothing.
func (g *Graph) AddNode(id step.ID) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}

	g.nodes[id] = &node{
		id:         id,
		deps:       make(map[step.ID]*node),
		dependents: make(map[step.ID]*node),
	}
}

// AddEdge records that `toID` cannot begin before `fromID` is finished.
// Adding the same edge twice is a no-op. An error is returned if either step
// does not exist, or one wrapping ErrCycle if the edge is a self-reference.
func (g *Graph) AddEdge(fromID, toID step.ID) error {
	if fromID == toID {
		return fmt.Errorf("%w: self-referential edge not allowed: %s -> %s", ErrCycle, fromID, fromID)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source step not found: %s", fromID)
	}

	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination step not found: %s", toID)
	}

	toNode.deps[fromID] = fromNode
	fromNode.dependents[toID] = toNode

	return nil
}

// Has reports whether the step is part of the graph.
func (g *Graph) Has(id step.ID) bool {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	_, ok := g.nodes[id]
	return ok
}

// Len returns the number of steps in the graph.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	return len(g.nodes)
}

// EdgeCount returns the number of distinct precedence edges.
func (g *Graph) EdgeCount() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	count := 0
	for _, n := range g.nodes {
		count += len(n.deps)
	}
	return count
}

// Steps returns every step in ascending order.
func (g *Graph) Steps() []step.ID {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	return sortedKeys(g.nodes)
}

// Dependencies returns, in ascending order, the steps that must finish
// before the given step.
func (g *Graph) Dependencies(id step.ID) ([]step.ID, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("step not found: %s", id)
	}
	return sortedKeys(n.deps), nil
}

// Dependents returns, in ascending order, the steps waiting on the given step.
func (g *Graph) Dependents(id step.ID) ([]step.ID, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("step not found: %s", id)
	}
	return sortedKeys(n.dependents), nil
}

// DetectCycles checks the graph for any cycles. It returns an error wrapping
// ErrCycle naming a step on the detected cycle. Steps are visited in
// ascending order so the reported step is stable.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// Classic depth-first search with three sets of nodes:
	// permanent: fully visited and not part of a cycle.
	// temporary: on the recursion stack of the current traversal.
	// unvisited: all other nodes.
	permanent := make(map[step.ID]bool)
	temporary := make(map[step.ID]bool)

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.id] {
			return nil
		}
		if temporary[n.id] {
			return fmt.Errorf("%w involving step '%s'", ErrCycle, n.id)
		}

		temporary[n.id] = true

		for _, id := range sortedKeys(n.dependents) {
			if err := visit(n.dependents[id]); err != nil {
				return err
			}
		}

		delete(temporary, n.id)
		permanent[n.id] = true

		return nil
	}

	for _, id := range sortedKeys(g.nodes) {
		if err := visit(g.nodes[id]); err != nil {
			return err
		}
	}

	return nil
}

func sortedKeys(m map[step.ID]*node) []step.ID {
	ids := make([]step.ID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
