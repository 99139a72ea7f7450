package dag

import (
	"sync"

	"github.com/vk/stepplan/internal/step"
)

// Graph is a collection of steps and their precedence edges, representing a
// DAG. All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the nodes map during concurrent access.
	mutex sync.RWMutex
	// nodes stores all steps in the graph, keyed by their identifier.
	nodes map[step.ID]*node
}

// node represents a single vertex in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using step IDs),
// not by direct struct manipulation.
type node struct {
	id step.ID
	// deps holds the steps that must finish before this one (predecessors).
	deps map[step.ID]*node
	// dependents holds the steps waiting on this one (successors).
	dependents map[step.ID]*node
}

// Universe selects which steps exist in a graph built from rules.
type Universe string

const (
	// UniverseAlphabet seeds every letter A-Z, declared or not.
	UniverseAlphabet Universe = "alphabet"
	// UniverseDeclared contains only the letters named by some rule.
	UniverseDeclared Universe = "declared"
)

// Valid reports whether u is a known universe.
func (u Universe) Valid() bool {
	return u == UniverseAlphabet || u == UniverseDeclared
}
