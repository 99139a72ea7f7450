package scheduler

import (
	"fmt"

	"github.com/vk/stepplan/internal/dag"
	"github.com/vk/stepplan/internal/step"
)

// TopologicalOrder returns the alphabetically smallest order in which every
// step follows all of its prerequisites. It is Kahn's algorithm with a
// min-heap in place of the usual FIFO, and matches the completion order of a
// ModeOrder simulation.
func TopologicalOrder(g *dag.Graph) ([]step.ID, error) {
	steps := g.Steps()
	inDegree := make(map[step.ID]int, len(steps))
	ready := newReadyQueue()
	for _, id := range steps {
		deps, err := g.Dependencies(id)
		if err != nil {
			return nil, err
		}
		inDegree[id] = len(deps)
		if len(deps) == 0 {
			ready.Push(id)
		}
	}

	order := make([]step.ID, 0, len(steps))
	for ready.Len() > 0 {
		id := ready.Pop()
		order = append(order, id)

		dependents, err := g.Dependents(id)
		if err != nil {
			return nil, err
		}
		for _, dependent := range dependents {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				ready.Push(dependent)
			}
		}
	}

	if len(order) != len(steps) {
		return nil, fmt.Errorf("%w: sorted %d of %d steps", ErrStalled, len(order), len(steps))
	}
	return order, nil
}
