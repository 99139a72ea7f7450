package scheduler

import (
	"context"
	"fmt"
	"slices"

	"github.com/vk/stepplan/internal/ctxlog"
	"github.com/vk/stepplan/internal/dag"
	"github.com/vk/stepplan/internal/step"
)

// Scheduler runs worker-pool simulations over a precedence graph.
type Scheduler struct {
	graph    *dag.Graph
	opts     Options
	duration step.DurationFunc
}

// New validates the options and returns a Scheduler for the graph. The graph
// is only read, never modified.
func New(g *dag.Graph, opts Options) (*Scheduler, error) {
	if g == nil {
		return nil, fmt.Errorf("scheduler requires a graph")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Scheduler{graph: g, opts: opts, duration: opts.durationFunc()}, nil
}

// simulation is the mutable state of a single Run.
type simulation struct {
	// unresolved maps each not-yet-ready step to the prerequisites that have
	// not finished. A step leaves this map when its set empties.
	unresolved map[step.ID]map[step.ID]struct{}
	dependents map[step.ID][]step.ID
	ready      *readyQueue
	workers    []Worker
	clock      int
	remaining  int // steps not yet retired
	result     *Result
}

// Run executes the simulation and returns its result. It returns an error
// wrapping ErrStalled if the graph has a cycle, or the context error if ctx
// is cancelled between rounds.
func (s *Scheduler) Run(ctx context.Context) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	sim, err := s.newSimulation()
	if err != nil {
		return nil, err
	}
	logger.Debug("Simulation starting.", "steps", sim.remaining, "workers", s.opts.Workers, "base_offset", s.opts.BaseOffset, "mode", s.opts.Mode)

	for sim.remaining > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("simulation interrupted at time %d: %w", sim.clock, err)
		}

		s.assign(sim)

		delta, ok := sim.nextCompletion()
		if !ok {
			return nil, fmt.Errorf("%w: steps %s are still waiting at time %d", ErrStalled, step.Join(sim.blocked()), sim.clock)
		}
		sim.advance(delta)
		finished := s.retire(sim)

		logger.Debug("Simulation round complete.", "time", sim.clock, "delta", delta, "finished", step.Join(finished), "remaining", sim.remaining)
	}

	sim.result.Elapsed = sim.clock
	logger.Debug("Simulation finished.", "elapsed", sim.clock, "order", step.Join(sim.result.Order))
	return sim.result, nil
}

func (s *Scheduler) newSimulation() (*simulation, error) {
	steps := s.graph.Steps()
	sim := &simulation{
		unresolved: make(map[step.ID]map[step.ID]struct{}),
		dependents: make(map[step.ID][]step.ID, len(steps)),
		workers:    make([]Worker, s.opts.Workers),
		remaining:  len(steps),
		result: &Result{
			Options: s.opts,
			Order:   make([]step.ID, 0, len(steps)),
		},
	}

	var ready []step.ID
	for _, id := range steps {
		deps, err := s.graph.Dependencies(id)
		if err != nil {
			return nil, err
		}
		dependents, err := s.graph.Dependents(id)
		if err != nil {
			return nil, err
		}
		sim.dependents[id] = dependents

		if len(deps) == 0 {
			ready = append(ready, id)
			continue
		}
		set := make(map[step.ID]struct{}, len(deps))
		for _, dep := range deps {
			set[dep] = struct{}{}
		}
		sim.unresolved[id] = set
	}
	sim.ready = newReadyQueue(ready...)
	return sim, nil
}

// assign hands ready steps to idle workers, smallest step first.
func (s *Scheduler) assign(sim *simulation) {
	for i := range sim.workers {
		if sim.ready.Len() == 0 {
			return
		}
		if !sim.workers[i].Idle() {
			continue
		}
		id := sim.ready.Pop()
		sim.workers[i] = Worker{Step: id, Remaining: s.duration(id)}
		sim.result.Events = append(sim.result.Events, Event{Time: sim.clock, Worker: i, Step: id, Kind: EventStarted})
	}
}

// retire frees every worker whose step has finished and releases the
// dependents of those steps. It returns the finished steps in ascending order.
func (s *Scheduler) retire(sim *simulation) []step.ID {
	var finished []step.ID
	for i, w := range sim.workers {
		if w.Idle() || w.Remaining > 0 {
			continue
		}
		finished = append(finished, w.Step)
		sim.workers[i] = Worker{}
		sim.result.Events = append(sim.result.Events, Event{Time: sim.clock, Worker: i, Step: w.Step, Kind: EventFinished})
	}
	slices.Sort(finished)

	for _, id := range finished {
		sim.result.Order = append(sim.result.Order, id)
		sim.remaining--
		for _, dependent := range sim.dependents[id] {
			prereqs, ok := sim.unresolved[dependent]
			if !ok {
				continue
			}
			delete(prereqs, id)
			if len(prereqs) == 0 {
				delete(sim.unresolved, dependent)
				sim.ready.Push(dependent)
			}
		}
	}
	return finished
}

// nextCompletion returns the time until the next busy worker finishes. It
// reports false when no worker is busy.
func (sim *simulation) nextCompletion() (int, bool) {
	delta, busy := 0, false
	for _, w := range sim.workers {
		if w.Idle() {
			continue
		}
		if !busy || w.Remaining < delta {
			delta = w.Remaining
		}
		busy = true
	}
	return delta, busy
}

func (sim *simulation) advance(delta int) {
	sim.clock += delta
	for i := range sim.workers {
		if sim.workers[i].Idle() {
			continue
		}
		sim.workers[i].Remaining = max(sim.workers[i].Remaining-delta, 0)
	}
}

// blocked lists the steps still waiting on prerequisites, ascending.
func (sim *simulation) blocked() []step.ID {
	ids := make([]step.ID, 0, len(sim.unresolved))
	for id := range sim.unresolved {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
