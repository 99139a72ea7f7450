package scheduler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/vk/stepplan/internal/step"
)

// ErrStalled is returned when steps remain but none can ever start, which
// only happens when the graph contains a cycle.
var ErrStalled = errors.New("no step can start")

// Mode selects which result the simulation is run for.
type Mode string

const (
	// ModeTime simulates the worker pool and reports total elapsed time.
	ModeTime Mode = "time"
	// ModeOrder uses a single worker with zero durations and reports the
	// completion order.
	ModeOrder Mode = "order"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeTime || m == ModeOrder
}

// Options configures a Scheduler.
type Options struct {
	// Workers is the size of the worker pool. ModeOrder requires exactly 1.
	Workers int
	// BaseOffset is added to each step's alphabet position to get its
	// duration. Ignored in ModeOrder.
	BaseOffset int
	Mode       Mode
}

// Validate checks the options before a simulation is built.
func (o Options) Validate() error {
	if !o.Mode.Valid() {
		return fmt.Errorf("unknown mode %q", o.Mode)
	}
	if o.Workers < 1 {
		return fmt.Errorf("worker count must be positive, got %d", o.Workers)
	}
	if o.Mode == ModeOrder && o.Workers != 1 {
		return fmt.Errorf("mode %q requires exactly one worker, got %d", o.Mode, o.Workers)
	}
	if o.BaseOffset < 0 {
		return fmt.Errorf("base offset must not be negative, got %d", o.BaseOffset)
	}
	return nil
}

func (o Options) durationFunc() step.DurationFunc {
	if o.Mode == ModeOrder {
		return step.ZeroDuration
	}
	return step.OffsetDuration(o.BaseOffset)
}

// Worker is one slot of the simulated pool.
type Worker struct {
	Step      step.ID // step.None when idle
	Remaining int     // time units until Step finishes; 0 when idle
}

// Idle reports whether the worker can accept a step.
func (w Worker) Idle() bool {
	return w.Step == step.None
}

// EventKind distinguishes the two things that happen to a step.
type EventKind string

const (
	EventStarted  EventKind = "started"
	EventFinished EventKind = "finished"
)

// Event records a step starting or finishing on a worker.
type Event struct {
	Time   int
	Worker int
	Step   step.ID
	Kind   EventKind
}

// Result is the outcome of one simulation.
type Result struct {
	Options Options
	// Elapsed is the simulated time at which the last step finished.
	Elapsed int
	// Order lists steps in the order they finished.
	Order []step.ID
	// Events lists every start and finish in simulation order.
	Events []Event
}

// Answer renders the value the mode asks for: the elapsed time in ModeTime,
// the completion order in ModeOrder.
func (r *Result) Answer() string {
	if r.Options.Mode == ModeOrder {
		return step.Join(r.Order)
	}
	return strconv.Itoa(r.Elapsed)
}
