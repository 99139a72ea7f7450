// Package scheduler simulates a fixed pool of workers executing the steps of
// a precedence graph.
//
// # How It Works
//
// The simulation is a discrete-event loop over an integer clock:
//  1. Assign: while a worker is idle and a step is ready, the smallest ready
//     step (by letter) goes to the lowest-numbered idle worker.
//  2. Advance: the clock jumps by the smallest remaining time among busy
//     workers, never by a single tick.
//  3. Retire: every worker that reached zero frees its step. Finished steps
//     are removed from the unresolved prerequisites of their dependents, and
//     any dependent left with none joins the ready queue.
//
// The loop ends when every step has been retired. The last batch of in-flight
// steps is drained by the same loop, so its time is counted exactly once.
//
// # Modes
//
// ModeTime reports the elapsed time with `Workers` workers and durations of
// alphabet position plus `BaseOffset`. ModeOrder uses one worker and zero
// durations, which reduces the loop to a topological sort that always picks
// the alphabetically smallest ready step; TopologicalOrder computes the same
// order directly.
//
// # Determinism
//
// Ready steps live in a min-heap and simultaneous finishes are retired in
// ascending order, so no result depends on map iteration order.
//
// # Thread-Safety
//
// A Scheduler keeps no state between runs; each Run builds its own worker
// array and prerequisite sets. The simulation itself is single-threaded.
package scheduler
