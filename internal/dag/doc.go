// Package dag holds the precedence graph between steps. It is built once
// from the parsed rules and then read by the scheduler, which keeps its own
// mutable view of unresolved prerequisites while it simulates.
//
// Every query that returns several steps returns them in ascending order, so
// callers never observe map iteration order.
package dag
