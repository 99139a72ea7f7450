// Package testutil runs the whole application against files written to a
// temporary directory and offers assertions over the resulting plan.
package testutil
