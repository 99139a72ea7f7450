package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// span returns when step started and finished in the plan.
func span(t *testing.T, result *HarnessResult, step string) (int, int) {
	t.Helper()
	require.NoError(t, result.Err)
	require.NotNil(t, result.Plan)

	start, finish := -1, -1
	for _, ev := range result.Plan.Events {
		if ev.Step != step {
			continue
		}
		switch ev.Kind {
		case "started":
			start = ev.Time
		case "finished":
			finish = ev.Time
		}
	}
	require.NotEqual(t, -1, start, "step %s never started", step)
	require.NotEqual(t, -1, finish, "step %s never finished", step)
	return start, finish
}

// AssertStartedAt checks that step started at the given time.
func AssertStartedAt(t *testing.T, result *HarnessResult, step string, at int) {
	t.Helper()
	start, _ := span(t, result, step)
	require.Equal(t, at, start, "step %s started at the wrong time", step)
}

// AssertRunsAfter checks that later did not start before earlier finished.
func AssertRunsAfter(t *testing.T, result *HarnessResult, earlier, later string) {
	t.Helper()
	_, earlierFinish := span(t, result, earlier)
	laterStart, _ := span(t, result, later)
	require.GreaterOrEqual(t, laterStart, earlierFinish,
		"step %s started at %d before %s finished at %d", later, laterStart, earlier, earlierFinish)
}

// AssertConcurrent checks that a and b were in progress at the same time.
func AssertConcurrent(t *testing.T, result *HarnessResult, a, b string) {
	t.Helper()
	aStart, aFinish := span(t, result, a)
	bStart, bFinish := span(t, result, b)
	require.True(t, aStart < bFinish && bStart < aFinish,
		"steps %s [%d,%d) and %s [%d,%d) did not overlap", a, aStart, aFinish, b, bStart, bFinish)
}

// AssertMaxInFlight checks that no more than limit steps ran at any instant.
// Finishes at a given time are listed before the starts they unblock.
func AssertMaxInFlight(t *testing.T, result *HarnessResult, limit int) {
	t.Helper()
	require.NoError(t, result.Err)
	require.NotNil(t, result.Plan)

	inFlight, peak := 0, 0
	for _, ev := range result.Plan.Events {
		if ev.Kind == "finished" {
			inFlight--
			continue
		}
		inFlight++
		peak = max(peak, inFlight)
	}
	require.LessOrEqual(t, peak, limit, "too many steps in flight")
}
