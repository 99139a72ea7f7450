package integration_tests

import "strings"

// rules renders "X>Y" pairs as rule lines.
func rules(pairs ...string) string {
	var b strings.Builder
	for _, pair := range pairs {
		before, after, _ := strings.Cut(pair, ">")
		b.WriteString("Step " + before + " must be finished before step " + after + " can begin.\n")
	}
	return b.String()
}
