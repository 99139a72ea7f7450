package report

import (
	"github.com/fatih/color"
	"github.com/vk/stepplan/internal/scheduler"
	"github.com/vk/stepplan/internal/step"
)

// Sprint color functions for building styled strings.
var (
	bold      = color.New(color.Bold).SprintFunc()
	dim       = color.New(color.Faint).SprintFunc()
	green     = color.New(color.FgGreen).SprintFunc()
	cyan      = color.New(color.FgCyan).SprintFunc()
	boldCyan  = color.New(color.Bold, color.FgCyan).SprintFunc()
	boldGreen = color.New(color.Bold, color.FgGreen).SprintFunc()
)

// stepColors is a palette of distinct bold colors for telling steps apart.
var stepColors = []func(a ...interface{}) string{
	color.New(color.Bold, color.FgMagenta).SprintFunc(),
	color.New(color.Bold, color.FgCyan).SprintFunc(),
	color.New(color.Bold, color.FgYellow).SprintFunc(),
	color.New(color.Bold, color.FgGreen).SprintFunc(),
	color.New(color.Bold, color.FgHiBlue).SprintFunc(),
	color.New(color.Bold, color.FgHiRed).SprintFunc(),
}

// stepLabel returns the step letter in its palette color.
func stepLabel(id step.ID) string {
	return stepColors[(id.Position()-1)%len(stepColors)](id.String())
}

// kindLabel returns a colored, fixed-width event kind.
func kindLabel(kind scheduler.EventKind) string {
	switch kind {
	case scheduler.EventStarted:
		return cyan("started ")
	case scheduler.EventFinished:
		return green("finished")
	default:
		return dim(string(kind))
	}
}
