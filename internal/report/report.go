// Package report renders simulation results for people and for tools.
package report

import (
	"fmt"
	"io"

	"github.com/vk/stepplan/internal/scheduler"
	"github.com/vk/stepplan/internal/step"
	"gopkg.in/yaml.v3"
)

// Format selects how a result is written.
type Format string

const (
	// FormatAnswer prints only the answer line.
	FormatAnswer Format = "answer"
	// FormatTimeline prints every start and finish, a per-worker summary
	// and then the answer.
	FormatTimeline Format = "timeline"
	// FormatYAML prints the whole result as a YAML document.
	FormatYAML Format = "yaml"
)

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	switch f {
	case FormatAnswer, FormatTimeline, FormatYAML:
		return true
	}
	return false
}

// Write renders result to w in the given format.
func Write(w io.Writer, result *scheduler.Result, format Format) error {
	switch format {
	case FormatAnswer:
		_, err := fmt.Fprintln(w, result.Answer())
		return err
	case FormatTimeline:
		return writeTimeline(w, result)
	case FormatYAML:
		return writeYAML(w, result)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func writeTimeline(w io.Writer, result *scheduler.Result) error {
	opts := result.Options
	fmt.Fprintf(w, "%s %s, %d worker(s), base offset %d\n\n",
		boldCyan("Plan"), opts.Mode, opts.Workers, opts.BaseOffset)

	for _, ev := range result.Events {
		fmt.Fprintf(w, "  %s %6d  %s %-3d %s %s\n",
			dim("t="), ev.Time, dim("worker"), ev.Worker, kindLabel(ev.Kind), stepLabel(ev.Step))
	}
	fmt.Fprintln(w)

	for i, busy := range busyTime(result) {
		fmt.Fprintf(w, "  %s %-3d busy %d/%d\n", dim("worker"), i, busy, result.Elapsed)
	}

	fmt.Fprintf(w, "\n%s %s\n", bold("Order:"), step.Join(result.Order))
	_, err := fmt.Fprintf(w, "%s %s\n", bold("Answer:"), boldGreen(result.Answer()))
	return err
}

// busyTime sums, per worker, the time between each start and its finish.
func busyTime(result *scheduler.Result) []int {
	busy := make([]int, result.Options.Workers)
	started := make(map[int]int)
	for _, ev := range result.Events {
		switch ev.Kind {
		case scheduler.EventStarted:
			started[ev.Worker] = ev.Time
		case scheduler.EventFinished:
			busy[ev.Worker] += ev.Time - started[ev.Worker]
		}
	}
	return busy
}

type document struct {
	Mode       string     `yaml:"mode"`
	Workers    int        `yaml:"workers"`
	BaseOffset int        `yaml:"base_offset"`
	Elapsed    int        `yaml:"elapsed"`
	Order      string     `yaml:"order"`
	Answer     string     `yaml:"answer"`
	Events     []eventDoc `yaml:"events"`
}

type eventDoc struct {
	Time   int    `yaml:"time"`
	Worker int    `yaml:"worker"`
	Step   string `yaml:"step"`
	Kind   string `yaml:"kind"`
}

func writeYAML(w io.Writer, result *scheduler.Result) error {
	doc := document{
		Mode:       string(result.Options.Mode),
		Workers:    result.Options.Workers,
		BaseOffset: result.Options.BaseOffset,
		Elapsed:    result.Elapsed,
		Order:      step.Join(result.Order),
		Answer:     result.Answer(),
		Events:     make([]eventDoc, 0, len(result.Events)),
	}
	for _, ev := range result.Events {
		doc.Events = append(doc.Events, eventDoc{
			Time:   ev.Time,
			Worker: ev.Worker,
			Step:   ev.Step.String(),
			Kind:   string(ev.Kind),
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return enc.Close()
}
