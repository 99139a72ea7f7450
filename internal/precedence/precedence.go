// Package precedence reads the rule lines that declare which steps must be
// finished before others can begin.
package precedence

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/vk/stepplan/internal/step"
)

// ruleRegex matches the canonical sentence, e.g.
// `Step C must be finished before step A can begin.`
var ruleRegex = regexp.MustCompile(`^Step ([A-Z]) must be finished before step ([A-Z]) can begin\.$`)

// Rule is one declared edge: Before must finish before After may start.
type Rule struct {
	Before step.ID
	After  step.ID
}

func (r Rule) String() string {
	return fmt.Sprintf("Step %s must be finished before step %s can begin.", r.Before, r.After)
}

// ErrMalformed is matched by every ParseError via errors.Is.
var ErrMalformed = errors.New("malformed precedence rule")

// ParseError reports a line that does not match the rule sentence.
type ParseError struct {
	Line int // 1-based; 0 when the text did not come from a file.
	Text string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %q", e.Line, ErrMalformed, e.Text)
	}
	return fmt.Sprintf("%s: %q", ErrMalformed, e.Text)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrMalformed
}

// Parse parses a single chomped rule line.
func Parse(line string) (Rule, error) {
	matches := ruleRegex.FindStringSubmatch(line)
	if matches == nil {
		return Rule{}, &ParseError{Text: line}
	}
	before, err := step.Parse(matches[1])
	if err != nil {
		return Rule{}, &ParseError{Text: line}
	}
	after, err := step.Parse(matches[2])
	if err != nil {
		return Rule{}, &ParseError{Text: line}
	}
	return Rule{Before: before, After: after}, nil
}

// ParseAll parses lines that did not come from a reader, such as rules
// embedded in a scenario file. Blank lines are skipped.
func ParseAll(lines []string) ([]Rule, error) {
	rules := make([]Rule, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rule, err := Parse(line)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Line = i + 1
			}
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// Read parses every non-blank line of r. Trailing whitespace and CR line
// endings are stripped before matching.
func Read(r io.Reader) ([]Rule, error) {
	var rules []Rule
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" {
			continue
		}
		rule, err := Parse(line)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: line}
		}
		rules = append(rules, rule)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}
	return rules, nil
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string) ([]Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rules, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}
