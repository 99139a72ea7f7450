package precedence

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleRules = `Step C must be finished before step A can begin.
Step C must be finished before step F can begin.
Step A must be finished before step B can begin.
Step A must be finished before step D can begin.
Step B must be finished before step E can begin.
Step D must be finished before step E can begin.
Step F must be finished before step E can begin.
`

func TestParse(t *testing.T) {
	t.Run("canonical sentence", func(t *testing.T) {
		rule, err := Parse("Step C must be finished before step A can begin.")
		require.NoError(t, err)
		assert.Equal(t, Rule{Before: 'C', After: 'A'}, rule)
		assert.Equal(t, "Step C must be finished before step A can begin.", rule.String())
	})

	t.Run("malformed lines", func(t *testing.T) {
		for _, line := range []string{
			"",
			"Step c must be finished before step A can begin.",
			"Step C must be finished before step AB can begin.",
			"Step C must be finished before step A can begin",
			"step C must be finished before step A can begin.",
		} {
			_, err := Parse(line)
			require.Error(t, err, "line %q", line)
			assert.True(t, errors.Is(err, ErrMalformed))
		}
	})
}

func TestRead(t *testing.T) {
	t.Run("reads every rule in order", func(t *testing.T) {
		rules, err := Read(strings.NewReader(exampleRules))
		require.NoError(t, err)
		require.Len(t, rules, 7)
		assert.Equal(t, Rule{Before: 'C', After: 'A'}, rules[0])
		assert.Equal(t, Rule{Before: 'F', After: 'E'}, rules[6])
	})

	t.Run("skips blank lines and CRLF endings", func(t *testing.T) {
		input := "\r\nStep A must be finished before step B can begin.\r\n\n"
		rules, err := Read(strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, []Rule{{Before: 'A', After: 'B'}}, rules)
	})

	t.Run("reports the failing line number", func(t *testing.T) {
		input := "Step A must be finished before step B can begin.\n\nnonsense\n"
		_, err := Read(strings.NewReader(input))
		require.Error(t, err)

		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, 3, pe.Line)
		assert.Equal(t, "nonsense", pe.Text)
		assert.ErrorContains(t, err, "line 3")
	})
}

func TestParseAll(t *testing.T) {
	rules, err := ParseAll([]string{"  Step A must be finished before step B can begin.  ", ""})
	require.NoError(t, err)
	assert.Equal(t, []Rule{{Before: 'A', After: 'B'}}, rules)

	_, err = ParseAll([]string{"Step A must be finished before step B can begin.", "bad"})
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Line)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(exampleRules), 0600))

	rules, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, rules, 7)

	_, err = ReadFile(filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
