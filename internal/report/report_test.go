package report

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/stepplan/internal/dag"
	"github.com/vk/stepplan/internal/precedence"
	"github.com/vk/stepplan/internal/scheduler"
	"gopkg.in/yaml.v3"
)

func exampleResult(t *testing.T, opts scheduler.Options) *scheduler.Result {
	t.Helper()
	rules := []precedence.Rule{
		{Before: 'C', After: 'A'},
		{Before: 'C', After: 'F'},
		{Before: 'A', After: 'B'},
		{Before: 'A', After: 'D'},
		{Before: 'B', After: 'E'},
		{Before: 'D', After: 'E'},
		{Before: 'F', After: 'E'},
	}
	g, err := dag.Build(context.Background(), rules, dag.UniverseDeclared)
	require.NoError(t, err)
	s, err := scheduler.New(g, opts)
	require.NoError(t, err)
	result, err := s.Run(context.Background())
	require.NoError(t, err)
	return result
}

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

func TestWrite_Answer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, exampleResult(t, scheduler.Options{Workers: 2, Mode: scheduler.ModeTime}), FormatAnswer))
	assert.Equal(t, "15\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, exampleResult(t, scheduler.Options{Workers: 1, Mode: scheduler.ModeOrder}), FormatAnswer))
	assert.Equal(t, "CABDFE\n", buf.String())
}

func TestWrite_Timeline(t *testing.T) {
	var buf bytes.Buffer
	result := exampleResult(t, scheduler.Options{Workers: 2, Mode: scheduler.ModeTime})

	require.NoError(t, Write(&buf, result, FormatTimeline))

	out := buf.String()
	assert.Contains(t, out, "Plan time, 2 worker(s), base offset 0")
	assert.Contains(t, out, "worker 1   started  F")
	assert.Contains(t, out, "worker 0   finished E")
	assert.Contains(t, out, "worker 0   busy 15/15")
	assert.Contains(t, out, "worker 1   busy 6/15")
	assert.Contains(t, out, "Order: CABFDE")
	assert.Contains(t, out, "Answer: 15")
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	result := exampleResult(t, scheduler.Options{Workers: 5, BaseOffset: 60, Mode: scheduler.ModeTime})

	require.NoError(t, Write(&buf, result, FormatYAML))

	var doc document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "time", doc.Mode)
	assert.Equal(t, 5, doc.Workers)
	assert.Equal(t, 60, doc.BaseOffset)
	assert.Equal(t, 253, doc.Elapsed)
	assert.Equal(t, "253", doc.Answer)
	assert.Len(t, doc.Events, 12)
	assert.Equal(t, eventDoc{Time: 0, Worker: 0, Step: "C", Kind: "started"}, doc.Events[0])
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, &scheduler.Result{}, Format("xml"))
	assert.ErrorContains(t, err, "unknown report format")
	assert.False(t, Format("xml").Valid())
	assert.True(t, FormatTimeline.Valid())
}
