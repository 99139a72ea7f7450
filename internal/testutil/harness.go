package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/stepplan/internal/app"
	"github.com/vk/stepplan/internal/cli"
	"github.com/vk/stepplan/internal/hcl"
	"gopkg.in/yaml.v3"
)

// Plan mirrors the YAML document the application prints.
type Plan struct {
	Mode       string  `yaml:"mode"`
	Workers    int     `yaml:"workers"`
	BaseOffset int     `yaml:"base_offset"`
	Elapsed    int     `yaml:"elapsed"`
	Order      string  `yaml:"order"`
	Answer     string  `yaml:"answer"`
	Events     []Event `yaml:"events"`
}

// Event is one start or finish in a Plan.
type Event struct {
	Time   int    `yaml:"time"`
	Worker int    `yaml:"worker"`
	Step   string `yaml:"step"`
	Kind   string `yaml:"kind"`
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	Plan      *Plan
}

// RunIntegrationTest provides a standardized harness for running integration tests
// using a default background context.
func RunIntegrationTest(t *testing.T, files map[string]string, args ...string) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, args...)
}

// RunIntegrationTestWithContext writes files into a temporary directory and
// runs the application with args, exactly as the command line would. Any
// argument naming one of the files is replaced by its full path. The harness
// always asks for YAML output and decodes it into Plan.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, args ...string) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}

	resolved := make([]string, 0, len(args)+4)
	for _, arg := range args {
		if _, ok := files[arg]; ok {
			arg = filepath.Join(tmpDir, arg)
		}
		resolved = append(resolved, arg)
	}
	resolved = append(resolved, "--format", "yaml", "--log-level", "debug")

	logBuffer := &app.SafeBuffer{}
	outBuffer := &app.SafeBuffer{}
	result := &HarnessResult{}
	defer func() {
		result.LogOutput = logBuffer.String()
		if os.Getenv("STEPPLAN_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), result.LogOutput)
		}
	}()

	cfg, shouldExit, err := cli.Parse(resolved, outBuffer)
	if err != nil {
		result.Err = err
		return result
	}
	require.False(t, shouldExit, "harness runs must not stop at help")

	if err := app.NewApp(outBuffer, logBuffer, cfg, hcl.NewLoader()).Run(ctx); err != nil {
		result.Err = err
		return result
	}

	plan := &Plan{}
	if err := yaml.Unmarshal([]byte(outBuffer.String()), plan); err != nil {
		result.Err = fmt.Errorf("harness could not decode output: %w", err)
		return result
	}
	result.Plan = plan
	return result
}
