package app

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/vk/stepplan/internal/hcl"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// TestConfig returns a valid configuration for the given rules file with
// the classic defaults (5 workers, offset 60, time mode, answer format).
func TestConfig(rulesPath string) Config {
	return Config{
		RulesPath:  rulesPath,
		Workers:    5,
		BaseOffset: 60,
		Mode:       "time",
		Universe:   "alphabet",
		Format:     "answer",
		LogFormat:  "text",
		LogLevel:   "debug",
		Explicit:   map[string]bool{},
	}
}

// SetupAppTest creates an App with an HCL loader whose result output and
// logs are captured. Set STEPPLAN_TEST_LOGS=true to print the logs.
func SetupAppTest(t *testing.T, cfg Config) (*App, *SafeBuffer, *SafeBuffer) {
	t.Helper()

	outBuffer := &SafeBuffer{}
	logBuffer := &SafeBuffer{}
	testApp := NewApp(outBuffer, logBuffer, &cfg, hcl.NewLoader())

	t.Cleanup(func() {
		if os.Getenv("STEPPLAN_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, outBuffer, logBuffer
}
