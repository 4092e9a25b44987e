package app

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
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

// WriteFiles creates files relative to dir.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// SetupAppTest creates an app generating into a fresh temporary directory
// populated with files. The generator itself is not tracked.
func SetupAppTest(t *testing.T, cfg Config, files map[string]string) (*App, *SafeBuffer) {
	t.Helper()

	dir := t.TempDir()
	WriteFiles(t, dir, files)

	cfg.Dir = dir
	cfg.LogLevel = "debug"
	if cfg.NinjaFile == "" {
		cfg.NinjaFile = "build.ninja"
	}
	if cfg.BuildDir == "" {
		cfg.BuildDir = "_build"
	}
	if cfg.SelfDeps == nil {
		cfg.SelfDeps = []string{}
	}
	if cfg.RegenerateCommand == nil {
		cfg.RegenerateCommand = append([]string{"ninjagen"}, cfg.ConfigPaths...)
	}

	logBuffer := &SafeBuffer{}
	testApp := NewApp(logBuffer, &cfg, DefaultLoaders())

	t.Cleanup(func() {
		if os.Getenv("NINJAGEN_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
