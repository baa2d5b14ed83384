package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/distill/internal/config"
	"github.com/mvp-joe/distill/internal/distiller"
)

// Test Plan for the run command:
// - Distilling a directory prints markdown with public members only
// - Flags override the project config; unset flags keep config values
// - Invalid flag values fail before any work
// - A missing path returns ErrPathNotFound
// - --output writes to a file and keeps stdout empty
// - Quiet mode writes nothing to stderr
// - Watch mode re-runs after a source change and stops on cancel

const orderService = `class OrderService:
    def place(self, order):
        return order

    def _audit(self, order):
        pass
`

func setupRunProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "orders.py"), []byte(orderService), 0o644))
	return root
}

func changedSet(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func noGlobal() config.LoaderOption {
	return config.WithGlobalDir("")
}

func TestExecuteRun_Defaults(t *testing.T) {
	t.Parallel()

	root := setupRunProject(t)
	var stdout, stderr bytes.Buffer

	err := executeRun(context.Background(), &stdout, &stderr, root, runOptions{quiet: true}, changedSet(), noGlobal())
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "orders.py")
	assert.Contains(t, out, "class OrderService")
	assert.Contains(t, out, "def place(self, order)")
	assert.NotContains(t, out, "_audit")
	assert.Empty(t, stderr.String())
}

func TestExecuteRun_FlagsOverrideConfig(t *testing.T) {
	t.Parallel()

	root := setupRunProject(t)
	require.NoError(t, config.WriteFile(
		filepath.Join(config.ProjectConfigDir(root), "config.yml"),
		func() *config.Config {
			cfg := config.Default()
			cfg.Distill.IncludePrivate = true
			cfg.Output.Style = "json"
			return cfg
		}(),
		false,
	))

	// Test: config alone keeps private members and renders JSON
	var stdout bytes.Buffer
	require.NoError(t, executeRun(context.Background(), &stdout, &bytes.Buffer{}, root, runOptions{quiet: true}, changedSet(), noGlobal()))
	var result distiller.DistillationResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
	require.Len(t, result.APIs, 1)
	require.Len(t, result.APIs[0].Exports, 1)
	assert.Len(t, result.APIs[0].Exports[0].Members, 2)

	// Test: flags that were set win; the private value is ignored when unset
	stdout.Reset()
	o := runOptions{quiet: true, private: false, outputFormat: "bundle", compact: true}
	require.NoError(t, executeRun(context.Background(), &stdout, &bytes.Buffer{}, root, o, changedSet("private", "output-format", "compact"), noGlobal()))
	out := stdout.String()
	assert.True(t, strings.HasPrefix(out, `<file path="orders.py">`), out)
	assert.Contains(t, out, "# 1 method")
	assert.NotContains(t, out, "_audit")
}

func TestExecuteRun_Errors(t *testing.T) {
	t.Parallel()

	root := setupRunProject(t)

	t.Run("invalid depth", func(t *testing.T) {
		t.Parallel()
		err := executeRun(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, root,
			runOptions{quiet: true, depth: "friends"}, changedSet("depth"), noGlobal())
		assert.ErrorIs(t, err, config.ErrInvalidDepth)
	})

	t.Run("invalid name pattern", func(t *testing.T) {
		t.Parallel()
		err := executeRun(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, root,
			runOptions{quiet: true, exclude: []string{"src/[a-"}}, changedSet("exclude"), noGlobal())
		assert.ErrorIs(t, err, config.ErrInvalidPattern)
	})

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()
		err := executeRun(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, filepath.Join(root, "missing"),
			runOptions{quiet: true}, changedSet(), noGlobal())
		assert.ErrorIs(t, err, distiller.ErrPathNotFound)
	})

	t.Run("missing config file", func(t *testing.T) {
		t.Parallel()
		err := executeRun(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, root,
			runOptions{quiet: true}, changedSet(), noGlobal(), config.WithConfigFile(filepath.Join(root, "nope.yml")))
		assert.Error(t, err)
	})
}

func TestExecuteRun_OutputFile(t *testing.T) {
	t.Parallel()

	root := setupRunProject(t)
	output := filepath.Join(t.TempDir(), "out", "api.md")
	var stdout, stderr bytes.Buffer

	err := executeRun(context.Background(), &stdout, &stderr, filepath.Join(root, "orders.py"),
		runOptions{output: output}, changedSet(), noGlobal())
	require.NoError(t, err)

	assert.Empty(t, stdout.String())
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "class OrderService")

	// Test: progress goes to stderr when not quiet
	assert.Contains(t, stderr.String(), "Discovering files...")
	assert.Contains(t, stderr.String(), "✓ Distilled 1 files")
}

// syncBuffer is a bytes.Buffer safe for the watch goroutine and the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestExecuteRun_Watch(t *testing.T) {
	t.Parallel()

	root := setupRunProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stdout syncBuffer
	done := make(chan error, 1)
	go func() {
		done <- executeRun(ctx, &stdout, &bytes.Buffer{}, root, runOptions{quiet: true, watch: true}, changedSet(), noGlobal())
	}()

	// Keep touching a new file until the re-run picks it up; the watcher
	// starts after the first run finishes.
	added := filepath.Join(root, "billing.py")
	deadline := time.Now().Add(10 * time.Second)
	for !strings.Contains(stdout.String(), "class Invoice") {
		require.True(t, time.Now().Before(deadline), "watch mode did not re-run")
		require.NoError(t, os.WriteFile(added, []byte("class Invoice:\n    def total(self):\n        return 0\n"), 0o644))
		time.Sleep(300 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch mode did not stop")
	}
}
