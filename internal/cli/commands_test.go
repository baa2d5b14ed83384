package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/distill/internal/config"
	"github.com/mvp-joe/distill/internal/distiller"
)

// Test Plan for the remaining commands and helpers:
// - languages prints a markdown table and JSON with python on the grammar parser
// - init writes a loadable default config and refuses to overwrite without force
// - newLogger levels follow verbose and quiet
// - CLIProgressReporter is silent when quiet and summarizes otherwise
// - formatNumber inserts thousands separators
// - The cobra tree wires run end to end

func TestExecuteLanguages(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, executeLanguages(&buf, false))
	out := buf.String()
	assert.Contains(t, strings.ToUpper(out), "LANGUAGE")
	assert.Contains(t, out, "python")
	assert.Contains(t, out, ".py .pyi")

	buf.Reset()
	require.NoError(t, executeLanguages(&buf, true))
	var langs []distiller.LanguageSupport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &langs))
	require.NotEmpty(t, langs)

	found := false
	for _, lang := range langs {
		if lang.Name == "python" {
			found = true
			assert.Equal(t, "grammar", string(lang.Variant))
		}
	}
	assert.True(t, found, "python should be listed")
}

func TestExecuteInit(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	dir := config.ProjectConfigDir(root)
	var buf bytes.Buffer

	path, err := executeInit(&buf, dir, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yml"), path)
	assert.Contains(t, buf.String(), "✓ Wrote")

	cfg, err := config.NewLoader(root, config.WithGlobalDir("")).Load()
	require.NoError(t, err)
	assert.Equal(t, config.Default().Distill.Depth, cfg.Distill.Depth)
	assert.Equal(t, config.Default().Paths.Exclude, cfg.Paths.Exclude)
	assert.Equal(t, config.Default().Limits, cfg.Limits)

	_, err = executeInit(&buf, dir, false)
	assert.ErrorIs(t, err, config.ErrConfigExists)

	_, err = executeInit(&buf, dir, true)
	assert.NoError(t, err)
}

func TestExecuteInit_RootIsFile(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "main.py")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := executeInit(&bytes.Buffer{}, config.ProjectConfigDir(file), false)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tests := []struct {
		name           string
		verbose, quiet bool
		debug, info    bool
	}{
		{"default", false, false, false, true},
		{"verbose", true, false, true, true},
		{"quiet", false, true, false, false},
		{"verbose wins", true, true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			logger := newLogger(&bytes.Buffer{}, tt.verbose, tt.quiet)
			assert.Equal(t, tt.debug, logger.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.info, logger.Enabled(ctx, slog.LevelInfo))
			assert.True(t, logger.Enabled(ctx, slog.LevelError))
		})
	}
}

func TestCLIProgressReporter(t *testing.T) {
	t.Parallel()

	t.Run("quiet", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		r := NewCLIProgressReporter(&buf, true)
		r.OnDiscoveryStart()
		r.OnDiscoveryComplete(3)
		r.OnFileProcessingStart(3)
		r.OnFileProcessed("a.py")
		r.OnComplete(&distiller.RunStats{Files: 3})
		assert.Empty(t, buf.String())
	})

	t.Run("reporting", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		r := NewCLIProgressReporter(&buf, false)
		r.OnDiscoveryStart()
		r.OnDiscoveryComplete(1200)
		r.OnFileProcessingStart(2)
		r.OnFileProcessed("a.py")
		r.OnFileProcessed("b.py")
		r.OnComplete(&distiller.RunStats{Files: 1200, Skipped: 4, Duration: 1500 * time.Millisecond})

		out := buf.String()
		assert.Contains(t, out, "Discovering files...")
		assert.Contains(t, out, "Found 1,200 files")
		assert.Contains(t, out, "✓ Distilled 1,200 files in 1.5s (4 skipped)")
	})
}

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	tests := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		12345:    "12,345",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
	}
	for n, want := range tests {
		assert.Equal(t, want, formatNumber(n), n)
	}
}

// Note: Cannot use t.Parallel() - drives the shared cobra command tree.
func TestRootCommand_Run(t *testing.T) {
	root := setupRunProject(t)

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"run", root, "--depth", "all", "--private", "-q"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	out := stdout.String()
	assert.Contains(t, out, "class OrderService")
	assert.Contains(t, out, "_audit")

	// Test: version writes to the command output
	stdout.Reset()
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.True(t, strings.HasPrefix(stdout.String(), "Distill dev"))
}
