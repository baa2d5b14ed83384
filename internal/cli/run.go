package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mvp-joe/distill/internal/config"
	"github.com/mvp-joe/distill/internal/distiller"
	"github.com/mvp-joe/distill/internal/distiller/parsers"
	"github.com/mvp-joe/distill/internal/watcher"
)

// runOptions holds the flags of the run command. Only flags the user set
// override the loaded configuration.
type runOptions struct {
	include      []string
	exclude      []string
	depth        string
	private      bool
	includeNames []string
	excludeNames []string
	docstrings   bool
	format       string
	outputFormat string
	compact      bool
	workers      int
	output       string
	watch        bool
	quiet        bool
}

var runOpts runOptions

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [path]",
	Short: "Distill a directory or file into its public API",
	Long: `Run discovers source files under path (default: the current directory),
parses each one and prints the public API surface: imports, exported
declarations with signatures, and their members.

Settings come from .distill/config.yml in the target directory, the global
config and DISTILL_* environment variables. Flags override all of them.

Examples:
  # Distill the current directory
  distill run

  # Keep protected members and docstrings, skip tests
  distill run ./src --depth protected --docstrings --exclude '**/*_test.*'

  # Only classes whose name starts with User, rendered as JSON
  distill run --include-name 'User*' --output-format json

  # Raw file bundle next to the distilled view, written to a file
  distill run --format both -o context.md

  # Re-run whenever a source file changes
  distill run --watch
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.StringSliceVar(&runOpts.include, "include", nil, "Path globs to include (repeatable)")
	f.StringSliceVar(&runOpts.exclude, "exclude", nil, "Path globs to exclude (repeatable)")
	f.StringVar(&runOpts.depth, "depth", "", "Member visibility to keep: public, protected or all")
	f.BoolVar(&runOpts.private, "private", false, "Keep private declarations and members")
	f.StringSliceVar(&runOpts.includeNames, "include-name", nil, "Keep only declarations whose name matches a glob")
	f.StringSliceVar(&runOpts.excludeNames, "exclude-name", nil, "Drop declarations whose name matches a glob")
	f.BoolVar(&runOpts.docstrings, "docstrings", false, "Keep cleaned documentation comments")
	f.StringVar(&runOpts.format, "format", "", "Result kind: distilled, compressed or both")
	f.StringVar(&runOpts.outputFormat, "output-format", "", "Rendering: text, json or bundle")
	f.BoolVar(&runOpts.compact, "compact", false, "Summarize members as counts")
	f.IntVar(&runOpts.workers, "workers", 0, "Parallel workers (0 means one per CPU)")
	f.StringVarP(&runOpts.output, "output", "o", "", "Write the result to a file instead of stdout")
	f.BoolVarP(&runOpts.watch, "watch", "w", false, "Watch for file changes and distill again")
	f.BoolVarP(&runOpts.quiet, "quiet", "q", false, "Disable progress bars and non-error output")
}

func runRun(cmd *cobra.Command, args []string) error {
	// Set up context with cancellation for Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(cmd.ErrOrStderr(), "\nInterrupted! Stopping...")
			cancel()
		case <-ctx.Done():
		}
	}()

	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	return executeRun(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), target, runOpts, cmd.Flags().Changed, loaderOptions()...)
}

// executeRun distills target once, then keeps distilling on changes when
// watch is set, until ctx is cancelled.
func executeRun(ctx context.Context, stdout, stderr io.Writer, target string, o runOptions, changed func(string) bool, loaderOpts ...config.LoaderOption) error {
	target, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", target, err)
	}
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("%w: %s", distiller.ErrPathNotFound, target)
	}
	root := target
	if !info.IsDir() {
		root = filepath.Dir(target)
	}

	cfg, err := config.NewLoader(root, loaderOpts...).Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	o.apply(cfg, changed)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	logger := newLogger(stderr, viper.GetBool("verbose"), o.quiet)
	d := distiller.New(nil,
		distiller.WithLogger(logger),
		distiller.WithProgress(NewCLIProgressReporter(stderr, o.quiet)),
		distiller.WithParserVariant(cfg.ParserVariant()),
	)

	r := &runner{
		distiller: d,
		opts:      cfg.ToDistillerOptions(),
		style:     cfg.OutputStyle(),
		target:    target,
		output:    o.output,
		stdout:    stdout,
	}
	if err := r.run(); err != nil {
		return err
	}
	if !o.watch {
		return nil
	}
	return r.watch(ctx, root, logger)
}

// apply copies the flags that were set onto cfg.
func (o runOptions) apply(cfg *config.Config, changed func(string) bool) {
	if changed("include") {
		cfg.Paths.Include = o.include
	}
	if changed("exclude") {
		cfg.Paths.Exclude = o.exclude
	}
	if changed("depth") {
		cfg.Distill.Depth = o.depth
	}
	if changed("private") {
		cfg.Distill.IncludePrivate = o.private
	}
	if changed("include-name") {
		cfg.Distill.IncludeNames = o.includeNames
	}
	if changed("exclude-name") {
		cfg.Distill.ExcludeNames = o.excludeNames
	}
	if changed("docstrings") {
		cfg.Distill.IncludeDocstrings = o.docstrings
	}
	if changed("format") {
		cfg.Distill.Format = o.format
	}
	if changed("output-format") {
		cfg.Output.Style = o.outputFormat
	}
	if changed("compact") {
		cfg.Distill.Compact = o.compact
	}
	if changed("workers") {
		cfg.Limits.Workers = o.workers
	}
}

// runner performs one distillation and writes the rendered result.
type runner struct {
	distiller *distiller.Distiller
	opts      distiller.Options
	style     distiller.Style
	target    string
	output    string
	stdout    io.Writer
}

func (r *runner) run() error {
	result, err := r.distiller.Distill(r.target, r.opts)
	if err != nil {
		return err
	}

	if r.output == "" {
		return distiller.FormatResult(r.stdout, result, r.target, r.style)
	}

	if err := os.MkdirAll(filepath.Dir(r.output), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(r.output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := distiller.FormatResult(f, result, r.target, r.style); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// watch re-runs the distillation after each debounced batch of source
// changes under root. Events that arrive during a run are held by the
// paused watcher and trigger one more run.
func (r *runner) watch(ctx context.Context, root string, logger *slog.Logger) error {
	fw, err := watcher.NewFileWatcher(root, watcher.Options{
		Extensions: parsers.Extensions(),
		SkipDirs:   distiller.DefaultExcludedDirs(),
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Stop()

	changes := make(chan []string, 1)
	err = fw.Start(ctx, func(files []string) {
		select {
		case changes <- files:
		default:
			// a run is already queued
		}
	})
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}

	logger.Info("watching for changes", "root", root)
	for {
		select {
		case <-ctx.Done():
			logger.Info("watch mode stopped")
			return nil
		case files := <-changes:
			fw.Pause()
			logger.Info("change detected", "files", len(files))
			if err := r.run(); err != nil {
				logger.Error("distillation failed", "error", err)
			}
			fw.Resume()
		}
	}
}
