package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mvp-joe/distill/internal/config"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "distill",
	Short: "Distill - extract the public API surface of a codebase",
	Long: `Distill parses source files and keeps only what a reader of the code needs
to call it: imports, exported declarations with their signatures, and their
members. Function bodies are dropped, so the output is a fraction of the
original size and fits in an LLM context window.

Supported languages include Python, TypeScript, JavaScript, Java, Rust, C,
C++, PHP, Ruby, Go, Kotlin, Swift and C#. Run 'distill languages' for the
full list.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .distill/config.yml in the target directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig lets DISTILL_VERBOSE switch on debug logging. Distillation
// settings are loaded per target directory by the commands.
func initConfig() {
	viper.SetEnvPrefix("DISTILL")
	viper.AutomaticEnv()
}

// loaderOptions returns the config loader options implied by global flags.
func loaderOptions() []config.LoaderOption {
	if cfgFile == "" {
		return nil
	}
	return []config.LoaderOption{config.WithConfigFile(cfgFile)}
}

// newLogger returns a text logger on w. Verbose lowers the level to Debug,
// quiet raises it to Error.
func newLogger(w io.Writer, verbose, quiet bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
