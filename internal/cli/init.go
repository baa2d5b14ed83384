package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/distill/internal/config"
)

var (
	initForce  bool
	initGlobal bool
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default configuration file",
	Long: `Init writes .distill/config.yml with the default settings into path
(default: the current directory). With --global the file goes to the user
configuration directory instead and applies to every project.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) > 0 {
			root = args[0]
		}
		dir := config.ProjectConfigDir(root)
		if initGlobal {
			dir = config.GlobalConfigDir()
		}
		_, err := executeInit(cmd.OutOrStdout(), dir, initForce)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	initCmd.Flags().BoolVar(&initGlobal, "global", false, "Write the global config instead of the project config")
}

// executeInit writes the default config into dir and returns its path.
func executeInit(w io.Writer, dir string, force bool) (string, error) {
	if info, err := os.Stat(filepath.Dir(dir)); err == nil && !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", filepath.Dir(dir))
	}

	path := filepath.Join(dir, "config.yml")
	if err := config.WriteFile(path, config.Default(), force); err != nil {
		return "", err
	}

	fmt.Fprintf(w, "✓ Wrote %s\n", path)
	return path, nil
}
