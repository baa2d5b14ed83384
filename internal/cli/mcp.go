package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mvp-joe/distill/internal/config"
	"github.com/mvp-joe/distill/internal/distiller"
	"github.com/mvp-joe/distill/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp [path]",
	Short: "Start the MCP server for code distillation",
	Long: `Start the Model Context Protocol (MCP) server that lets LLM-powered coding
assistants distill parts of your codebase on demand.

The MCP server:
- Provides the distill_directory tool (paths resolve against [path], default: the current directory)
- Provides the distill_languages tool
- Uses the project's .distill/config.yml as the default options for every call
- Communicates via stdio (standard MCP transport); logs go to stderr

Example:
  distill mcp`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	cfg, err := config.NewLoader(root, loaderOptions()...).Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// stdout carries the protocol, so logs go to stderr and progress is off.
	logger := newLogger(os.Stderr, viper.GetBool("verbose"), false)
	d := distiller.New(nil,
		distiller.WithLogger(logger),
		distiller.WithParserVariant(cfg.ParserVariant()),
	)

	server, err := mcp.NewMCPServer(&mcp.MCPServerConfig{
		RootDir:  root,
		Defaults: cfg.ToDistillerOptions(),
		Style:    cfg.OutputStyle(),
		Logger:   logger,
	}, d)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	// Serve (blocks until shutdown)
	if err := server.Serve(context.Background()); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	return nil
}
