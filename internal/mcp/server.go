package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/distill/internal/distiller"
)

// ServerName and ServerVersion identify the server to MCP clients.
const (
	ServerName    = "distill-mcp"
	ServerVersion = "1.0.0"
)

// MCPServer manages the MCP server lifecycle.
type MCPServer struct {
	config    *MCPServerConfig
	distiller *distiller.Distiller
	mcp       *server.MCPServer
}

// NewMCPServer creates a server exposing the distill tools. A nil config
// means DefaultMCPServerConfig(). The distiller must not write progress to
// stdout, which carries the protocol.
func NewMCPServer(config *MCPServerConfig, d *distiller.Distiller) (*MCPServer, error) {
	if config == nil {
		config = DefaultMCPServerConfig()
	}
	if d == nil {
		return nil, fmt.Errorf("distiller is required")
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Style == "" {
		config.Style = distiller.StyleText
	}
	if _, err := distiller.ParseStyle(string(config.Style)); err != nil {
		return nil, err
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
	)

	AddDistillDirectoryTool(mcpServer, d, config)
	AddListLanguagesTool(mcpServer, d)

	return &MCPServer{
		config:    config,
		distiller: d,
		mcp:       mcpServer,
	}, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *MCPServer) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		s.config.Logger.Info("starting MCP server on stdio", "root", s.config.RootDir)
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-sigCh:
		s.config.Logger.Info("received shutdown signal, stopping")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
