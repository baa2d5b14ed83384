package mcp

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/mvp-joe/distill/internal/distiller"
	"github.com/mvp-joe/distill/internal/distiller/languages"
)

// MCPServerConfig holds configuration for the MCP server.
type MCPServerConfig struct {
	// RootDir resolves relative tool paths.
	RootDir string

	// Defaults are the options a tool call starts from.
	Defaults distiller.Options

	// Style is the output style used when a call names none.
	Style distiller.Style

	Logger *slog.Logger
}

// DefaultMCPServerConfig returns a configuration rooted at the current directory.
func DefaultMCPServerConfig() *MCPServerConfig {
	return &MCPServerConfig{
		RootDir:  ".",
		Defaults: distiller.DefaultOptions(),
		Style:    distiller.StyleText,
		Logger:   slog.Default(),
	}
}

// DistillDirectoryRequest is the input of the distill_directory tool.
// Unset fields fall back to the server defaults.
type DistillDirectoryRequest struct {
	Path              string   `json:"path"`
	Depth             string   `json:"depth,omitempty"`
	IncludePrivate    *bool    `json:"include_private,omitempty"`
	IncludeDocstrings *bool    `json:"include_docstrings,omitempty"`
	IncludeNames      []string `json:"include_names,omitempty"`
	ExcludeNames      []string `json:"exclude_names,omitempty"`
	Include           []string `json:"include,omitempty"`
	Exclude           []string `json:"exclude,omitempty"`
	Format            string   `json:"format,omitempty"`
	OutputFormat      string   `json:"output_format,omitempty"`
	Compact           *bool    `json:"compact,omitempty"`
}

// resolve applies the request on top of the server defaults and returns the
// absolute target path, the run options and the output style.
func (r *DistillDirectoryRequest) resolve(cfg *MCPServerConfig) (string, distiller.Options, distiller.Style, error) {
	opts := cfg.Defaults

	if r.Depth != "" {
		depth, err := languages.ParseDepth(strings.ToLower(r.Depth))
		if err != nil {
			return "", opts, "", err
		}
		opts.Depth = depth
	}
	if r.Format != "" {
		format, err := distiller.ParseFormat(strings.ToLower(r.Format))
		if err != nil {
			return "", opts, "", err
		}
		opts.Format = format
	}

	style := cfg.Style
	if r.OutputFormat != "" {
		s, err := distiller.ParseStyle(strings.ToLower(r.OutputFormat))
		if err != nil {
			return "", opts, "", err
		}
		style = s
	}

	if r.IncludePrivate != nil {
		opts.IncludePrivate = *r.IncludePrivate
	}
	if r.IncludeDocstrings != nil {
		opts.IncludeDocstrings = *r.IncludeDocstrings
	}
	if r.Compact != nil {
		opts.Compact = *r.Compact
	}
	if r.IncludeNames != nil {
		opts.IncludeNames = r.IncludeNames
	}
	if r.ExcludeNames != nil {
		opts.ExcludeNames = r.ExcludeNames
	}
	if r.Include != nil {
		opts.IncludePatterns = r.Include
	}
	if r.Exclude != nil {
		opts.ExcludePatterns = r.Exclude
	}

	path := r.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.RootDir, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", opts, "", fmt.Errorf("failed to resolve %s: %w", r.Path, err)
	}

	return abs, opts, style, nil
}
