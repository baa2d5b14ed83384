package mcp

import (
	"bytes"
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/distill/internal/distiller"
	mcputils "github.com/mvp-joe/distill/internal/mcp-utils"
)

// AddDistillDirectoryTool registers the distill_directory tool with an MCP server.
// This function is composable - it can be combined with other tool registrations.
func AddDistillDirectoryTool(s *server.MCPServer, d *distiller.Distiller, cfg *MCPServerConfig) {
	tool := mcp.NewTool(
		"distill_directory",
		mcp.WithDescription("Distill a directory or file into its public API surface: imports, exported declarations with signatures, and their members. Bodies are dropped, so the result is a fraction of the original size."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Directory or file to distill, absolute or relative to the server root")),
		mcp.WithString("depth",
			mcp.Description("Member visibility to keep: public (default), protected, all")),
		mcp.WithBoolean("include_private",
			mcp.Description("Keep private declarations and members")),
		mcp.WithBoolean("include_docstrings",
			mcp.Description("Keep cleaned documentation comments")),
		mcp.WithArray("include_names",
			mcp.Description("Glob patterns; only matching declaration names are kept (e.g., ['User*'])")),
		mcp.WithArray("exclude_names",
			mcp.Description("Glob patterns; matching declaration names are dropped (e.g., ['*Admin*'])")),
		mcp.WithArray("include",
			mcp.Description("Path globs relative to path (e.g., ['src/**/*.py'])")),
		mcp.WithArray("exclude",
			mcp.Description("Path globs to skip (e.g., ['**/*_test.go'])")),
		mcp.WithString("format",
			mcp.Description("Result kind: distilled (default), compressed, both")),
		mcp.WithString("output_format",
			mcp.Description("Rendering: text (markdown, default), json, bundle")),
		mcp.WithBoolean("compact",
			mcp.Description("Summarize members as counts instead of listing them")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createDistillDirectoryHandler(d, cfg))
}

// createDistillDirectoryHandler creates the handler function for the distill_directory tool.
func createDistillDirectoryHandler(d *distiller.Distiller, cfg *MCPServerConfig) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if _, ok := request.GetRawArguments().(map[string]interface{}); !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		var req DistillDirectoryRequest
		if err := mcputils.CoerceBindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}
		if req.Path == "" {
			return mcp.NewToolResultError("path parameter is required"), nil
		}

		path, opts, style, err := req.resolve(cfg)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		cfg.Logger.Debug("distill_directory", "path", path, "depth", opts.Depth, "format", opts.Format)

		result, err := d.Distill(path, opts)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var buf bytes.Buffer
		if err := distiller.FormatResult(&buf, result, path, style); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to render result: %v", err)), nil
		}

		return mcp.NewToolResultText(buf.String()), nil
	}
}
