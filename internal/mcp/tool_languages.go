package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/distill/internal/distiller"
)

// ListLanguagesResponse is the output of the distill_languages tool.
type ListLanguagesResponse struct {
	Languages []distiller.LanguageSupport `json:"languages"`
	Total     int                         `json:"total"`
}

// AddListLanguagesTool registers the distill_languages tool with an MCP server.
func AddListLanguagesTool(s *server.MCPServer, d *distiller.Distiller) {
	tool := mcp.NewTool(
		"distill_languages",
		mcp.WithDescription("List the languages distill_directory understands and the parser used for each (grammar or fallback)."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createListLanguagesHandler(d))
}

func createListLanguagesHandler(d *distiller.Distiller) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		langs, err := d.Languages()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return marshalToolResponse(&ListLanguagesResponse{Languages: langs, Total: len(langs)})
	}
}

// marshalToolResponse marshals a response object to JSON and returns it as an MCP tool result.
func marshalToolResponse(response interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
