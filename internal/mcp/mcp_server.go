// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/quantifio/codemetrics/internal/contract"
)

// NewMCPServer initializes and configures the Codemetrics MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Codemetrics Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_ages ---
	s.AddTool(mcp.NewTool("get_ages",
		mcp.WithDescription("Compute how long ago each file in the repository was last changed."),
		mcp.WithString("repo_path", mcp.Description("Path to the repository (defaults to the server's configured repository).")),
		mcp.WithString("after", mcp.Description("Only consider changes after this time (e.g., '6 months ago', '2024-01-01').")),
		mcp.WithString("before", mcp.Description("Only consider changes before this time.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleGetAges)

	// --- 2. Tool: get_hot_spots ---
	s.AddTool(mcp.NewTool("get_hot_spots",
		mcp.WithDescription("Find hot spots by combining change frequency with code size per file."),
		mcp.WithString("repo_path", mcp.Description("Path to the repository.")),
		mcp.WithString("after", mcp.Description("Only consider changes after this time.")),
		mcp.WithString("before", mcp.Description("Only consider changes before this time.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results.")),
	), h.handleGetHotSpots)

	// --- 3. Tool: get_co_changes ---
	s.AddTool(mcp.NewTool("get_co_changes",
		mcp.WithDescription("Find pairs of files that tend to change together in the same commits."),
		mcp.WithString("repo_path", mcp.Description("Path to the repository.")),
		mcp.WithString("after", mcp.Description("Only consider changes after this time.")),
		mcp.WithString("before", mcp.Description("Only consider changes before this time.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results.")),
	), h.handleGetCoChanges)

	// --- 4. Tool: get_mass_changes ---
	s.AddTool(mcp.NewTool("get_mass_changes",
		mcp.WithDescription("Find commits that touched an unusually large number of files at once."),
		mcp.WithString("repo_path", mcp.Description("Path to the repository.")),
		mcp.WithString("after", mcp.Description("Only consider changes after this time.")),
		mcp.WithString("before", mcp.Description("Only consider changes before this time.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results.")),
	), h.handleGetMassChanges)

	return s
}

// StartMCPServer starts the Codemetrics MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
