package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/quantifio/codemetrics/core"
	"github.com/quantifio/codemetrics/internal/contract"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// cfgFromRequest clones the base config and overlays the shared tool
// arguments (repo_path, after, before, limit).
func (h *toolHandler) cfgFromRequest(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
	}
	now := contract.GetNow()
	if s := request.GetString("after", ""); s != "" {
		t, err := contract.ParseTimeInput(s, now)
		if err != nil {
			return nil, fmt.Errorf("invalid after time: %w", err)
		}
		cfg.After = t
	}
	if s := request.GetString("before", ""); s != "" {
		t, err := contract.ParseTimeInput(s, now)
		if err != nil {
			return nil, fmt.Errorf("invalid before time: %w", err)
		}
		cfg.Before = t
	}
	if !cfg.After.IsZero() && !cfg.Before.IsZero() && cfg.Before.Before(cfg.After) {
		return nil, fmt.Errorf("before time %s precedes after time %s", cfg.Before, cfg.After)
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}
	return cfg, nil
}

func (h *toolHandler) handleGetAges(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.cfgFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rows, _, err := core.GetAgeResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ages report failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(rows, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetHotSpots(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.cfgFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rows, _, err := core.GetHotSpotResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("hot spots report failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(rows, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetCoChanges(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.cfgFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rows, _, err := core.GetCoChangeResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("co-changes report failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(rows, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetMassChanges(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.cfgFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rows, _, err := core.GetMassChangeResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("mass changes report failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(rows, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
