package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/hirefunnel/core"
	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/huangsam/hirefunnel/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// windowConfig clones the base config and applies the weeks and period arguments.
func (h *toolHandler) windowConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	weeks := request.GetInt("weeks", cfg.Weeks)
	period := request.GetString("period", string(cfg.Period))
	if err := contract.RevalidateWindow(cfg, weeks, period); err != nil {
		return nil, err
	}
	return cfg, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetDashboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.windowConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid dashboard parameters: %v", err)), nil
	}

	d, err := core.BuildDashboard(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("dashboard failed: %v", err)), nil
	}
	return jsonResult(d)
}

func (h *toolHandler) handleGetReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	section, err := core.ParseSection(request.GetString("section", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid report parameters: %v", err)), nil
	}
	cfg, err := h.windowConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid report parameters: %v", err)), nil
	}

	d, err := core.BuildDashboard(ctx, cfg, h.mgr, section)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"section": section,
		"weeks":   d.WeekKeys,
		"rows":    d.SectionRows(section),
		"reason":  d.SectionReason(section),
	})
}

func (h *toolHandler) handleListUploads(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uploads, err := core.ListUploads(ctx, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing uploads failed: %v", err)), nil
	}
	if uploads == nil {
		uploads = []schema.UploadRecord{}
	}
	return jsonResult(uploads)
}

func (h *toolHandler) handleIngestFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}
	cfg := h.baseCfg.Clone()
	cfg.Strict = request.GetBool("strict", cfg.Strict)

	result, err := core.IngestFile(ctx, cfg, h.mgr, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ingest failed: %v", err)), nil
	}
	return jsonResult(result)
}
