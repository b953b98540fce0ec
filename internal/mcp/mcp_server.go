// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/huangsam/hirefunnel/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// periodNames are the accepted values of the period argument.
var periodNames = []string{
	string(schema.AllTimePeriod),
	string(schema.ThisWeekPeriod),
	string(schema.LastWeekPeriod),
	string(schema.ThisMonthPeriod),
	string(schema.LastMonthPeriod),
}

// sectionNames are the accepted values of the section argument.
func sectionNames() []string {
	names := make([]string, len(schema.AllSections))
	for i, s := range schema.AllSections {
		names[i] = string(s)
	}
	return names
}

// NewMCPServer initializes and configures the hirefunnel MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Hirefunnel Metrics Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_dashboard ---
	s.AddTool(mcp.NewTool("get_dashboard",
		mcp.WithDescription("Compute the recruitment funnel dashboard: weekly screens, onsites, conversion, sources, time to onsite, quality and recruiter cards."),
		mcp.WithNumber("weeks", mcp.Description("Number of most recent weeks to include (1-12). Defaults to the configured value.")),
		mcp.WithString("period", mcp.Description("Relative time period to filter events by before aggregation."), mcp.Enum(periodNames...)),
	), h.handleGetDashboard)

	// --- 2. Tool: get_report ---
	s.AddTool(mcp.NewTool("get_report",
		mcp.WithDescription("Compute a single dashboard table."),
		mcp.WithString("section", mcp.Description("The table to compute."), mcp.Required(), mcp.Enum(sectionNames()...)),
		mcp.WithNumber("weeks", mcp.Description("Number of most recent weeks to include (1-12).")),
		mcp.WithString("period", mcp.Description("Relative time period to filter events by."), mcp.Enum(periodNames...)),
	), h.handleGetReport)

	// --- 3. Tool: list_uploads ---
	s.AddTool(mcp.NewTool("list_uploads",
		mcp.WithDescription("List accepted uploads, newest first."),
	), h.handleListUploads)

	// --- 4. Tool: ingest_file ---
	s.AddTool(mcp.NewTool("ingest_file",
		mcp.WithDescription("Ingest a .csv or .xlsx interview export. Records already stored are skipped."),
		mcp.WithString("path", mcp.Description("Path to the file on the server host."), mcp.Required()),
		mcp.WithBoolean("strict", mcp.Description("Fail the whole batch when a record collides at insert time.")),
	), h.handleIngestFile)

	return s
}

// StartMCPServer starts the hirefunnel MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
