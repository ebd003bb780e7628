// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/sprintcast/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the sprintcast MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Sprintcast Forecast Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: forecast_delivery ---
	s.AddTool(mcp.NewTool("forecast_delivery",
		mcp.WithDescription("Forecast when a number of future work items will be delivered, based on a team's sprint history."),
		mcp.WithString("sprints_file", mcp.Description("Path to the team's sprint history CSV (defaults to the configured file).")),
		mcp.WithNumber("forecast_size", mcp.Description("Number of future items to forecast.")),
		mcp.WithNumber("simulations", mcp.Description("Number of Monte Carlo trials.")),
		mcp.WithNumber("confidence", mcp.Description("Confidence level strictly between 0 and 1, e.g. 0.97.")),
		mcp.WithString("seed", mcp.Description("Seed for a reproducible forecast.")),
	), h.handleForecastDelivery)

	// --- 2. Tool: check_deadline ---
	s.AddTool(mcp.NewTool("check_deadline",
		mcp.WithDescription("Estimate the probability that future work items are delivered by a deadline."),
		mcp.WithString("deadline", mcp.Description("Target date as YYYY-MM-DD."), mcp.Required()),
		mcp.WithNumber("min_probability", mcp.Description("Probability required for the check to pass, between 0 and 1.")),
		mcp.WithString("sprints_file", mcp.Description("Path to the team's sprint history CSV.")),
		mcp.WithNumber("forecast_size", mcp.Description("Number of future items to forecast.")),
		mcp.WithNumber("simulations", mcp.Description("Number of Monte Carlo trials.")),
		mcp.WithNumber("confidence", mcp.Description("Confidence level strictly between 0 and 1, e.g. 0.97.")),
		mcp.WithString("seed", mcp.Description("Seed for a reproducible check.")),
	), h.handleCheckDeadline)

	// --- 3. Tool: list_sprints ---
	s.AddTool(mcp.NewTool("list_sprints",
		mcp.WithDescription("List the sprints recorded in a team's sprint history."),
		mcp.WithString("sprints_file", mcp.Description("Path to the team's sprint history CSV.")),
	), h.handleListSprints)

	return s
}

// StartMCPServer starts the sprintcast MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
