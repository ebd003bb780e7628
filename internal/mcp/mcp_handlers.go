package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/sprintcast/core"
	"github.com/huangsam/sprintcast/internal/contract"
	"github.com/huangsam/sprintcast/internal/sprintio"
	"github.com/huangsam/sprintcast/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// forecastConfig applies the simulation arguments shared by the forecasting tools.
func (h *toolHandler) forecastConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("sprints_file", ""); p != "" {
		cfg.SprintsFile = p
	}
	cfg.ForecastSize = request.GetInt("forecast_size", cfg.ForecastSize)
	cfg.Simulations = request.GetInt("simulations", cfg.Simulations)
	cfg.ConfidenceLevel = request.GetFloat("confidence", cfg.ConfidenceLevel)
	cfg.MinProbability = request.GetFloat("min_probability", cfg.MinProbability)

	err := contract.RevalidateForecast(cfg, request.GetString("seed", ""), request.GetString("deadline", ""))
	return cfg, err
}

func (h *toolHandler) handleForecastDelivery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.forecastConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid forecast parameters: %v", err)), nil
	}

	result, err := core.GetForecastResult(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("forecast failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCheckDeadline(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if request.GetString("deadline", "") == "" {
		return mcp.NewToolResultError("invalid check parameters: deadline is required"), nil
	}
	cfg, err := h.forecastConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid check parameters: %v", err)), nil
	}

	result, err := core.GetCheckResult(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("deadline check failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListSprints(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("sprints_file", h.baseCfg.SprintsFile)
	history, err := sprintio.Load(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot load sprint history: %v", err)), nil
	}

	list := schema.SprintListOutput{Team: history.Team, Sprints: history.Sprints}
	if list.Sprints == nil {
		list.Sprints = []schema.SprintRecord{}
	}
	jsonData, _ := json.MarshalIndent(list, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
