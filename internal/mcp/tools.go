package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/marcossootooo-ctrl/trainuppp/internal/sport"
)

// --- Tool definitions ---

var toolGetProfile = mcp.NewTool("get_profile",
	mcp.WithDescription("Get the athlete's profile: username, biometrics, streak, selected sport, chat length, and whether training was confirmed today."),
)

var toolListSports = mcp.NewTool("list_sports",
	mcp.WithDescription("List all supported sports with their coach persona, stats layout, and activity log label."),
)

var toolGetTodayActivity = mcp.NewTool("get_today_activity",
	mcp.WithDescription("Get today's logged activity counter for a sport. A counter saved on an earlier day reads as zero."),
	mcp.WithString("sport", mcp.Required(), mcp.Description("Sport id"), mcp.Enum("futbol", "baloncesto", "running", "fitness")),
)

var toolGetWeeklyStats = mcp.NewTool("get_weekly_stats",
	mcp.WithDescription("Get the Monday-first weekly activity chart for a sport. Days are labeled L, M, X, J, V, S, D; today's slot reflects the live counter."),
	mcp.WithString("sport", mcp.Required(), mcp.Description("Sport id"), mcp.Enum("futbol", "baloncesto", "running", "fitness")),
)

var toolLogActivity = mcp.NewTool("log_activity",
	mcp.WithDescription("Log today's activity counter for a sport. Overwrites any earlier value for today and updates the weekly chart."),
	mcp.WithString("sport", mcp.Required(), mcp.Description("Sport id"), mcp.Enum("futbol", "baloncesto", "running", "fitness")),
	mcp.WithNumber("value", mcp.Required(), mcp.Description("Counter value (km, minutes, points, etc. depending on the sport)")),
)

// --- Tool handlers ---

func (h *handlers) getProfile(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := h.ds.State(ctx)
	if err != nil {
		h.log.Error("mcp get_profile", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(snap)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listSports(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	defs, err := h.ds.Sports(ctx)
	if err != nil {
		h.log.Error("mcp list_sports", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(defs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTodayActivity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("sport")
	if err != nil {
		return mcp.NewToolResultError("sport parameter is required"), nil
	}

	value, err := h.ds.TodayValue(ctx, sport.ID(id))
	if err != nil {
		h.log.Error("mcp get_today_activity", "sport", id, "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{"sport": id, "value": value})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWeeklyStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("sport")
	if err != nil {
		return mcp.NewToolResultError("sport parameter is required"), nil
	}

	points, err := h.ds.WeeklyChart(ctx, sport.ID(id))
	if err != nil {
		h.log.Error("mcp get_weekly_stats", "sport", id, "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(points)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) logActivity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("sport")
	if err != nil {
		return mcp.NewToolResultError("sport parameter is required"), nil
	}
	value, err := req.RequireFloat("value")
	if err != nil {
		return mcp.NewToolResultError("value parameter is required"), nil
	}

	if err := h.ds.LogActivity(ctx, sport.ID(id), int(value)); err != nil {
		h.log.Error("mcp log_activity", "sport", id, "error", err)
		return mcp.NewToolResultError("log failed: " + err.Error()), nil
	}

	return mcp.NewToolResultText("logged"), nil
}
