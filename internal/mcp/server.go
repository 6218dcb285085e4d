package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("TrainUp", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("TrainUp personal training server. Query the athlete's profile, streak, and weekly activity per sport, or log today's training counter. Sports are identified by id: futbol, baloncesto, running, fitness."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetProfile, Handler: h.getProfile},
		server.ServerTool{Tool: toolListSports, Handler: h.listSports},
		server.ServerTool{Tool: toolGetTodayActivity, Handler: h.getTodayActivity},
		server.ServerTool{Tool: toolGetWeeklyStats, Handler: h.getWeeklyStats},
		server.ServerTool{Tool: toolLogActivity, Handler: h.logActivity},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resProfile, Handler: h.profile},
		server.ServerResource{Resource: resSportCatalog, Handler: h.sportCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resProfile = mcp.NewResource(
	"trainup://profile",
	"Athlete Profile",
	mcp.WithResourceDescription("Current athlete profile: username, biometrics, streak, selected sport, and today's training status"),
	mcp.WithMIMEType("application/json"),
)

var resSportCatalog = mcp.NewResource(
	"trainup://sports",
	"Sport Catalog",
	mcp.WithResourceDescription("All supported sports with their coach persona and stats configuration"),
	mcp.WithMIMEType("application/json"),
)
