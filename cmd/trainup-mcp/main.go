package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/marcossootooo-ctrl/trainuppp/internal/mcp"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// trainup-mcp speaks MCP over stdio and proxies data requests to a running
// TrainUp server, so it can run locally while the session lives on a host
// reachable over the tailnet.
func main() {
	baseURL := flag.String("url", "http://localhost:8080", "base URL of the TrainUp server")
	apiKey := flag.String("api-key", os.Getenv("TRAINUP_AUTH_API_KEY"), "API key for the TrainUp server")
	flag.Parse()

	// Logs go to stderr; stdout carries the MCP protocol.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ds := mcp.NewHTTPClient(*baseURL, *apiKey)
	s := mcp.New(ds, Version, log)

	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
