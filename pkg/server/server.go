// Package server provides the MCP server implementation for the Mapbox integration.
package server

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/NERVsystems/mapboxmcp/pkg/config"
	"github.com/NERVsystems/mapboxmcp/pkg/mapbox"
	"github.com/NERVsystems/mapboxmcp/pkg/tools"
	"github.com/NERVsystems/mapboxmcp/pkg/version"
)

// Server encapsulates the MCP server with Mapbox tools.
type Server struct {
	srv *server.MCPServer
}

// NewServer creates a new Mapbox MCP server with all tools registered. Token
// validation is deferred to tool invocation time so listing tools works
// without credentials.
func NewServer(cfg *config.Config) (*Server, error) {
	logger := slog.Default()
	logger.Info("initializing Mapbox MCP server",
		"name", version.ServerName,
		"version", version.BuildVersion)

	srv := server.NewMCPServer(
		version.ServerName,
		version.BuildVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	client := mapbox.NewClient(cfg, logger)
	registry := tools.NewRegistry(logger, cfg, client)
	registry.RegisterTools(srv)

	return &Server{srv: srv}, nil
}

// Run starts the MCP server using stdin/stdout for communication.
func (s *Server) Run() error {
	return server.ServeStdio(s.srv)
}
