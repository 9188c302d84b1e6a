package tools

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/NERVsystems/mapboxmcp/pkg/config"
	"github.com/NERVsystems/mapboxmcp/pkg/mapbox"
)

// Registry holds all MCP tool registrations for the Mapbox service.
type Registry struct {
	logger *slog.Logger
	cfg    *config.Config
	client *mapbox.Client
}

// NewRegistry creates a new MCP tool registry.
func NewRegistry(logger *slog.Logger, cfg *config.Config, client *mapbox.Client) *Registry {
	return &Registry{
		logger: logger,
		cfg:    cfg,
		client: client,
	}
}

// ToolDefinition represents a Mapbox MCP tool definition. LocalOnly marks
// tools that never call the Mapbox API and therefore run without an access
// token.
type ToolDefinition struct {
	Name      string
	Tool      mcp.Tool
	Handler   toolHandler
	LocalOnly bool
}

// GetToolDefinitions returns all Mapbox MCP tool definitions.
func (r *Registry) GetToolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:      "version_tool",
			Tool:      VersionTool(),
			Handler:   HandleVersion(),
			LocalOnly: true,
		},

		// Search tools
		{
			Name:    "forward_geocode_tool",
			Tool:    ForwardGeocodeTool(),
			Handler: HandleForwardGeocode(r.client),
		},
		{
			Name:    "reverse_geocode_tool",
			Tool:    ReverseGeocodeTool(),
			Handler: HandleReverseGeocode(r.client),
		},
		{
			Name:    "category_search_tool",
			Tool:    CategorySearchTool(),
			Handler: HandleCategorySearch(r.client),
		},
		{
			Name:    "poi_search_tool",
			Tool:    POISearchTool(),
			Handler: HandlePOISearch(r.client),
		},

		// Navigation tools
		{
			Name:    "directions_tool",
			Tool:    DirectionsTool(),
			Handler: HandleDirections(r.client),
		},
		{
			Name:    "matrix_tool",
			Tool:    MatrixTool(),
			Handler: HandleMatrix(r.client),
		},
		{
			Name:    "isochrone_tool",
			Tool:    IsochroneTool(),
			Handler: HandleIsochrone(r.client),
		},

		// Rendering tools
		{
			Name:    "static_map_image_tool",
			Tool:    StaticMapImageTool(),
			Handler: HandleStaticMapImage(r.client),
		},
	}
}

// RegisterTools registers all tools with the given MCP server, wrapping each
// handler in the shared execution envelope.
func (r *Registry) RegisterTools(s *server.MCPServer) {
	for _, def := range r.GetToolDefinitions() {
		r.logger.Debug("registering tool", "name", def.Name)
		s.AddTool(def.Tool, wrapHandler(r.logger, r.cfg, def.Name, !def.LocalOnly, def.Handler))
	}
	r.logger.Info("registered tools", "count", len(r.GetToolDefinitions()))
}
