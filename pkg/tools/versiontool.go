package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/NERVsystems/mapboxmcp/pkg/version"
)

// VersionTool returns the tool definition for build metadata.
func VersionTool() mcp.Tool {
	return mcp.NewTool("version_tool",
		mcp.WithDescription("Get the current version information of the MCP server"),
	)
}

// HandleVersion reports the server's build metadata as text. It performs no
// network access and does not need an access token.
func HandleVersion() toolHandler {
	return func(ctx context.Context, req mcp.CallToolRequest) (any, error) {
		info := version.Info()
		text := fmt.Sprintf("MCP Server Version Information:\n"+
			"- Name: %s\n"+
			"- Version: %s\n"+
			"- SHA: %s\n"+
			"- Tag: %s\n"+
			"- Branch: %s",
			info["name"], info["version"], info["commit"], info["tag"], info["branch"])
		return mcp.TextContent{Type: "text", Text: text}, nil
	}
}
