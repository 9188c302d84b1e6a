package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/NERVsystems/mapboxmcp/pkg/config"
)

// genericErrorText is returned to callers when verbose errors are disabled,
// so upstream error detail is not leaked to end users by default.
const genericErrorText = "Internal error has occurred."

// toolHandler is the uniform contract every tool body implements. The
// returned value is shaped by the execution envelope: content items pass
// through unchanged, anything else is serialized to JSON and wrapped as a
// single text item.
type toolHandler func(ctx context.Context, req mcp.CallToolRequest) (any, error)

// wrapHandler is the tool execution envelope. It enforces the credential
// precondition for tools that reach the Mapbox API, runs the tool body,
// shapes its output, and converts every failure (including panics with
// non-error values) into a single error-flagged text result. Nothing is
// retried and no partial results are ever returned. The real error message
// is always logged; the message surfaced to the caller depends on the
// verbose-errors mode.
func wrapHandler(logger *slog.Logger, cfg *config.Config, name string, needsToken bool, h toolHandler) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		log := logger.With("tool", name, "request_id", uuid.NewString())

		fail := func(message string) *mcp.CallToolResult {
			log.Error("tool execution failed", "error", message)
			if cfg.VerboseErrors {
				return mcp.NewToolResultError(message)
			}
			return mcp.NewToolResultError(genericErrorText)
		}

		defer func() {
			if r := recover(); r != nil {
				result = fail(fmt.Sprint(r))
				err = nil
			}
		}()

		if needsToken {
			if tokenErr := cfg.ValidateToken(); tokenErr != nil {
				return fail(tokenErr.Error()), nil
			}
		}

		out, runErr := h(ctx, req)
		if runErr != nil {
			return fail(runErr.Error()), nil
		}

		switch v := out.(type) {
		case *mcp.CallToolResult:
			return v, nil
		case mcp.TextContent:
			return &mcp.CallToolResult{Content: []mcp.Content{v}}, nil
		case mcp.ImageContent:
			return &mcp.CallToolResult{Content: []mcp.Content{v}}, nil
		default:
			data, marshalErr := json.Marshal(v)
			if marshalErr != nil {
				return fail(fmt.Sprintf("failed to serialize result: %v", marshalErr)), nil
			}
			return mcp.NewToolResultText(string(data)), nil
		}
	}
}

// decodeInput converts the raw tool arguments into a typed input struct via
// a JSON round trip. Field-level validation happens afterwards in each
// tool's validate function.
func decodeInput(req mcp.CallToolRequest, v any) error {
	raw, err := json.Marshal(req.Params.Arguments)
	if err != nil {
		return fmt.Errorf("failed to read arguments: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}
