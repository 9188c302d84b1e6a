package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/NERVsystems/mapboxmcp/pkg/config"
	"github.com/NERVsystems/mapboxmcp/pkg/testutil"
)

func newToolRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func testConfig(verbose bool) *config.Config {
	return &config.Config{
		AccessToken:   "pk.payload.signature",
		APIEndpoint:   "https://api.mapbox.com/",
		VerboseErrors: verbose,
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("nil result")
	}
	if len(result.Content) != 1 {
		t.Fatalf("result has %d content items, want 1", len(result.Content))
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content item is %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func TestWrapHandlerTokenPrecondition(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		wantText string
	}{
		{
			name:     "Missing token",
			token:    "",
			wantText: "MAPBOX_ACCESS_TOKEN is not set",
		},
		{
			name:     "Malformed token",
			token:    "not-a-token",
			wantText: "MAPBOX_ACCESS_TOKEN is not in valid JWT format",
		},
		{
			name:     "Empty middle segment",
			token:    "pk..sig",
			wantText: "MAPBOX_ACCESS_TOKEN is not in valid JWT format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(true)
			cfg.AccessToken = tt.token

			called := false
			handler := wrapHandler(testutil.DiscardLogger(), cfg, "test_tool", true,
				func(ctx context.Context, req mcp.CallToolRequest) (any, error) {
					called = true
					return "ok", nil
				})

			result, err := handler(context.Background(), newToolRequest(nil))
			if err != nil {
				t.Fatalf("handler returned protocol error: %v", err)
			}
			if called {
				t.Error("tool body ran without a valid token")
			}
			if !result.IsError {
				t.Error("result not flagged as error")
			}
			if got := resultText(t, result); got != tt.wantText {
				t.Errorf("result text = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestWrapHandlerSkipsTokenCheckForLocalTools(t *testing.T) {
	cfg := testConfig(false)
	cfg.AccessToken = ""

	handler := wrapHandler(testutil.DiscardLogger(), cfg, "version_tool", false,
		func(ctx context.Context, req mcp.CallToolRequest) (any, error) {
			return mcp.TextContent{Type: "text", Text: "v1"}, nil
		})

	result, err := handler(context.Background(), newToolRequest(nil))
	if err != nil {
		t.Fatalf("handler returned protocol error: %v", err)
	}
	if result.IsError {
		t.Fatalf("local tool failed without a token: %v", result)
	}
	if got := resultText(t, result); got != "v1" {
		t.Errorf("result text = %q", got)
	}
}

func TestWrapHandlerErrorVisibility(t *testing.T) {
	realError := errors.New("upstream exploded")

	tests := []struct {
		name     string
		verbose  bool
		wantText string
	}{
		{name: "Verbose shows real message", verbose: true, wantText: "upstream exploded"},
		{name: "Default shows generic message", verbose: false, wantText: genericErrorText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := wrapHandler(testutil.DiscardLogger(), testConfig(tt.verbose), "test_tool", true,
				func(ctx context.Context, req mcp.CallToolRequest) (any, error) {
					return nil, realError
				})

			result, err := handler(context.Background(), newToolRequest(nil))
			if err != nil {
				t.Fatalf("handler returned protocol error: %v", err)
			}
			if !result.IsError {
				t.Error("result not flagged as error")
			}
			if got := resultText(t, result); got != tt.wantText {
				t.Errorf("result text = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestWrapHandlerRecoversPanics(t *testing.T) {
	tests := []struct {
		name     string
		panicVal any
		wantText string
	}{
		{name: "Error panic", panicVal: errors.New("boom"), wantText: "boom"},
		{name: "String panic", panicVal: "string boom", wantText: "string boom"},
		{name: "Non-error panic", panicVal: 42, wantText: "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := wrapHandler(testutil.DiscardLogger(), testConfig(true), "test_tool", true,
				func(ctx context.Context, req mcp.CallToolRequest) (any, error) {
					panic(tt.panicVal)
				})

			result, err := handler(context.Background(), newToolRequest(nil))
			if err != nil {
				t.Fatalf("handler returned protocol error: %v", err)
			}
			if !result.IsError {
				t.Error("result not flagged as error")
			}
			if got := resultText(t, result); got != tt.wantText {
				t.Errorf("result text = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestWrapHandlerOutputShaping(t *testing.T) {
	t.Run("Structured output serialized to JSON", func(t *testing.T) {
		handler := wrapHandler(testutil.DiscardLogger(), testConfig(false), "test_tool", true,
			func(ctx context.Context, req mcp.CallToolRequest) (any, error) {
				return map[string]any{"durations": []any{0.0, 120.0}}, nil
			})

		result, err := handler(context.Background(), newToolRequest(nil))
		if err != nil {
			t.Fatalf("handler returned protocol error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected error result: %v", result)
		}
		got := resultText(t, result)
		if !strings.Contains(got, `"durations":[0,120]`) {
			t.Errorf("serialized output = %q", got)
		}
	})

	t.Run("Text content passes through", func(t *testing.T) {
		handler := wrapHandler(testutil.DiscardLogger(), testConfig(false), "test_tool", true,
			func(ctx context.Context, req mcp.CallToolRequest) (any, error) {
				return mcp.TextContent{Type: "text", Text: noResultsText}, nil
			})

		result, _ := handler(context.Background(), newToolRequest(nil))
		if got := resultText(t, result); got != noResultsText {
			t.Errorf("result text = %q", got)
		}
	})

	t.Run("Image content passes through", func(t *testing.T) {
		handler := wrapHandler(testutil.DiscardLogger(), testConfig(false), "test_tool", true,
			func(ctx context.Context, req mcp.CallToolRequest) (any, error) {
				return mcp.ImageContent{Type: "image", Data: "aGk=", MIMEType: "image/png"}, nil
			})

		result, err := handler(context.Background(), newToolRequest(nil))
		if err != nil {
			t.Fatalf("handler returned protocol error: %v", err)
		}
		img, ok := result.Content[0].(mcp.ImageContent)
		if !ok {
			t.Fatalf("content item is %T, want ImageContent", result.Content[0])
		}
		if img.Data != "aGk=" || img.MIMEType != "image/png" {
			t.Errorf("image content = %+v", img)
		}
	})
}

func TestDecodeInput(t *testing.T) {
	req := newToolRequest(map[string]any{
		"q":     "tampa",
		"limit": 3.0,
	})

	var input forwardGeocodeInput
	if err := decodeInput(req, &input); err != nil {
		t.Fatalf("decodeInput() error: %v", err)
	}
	if input.Q != "tampa" || input.Limit != 3 {
		t.Errorf("decoded input = %+v", input)
	}

	bad := newToolRequest(map[string]any{"limit": "three"})
	if err := decodeInput(bad, &input); err == nil {
		t.Error("decodeInput() expected type error")
	}
}
