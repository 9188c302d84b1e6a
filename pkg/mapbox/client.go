// Package mapbox provides the HTTP collaborator used to reach the Mapbox API.
package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/NERVsystems/mapboxmcp/pkg/config"
	"github.com/NERVsystems/mapboxmcp/pkg/version"
)

// APIError represents a non-success response from the Mapbox API.
type APIError struct {
	StatusCode int
	Status     string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Status)
}

// Client is the HTTP collaborator shared by all tools. It carries the API
// base endpoint, the access token, and the identification header, so that
// tools never touch process-wide state directly. One client is constructed
// at process start and handed to the tool registry.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	userAgent  string
	logger     *slog.Logger
}

// NewClient creates a Mapbox API client from the process configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		endpoint:  cfg.APIEndpoint,
		token:     cfg.AccessToken,
		userAgent: version.UserAgent(),
		logger:    logger,
	}
}

// Endpoint returns the API base URL, ending in a slash.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Token returns the configured access token.
func (c *Client) Token() string {
	return c.token
}

// RedactToken replaces the access token in s with a placeholder so URLs can
// be logged safely.
func (c *Client) RedactToken(s string) string {
	if c.token == "" {
		return s
	}
	return strings.ReplaceAll(s, c.token, "[REDACTED]")
}

// Do performs an HTTP request with the identification header set. Callers
// must not override the User-Agent header.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", c.userAgent)
	return c.httpClient.Do(req)
}

// Get fetches rawURL and returns the response body. A non-2xx status is
// returned as an *APIError; nothing is retried.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("mapbox API returned error",
			"status", resp.StatusCode,
			"url", c.RedactToken(rawURL))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprintf("%d", resp.StatusCode))),
		}
	}

	return io.ReadAll(resp.Body)
}

// GetJSON fetches rawURL and decodes the JSON response body into v.
func (c *Client) GetJSON(ctx context.Context, rawURL string, v any) error {
	body, err := c.Get(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
