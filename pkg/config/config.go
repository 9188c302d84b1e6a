// Package config loads process-wide configuration from the environment.
// Configuration is read once at startup and is read-only afterwards.
package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	// DefaultAPIEndpoint is the base URL for the Mapbox API.
	DefaultAPIEndpoint = "https://api.mapbox.com/"

	// EnvAccessToken names the environment variable holding the Mapbox access token.
	EnvAccessToken = "MAPBOX_ACCESS_TOKEN"

	// EnvAPIEndpoint names the environment variable overriding the API base URL.
	EnvAPIEndpoint = "MAPBOX_API_ENDPOINT"

	// EnvVerboseErrors names the environment variable enabling verbose tool errors.
	EnvVerboseErrors = "VERBOSE_ERRORS"
)

// Config holds the process-wide settings shared by all tools.
type Config struct {
	// AccessToken is the Mapbox access token. Its presence and shape are
	// enforced per invocation by the tool execution envelope, not here,
	// so that the server can start without one and report the problem
	// through the protocol instead of refusing to boot.
	AccessToken string

	// APIEndpoint is the Mapbox API base URL, always ending in a slash.
	APIEndpoint string

	// VerboseErrors controls whether tool results carry the underlying
	// error message or a fixed generic message.
	VerboseErrors bool
}

// Load reads configuration from the environment.
func Load() *Config {
	endpoint := os.Getenv(EnvAPIEndpoint)
	if endpoint == "" {
		endpoint = DefaultAPIEndpoint
	}
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}

	return &Config{
		AccessToken:   os.Getenv(EnvAccessToken),
		APIEndpoint:   endpoint,
		VerboseErrors: os.Getenv(EnvVerboseErrors) == "true",
	}
}

// ValidateToken checks that the access token is present and has the
// three-segment dot-delimited shape of a Mapbox token. The token is never
// verified cryptographically; this is a shape check only.
func (c *Config) ValidateToken() error {
	if c.AccessToken == "" {
		return fmt.Errorf("%s is not set", EnvAccessToken)
	}
	parts := strings.Split(c.AccessToken, ".")
	if len(parts) != 3 {
		return fmt.Errorf("%s is not in valid JWT format", EnvAccessToken)
	}
	for _, part := range parts {
		if part == "" {
			return fmt.Errorf("%s is not in valid JWT format", EnvAccessToken)
		}
	}
	return nil
}
