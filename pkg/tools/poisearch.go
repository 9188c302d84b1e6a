package tools

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/NERVsystems/mapboxmcp/pkg/mapbox"
)

var navigationProfiles = []string{"driving", "walking", "cycling", "driving-traffic"}

func validNavigationProfile(p string) bool {
	for _, v := range navigationProfiles {
		if p == v {
			return true
		}
	}
	return false
}

// poiSearchInput is the input contract for poi_search_tool.
type poiSearchInput struct {
	Q                 string       `json:"q"`
	Language          string       `json:"language"`
	Limit             int          `json:"limit"`
	Proximity         any          `json:"proximity"`
	BBox              *BoundingBox `json:"bbox"`
	Country           []string     `json:"country"`
	Types             []string     `json:"types"`
	POICategory       []string     `json:"poi_category"`
	AutoComplete      *bool        `json:"auto_complete"`
	ETAType           string       `json:"eta_type"`
	NavigationProfile string       `json:"navigation_profile"`
	Origin            *Coordinate  `json:"origin"`
	Format            string       `json:"format"`
}

func (in *poiSearchInput) applyDefaults() {
	if in.Limit == 0 {
		in.Limit = 10
	}
	if in.Format == "" {
		in.Format = formatFormattedText
	}
}

func (in *poiSearchInput) validate() error {
	if in.Q == "" {
		return fmt.Errorf("search query text is required")
	}
	if len(in.Q) > 256 {
		return fmt.Errorf("search text cannot exceed 256 characters")
	}
	if in.Limit < 1 || in.Limit > 10 {
		return fmt.Errorf("limit must be between 1 and 10, got %d", in.Limit)
	}
	if in.BBox != nil {
		if err := in.BBox.Validate(); err != nil {
			return err
		}
	}
	if err := validateCountryCodes(in.Country); err != nil {
		return err
	}
	if in.ETAType != "" && in.ETAType != "navigation" {
		return fmt.Errorf("invalid eta_type: %q. Must be \"navigation\"", in.ETAType)
	}
	if in.NavigationProfile != "" && !validNavigationProfile(in.NavigationProfile) {
		return fmt.Errorf("invalid navigation_profile: %q. Must be one of: %s",
			in.NavigationProfile, strings.Join(navigationProfiles, ", "))
	}
	if in.Origin != nil {
		if err := in.Origin.Validate(); err != nil {
			return err
		}
	}
	return validateFormat(in.Format)
}

// POISearchTool returns the tool definition for point-of-interest search.
func POISearchTool() mcp.Tool {
	return mcp.NewTool("poi_search_tool",
		mcp.WithDescription("Find one specific place or brand location by its proper name or unique brand. "+
			`Use only when the user's query includes a distinct title (e.g., "The Met", "Starbucks Reserve Roastery") or a brand they want all nearby branches of (e.g., "Macy's stores near me"). `+
			"Do not use for generic place types such as 'museums', 'coffee shops', 'tacos', etc. "+
			"Setting a proximity point is strongly encouraged for more relevant results. "+
			"Always try to use a limit of at least 3 in case the user's intended result is not the first result. Supports both JSON and text output formats."),
		mcp.WithString("q",
			mcp.Required(),
			mcp.Description("Search query text. Limited to 256 characters."),
		),
		mcp.WithString("language",
			mcp.Description(`ISO language code for the response (e.g., "en", "es", "fr", "de", "ja")`),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (1-10)"),
			mcp.DefaultNumber(10),
		),
		mcp.WithString("proximity",
			mcp.Description(`Location to bias results towards. Either {longitude, latitude}, "longitude,latitude", or "ip" for IP-based location. STRONGLY ENCOURAGED for relevant results.`),
		),
		mcp.WithObject("bbox",
			mcp.Description("Bounding box to limit results within specified bounds: {minLongitude, minLatitude, maxLongitude, maxLatitude}"),
		),
		mcp.WithArray("country",
			mcp.Description("Array of ISO 3166 alpha 2 country codes to limit results"),
		),
		mcp.WithArray("types",
			mcp.Description(`Array of feature types to filter results (e.g., ["poi", "address", "place"])`),
		),
		mcp.WithArray("poi_category",
			mcp.Description(`Array of POI categories to include (e.g., ["restaurant", "cafe"])`),
		),
		mcp.WithBoolean("auto_complete",
			mcp.Description("Enable partial and fuzzy matching"),
		),
		mcp.WithString("eta_type",
			mcp.Description("Request estimated time of arrival (ETA) to results"),
			mcp.Enum("navigation"),
		),
		mcp.WithString("navigation_profile",
			mcp.Description("Routing profile for ETA calculations"),
			mcp.Enum(navigationProfiles...),
		),
		mcp.WithObject("origin",
			mcp.Description("Starting point for ETA calculations as coordinate object with longitude and latitude"),
		),
		mcp.WithString("format",
			mcp.Description(`Output format: "json_string" returns raw GeoJSON data as a JSON string that can be parsed; "formatted_text" returns human-readable text with place names, addresses, and coordinates.`),
			mcp.Enum(formatJSONString, formatFormattedText),
			mcp.DefaultString(formatFormattedText),
		),
	)
}

// HandlePOISearch implements name/brand search against Search Box.
func HandlePOISearch(cli *mapbox.Client) toolHandler {
	return func(ctx context.Context, req mcp.CallToolRequest) (any, error) {
		var input poiSearchInput
		if err := decodeInput(req, &input); err != nil {
			return nil, err
		}
		input.applyDefaults()
		if err := input.validate(); err != nil {
			return nil, err
		}

		proximity, err := ParseProximity(input.Proximity)
		if err != nil {
			return nil, err
		}
		if proximity != nil && proximity.Coord != nil {
			if err := proximity.Coord.Validate(); err != nil {
				return nil, err
			}
		}

		u, err := url.Parse(cli.Endpoint() + "search/searchbox/v1/forward")
		if err != nil {
			return nil, err
		}
		q := u.Query()
		q.Set("q", input.Q)
		q.Set("access_token", cli.Token())
		if input.Language != "" {
			q.Set("language", input.Language)
		}
		q.Set("limit", strconv.Itoa(input.Limit))
		if proximity != nil {
			q.Set("proximity", proximity.String())
		}
		if input.BBox != nil {
			q.Set("bbox", input.BBox.String())
		}
		if len(input.Country) > 0 {
			q.Set("country", strings.Join(input.Country, ","))
		}
		if len(input.Types) > 0 {
			q.Set("types", strings.Join(input.Types, ","))
		}
		if len(input.POICategory) > 0 {
			q.Set("poi_category", strings.Join(input.POICategory, ","))
		}
		if input.AutoComplete != nil {
			q.Set("auto_complete", strconv.FormatBool(*input.AutoComplete))
		}
		if input.ETAType != "" {
			q.Set("eta_type", input.ETAType)
		}
		if input.NavigationProfile != "" {
			q.Set("navigation_profile", input.NavigationProfile)
		}
		if input.Origin != nil {
			q.Set("origin", input.Origin.String())
		}
		u.RawQuery = q.Encode()

		var data map[string]any
		if err := cli.GetJSON(ctx, u.String(), &data); err != nil {
			return nil, fmt.Errorf("failed to search: %w", err)
		}

		return renderFeatureCollection(data, input.Format)
	}
}
