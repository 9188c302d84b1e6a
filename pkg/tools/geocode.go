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

// geocodeFeatureTypes is the closed vocabulary accepted by the Geocoding v6
// types filter.
var geocodeFeatureTypes = []string{
	"country", "region", "postcode", "district",
	"place", "locality", "neighborhood", "address",
}

var worldviews = []string{"us", "cn", "jp", "in"}

func validFeatureType(t string) bool {
	for _, v := range geocodeFeatureTypes {
		if t == v {
			return true
		}
	}
	return false
}

func validateCountryCodes(codes []string) error {
	for _, c := range codes {
		if len(c) != 2 {
			return fmt.Errorf("invalid country code: %q. Must be an ISO 3166 alpha 2 code", c)
		}
	}
	return nil
}

func validateWorldview(w string) error {
	for _, v := range worldviews {
		if w == v {
			return nil
		}
	}
	return fmt.Errorf("invalid worldview: %q. Must be one of: %s", w, strings.Join(worldviews, ", "))
}

func validateFormat(f string) error {
	if f != formatJSONString && f != formatFormattedText {
		return fmt.Errorf("invalid format: %q. Must be %q or %q", f, formatJSONString, formatFormattedText)
	}
	return nil
}

// forwardGeocodeInput is the input contract for forward_geocode_tool.
type forwardGeocodeInput struct {
	Q            string       `json:"q"`
	Permanent    bool         `json:"permanent"`
	Autocomplete *bool        `json:"autocomplete"`
	BBox         *BoundingBox `json:"bbox"`
	Country      []string     `json:"country"`
	Format       string       `json:"format"`
	Language     string       `json:"language"`
	Limit        int          `json:"limit"`
	Proximity    any          `json:"proximity"`
	Types        []string     `json:"types"`
	Worldview    string       `json:"worldview"`
}

func (in *forwardGeocodeInput) applyDefaults() {
	if in.Autocomplete == nil {
		t := true
		in.Autocomplete = &t
	}
	if in.Limit == 0 {
		in.Limit = 5
	}
	if in.Worldview == "" {
		in.Worldview = "us"
	}
	if in.Format == "" {
		in.Format = formatFormattedText
	}
}

func (in *forwardGeocodeInput) validate() error {
	if len(in.Q) > 256 {
		return fmt.Errorf("search text cannot exceed 256 characters")
	}
	if strings.Contains(in.Q, ";") {
		return fmt.Errorf("search text cannot contain semicolons")
	}
	if len(strings.Fields(in.Q)) > 20 {
		return fmt.Errorf("search text cannot exceed 20 words")
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
	for _, t := range in.Types {
		if !validFeatureType(t) {
			return fmt.Errorf("invalid type: %q. Must be one of: %s", t, strings.Join(geocodeFeatureTypes, ", "))
		}
	}
	if err := validateWorldview(in.Worldview); err != nil {
		return err
	}
	return validateFormat(in.Format)
}

// ForwardGeocodeTool returns the tool definition for forward geocoding.
func ForwardGeocodeTool() mcp.Tool {
	return mcp.NewTool("forward_geocode_tool",
		mcp.WithDescription("Forward geocode addresses, cities, towns, neighborhoods, districts, postcodes, regions, and countries using Mapbox Geocoding API v6. "+
			"Converts location name into geographic coordinates. Setting a proximity point helps to bias results towards a specific area for more relevant results. "+
			"Do not use this tool for geocoding points of interest like businesses, landmarks, historic sites, museums, etc. Supports both JSON and text output formats."),
		mcp.WithString("q",
			mcp.Required(),
			mcp.Description("Search text to geocode. Max 256 characters, 20 words, no semicolons."),
		),
		mcp.WithBoolean("permanent",
			mcp.Description("Whether results can be stored permanently"),
			mcp.DefaultBool(false),
		),
		mcp.WithBoolean("autocomplete",
			mcp.Description("Return partial/suggested results for partial queries"),
			mcp.DefaultBool(true),
		),
		mcp.WithObject("bbox",
			mcp.Description("Bounding box to limit results within specified bounds: {minLongitude, minLatitude, maxLongitude, maxLatitude}"),
		),
		mcp.WithArray("country",
			mcp.Description("Array of ISO 3166 alpha 2 country codes to limit results"),
		),
		mcp.WithString("format",
			mcp.Description(`Output format: "json_string" returns raw GeoJSON data as a JSON string that can be parsed; "formatted_text" returns human-readable text with place names, addresses, and coordinates.`),
			mcp.Enum(formatJSONString, formatFormattedText),
			mcp.DefaultString(formatFormattedText),
		),
		mcp.WithString("language",
			mcp.Description(`IETF language tag for the response (e.g., "en", "es", "fr", "de", "ja")`),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (1-10)"),
			mcp.DefaultNumber(5),
		),
		mcp.WithString("proximity",
			mcp.Description(`Location to bias results towards. Either {longitude, latitude}, "longitude,latitude", or "ip" for IP-based location.`),
		),
		mcp.WithArray("types",
			mcp.Description("Array of feature types to filter results: country, region, postcode, district, place, locality, neighborhood, address"),
		),
		mcp.WithString("worldview",
			mcp.Description("Returns features from a specific regional perspective"),
			mcp.Enum(worldviews...),
			mcp.DefaultString("us"),
		),
	)
}

// HandleForwardGeocode implements forward geocoding against Geocoding v6.
func HandleForwardGeocode(cli *mapbox.Client) toolHandler {
	return func(ctx context.Context, req mcp.CallToolRequest) (any, error) {
		var input forwardGeocodeInput
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

		u, err := url.Parse(cli.Endpoint() + "search/geocode/v6/forward")
		if err != nil {
			return nil, err
		}
		q := u.Query()
		q.Set("q", input.Q)
		q.Set("access_token", cli.Token())
		q.Set("permanent", strconv.FormatBool(input.Permanent))
		q.Set("autocomplete", strconv.FormatBool(*input.Autocomplete))
		q.Set("format", "geojson")
		q.Set("limit", strconv.Itoa(input.Limit))
		q.Set("worldview", input.Worldview)
		if input.BBox != nil {
			q.Set("bbox", input.BBox.String())
		}
		if len(input.Country) > 0 {
			q.Set("country", strings.Join(input.Country, ","))
		}
		if input.Language != "" {
			q.Set("language", input.Language)
		}
		if proximity != nil {
			q.Set("proximity", proximity.String())
		}
		if len(input.Types) > 0 {
			q.Set("types", strings.Join(input.Types, ","))
		}
		u.RawQuery = q.Encode()

		var data map[string]any
		if err := cli.GetJSON(ctx, u.String(), &data); err != nil {
			return nil, fmt.Errorf("failed to geocode: %w", err)
		}

		return renderFeatureCollection(data, input.Format)
	}
}

// reverseGeocodeInput is the input contract for reverse_geocode_tool.
type reverseGeocodeInput struct {
	Longitude *float64 `json:"longitude"`
	Latitude  *float64 `json:"latitude"`
	Permanent bool     `json:"permanent"`
	Country   []string `json:"country"`
	Language  string   `json:"language"`
	Limit     int      `json:"limit"`
	Types     []string `json:"types"`
	Worldview string   `json:"worldview"`
	Format    string   `json:"format"`
}

func (in *reverseGeocodeInput) applyDefaults() {
	if in.Limit == 0 {
		in.Limit = 1
	}
	if in.Worldview == "" {
		in.Worldview = "us"
	}
	if in.Format == "" {
		in.Format = formatFormattedText
	}
}

func (in *reverseGeocodeInput) validate() error {
	if in.Longitude == nil || in.Latitude == nil {
		return fmt.Errorf("longitude and latitude are required")
	}
	coord := Coordinate{Longitude: *in.Longitude, Latitude: *in.Latitude}
	if err := coord.Validate(); err != nil {
		return err
	}
	if in.Limit < 1 || in.Limit > 5 {
		return fmt.Errorf("limit must be between 1 and 5, got %d", in.Limit)
	}
	if err := validateCountryCodes(in.Country); err != nil {
		return err
	}
	for _, t := range in.Types {
		if !validFeatureType(t) {
			return fmt.Errorf("invalid type: %q. Must be one of: %s", t, strings.Join(geocodeFeatureTypes, ", "))
		}
	}
	if err := validateWorldview(in.Worldview); err != nil {
		return err
	}
	return validateFormat(in.Format)
}

// checkLimitTypes enforces the upstream constraint that multiple reverse
// geocode results are only well defined for a single feature type.
func (in *reverseGeocodeInput) checkLimitTypes() error {
	if in.Limit > 1 && len(in.Types) != 1 {
		return fmt.Errorf(`when limit > 1 for reverse geocoding, you must specify exactly one type in the types parameter (e.g., types: ["address"]). Consider using limit: 1 instead for best results`)
	}
	return nil
}

// ReverseGeocodeTool returns the tool definition for reverse geocoding.
func ReverseGeocodeTool() mcp.Tool {
	return mcp.NewTool("reverse_geocode_tool",
		mcp.WithDescription("Find addresses, cities, towns, neighborhoods, postcodes, districts, regions, and countries around a specified geographic coordinate pair. "+
			"Converts geographic coordinates (longitude, latitude) into human-readable addresses or place names. Use limit=1 for best results. "+
			"This tool cannot reverse geocode businesses, landmarks, historic sites, and other points of interest that are not of the types mentioned. Supports both JSON and text output formats."),
		mcp.WithNumber("longitude",
			mcp.Required(),
			mcp.Description("Longitude coordinate to reverse geocode"),
		),
		mcp.WithNumber("latitude",
			mcp.Required(),
			mcp.Description("Latitude coordinate to reverse geocode"),
		),
		mcp.WithBoolean("permanent",
			mcp.Description("Whether results can be stored permanently"),
			mcp.DefaultBool(false),
		),
		mcp.WithArray("country",
			mcp.Description("Array of ISO 3166 alpha 2 country codes to limit results"),
		),
		mcp.WithString("language",
			mcp.Description(`IETF language tag for the response (e.g., "en", "es", "fr", "de", "ja")`),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (1-5). Use 1 for best results. If you need more than 1 result, you must specify exactly one type in the types parameter."),
			mcp.DefaultNumber(1),
		),
		mcp.WithArray("types",
			mcp.Description("Array of feature types to filter results: country, region, postcode, district, place, locality, neighborhood, address"),
		),
		mcp.WithString("worldview",
			mcp.Description("Returns features from a specific regional perspective"),
			mcp.Enum(worldviews...),
			mcp.DefaultString("us"),
		),
		mcp.WithString("format",
			mcp.Description(`Output format: "json_string" returns raw GeoJSON data as a JSON string that can be parsed; "formatted_text" returns human-readable text with place names, addresses, and coordinates.`),
			mcp.Enum(formatJSONString, formatFormattedText),
			mcp.DefaultString(formatFormattedText),
		),
	)
}

// HandleReverseGeocode implements reverse geocoding against Geocoding v6.
func HandleReverseGeocode(cli *mapbox.Client) toolHandler {
	return func(ctx context.Context, req mcp.CallToolRequest) (any, error) {
		var input reverseGeocodeInput
		if err := decodeInput(req, &input); err != nil {
			return nil, err
		}
		input.applyDefaults()
		if err := input.validate(); err != nil {
			return nil, err
		}
		if err := input.checkLimitTypes(); err != nil {
			return nil, err
		}

		u, err := url.Parse(cli.Endpoint() + "search/geocode/v6/reverse")
		if err != nil {
			return nil, err
		}
		q := u.Query()
		q.Set("longitude", strconv.FormatFloat(*input.Longitude, 'f', -1, 64))
		q.Set("latitude", strconv.FormatFloat(*input.Latitude, 'f', -1, 64))
		q.Set("access_token", cli.Token())
		q.Set("permanent", strconv.FormatBool(input.Permanent))
		q.Set("limit", strconv.Itoa(input.Limit))
		q.Set("worldview", input.Worldview)
		if len(input.Country) > 0 {
			q.Set("country", strings.Join(input.Country, ","))
		}
		if input.Language != "" {
			q.Set("language", input.Language)
		}
		if len(input.Types) > 0 {
			q.Set("types", strings.Join(input.Types, ","))
		}
		u.RawQuery = q.Encode()

		var data map[string]any
		if err := cli.GetJSON(ctx, u.String(), &data); err != nil {
			return nil, fmt.Errorf("failed to reverse geocode: %w", err)
		}

		return renderFeatureCollection(data, input.Format)
	}
}
