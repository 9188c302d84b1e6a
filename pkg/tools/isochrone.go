package tools

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/NERVsystems/mapboxmcp/pkg/mapbox"
)

var isochroneProfiles = []string{
	"mapbox/driving-traffic",
	"mapbox/driving",
	"mapbox/cycling",
	"mapbox/walking",
}

var isochroneExclusions = []string{"motorway", "toll", "ferry", "unpaved", "cash_only_tolls"}

var hexColorPattern = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// isochroneInput is the input contract for isochrone_tool.
type isochroneInput struct {
	Profile         string     `json:"profile"`
	Coordinates     Coordinate `json:"coordinates"`
	ContoursMinutes []int      `json:"contours_minutes"`
	ContoursMeters  []int      `json:"contours_meters"`
	ContoursColors  []string   `json:"contours_colors"`
	Polygons        bool       `json:"polygons"`
	Denoise         *float64   `json:"denoise"`
	Generalize      *float64   `json:"generalize"`
	Exclude         []string   `json:"exclude"`
	DepartAt        string     `json:"depart_at"`
}

func (in *isochroneInput) applyDefaults() {
	if in.Profile == "" {
		in.Profile = "mapbox/driving-traffic"
	}
	if in.Denoise == nil {
		d := 1.0
		in.Denoise = &d
	}
}

func (in *isochroneInput) validate() error {
	if !contains(isochroneProfiles, in.Profile) {
		return fmt.Errorf("invalid profile: %q. Must be one of: %s", in.Profile, strings.Join(isochroneProfiles, ", "))
	}
	if err := in.Coordinates.ValidateTile(); err != nil {
		return err
	}
	if len(in.ContoursMinutes) > 4 {
		return fmt.Errorf("contours_minutes supports at most 4 values")
	}
	for _, m := range in.ContoursMinutes {
		if m < 1 || m > 60 {
			return fmt.Errorf("invalid contours_minutes value %d: must be between 1 and 60", m)
		}
	}
	if len(in.ContoursMeters) > 4 {
		return fmt.Errorf("contours_meters supports at most 4 values")
	}
	for _, m := range in.ContoursMeters {
		if m < 1 || m > 100000 {
			return fmt.Errorf("invalid contours_meters value %d: must be between 1 and 100000", m)
		}
	}
	if len(in.ContoursColors) > 4 {
		return fmt.Errorf("contours_colors supports at most 4 values")
	}
	for _, c := range in.ContoursColors {
		if !hexColorPattern.MatchString(c) {
			return fmt.Errorf("invalid contours_colors value %q: must be a 6-digit hex color without the leading #", c)
		}
	}
	if *in.Denoise < 0 || *in.Denoise > 1 {
		return fmt.Errorf("denoise must be between 0 and 1")
	}
	if in.Generalize == nil {
		return fmt.Errorf("generalize is required")
	}
	if *in.Generalize < 0 {
		return fmt.Errorf("generalize must be a positive number in meters")
	}
	for _, e := range in.Exclude {
		if !contains(isochroneExclusions, e) {
			return fmt.Errorf("invalid exclude value %q. Must be one of: %s", e, strings.Join(isochroneExclusions, ", "))
		}
	}
	if in.DepartAt != "" {
		if err := validateISODateTime(in.DepartAt); err != nil {
			return fmt.Errorf("depart_at: %w", err)
		}
	}
	return nil
}

// validateIsochroneConstraints enforces the cross-field rules: a contour set
// must be present, and colors, when given, pair up with the contour values.
func validateIsochroneConstraints(in *isochroneInput) error {
	if len(in.ContoursMinutes) == 0 && len(in.ContoursMeters) == 0 {
		return fmt.Errorf("at least one of 'contours_minutes' or 'contours_meters' must be provided")
	}
	if len(in.ContoursColors) > 0 {
		contourCount := len(in.ContoursMinutes)
		if contourCount == 0 {
			contourCount = len(in.ContoursMeters)
		}
		if len(in.ContoursColors) != contourCount {
			return fmt.Errorf("contours_colors length must match the number of contour values")
		}
	}
	return nil
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// IsochroneTool returns the tool definition for reachability contours.
func IsochroneTool() mcp.Tool {
	return mcp.NewTool("isochrone_tool",
		mcp.WithDescription("Computes areas that are reachable within a specified amount of time from a location, "+
			"and returns the reachable regions as contours of Polygons or LineStrings in GeoJSON format that you can display on a map.\n"+
			"Common use cases:\n"+
			"- Show a user how far they can travel in X minutes from their current location\n"+
			"- Determine whether a destination is within a certain travel time threshold\n"+
			"- Compare travel ranges for different modes of transportation"),
		mcp.WithString("profile",
			mcp.Description("Mode of travel."),
			mcp.Enum(isochroneProfiles...),
			mcp.DefaultString("mapbox/driving-traffic"),
		),
		mcp.WithObject("coordinates",
			mcp.Required(),
			mcp.Description("A coordinate object with longitude and latitude properties around which to center "+
				"the isochrone lines. Longitude: -180 to 180, Latitude: -85.0511 to 85.0511"),
		),
		mcp.WithArray("contours_minutes",
			mcp.Description("Contour times in minutes. Times must be in increasing order. "+
				"Must be specified either contours_minutes or contours_meters."),
		),
		mcp.WithArray("contours_meters",
			mcp.Description("Distances in meters. Distances must be in increasing order. "+
				"Must be specified either contours_minutes or contours_meters."),
		),
		mcp.WithArray("contours_colors",
			mcp.Description("Contour colors as hex strings without starting # (for example ff0000 for red). "+
				"Must match contours_minutes or contours_meters length if provided."),
		),
		mcp.WithBoolean("polygons",
			mcp.Description("Whether to return Polygons (true) or LineStrings (false)."),
			mcp.DefaultBool(false),
		),
		mcp.WithNumber("denoise",
			mcp.Description("A floating point value between 0 and 1 that can be used to remove smaller contours. "+
				"A value of 1.0 will only return the largest contour for a given value."),
			mcp.DefaultNumber(1),
		),
		mcp.WithNumber("generalize",
			mcp.Required(),
			mcp.Description("Positive number in meters that is used to simplify geometries.\n"+
				"- Walking: use 0-500. Prefer 50-200 for short contours (minutes < 10 or meters < 5000), 300-500 as they grow.\n"+
				"- Driving: use 1000-5000. Start at 2000, use 3000 if minutes > 10 or meters > 20000. Use 4000-5000 if near 60 minutes or 100000 meters."),
		),
		mcp.WithArray("exclude",
			mcp.Description("Exclude certain road types and custom locations from routing. "+
				"Options: "+strings.Join(isochroneExclusions, ", ")+"."),
		),
		mcp.WithString("depart_at",
			mcp.Description("An ISO 8601 date-time string representing the time to depart (format string: YYYY-MM-DDThh:mm:ss±hh:mm)."),
		),
	)
}

// HandleIsochrone computes reachability contours via the Isochrone API and
// returns the GeoJSON response unchanged.
func HandleIsochrone(cli *mapbox.Client) toolHandler {
	return func(ctx context.Context, req mcp.CallToolRequest) (any, error) {
		var input isochroneInput
		if err := decodeInput(req, &input); err != nil {
			return nil, err
		}
		input.applyDefaults()
		if err := input.validate(); err != nil {
			return nil, err
		}
		if err := validateIsochroneConstraints(&input); err != nil {
			return nil, err
		}

		q := url.Values{}
		q.Set("access_token", cli.Token())
		if len(input.ContoursMinutes) > 0 {
			q.Set("contours_minutes", joinInts(input.ContoursMinutes))
		}
		if len(input.ContoursMeters) > 0 {
			q.Set("contours_meters", joinInts(input.ContoursMeters))
		}
		if len(input.ContoursColors) > 0 {
			q.Set("contours_colors", strings.Join(input.ContoursColors, ","))
		}
		if input.Polygons {
			q.Set("polygons", "true")
		}
		if *input.Denoise != 0 {
			q.Set("denoise", strconv.FormatFloat(*input.Denoise, 'f', -1, 64))
		}
		if *input.Generalize != 0 {
			q.Set("generalize", strconv.FormatFloat(*input.Generalize, 'f', -1, 64))
		}
		if len(input.Exclude) > 0 {
			q.Set("exclude", strings.Join(input.Exclude, ","))
		}
		if input.DepartAt != "" {
			q.Set("depart_at", canonicalizeISODateTime(input.DepartAt))
		}

		requestURL := fmt.Sprintf("%sisochrone/v1/%s/%s?%s",
			cli.Endpoint(), input.Profile,
			url.QueryEscape(input.Coordinates.String()), q.Encode())

		var data map[string]any
		if err := cli.GetJSON(ctx, requestURL, &data); err != nil {
			return nil, err
		}
		return data, nil
	}
}
