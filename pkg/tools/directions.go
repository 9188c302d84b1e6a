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

var routingProfiles = []string{"driving-traffic", "driving", "walking", "cycling"}

// Exclusion tokens valid for every profile, and those gated on the driving
// family. Point exclusions are driving-only as well.
var (
	commonExclusions      = []string{"ferry", "cash_only_tolls"}
	drivingOnlyExclusions = []string{"toll", "motorway", "unpaved", "tunnel", "country_border", "state_border"}
)

func validRoutingProfile(p string) bool {
	for _, v := range routingProfiles {
		if p == v {
			return true
		}
	}
	return false
}

func isDrivingProfile(p string) bool {
	return p == "driving" || p == "driving-traffic"
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// validateExcludeGrammar checks each comma-separated exclusion token against
// the fixed vocabulary or the point(<lng> <lat>) literal with range-checked
// coordinates. Profile gating happens separately in
// validateDirectionsConstraints.
func validateExcludeGrammar(exclude string) error {
	for _, item := range strings.Split(exclude, ",") {
		item = strings.TrimSpace(item)

		if strings.HasPrefix(item, "point(") && strings.HasSuffix(item, ")") {
			coordStr := strings.TrimSpace(item[len("point(") : len(item)-1])
			parts := strings.SplitN(coordStr, " ", 2)
			if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
				return fmt.Errorf("invalid point format in exclude parameter: %q. Format should be point(<lng> <lat>)", item)
			}
			lng, err := strconv.ParseFloat(parts[0], 64)
			if err != nil || lng < -180 || lng > 180 {
				return fmt.Errorf("invalid longitude in exclude parameter: %q. Must be a number between -180 and 180", parts[0])
			}
			lat, err := strconv.ParseFloat(parts[1], 64)
			if err != nil || lat < -90 || lat > 90 {
				return fmt.Errorf("invalid latitude in exclude parameter: %q. Must be a number between -90 and 90", parts[1])
			}
			continue
		}

		if !contains(commonExclusions, item) && !contains(drivingOnlyExclusions, item) {
			return fmt.Errorf("invalid exclude option: %q. Available options are: toll, cash_only_tolls, motorway, ferry, unpaved, tunnel, country_border, state_border, or point(<lng> <lat>)", item)
		}
	}
	return nil
}

// directionsInput is the input contract for directions_tool.
type directionsInput struct {
	Coordinates    [][]float64 `json:"coordinates"`
	RoutingProfile string      `json:"routing_profile"`
	Geometries     string      `json:"geometries"`
	MaxHeight      *float64    `json:"max_height"`
	MaxWidth       *float64    `json:"max_width"`
	MaxWeight      *float64    `json:"max_weight"`
	Alternatives   bool        `json:"alternatives"`
	DepartAt       string      `json:"depart_at"`
	ArriveBy       string      `json:"arrive_by"`
	Exclude        string      `json:"exclude"`
}

func (in *directionsInput) applyDefaults() {
	if in.RoutingProfile == "" {
		in.RoutingProfile = "driving-traffic"
	}
	if in.Geometries == "" {
		in.Geometries = "none"
	}
}

// validate performs field-level validation: bounds and cardinality only.
func (in *directionsInput) validate() error {
	if len(in.Coordinates) < 2 {
		return fmt.Errorf("at least two coordinate pairs are required")
	}
	if len(in.Coordinates) > 25 {
		return fmt.Errorf("up to 25 coordinate pairs are supported")
	}
	for _, pair := range in.Coordinates {
		if len(pair) != 2 {
			return fmt.Errorf("each coordinate must be [longitude, latitude]")
		}
		coord := Coordinate{Longitude: pair[0], Latitude: pair[1]}
		if err := coord.Validate(); err != nil {
			return err
		}
	}
	if !validRoutingProfile(in.RoutingProfile) {
		return fmt.Errorf("invalid routing_profile: %q. Must be one of: %s",
			in.RoutingProfile, strings.Join(routingProfiles, ", "))
	}
	if in.Geometries != "none" && in.Geometries != "geojson" {
		return fmt.Errorf("invalid geometries: %q. Must be \"none\" or \"geojson\"", in.Geometries)
	}
	if in.MaxHeight != nil && (*in.MaxHeight < 0 || *in.MaxHeight > 10) {
		return fmt.Errorf("vehicle height must be between 0 and 10 meters")
	}
	if in.MaxWidth != nil && (*in.MaxWidth < 0 || *in.MaxWidth > 10) {
		return fmt.Errorf("vehicle width must be between 0 and 10 meters")
	}
	if in.MaxWeight != nil && (*in.MaxWeight < 0 || *in.MaxWeight > 100) {
		return fmt.Errorf("vehicle weight must be between 0 and 100 metric tons")
	}
	if in.DepartAt != "" {
		if err := validateISODateTime(in.DepartAt); err != nil {
			return err
		}
	}
	if in.ArriveBy != "" {
		if err := validateISODateTime(in.ArriveBy); err != nil {
			return err
		}
	}
	if in.Exclude != "" {
		if err := validateExcludeGrammar(in.Exclude); err != nil {
			return err
		}
	}
	return nil
}

// validateDirectionsConstraints enforces the cross-field rules a per-field
// schema cannot express: profile-gated parameters and the depart/arrive
// mutual exclusion. Violations fail hard, never silently drop.
func validateDirectionsConstraints(in *directionsInput) error {
	driving := isDrivingProfile(in.RoutingProfile)

	if in.Exclude != "" {
		for _, item := range strings.Split(in.Exclude, ",") {
			item = strings.TrimSpace(item)
			if strings.HasPrefix(item, "point(") && strings.HasSuffix(item, ")") && !driving {
				return fmt.Errorf("point exclusions (%s) are only available for 'driving' and 'driving-traffic' profiles", item)
			}
			if contains(drivingOnlyExclusions, item) && !driving {
				return fmt.Errorf("exclusion option %q is only available for 'driving' and 'driving-traffic' profiles", item)
			}
		}
	}

	if in.DepartAt != "" && !driving {
		return fmt.Errorf("the depart_at parameter is only available for 'driving' and 'driving-traffic' profiles")
	}
	if in.ArriveBy != "" && in.RoutingProfile != "driving" {
		return fmt.Errorf("the arrive_by parameter is only available for the 'driving' profile")
	}
	if in.DepartAt != "" && in.ArriveBy != "" {
		return fmt.Errorf("the depart_at and arrive_by parameters cannot be used together in the same request")
	}
	if (in.MaxHeight != nil || in.MaxWidth != nil || in.MaxWeight != nil) && !driving {
		return fmt.Errorf("vehicle dimension parameters (max_height, max_width, max_weight) are only available for 'driving' and 'driving-traffic' profiles")
	}
	return nil
}

// encodeExclude percent-encodes the exclude value the way the Directions API
// expects: commas, parentheses, and spaces encoded, spaces as %20 rather
// than +.
func encodeExclude(s string) string {
	r := strings.NewReplacer(
		",", "%2C",
		"(", "%28",
		")", "%29",
		" ", "%20",
	)
	return r.Replace(s)
}

// buildDirectionsURL constructs the request URL for the validated input.
func buildDirectionsURL(cli *mapbox.Client, in *directionsInput) string {
	coords := make([]string, len(in.Coordinates))
	for i, pair := range in.Coordinates {
		coords[i] = fmt.Sprintf("%v,%v", pair[0], pair[1])
	}
	joined := strings.Join(coords, ";")

	q := url.Values{}
	q.Set("access_token", cli.Token())
	if in.Geometries != "none" {
		q.Set("geometries", in.Geometries)
	}
	q.Set("alternatives", strconv.FormatBool(in.Alternatives))

	// Congestion annotations are only available with live-traffic routing.
	if in.RoutingProfile == "driving-traffic" {
		q.Set("annotations", "distance,congestion,speed")
	} else {
		q.Set("annotations", "distance,speed")
	}
	// Annotations require the full overview geometry.
	q.Set("overview", "full")

	if in.DepartAt != "" {
		q.Set("depart_at", canonicalizeISODateTime(in.DepartAt))
	} else if in.ArriveBy != "" {
		q.Set("arrive_by", canonicalizeISODateTime(in.ArriveBy))
	}

	if in.MaxHeight != nil {
		q.Set("max_height", strconv.FormatFloat(*in.MaxHeight, 'f', -1, 64))
	}
	if in.MaxWidth != nil {
		q.Set("max_width", strconv.FormatFloat(*in.MaxWidth, 'f', -1, 64))
	}
	if in.MaxWeight != nil {
		q.Set("max_weight", strconv.FormatFloat(*in.MaxWeight, 'f', -1, 64))
	}
	q.Set("steps", "true")

	queryString := q.Encode()
	if in.Exclude != "" {
		queryString += "&exclude=" + encodeExclude(in.Exclude)
	}

	return fmt.Sprintf("%sdirections/v5/mapbox/%s/%s?%s",
		cli.Endpoint(), in.RoutingProfile, joined, queryString)
}

// DirectionsTool returns the tool definition for routing.
func DirectionsTool() mcp.Tool {
	return mcp.NewTool("directions_tool",
		mcp.WithDescription("Fetches directions from Mapbox API based on provided coordinates and direction method."),
		mcp.WithArray("coordinates",
			mcp.Required(),
			mcp.Description("Array of [longitude, latitude] coordinate pairs to visit in order. "+
				"Must include at least 2 coordinate pairs (starting and ending points). "+
				"Up to 25 coordinates total are supported."),
		),
		mcp.WithString("routing_profile",
			mcp.Description("Routing profile for different modes of transport. Options: \n"+
				"- driving-traffic (default): automotive with current traffic conditions\n"+
				"- driving: automotive based on typical traffic\n"+
				"- walking: pedestrian/hiking\n"+
				"- cycling: bicycle"),
			mcp.Enum(routingProfiles...),
			mcp.DefaultString("driving-traffic"),
		),
		mcp.WithString("geometries",
			mcp.Description("The format of the returned geometry. Options: \n"+
				"- none (default): no geometry object is returned at all, use this if you do not need all of the intermediate coordinates.\n"+
				"- geojson: as GeoJSON LineString (might be very long as there could be a lot of points)"),
			mcp.Enum("none", "geojson"),
			mcp.DefaultString("none"),
		),
		mcp.WithNumber("max_height",
			mcp.Description("The max vehicle height, in meters. The Directions API will compute a route that includes only roads "+
				"with a height limit greater than or equal to the max vehicle height. "+
				"Must be between 0 and 10 meters. The default value is 1.6 meters. "+
				"Only available for driving and driving-traffic profiles."),
		),
		mcp.WithNumber("max_width",
			mcp.Description("The max vehicle width, in meters. The Directions API will compute a route that includes only roads "+
				"with a width limit greater than or equal to the max vehicle width. "+
				"Must be between 0 and 10 meters. The default value is 1.9 meters. "+
				"Only available for driving and driving-traffic profiles."),
		),
		mcp.WithNumber("max_weight",
			mcp.Description("The max vehicle weight, in metric tons (1000 kg). The Directions API will compute a route that includes only roads "+
				"with a weight limit greater than or equal to the max vehicle weight. "+
				"Must be between 0 and 100 metric tons. The default value is 2.5 metric tons. "+
				"Only available for driving and driving-traffic profiles."),
		),
		mcp.WithBoolean("alternatives",
			mcp.Description("Whether to try to return alternative routes (true) or not (false, default). "+
				"Up to two alternatives may be returned."),
			mcp.DefaultBool(false),
		),
		mcp.WithString("depart_at",
			mcp.Description("The departure time in ISO 8601 format (YYYY-MM-DDThh:mm:ssZ, YYYY-MM-DDThh:mm:ss±hh:mm, or YYYY-MM-DDThh:mm). "+
				"This parameter is only available for the driving and driving-traffic profiles. "+
				"The travel time will be calculated based on historical and real-time traffic data."),
		),
		mcp.WithString("arrive_by",
			mcp.Description("The desired arrival time in ISO 8601 format (YYYY-MM-DDThh:mm:ssZ, YYYY-MM-DDThh:mm:ss±hh:mm, or YYYY-MM-DDThh:mm). "+
				"This parameter is only available for the driving profile and is not supported by other profiles, not even driving-traffic. "+
				"The travel time will be calculated based on historical and real-time traffic data."),
		),
		mcp.WithString("exclude",
			mcp.Description("Whether to exclude certain road types and custom locations from routing. "+
				"Multiple values can be specified as a comma-separated list. "+
				"Available options:\n"+
				"- All profiles: ferry, cash_only_tolls\n"+
				"- Driving/Driving-traffic profiles only: motorway, toll, unpaved, tunnel, country_border, state_border or point(<lng> <lat>)\n"+
				"For custom locations you can use Point exclusions (note lng and lat are space separated and at most 50 points are allowed)\n"+
				"Note: country_border excludes all controlled country borders; borders within the Schengen Area are not excluded."),
		),
	)
}

// HandleDirections implements routing against the Directions API. The raw
// trip plan is compressed before being returned so the result stays small
// enough to be useful to a language model.
func HandleDirections(cli *mapbox.Client) toolHandler {
	return func(ctx context.Context, req mcp.CallToolRequest) (any, error) {
		var input directionsInput
		if err := decodeInput(req, &input); err != nil {
			return nil, err
		}
		input.applyDefaults()
		if err := input.validate(); err != nil {
			return nil, err
		}
		if err := validateDirectionsConstraints(&input); err != nil {
			return nil, err
		}

		var data map[string]any
		if err := cli.GetJSON(ctx, buildDirectionsURL(cli, &input), &data); err != nil {
			return nil, err
		}

		return cleanRouteResponse(input.Geometries, data), nil
	}
}
