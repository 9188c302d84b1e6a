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

var matrixAnnotations = []string{"duration", "distance", "duration,distance", "distance,duration"}

// matrixInput is the input contract for matrix_tool.
type matrixInput struct {
	Coordinates  []Coordinate `json:"coordinates"`
	Profile      string       `json:"profile"`
	Annotations  string       `json:"annotations"`
	Approaches   string       `json:"approaches"`
	Bearings     string       `json:"bearings"`
	Destinations string       `json:"destinations"`
	Sources      string       `json:"sources"`
}

// validate performs field-level validation of coordinates and enums.
func (in *matrixInput) validate() error {
	if len(in.Coordinates) < 2 {
		return fmt.Errorf("at least two coordinate pairs are required")
	}
	if len(in.Coordinates) > 25 {
		return fmt.Errorf("up to 25 coordinate pairs are supported for most profiles (10 for driving-traffic)")
	}
	for _, coord := range in.Coordinates {
		if err := coord.Validate(); err != nil {
			return err
		}
	}
	if !validRoutingProfile(in.Profile) {
		return fmt.Errorf("invalid profile: %q. Must be one of: %s", in.Profile, strings.Join(routingProfiles, ", "))
	}
	if in.Annotations != "" && !contains(matrixAnnotations, in.Annotations) {
		return fmt.Errorf("invalid annotations: %q. Must be one of: %s", in.Annotations, strings.Join(matrixAnnotations, ", "))
	}
	return nil
}

// validateMatrixConstraints enforces the cross-field rules: the
// traffic-aware coordinate cap, parallel-array lengths for approaches and
// bearings, index bounds for sources/destinations, and the requirement that
// a doubly-restricted matrix still references every coordinate.
func validateMatrixConstraints(in *matrixInput) error {
	if in.Profile == "driving-traffic" && len(in.Coordinates) > 10 {
		return fmt.Errorf("the driving-traffic profile supports a maximum of 10 coordinate pairs")
	}

	if in.Approaches != "" {
		entries := strings.Split(in.Approaches, ";")
		if len(entries) != len(in.Coordinates) {
			return fmt.Errorf("when provided, the number of approaches (including empty/skipped) must match the number of coordinates")
		}
		for _, approach := range entries {
			if approach != "" && approach != "curb" && approach != "unrestricted" {
				return fmt.Errorf(`approaches parameter contains invalid values. Each value must be either "curb" or "unrestricted"`)
			}
		}
	}

	if in.Bearings != "" {
		entries := strings.Split(in.Bearings, ";")
		if len(entries) != len(in.Coordinates) {
			return fmt.Errorf("when provided, the number of bearings (including empty/skipped) must match the number of coordinates")
		}
		for idx, bearing := range entries {
			if strings.TrimSpace(bearing) == "" {
				continue // skipped coordinate
			}
			parts := strings.Split(bearing, ",")
			if len(parts) != 2 {
				return fmt.Errorf("invalid bearings format at index %d: %q. Each bearing must be two comma-separated numbers (angle,degrees)", idx, bearing)
			}
			angle, err := strconv.ParseFloat(parts[0], 64)
			if err != nil || angle < 0 || angle > 360 {
				return fmt.Errorf("invalid bearing angle at index %d: %q. Angle must be a number between 0 and 360", idx, parts[0])
			}
			degrees, err := strconv.ParseFloat(parts[1], 64)
			if err != nil || degrees < 0 || degrees > 180 {
				return fmt.Errorf("invalid bearing degrees at index %d: %q. Degrees must be a number between 0 and 180", idx, parts[1])
			}
		}
	}

	sourceIndices, err := parseIndexList("sources", in.Sources, len(in.Coordinates))
	if err != nil {
		return err
	}
	destinationIndices, err := parseIndexList("destinations", in.Destinations, len(in.Coordinates))
	if err != nil {
		return err
	}

	// When both ends of the matrix are restricted, every input coordinate
	// must be referenced by at least one of them.
	if sourceIndices != nil && destinationIndices != nil {
		used := make(map[int]bool)
		for _, i := range sourceIndices {
			used[i] = true
		}
		for _, i := range destinationIndices {
			used[i] = true
		}
		if len(used) < len(in.Coordinates) {
			return fmt.Errorf("when specifying both sources and destinations, all coordinates must be used as either a source or destination")
		}
	}

	return nil
}

// parseIndexList parses a semicolon-separated index list, returning nil for
// absent values or the literal "all". Every index must lie within
// [0, count-1].
func parseIndexList(name, value string, count int) ([]int, error) {
	if value == "" || value == "all" {
		return nil, nil
	}
	parts := strings.Split(value, ";")
	indices := make([]int, 0, len(parts))
	for _, p := range parts {
		idx, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || idx < 0 || idx >= count {
			return nil, fmt.Errorf("%s parameter contains invalid indices. All indices must be between 0 and %d", name, count-1)
		}
		indices = append(indices, idx)
	}
	return indices, nil
}

// MatrixTool returns the tool definition for travel-time matrices.
func MatrixTool() mcp.Tool {
	return mcp.NewTool("matrix_tool",
		mcp.WithDescription("Calculates travel times and distances between multiple points using Mapbox Matrix API."),
		mcp.WithArray("coordinates",
			mcp.Required(),
			mcp.Description("Array of coordinate objects with longitude and latitude properties. "+
				"Must include at least 2 coordinate pairs. "+
				"Up to 25 coordinates total are supported for most profiles (10 for driving-traffic)."),
		),
		mcp.WithString("profile",
			mcp.Required(),
			mcp.Description("Routing profile for different modes of transport. Options: \n"+
				"- driving-traffic: automotive with current traffic conditions (limited to 10 coordinates)\n"+
				"- driving: automotive based on typical traffic\n"+
				"- walking: pedestrian/hiking\n"+
				"- cycling: bicycle"),
			mcp.Enum(routingProfiles...),
		),
		mcp.WithString("annotations",
			mcp.Description("Specifies the resulting matrices. Possible values are: duration (default), distance, or both values separated by a comma."),
			mcp.Enum(matrixAnnotations...),
		),
		mcp.WithString("approaches",
			mcp.Description("A semicolon-separated list indicating the side of the road from which to approach waypoints. "+
				`Accepts "unrestricted" (default, route can arrive at the waypoint from either side of the road) `+
				`or "curb" (route will arrive at the waypoint on the driving_side of the region). `+
				"If provided, the number of approaches must be the same as the number of waypoints. "+
				"You can skip a coordinate and show its position with the ; separator."),
		),
		mcp.WithString("bearings",
			mcp.Description("A semicolon-separated list of headings and allowed deviation indicating the direction of movement. "+
				"Input as two comma-separated values per location: a heading course measured clockwise from true north "+
				"between 0 and 360, and the range of degrees by which the angle can deviate (recommended value is 45° or 90°), "+
				"formatted as {angle,degrees}. If provided, the number of bearings must equal the number of coordinates. "+
				"You can skip a coordinate and show its position in the list with the ; separator."),
		),
		mcp.WithString("destinations",
			mcp.Description("Use the coordinates at given indices as destinations. "+
				`Possible values are: a semicolon-separated list of 0-based indices, or "all" (default). `+
				`The option "all" allows using all coordinates as destinations.`),
		),
		mcp.WithString("sources",
			mcp.Description("Use the coordinates at given indices as sources. "+
				`Possible values are: a semicolon-separated list of 0-based indices, or "all" (default). `+
				`The option "all" allows using all coordinates as sources.`),
		),
	)
}

// HandleMatrix implements travel-time/distance matrices against the Matrix
// API. The upstream response is already compact and is returned as-is.
func HandleMatrix(cli *mapbox.Client) toolHandler {
	return func(ctx context.Context, req mcp.CallToolRequest) (any, error) {
		var input matrixInput
		if err := decodeInput(req, &input); err != nil {
			return nil, err
		}
		if err := input.validate(); err != nil {
			return nil, err
		}
		if err := validateMatrixConstraints(&input); err != nil {
			return nil, err
		}

		coords := make([]string, len(input.Coordinates))
		for i, c := range input.Coordinates {
			coords[i] = c.String()
		}

		q := url.Values{}
		q.Set("access_token", cli.Token())
		if input.Annotations != "" {
			q.Set("annotations", input.Annotations)
		}
		if input.Approaches != "" {
			q.Set("approaches", input.Approaches)
		}
		if input.Bearings != "" {
			q.Set("bearings", input.Bearings)
		}
		if input.Destinations != "" {
			q.Set("destinations", input.Destinations)
		}
		if input.Sources != "" {
			q.Set("sources", input.Sources)
		}

		requestURL := fmt.Sprintf("%sdirections-matrix/v1/mapbox/%s/%s?%s",
			cli.Endpoint(), input.Profile, strings.Join(coords, ";"), q.Encode())

		var data map[string]any
		if err := cli.GetJSON(ctx, requestURL, &data); err != nil {
			return nil, err
		}
		return data, nil
	}
}
