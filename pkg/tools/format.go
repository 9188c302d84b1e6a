package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// noResultsText is the fixed sentinel rendered when an upstream feature
// collection is empty.
const noResultsText = "No results found."

const (
	formatJSONString    = "json_string"
	formatFormattedText = "formatted_text"
)

// renderFeatureCollection shapes a decoded GeoJSON response according to the
// output format flag. json_string carries the verbatim structure, even when
// the feature set is empty; formatted_text is the compact human-readable
// rendering.
func renderFeatureCollection(data map[string]any, format string) (mcp.TextContent, error) {
	if format == formatJSONString {
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return mcp.TextContent{}, fmt.Errorf("failed to serialize response: %w", err)
		}
		return mcp.TextContent{Type: "text", Text: string(out)}, nil
	}
	return mcp.TextContent{Type: "text", Text: formatGeoJSONToText(data)}, nil
}

// formatGeoJSONToText renders one numbered block per feature: name (with the
// preferred name in parentheses when present), address, coordinates as
// "latitude, longitude", feature type, and categories. Absent fields are
// omitted entirely.
func formatGeoJSONToText(data map[string]any) string {
	features, _ := data["features"].([]any)
	if len(features) == 0 {
		return noResultsText
	}

	blocks := make([]string, 0, len(features))
	for i, f := range features {
		feature, _ := f.(map[string]any)
		props, _ := feature["properties"].(map[string]any)
		geom, _ := feature["geometry"].(map[string]any)

		var b strings.Builder
		fmt.Fprintf(&b, "%d. ", i+1)

		name, _ := props["name"].(string)
		b.WriteString(name)
		if preferred, ok := props["name_preferred"].(string); ok && preferred != "" {
			fmt.Fprintf(&b, " (%s)", preferred)
		}

		if addr, ok := props["full_address"].(string); ok && addr != "" {
			fmt.Fprintf(&b, "\n   Address: %s", addr)
		} else if addr, ok := props["place_formatted"].(string); ok && addr != "" {
			fmt.Fprintf(&b, "\n   Address: %s", addr)
		}

		if coords, ok := geom["coordinates"].([]any); ok && len(coords) >= 2 {
			lng, okLng := toFloat(coords[0])
			lat, okLat := toFloat(coords[1])
			if okLng && okLat {
				fmt.Fprintf(&b, "\n   Coordinates: %v, %v", lat, lng)
			}
		}

		if ft, ok := props["feature_type"].(string); ok && ft != "" {
			fmt.Fprintf(&b, "\n   Type: %s", ft)
		}

		if cats, ok := props["poi_category"].([]any); ok && len(cats) > 0 {
			names := make([]string, 0, len(cats))
			for _, c := range cats {
				if s, ok := c.(string); ok {
					names = append(names, s)
				}
			}
			fmt.Fprintf(&b, "\n   Category: %s", strings.Join(names, ", "))
		} else if cat, ok := props["category"].(string); ok && cat != "" {
			fmt.Fprintf(&b, "\n   Category: %s", cat)
		}

		blocks = append(blocks, b.String())
	}

	return strings.Join(blocks, "\n\n")
}
