package tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/NERVsystems/mapboxmcp/pkg/mapbox"
)

// makiIcons is the set of icon names the Static Images API accepts as
// marker labels.
var makiIcons = []string{
	"aerialway", "airfield", "airport", "alcohol-shop", "american-football", "amusement-park",
	"animal-shelter", "aquarium", "arrow", "art-gallery", "attraction", "bakery", "bank-JP",
	"bank", "bar", "barrier", "baseball", "basketball", "bbq", "beach", "beer", "bicycle-share",
	"bicycle", "blood-bank", "bowling-alley", "bridge", "building-alt1", "building", "bus",
	"cafe", "campsite", "car-rental", "car-repair", "car", "casino", "castle-JP", "castle",
	"caution", "cemetery-JP", "cemetery", "charging-station", "cinema", "circle-stroked",
	"circle", "city", "clothing-store", "college-JP", "college", "commercial",
	"communications-tower", "confectionery", "construction", "convenience", "cricket", "cross",
	"dam", "danger", "defibrillator", "dentist", "diamond", "doctor", "dog-park",
	"drinking-water", "elevator", "embassy", "emergency-phone", "entrance-alt1", "entrance",
	"farm", "fast-food", "fence", "ferry-JP", "ferry", "fire-station-JP", "fire-station",
	"fitness-centre", "florist", "fuel", "furniture", "gaming", "garden-centre", "garden", "gate",
	"gift", "globe", "golf", "grocery", "hairdresser", "harbor", "hardware", "heart", "heliport",
	"highway-rest-area", "historic", "home", "horse-riding", "hospital-JP", "hospital",
	"hot-spring", "ice-cream", "industry", "information", "jewelry-store", "karaoke",
	"landmark-JP", "landmark", "landuse", "laundry", "library", "lift-gate", "lighthouse-JP",
	"lighthouse", "lodging", "logging", "marae", "marker-stroked", "marker", "mobile-phone",
	"monument-JP", "monument", "mountain", "museum", "music", "natural", "nightclub",
	"observation-tower", "optician", "paint", "park-alt1", "park", "parking-garage",
	"parking-paid", "parking", "pharmacy", "picnic-site", "pitch", "place-of-worship",
	"playground", "police-JP", "police", "post-JP", "post", "prison", "racetrack-boat",
	"racetrack-cycling", "racetrack-horse", "racetrack", "rail-light", "rail-metro", "rail",
	"ranger-station", "recycling", "religious-buddhist", "religious-christian",
	"religious-jewish", "religious-muslim", "religious-shinto", "residential-community",
	"restaurant-bbq", "restaurant-noodle", "restaurant-pizza", "restaurant-seafood",
	"restaurant-sushi", "restaurant", "road-accident", "roadblock", "rocket", "school-JP",
	"school", "scooter", "shelter", "shoe", "shop", "skateboard", "skiing", "slaughterhouse",
	"slipway", "snowmobile", "soccer", "square-stroked", "square", "stadium", "star-stroked",
	"star", "suitcase", "swimming", "table-tennis", "taxi", "teahouse", "telephone", "tennis",
	"terminal", "theatre", "toilet", "toll", "town-hall", "town", "triangle-stroked", "triangle",
	"tunnel", "veterinary", "viewpoint", "village", "volcano", "volleyball", "warehouse",
	"waste-basket", "watch", "water", "waterfall", "watermill", "wetland", "wheelchair",
	"windmill", "zoo",}

var markerColorPattern = regexp.MustCompile(`^[0-9a-fA-F]{3}([0-9a-fA-F]{3})?$`)

var singleLetterPattern = regexp.MustCompile(`^[a-z]$`)

var labelNumberPattern = regexp.MustCompile(`^[0-9]{1,2}$`)

var overlayTypes = []string{"marker", "custom-marker", "path", "geojson"}

// overlayInput is one element of the overlays array. Type selects which of
// the remaining fields apply.
type overlayInput struct {
	Type string `json:"type"`

	// marker and custom-marker
	Longitude *float64 `json:"longitude"`
	Latitude  *float64 `json:"latitude"`

	// marker
	Size  string `json:"size"`
	Label string `json:"label"`
	Color string `json:"color"`

	// custom-marker
	URL string `json:"url"`

	// path
	EncodedPolyline string   `json:"encodedPolyline"`
	StrokeWidth     *float64 `json:"strokeWidth"`
	StrokeColor     string   `json:"strokeColor"`
	StrokeOpacity   *float64 `json:"strokeOpacity"`
	FillColor       string   `json:"fillColor"`
	FillOpacity     *float64 `json:"fillOpacity"`

	// geojson
	Data any `json:"data"`
}

// normalizeMarkerLabel lowercases a marker label and keeps it when it is a
// single letter, a number 0-99 or a known Maki icon name. Anything else is
// truncated to its first character.
func normalizeMarkerLabel(label string) string {
	if label == "" {
		return ""
	}
	lower := strings.ToLower(label)
	if singleLetterPattern.MatchString(lower) ||
		labelNumberPattern.MatchString(label) ||
		contains(makiIcons, lower) {
		return lower
	}
	return string([]rune(lower)[0:1])
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// validate checks the fields required by the overlay's type.
func (o *overlayInput) validate() error {
	switch o.Type {
	case "marker", "custom-marker":
		if o.Longitude == nil || o.Latitude == nil {
			return fmt.Errorf("%s overlay requires longitude and latitude", o.Type)
		}
		coord := Coordinate{Longitude: *o.Longitude, Latitude: *o.Latitude}
		if err := coord.ValidateTile(); err != nil {
			return err
		}
		if o.Type == "marker" {
			if o.Size != "" && o.Size != "small" && o.Size != "large" {
				return fmt.Errorf(`invalid marker size %q. Must be "small" or "large"`, o.Size)
			}
			if o.Color != "" && !markerColorPattern.MatchString(o.Color) {
				return fmt.Errorf("invalid marker color %q: must be a 3 or 6 digit hex color without #", o.Color)
			}
		} else if o.URL == "" {
			return fmt.Errorf("custom-marker overlay requires a url")
		}
	case "path":
		if o.EncodedPolyline == "" {
			return fmt.Errorf("path overlay requires an encodedPolyline")
		}
		if o.StrokeWidth != nil && *o.StrokeWidth < 1 {
			return fmt.Errorf("strokeWidth must be at least 1")
		}
		if o.StrokeColor != "" && !markerColorPattern.MatchString(o.StrokeColor) {
			return fmt.Errorf("invalid strokeColor %q: must be a 3 or 6 digit hex color without #", o.StrokeColor)
		}
		if o.FillColor != "" && !markerColorPattern.MatchString(o.FillColor) {
			return fmt.Errorf("invalid fillColor %q: must be a 3 or 6 digit hex color without #", o.FillColor)
		}
		if o.StrokeOpacity != nil && (*o.StrokeOpacity < 0 || *o.StrokeOpacity > 1) {
			return fmt.Errorf("strokeOpacity must be between 0 and 1")
		}
		if o.FillOpacity != nil && (*o.FillOpacity < 0 || *o.FillOpacity > 1) {
			return fmt.Errorf("fillOpacity must be between 0 and 1")
		}
	case "geojson":
		if o.Data == nil {
			return fmt.Errorf("geojson overlay requires a data object")
		}
	default:
		return fmt.Errorf("invalid overlay type %q. Must be one of: %s", o.Type, strings.Join(overlayTypes, ", "))
	}
	return nil
}

// encode renders the overlay as a path segment of the Static Images URL.
func (o *overlayInput) encode() (string, error) {
	switch o.Type {
	case "marker":
		pin := "pin-s"
		if o.Size == "large" {
			pin = "pin-l"
		}
		if label := normalizeMarkerLabel(o.Label); label != "" {
			pin += "-" + label
		}
		if o.Color != "" {
			pin += "+" + o.Color
		}
		return fmt.Sprintf("%s(%s,%s)", pin, formatFloat(*o.Longitude), formatFloat(*o.Latitude)), nil
	case "custom-marker":
		return fmt.Sprintf("url-%s(%s,%s)", url.QueryEscape(o.URL),
			formatFloat(*o.Longitude), formatFloat(*o.Latitude)), nil
	case "path":
		width := 5.0
		if o.StrokeWidth != nil {
			width = *o.StrokeWidth
		}
		path := "path-" + formatFloat(width)
		if o.StrokeColor != "" {
			path += "+" + o.StrokeColor
			if o.StrokeOpacity != nil {
				path += "-" + formatFloat(*o.StrokeOpacity)
			}
		}
		if o.FillColor != "" {
			path += "+" + o.FillColor
			if o.FillOpacity != nil {
				path += "-" + formatFloat(*o.FillOpacity)
			}
		}
		return fmt.Sprintf("%s(%s)", path, url.QueryEscape(o.EncodedPolyline)), nil
	case "geojson":
		raw, err := json.Marshal(o.Data)
		if err != nil {
			return "", fmt.Errorf("failed to encode geojson overlay: %w", err)
		}
		return fmt.Sprintf("geojson(%s)", url.QueryEscape(string(raw))), nil
	}
	return "", fmt.Errorf("invalid overlay type %q", o.Type)
}

// imageSize is the requested pixel size of the rendered map.
type imageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// staticMapInput is the input contract for static_map_image_tool.
type staticMapInput struct {
	Center      Coordinate     `json:"center"`
	Zoom        *float64       `json:"zoom"`
	Size        imageSize      `json:"size"`
	Style       string         `json:"style"`
	HighDensity bool           `json:"highDensity"`
	Overlays    []overlayInput `json:"overlays"`
}

func (in *staticMapInput) applyDefaults() {
	if in.Style == "" {
		in.Style = "mapbox/streets-v12"
	}
}

func (in *staticMapInput) validate() error {
	if err := in.Center.ValidateTile(); err != nil {
		return err
	}
	if in.Zoom == nil {
		return fmt.Errorf("zoom is required")
	}
	if *in.Zoom < 0 || *in.Zoom > 22 {
		return fmt.Errorf("zoom must be between 0 and 22")
	}
	if in.Size.Width < 1 || in.Size.Width > 1280 {
		return fmt.Errorf("image width must be between 1 and 1280 pixels")
	}
	if in.Size.Height < 1 || in.Size.Height > 1280 {
		return fmt.Errorf("image height must be between 1 and 1280 pixels")
	}
	for i := range in.Overlays {
		if err := in.Overlays[i].validate(); err != nil {
			return fmt.Errorf("overlay %d: %w", i, err)
		}
	}
	return nil
}

// StaticMapImageTool returns the tool definition for static map rendering.
func StaticMapImageTool() mcp.Tool {
	return mcp.NewTool("static_map_image_tool",
		mcp.WithDescription("Generates a static map image from Mapbox Static Images API. "+
			"Supports center coordinates, zoom level (0-22), image size (up to 1280x1280), "+
			"various Mapbox styles, and overlays (markers, paths, GeoJSON). "+
			"Returns PNG for vector styles, JPEG for raster-only styles."),
		mcp.WithObject("center",
			mcp.Required(),
			mcp.Description("Center point of the map as coordinate object with longitude and latitude properties. "+
				"Longitude: -180 to 180, Latitude: -85.0511 to 85.0511"),
		),
		mcp.WithNumber("zoom",
			mcp.Required(),
			mcp.Description("Zoom level (0-22). Fractional zoom levels are rounded to two decimal places"),
		),
		mcp.WithObject("size",
			mcp.Required(),
			mcp.Description("Image size as object with width and height properties in pixels. "+
				"Each dimension must be between 1 and 1280 pixels"),
		),
		mcp.WithString("style",
			mcp.Description("Mapbox style ID (e.g., mapbox/streets-v12, mapbox/satellite-v9, mapbox/dark-v11)"),
			mcp.DefaultString("mapbox/streets-v12"),
		),
		mcp.WithBoolean("highDensity",
			mcp.Description("Whether to return a high-density (2x) image"),
			mcp.DefaultBool(false),
		),
		mcp.WithArray("overlays",
			mcp.Description("Array of overlays to add to the map. Each overlay is an object whose type field is "+
				"marker (longitude, latitude, optional size small|large, optional label, optional hex color), "+
				"custom-marker (longitude, latitude, url of a PNG or JPEG image up to 1024px), "+
				"path (encodedPolyline with 5 decimal place precision, optional strokeWidth, strokeColor, "+
				"strokeOpacity, fillColor, fillOpacity) or "+
				"geojson (data holding a Point, MultiPoint, LineString, or Polygon). "+
				"Marker labels may be a single letter (a-z), a number (0-99), or a Maki icon name; "+
				"longer labels that are not Maki icons are truncated to their first character. "+
				"Overlays are rendered in order (last item appears on top)"),
		),
	)
}

// HandleStaticMapImage renders a static map and returns it as inline image
// content. Raster-only (satellite) styles come back as JPEG, everything else
// as PNG.
func HandleStaticMapImage(cli *mapbox.Client) toolHandler {
	return func(ctx context.Context, req mcp.CallToolRequest) (any, error) {
		var input staticMapInput
		if err := decodeInput(req, &input); err != nil {
			return nil, err
		}
		input.applyDefaults()
		if err := input.validate(); err != nil {
			return nil, err
		}

		var overlayString string
		if len(input.Overlays) > 0 {
			encoded := make([]string, len(input.Overlays))
			for i := range input.Overlays {
				segment, err := input.Overlays[i].encode()
				if err != nil {
					return nil, err
				}
				encoded[i] = segment
			}
			overlayString = strings.Join(encoded, ",") + "/"
		}

		density := ""
		if input.HighDensity {
			density = "@2x"
		}

		requestURL := fmt.Sprintf("%sstyles/v1/%s/static/%s%s,%s/%dx%d%s?access_token=%s",
			cli.Endpoint(), input.Style, overlayString,
			input.Center.String(), formatFloat(*input.Zoom),
			input.Size.Width, input.Size.Height, density, cli.Token())

		body, err := cli.Get(ctx, requestURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch map image: %w", err)
		}

		mimeType := "image/png"
		if strings.Contains(input.Style, "satellite") {
			mimeType = "image/jpeg"
		}

		return mcp.ImageContent{
			Type:     "image",
			Data:     base64.StdEncoding.EncodeToString(body),
			MIMEType: mimeType,
		}, nil
	}
}
