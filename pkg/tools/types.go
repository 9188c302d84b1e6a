// Package tools provides the Mapbox MCP tool implementations.
package tools

import "fmt"

// Coordinate represents a geographic coordinate pair. Mapbox APIs order
// coordinates longitude first, and the JSON field names here match the wire
// contract exposed to clients.
type Coordinate struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// MaxTileLatitude is the Web Mercator projection limit. Static map centers
// and markers are bounded by it instead of the geographic ±90.
const MaxTileLatitude = 85.0511

// Validate checks the coordinate against geographic bounds.
func (c Coordinate) Validate() error {
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude must be between -180 and 180, got %v", c.Longitude)
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude must be between -90 and 90, got %v", c.Latitude)
	}
	return nil
}

// ValidateTile checks the coordinate against Web Mercator tile bounds.
func (c Coordinate) ValidateTile() error {
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude must be between -180 and 180, got %v", c.Longitude)
	}
	if c.Latitude < -MaxTileLatitude || c.Latitude > MaxTileLatitude {
		return fmt.Errorf("latitude must be between -85.0511 and 85.0511, got %v", c.Latitude)
	}
	return nil
}

// String renders the coordinate in the longitude-first form used in Mapbox
// request paths and query parameters.
func (c Coordinate) String() string {
	return fmt.Sprintf("%v,%v", c.Longitude, c.Latitude)
}

// BoundingBox limits results to a rectangular area. Each bound is checked
// independently.
type BoundingBox struct {
	MinLongitude float64 `json:"minLongitude"`
	MinLatitude  float64 `json:"minLatitude"`
	MaxLongitude float64 `json:"maxLongitude"`
	MaxLatitude  float64 `json:"maxLatitude"`
}

// Validate checks every bound of the box.
func (b BoundingBox) Validate() error {
	for _, lng := range []float64{b.MinLongitude, b.MaxLongitude} {
		if lng < -180 || lng > 180 {
			return fmt.Errorf("bbox longitude must be between -180 and 180, got %v", lng)
		}
	}
	for _, lat := range []float64{b.MinLatitude, b.MaxLatitude} {
		if lat < -90 || lat > 90 {
			return fmt.Errorf("bbox latitude must be between -90 and 90, got %v", lat)
		}
	}
	return nil
}

// String renders the box as the comma-separated query parameter form.
func (b BoundingBox) String() string {
	return fmt.Sprintf("%v,%v,%v,%v", b.MinLongitude, b.MinLatitude, b.MaxLongitude, b.MaxLatitude)
}

// Proximity is an optional location bias hint. It is either a coordinate or
// the literal marker "ip", requesting the requester's network-inferred
// location. The zero value means no bias.
type Proximity struct {
	IP    bool
	Coord *Coordinate
}

// String renders the proximity as the query parameter value.
func (p Proximity) String() string {
	if p.IP {
		return "ip"
	}
	if p.Coord != nil {
		return p.Coord.String()
	}
	return ""
}
