package tools

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// errInvalidProximity names the accepted shapes. Callers are language models
// that serialize structured data inconsistently, so coercion is deliberately
// permissive and only fails once every format has been tried.
var errInvalidProximity = fmt.Errorf(
	`invalid proximity format. Expected {longitude, latitude}, "longitude,latitude", or "ip"`)

// coordinateFromMap extracts a coordinate from a decoded JSON object with
// numeric longitude and latitude fields.
func coordinateFromMap(m map[string]any) (*Coordinate, bool) {
	lng, okLng := toFloat(m["longitude"])
	lat, okLat := toFloat(m["latitude"])
	if !okLng || !okLat {
		return nil, false
	}
	return &Coordinate{Longitude: lng, Latitude: lat}, true
}

// toFloat converts a decoded JSON value to a float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// parseNumberPair splits s on a comma into exactly two numbers,
// longitude first.
func parseNumberPair(s string) (*Coordinate, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, false
	}
	lng, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lat, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return nil, false
	}
	return &Coordinate{Longitude: lng, Latitude: lat}, true
}

// ParseProximity normalizes the heterogeneous proximity encodings into the
// canonical Proximity value. Accepted forms, tried in order:
//
//  1. a structured object with numeric longitude/latitude
//  2. the literal string "ip"
//  3. a JSON-object string: {"longitude": -82.45, "latitude": 27.93}
//  4. a bracketed pair string: [-82.45, 27.93]
//  5. a bare comma pair string: -82.45,27.93
//
// Parse failures in forms 3 and 4 fall through to the next form rather than
// failing immediately. A nil raw value yields a nil Proximity.
func ParseProximity(raw any) (*Proximity, error) {
	if raw == nil {
		return nil, nil
	}

	if m, ok := raw.(map[string]any); ok {
		if coord, ok := coordinateFromMap(m); ok {
			return &Proximity{Coord: coord}, nil
		}
		return nil, errInvalidProximity
	}

	s, ok := raw.(string)
	if !ok {
		return nil, errInvalidProximity
	}

	if s == "ip" {
		return &Proximity{IP: true}, nil
	}

	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		var m map[string]any
		if err := json.Unmarshal([]byte(s), &m); err == nil {
			if coord, ok := coordinateFromMap(m); ok {
				return &Proximity{Coord: coord}, nil
			}
		}
		// fall through to the remaining formats
	}

	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		if coord, ok := parseNumberPair(s[1 : len(s)-1]); ok {
			return &Proximity{Coord: coord}, nil
		}
	}

	if coord, ok := parseNumberPair(s); ok {
		return &Proximity{Coord: coord}, nil
	}

	return nil, errInvalidProximity
}
