package tools

import (
	"reflect"
	"testing"
)

func sampleRouteResponse() map[string]any {
	return map[string]any{
		"uuid": "abc123",
		"code": "Ok",
		"waypoints": []any{
			map[string]any{
				"name":     "Start",
				"location": []any{-82.45, 27.94},
				"distance": 12.6,
			},
		},
		"routes": []any{
			map[string]any{
				"duration":         1234.56,
				"distance":         7890.12,
				"duration_typical": 1300.4,
				"weight":           100.0,
				"weight_name":      "auto",
				"weight_typical":   110.0,
				"geometry":         map[string]any{"type": "LineString"},
				"legs": []any{
					map[string]any{
						"summary": "I-275 S",
						"annotation": map[string]any{
							"speed":    []any{10.0, 20.0, 30.0},
							"distance": []any{100.0, 200.0, 300.0},
							"congestion": []any{
								"low", "moderate", "unknown",
							},
						},
						"admins": []any{
							map[string]any{"iso_3166_1_alpha3": "USA"},
							map[string]any{"iso_3166_1_alpha3": "USA"},
						},
						"notifications": []any{
							map[string]any{
								"details": map[string]any{"message": "Toll road ahead"},
							},
						},
						"incidents": []any{
							map[string]any{
								"id":                  "inc-1",
								"type":                "construction",
								"end_time":            "2025-06-05T10:30",
								"long_description":    "Lane closed",
								"impact":              "minor",
								"affected_road_names": []any{"I-275"},
								"length":              150.0,
								"geometry_index":      7.0,
							},
						},
						"steps": []any{
							map[string]any{
								"voiceInstructions": []any{
									map[string]any{"announcement": "Turn left"},
									map[string]any{"announcement": "Merge onto the highway"},
								},
							},
						},
					},
				},
			},
		},
	}
}

func TestCleanRouteResponse(t *testing.T) {
	data := cleanRouteResponse("none", sampleRouteResponse())

	if _, ok := data["uuid"]; ok {
		t.Error("uuid not removed")
	}
	if _, ok := data["code"]; ok {
		t.Error("code not removed")
	}

	waypoint := data["waypoints"].([]any)[0].(map[string]any)
	if _, ok := waypoint["location"]; ok {
		t.Error("waypoint location not renamed")
	}
	if !reflect.DeepEqual(waypoint["snap_location"], []any{-82.45, 27.94}) {
		t.Errorf("snap_location = %v", waypoint["snap_location"])
	}
	if waypoint["snap_distance"] != 13.0 {
		t.Errorf("snap_distance = %v, want 13", waypoint["snap_distance"])
	}

	route := data["routes"].([]any)[0].(map[string]any)

	if route["duration"] != 1235.0 {
		t.Errorf("duration = %v, want 1235", route["duration"])
	}
	if route["distance"] != 7890.0 {
		t.Errorf("distance = %v, want 7890", route["distance"])
	}
	for _, key := range []string{"weight", "weight_name", "weight_typical", "duration_typical", "geometry", "legs"} {
		if _, ok := route[key]; ok {
			t.Errorf("%s not removed", key)
		}
	}
	if route["duration_under_typical_traffic_conditions"] != 1300.0 {
		t.Errorf("duration_under_typical_traffic_conditions = %v, want 1300",
			route["duration_under_typical_traffic_conditions"])
	}

	if !reflect.DeepEqual(route["leg_summaries"], []any{"I-275 S"}) {
		t.Errorf("leg_summaries = %v", route["leg_summaries"])
	}
	if !reflect.DeepEqual(route["intersecting_admins"], []string{"USA"}) {
		t.Errorf("intersecting_admins = %v", route["intersecting_admins"])
	}
	if !reflect.DeepEqual(route["notifications_summary"], []string{"Toll road ahead"}) {
		t.Errorf("notifications_summary = %v", route["notifications_summary"])
	}
	if route["num_legs"] != 1 {
		t.Errorf("num_legs = %v, want 1", route["num_legs"])
	}

	incidents := route["incidents_summary"].([]any)
	if len(incidents) != 1 {
		t.Fatalf("incidents_summary length = %d, want 1", len(incidents))
	}
	incident := incidents[0].(map[string]any)
	if incident["type"] != "construction" || incident["impact"] != "minor" {
		t.Errorf("incident fields = %v", incident)
	}
	if _, ok := incident["id"]; ok {
		t.Error("incident id should not be carried over")
	}
	if _, ok := incident["geometry_index"]; ok {
		t.Error("incident geometry_index should not be carried over")
	}

	if !reflect.DeepEqual(route["instructions"], []string{"Turn left", "Merge onto the highway"}) {
		t.Errorf("instructions = %v", route["instructions"])
	}
}

func TestCleanRouteAverageSpeed(t *testing.T) {
	data := cleanRouteResponse("none", sampleRouteResponse())
	route := data["routes"].([]any)[0].(map[string]any)

	// Distance-weighted mean of 10, 20, 30 m/s over 100, 200, 300 m is
	// 23.33 m/s; times 3.6 and rounded that is 84 km/h.
	if route["average_speed_kph"] != 84.0 {
		t.Errorf("average_speed_kph = %v, want 84", route["average_speed_kph"])
	}
}

func TestCleanRouteCongestionBuckets(t *testing.T) {
	data := cleanRouteResponse("none", sampleRouteResponse())
	route := data["routes"].([]any)[0].(map[string]any)

	info := route["congestion_information"].(map[string]any)
	want := map[string]any{
		"length_low":      100.0,
		"length_moderate": 200.0,
		"length_heavy":    0.0,
		"length_severe":   0.0,
	}
	if !reflect.DeepEqual(info, want) {
		t.Errorf("congestion_information = %v, want %v", info, want)
	}
	if _, ok := info["length_unknown"]; ok {
		t.Error("unknown congestion must not be reported")
	}
}

func TestCleanRouteKeepsGeometryWhenRequested(t *testing.T) {
	data := cleanRouteResponse("geojson", sampleRouteResponse())
	route := data["routes"].([]any)[0].(map[string]any)
	if _, ok := route["geometry"]; !ok {
		t.Error("geometry removed despite geometries=geojson")
	}
}

func TestCleanRouteInstructionsBounds(t *testing.T) {
	buildWithAnnouncements := func(n int) map[string]any {
		voice := make([]any, n)
		for i := range voice {
			voice[i] = map[string]any{"announcement": "go"}
		}
		return map[string]any{
			"routes": []any{
				map[string]any{
					"legs": []any{
						map[string]any{
							"steps": []any{
								map[string]any{"voiceInstructions": voice},
							},
						},
					},
				},
			},
		}
	}

	tests := []struct {
		name  string
		count int
		want  bool
	}{
		{name: "None", count: 0, want: false},
		{name: "One", count: 1, want: true},
		{name: "Ten", count: 10, want: true},
		{name: "Eleven", count: 11, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := cleanRouteResponse("none", buildWithAnnouncements(tt.count))
			route := data["routes"].([]any)[0].(map[string]any)
			_, ok := route["instructions"]
			if ok != tt.want {
				t.Errorf("instructions present = %v, want %v for %d announcements", ok, tt.want, tt.count)
			}
		})
	}
}

func TestCleanRouteResponseIdempotent(t *testing.T) {
	once := cleanRouteResponse("none", sampleRouteResponse())
	route := once["routes"].([]any)[0].(map[string]any)
	avgBefore := route["average_speed_kph"]

	// Second pass sees no legs and must leave the aggregates alone.
	twice := cleanRouteResponse("none", once)
	routeAfter := twice["routes"].([]any)[0].(map[string]any)

	if routeAfter["average_speed_kph"] != avgBefore {
		t.Errorf("average_speed_kph changed on second pass: %v -> %v", avgBefore, routeAfter["average_speed_kph"])
	}
	if _, ok := routeAfter["instructions"]; !ok {
		t.Error("instructions lost on second pass")
	}
}

func TestCleanRouteResponseWithoutRoutes(t *testing.T) {
	data := cleanRouteResponse("none", map[string]any{"message": "Not Authorized"})
	if data["message"] != "Not Authorized" {
		t.Errorf("payload without routes mutated: %v", data)
	}
}
