package tools

import "math"

// cleanRouteResponse compresses a raw Directions API response in place to
// reduce the token volume consumed by the caller while preserving the signal
// most likely to be queried: timing, congestion, incidents, guidance text,
// and jurisdictional crossings. Per-leg detail is dropped once the aggregate
// fields are computed. Running the cleaner over its own output (where legs
// no longer exist) leaves the aggregates untouched.
func cleanRouteResponse(geometries string, data map[string]any) map[string]any {
	delete(data, "uuid")
	delete(data, "code")

	// Rename waypoint snap fields so agents do not confuse them with route
	// coordinates.
	if waypoints, ok := data["waypoints"].([]any); ok {
		for _, w := range waypoints {
			waypoint, ok := w.(map[string]any)
			if !ok {
				continue
			}
			if loc, ok := waypoint["location"]; ok {
				waypoint["snap_location"] = loc
				delete(waypoint, "location")
			}
			if dist, ok := toFloat(waypoint["distance"]); ok {
				waypoint["snap_distance"] = math.Round(dist)
				delete(waypoint, "distance")
			}
		}
	}

	routes, ok := data["routes"].([]any)
	if !ok {
		return data
	}

	for _, r := range routes {
		route, ok := r.(map[string]any)
		if !ok {
			continue
		}
		cleanRoute(geometries, route)
	}

	return data
}

func cleanRoute(geometries string, route map[string]any) {
	if duration, ok := toFloat(route["duration"]); ok {
		route["duration"] = math.Round(duration)
	}
	if distance, ok := toFloat(route["distance"]); ok {
		route["distance"] = math.Round(distance)
	}

	delete(route, "weight_name")
	delete(route, "weight")

	if geometries == "none" {
		delete(route, "geometry")
	}

	legs, ok := route["legs"].([]any)
	if !ok {
		// Already compressed; nothing left to aggregate.
		return
	}

	legSummaries := make([]any, 0, len(legs))
	isoCodes := make([]string, 0, 4)
	isoSeen := make(map[string]bool)
	notifications := make([]string, 0, 4)
	notificationSeen := make(map[string]bool)
	incidents := make([]any, 0)
	announcements := make([]string, 0)

	var totalDistanceWeightedSpeed float64
	var sumDistanceMeters float64

	// Cumulative distance by congestion class. The unknown class is tracked
	// implicitly by being skipped.
	congestionDistance := map[string]float64{
		"severe":   0,
		"heavy":    0,
		"moderate": 0,
		"low":      0,
	}

	for _, l := range legs {
		leg, ok := l.(map[string]any)
		if !ok {
			continue
		}

		legSummaries = append(legSummaries, leg["summary"])

		annotation, _ := leg["annotation"].(map[string]any)
		speeds, _ := annotation["speed"].([]any)
		distances, _ := annotation["distance"].([]any)
		congestion, _ := annotation["congestion"].([]any)

		if len(speeds) > 0 && len(distances) > 0 {
			for i, s := range speeds {
				if i >= len(distances) {
					break
				}
				speed, okS := toFloat(s)
				distance, okD := toFloat(distances[i])
				if !okS || !okD {
					continue
				}
				totalDistanceWeightedSpeed += speed * distance
				sumDistanceMeters += distance
			}
		}

		if len(congestion) > 0 && len(distances) > 0 {
			for i, c := range congestion {
				if i >= len(distances) {
					break
				}
				class, okC := c.(string)
				distance, okD := toFloat(distances[i])
				if !okC || !okD {
					continue
				}
				if _, tracked := congestionDistance[class]; tracked {
					congestionDistance[class] += distance
				}
			}
		}

		if admins, ok := leg["admins"].([]any); ok {
			for _, a := range admins {
				admin, _ := a.(map[string]any)
				if code, ok := admin["iso_3166_1_alpha3"].(string); ok && !isoSeen[code] {
					isoSeen[code] = true
					isoCodes = append(isoCodes, code)
				}
			}
		}

		if notes, ok := leg["notifications"].([]any); ok {
			for _, n := range notes {
				note, _ := n.(map[string]any)
				details, _ := note["details"].(map[string]any)
				if msg, ok := details["message"].(string); ok && !notificationSeen[msg] {
					notificationSeen[msg] = true
					notifications = append(notifications, msg)
				}
			}
		}

		if legIncidents, ok := leg["incidents"].([]any); ok {
			for _, i := range legIncidents {
				incident, ok := i.(map[string]any)
				if !ok {
					continue
				}
				incidents = append(incidents, map[string]any{
					"type":                incident["type"],
					"end_time":            incident["end_time"],
					"long_description":    incident["long_description"],
					"impact":              incident["impact"],
					"affected_road_names": incident["affected_road_names"],
					"length":              incident["length"],
				})
			}
		}

		if steps, ok := leg["steps"].([]any); ok {
			for _, s := range steps {
				step, _ := s.(map[string]any)
				voice, _ := step["voiceInstructions"].([]any)
				for _, vi := range voice {
					instruction, _ := vi.(map[string]any)
					if announcement, ok := instruction["announcement"].(string); ok && announcement != "" {
						announcements = append(announcements, announcement)
					}
				}
			}
		}
	}

	route["leg_summaries"] = legSummaries
	route["intersecting_admins"] = isoCodes
	route["notifications_summary"] = notifications
	route["incidents_summary"] = incidents

	// Voice announcements are included only when there are between 1 and 10
	// of them across the whole route.
	if len(announcements) >= 1 && len(announcements) <= 10 {
		route["instructions"] = announcements
	}

	route["num_legs"] = len(legs)

	route["congestion_information"] = map[string]any{
		"length_low":      math.Round(congestionDistance["low"]),
		"length_moderate": math.Round(congestionDistance["moderate"]),
		"length_heavy":    math.Round(congestionDistance["heavy"]),
		"length_severe":   math.Round(congestionDistance["severe"]),
	}

	if sumDistanceMeters > 0 && totalDistanceWeightedSpeed > 0 {
		averageMetersPerSecond := totalDistanceWeightedSpeed / sumDistanceMeters
		route["average_speed_kph"] = math.Round(averageMetersPerSecond * 3.6)
	}

	if durationTypical, ok := toFloat(route["duration_typical"]); ok {
		route["duration_under_typical_traffic_conditions"] = math.Round(durationTypical)
		delete(route, "duration_typical")
	}
	delete(route, "weight_typical")

	delete(route, "legs")
}
