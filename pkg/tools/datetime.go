package tools

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// The Directions API accepts four ISO 8601 shapes for depart_at/arrive_by:
//
//	YYYY-MM-DDThh:mm:ssZ
//	YYYY-MM-DDThh:mm:ss±hh:mm
//	YYYY-MM-DDThh:mm
//	YYYY-MM-DDThh:mm:ss  (canonicalized to the previous shape before sending)
var (
	isoDateTimePattern = regexp.MustCompile(
		`^(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$)|(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}[+-]\d{2}:\d{2}$)|(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}$)|(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}$)`)

	isoSecondsNoZonePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}$`)
)

// daysInMonth is indexed by month number. February allows 29 so leap-day
// departures are not rejected; the upstream API settles the rest.
var daysInMonth = [13]int{0, 31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// validateISODateTime checks val by pattern and then by explicit range
// checks on each date-time component.
func validateISODateTime(val string) error {
	if !isoDateTimePattern.MatchString(val) {
		return fmt.Errorf("invalid date-time format. Must be in ISO 8601 format: " +
			"YYYY-MM-DDThh:mm:ssZ, YYYY-MM-DDThh:mm:ss±hh:mm, YYYY-MM-DDThh:mm, or YYYY-MM-DDThh:mm:ss")
	}

	// Strip the zone designator before splitting into date and time.
	core := val
	if strings.HasSuffix(core, "Z") {
		core = core[:len(core)-1]
	} else if idx := strings.LastIndexAny(core, "+-"); idx > 10 {
		core = core[:idx]
	}

	datePart, timePart, _ := strings.Cut(core, "T")

	dateFields := strings.Split(datePart, "-")
	month, _ := strconv.Atoi(dateFields[1])
	day, _ := strconv.Atoi(dateFields[2])

	timeFields := strings.Split(timePart, ":")
	hours, _ := strconv.Atoi(timeFields[0])
	minutes, _ := strconv.Atoi(timeFields[1])
	seconds := 0
	if len(timeFields) > 2 {
		seconds, _ = strconv.Atoi(timeFields[2])
	}

	if month < 1 || month > 12 {
		return fmt.Errorf("invalid month: %d. Must be between 1 and 12", month)
	}
	if day < 1 || day > daysInMonth[month] {
		return fmt.Errorf("invalid day: %d. Must be between 1 and %d for month %d", day, daysInMonth[month], month)
	}
	if hours < 0 || hours > 23 {
		return fmt.Errorf("invalid hours: %d. Must be between 0 and 23", hours)
	}
	if minutes < 0 || minutes > 59 {
		return fmt.Errorf("invalid minutes: %d. Must be between 0 and 59", minutes)
	}
	if seconds < 0 || seconds > 59 {
		return fmt.Errorf("invalid seconds: %d. Must be between 0 and 59", seconds)
	}
	return nil
}

// canonicalizeISODateTime converts the seconds-but-no-zone shape to minutes
// precision by dropping the seconds component. Values already in a zoned or
// no-seconds shape pass through unchanged.
func canonicalizeISODateTime(val string) string {
	if isoSecondsNoZonePattern.MatchString(val) {
		return val[:strings.LastIndex(val, ":")]
	}
	return val
}
