package todo

import (
	"fmt"
	"time"
)

const (
	// TimestampLayout is the layout of created_at and updated_at. The
	// fraction is fixed width so strings in one zone sort chronologically.
	TimestampLayout = "2006-01-02 15:04:05.000000000 -07"

	// shortLayout is the second-resolution form written by earlier releases.
	shortLayout = "2006-01-02 15:04:05 -07"

	// DefaultTimezone is the civil timezone timestamps are written in.
	DefaultTimezone = "Asia/Jakarta"
)

// FixedLocation is UTC+7 without tz database lookup.
var FixedLocation = time.FixedZone("WIB", 7*60*60)

// parseLayouts lists accepted timestamp layouts, preferred first.
// All but the first match strings written by earlier releases.
var parseLayouts = []string{
	TimestampLayout,
	shortLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 MST",
	"2006-01-02 15:04:05 MST",
}

// LoadLocation resolves a timezone name. An empty name means DefaultTimezone.
// When the tz database is unavailable, DefaultTimezone resolves to
// FixedLocation.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err == nil {
		return loc, nil
	}
	if name == DefaultTimezone {
		return FixedLocation, nil
	}
	return nil, fmt.Errorf("load timezone %q: %w", name, err)
}

// FormatTimestamp formats t in loc. A nil loc means FixedLocation.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = FixedLocation
	}
	return t.In(loc).Format(TimestampLayout)
}

// ParseTimestamp parses a created_at or updated_at value.
func ParseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
