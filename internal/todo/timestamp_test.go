package todo

import (
	"testing"
	"time"
)

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2024, 1, 1, 2, 0, 0, 500, time.UTC)

	tests := []struct {
		name string
		loc  *time.Location
		want string
	}{
		{"fixed zone", FixedLocation, "2024-01-01 09:00:00.000000500 +07"},
		{"nil means fixed zone", nil, "2024-01-01 09:00:00.000000500 +07"},
		{"utc", time.UTC, "2024-01-01 02:00:00.000000500 +00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimestamp(ts, tt.loc); got != tt.want {
				t.Errorf("FormatTimestamp() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	if err != nil {
		t.Fatalf("LoadLocation(\"\") error = %v", err)
	}
	ts := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if got := FormatTimestamp(ts, loc); got != "2024-06-01 07:00:00.000000000 +07" {
		t.Errorf("default zone formatted as %q", got)
	}

	if _, err := LoadLocation("Not/AZone"); err == nil {
		t.Error("expected error for unknown timezone")
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"current layout", "2024-01-01 09:00:00.000000500 +07", false},
		{"second resolution", "2024-01-01 09:00:00 +07", false},
		{"legacy with nanos", "2024-01-01 09:00:00.123456789 WIB", false},
		{"legacy without nanos", "2024-01-01 09:00:00 WIB", false},
		{"rfc3339", "2024-01-01T09:00:00+07:00", false},
		{"empty", "", true},
		{"garbage", "yesterday", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTimestamp(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseTimestamp(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestParseTimestampRoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 15, 12, 34, 56, 123, time.UTC)
	s := FormatTimestamp(ts, FixedLocation)

	got, err := ParseTimestamp(s)
	if err != nil {
		t.Fatalf("ParseTimestamp(%q) error = %v", s, err)
	}
	if !got.Equal(ts) {
		t.Errorf("round trip: got %v, want %v", got, ts)
	}
}

func TestTimestampsSortLexically(t *testing.T) {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, FixedLocation)
	tests := []struct {
		name  string
		delta time.Duration
	}{
		{"nanosecond", time.Nanosecond},
		{"millisecond", time.Millisecond},
		{"tenth of a second", 100 * time.Millisecond},
		{"second", time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			earlier := FormatTimestamp(base.Add(999*time.Microsecond), FixedLocation)
			later := FormatTimestamp(base.Add(999*time.Microsecond+tt.delta), FixedLocation)
			if !(later > earlier) {
				t.Errorf("%q should sort after %q", later, earlier)
			}
		})
	}
}
