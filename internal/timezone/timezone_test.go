package timezone

import (
	"testing"
	"time"
)

func TestName(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lon  float64
		want string
	}{
		{"new york", 40.7128, -74.0060, "America/New_York"},
		{"denver", 39.7392, -104.9903, "America/Denver"},
		{"london", 51.5074, -0.1278, "Europe/London"},
		{"tokyo", 35.6762, 139.6503, "Asia/Tokyo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Name(tt.lat, tt.lon); got != tt.want {
				t.Errorf("Name(%v, %v) = %q, want %q", tt.lat, tt.lon, got, tt.want)
			}
		})
	}
}

func TestLookupOffsets(t *testing.T) {
	loc := Lookup(40.7128, -74.0060)

	// January in New York is EST, UTC-5.
	_, offset := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC).In(loc).Zone()
	if offset != -5*3600 {
		t.Errorf("expected EST offset -18000, got %d", offset)
	}

	// July is EDT, UTC-4.
	_, offset = time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC).In(loc).Zone()
	if offset != -4*3600 {
		t.Errorf("expected EDT offset -14400, got %d", offset)
	}
}

func TestLookupOpenOcean(t *testing.T) {
	// Mid-Pacific points resolve to an Etc zone or fall back to UTC; either
	// way the lookup must return a usable location.
	loc := Lookup(0, -150)
	if loc == nil {
		t.Fatal("expected a non-nil location")
	}
}
