package geodesy

import (
	"math"
	"testing"
)

func TestParseLocation(t *testing.T) {
	loc, err := ParseLocation("41.113889,-111.951389,1486.0")
	if err != nil {
		t.Fatalf("ParseLocation failed: %v", err)
	}
	if loc.Lat != 41.113889 || loc.Lon != -111.951389 || loc.Elev != 1486.0 {
		t.Errorf("unexpected location: %+v", loc)
	}

	// Elevation is optional.
	loc, err = ParseLocation("10, 20")
	if err != nil {
		t.Fatalf("ParseLocation without elevation failed: %v", err)
	}
	if loc.Elev != 0 {
		t.Errorf("expected elevation 0, got %f", loc.Elev)
	}
}

func TestParseLocation_Errors(t *testing.T) {
	cases := []string{
		"",
		"41.0",
		"41.0,-111.0,100,extra",
		"abc,-111.0,100",
		"91.0,0,0",
		"0,181.0,0",
	}
	for _, c := range cases {
		if _, err := ParseLocation(c); err == nil {
			t.Errorf("expected error for %q", c)
		}
	}
}

func TestBearing(t *testing.T) {
	cases := []struct {
		name     string
		from, to Location
		want     float64
	}{
		{"due north", Location{Lat: 0, Lon: 0}, Location{Lat: 10, Lon: 0}, 0},
		{"due east", Location{Lat: 0, Lon: 0}, Location{Lat: 0, Lon: 10}, 90},
		{"due south", Location{Lat: 10, Lon: 0}, Location{Lat: 0, Lon: 0}, 180},
		{"due west", Location{Lat: 0, Lon: 10}, Location{Lat: 0, Lon: 0}, 270},
	}
	for _, c := range cases {
		if got := Bearing(c.from, c.to); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("%s: expected %.1f, got %.6f", c.name, c.want, got)
		}
	}
}

func TestSightLine(t *testing.T) {
	// One degree of latitude is about 111.2 km on the spherical model.
	from := Location{Lat: 40, Lon: -105, Elev: 1000}
	to := Location{Lat: 41, Lon: -105, Elev: 1000}

	elev, dist := SightLine(from, to)
	if elev != 0 {
		t.Errorf("equal elevations should give a level sight line, got %.6f", elev)
	}
	if math.Abs(dist-111195) > 100 {
		t.Errorf("expected ~111.2 km, got %.0f m", dist)
	}

	// 1 km rise over ~111 km distance is about half a degree.
	to.Elev = 2000
	elev, _ = SightLine(from, to)
	want := math.Atan2(1000, dist) * 180 / math.Pi
	if math.Abs(elev-want) > 1e-9 {
		t.Errorf("expected %.6f, got %.6f", want, elev)
	}
}

func TestAngularSep(t *testing.T) {
	cases := []struct{ a, b, want float64 }{
		{0, 0, 0},
		{10, 350, 20},
		{350, 10, 20},
		{0, 180, 180},
		{359.9, 0.1, 0.2},
		{90, 270, 180},
	}
	for _, c := range cases {
		if got := AngularSep(c.a, c.b); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("AngularSep(%v, %v): expected %v, got %v", c.a, c.b, c.want, got)
		}
	}
}
