package ephemeris

import (
	"math"
	"testing"
	"time"

	"skyalign/internal/geodesy"
)

var greenwich = geodesy.Location{Lat: 51.4769, Lon: 0, Elev: 46}

func TestParseBody(t *testing.T) {
	for _, s := range []string{"Moon", "moon", "MOON"} {
		b, err := ParseBody(s)
		if err != nil {
			t.Fatalf("ParseBody(%q) failed: %v", s, err)
		}
		if b != Moon {
			t.Errorf("ParseBody(%q) = %v, want Moon", s, b)
		}
	}

	if _, err := ParseBody("Pluto"); err == nil {
		t.Error("expected error for unsupported body")
	}
}

func TestBodies(t *testing.T) {
	bodies := Bodies()
	if len(bodies) != 9 {
		t.Fatalf("expected 9 bodies, got %d", len(bodies))
	}
	if bodies[0] != Sun || bodies[len(bodies)-1] != Neptune {
		t.Errorf("unexpected catalog order: %v", bodies)
	}
}

func TestSunAtEquinox(t *testing.T) {
	// Near the March equinox the Sun sits close to the vernal point:
	// RA ~0h, Dec ~0°.
	at := time.Date(2026, 3, 20, 14, 0, 0, 0, time.UTC)

	pos, err := NewAlmanac().Position(Sun, at, greenwich)
	if err != nil {
		t.Fatalf("Position failed: %v", err)
	}

	if pos.RA > 0.5 && pos.RA < 23.5 {
		t.Errorf("expected RA near 0h at equinox, got %.3fh", pos.RA)
	}
	if math.Abs(pos.Dec) > 0.5 {
		t.Errorf("expected Dec near 0° at equinox, got %.3f°", pos.Dec)
	}
	if pos.Distance < 0.98 || pos.Distance > 1.02 {
		t.Errorf("Sun distance out of range: %.4f AU", pos.Distance)
	}
	if pos.Illum != 1 {
		t.Errorf("Sun illumination should be 1, got %f", pos.Illum)
	}
}

func TestSunHighAtEquatorialNoon(t *testing.T) {
	// At the equator on an equinox day the Sun passes nearly overhead
	// around local solar noon.
	at := time.Date(2026, 3, 20, 12, 10, 0, 0, time.UTC)
	equator := geodesy.Location{Lat: 0, Lon: 0}

	pos, err := NewAlmanac().Position(Sun, at, equator)
	if err != nil {
		t.Fatalf("Position failed: %v", err)
	}
	if pos.Altitude < 85 {
		t.Errorf("expected near-zenith Sun, got altitude %.2f°", pos.Altitude)
	}
}

func TestMoonPosition(t *testing.T) {
	at := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	pos, err := NewAlmanac().Position(Moon, at, greenwich)
	if err != nil {
		t.Fatalf("Position failed: %v", err)
	}

	// Lunar distance stays within 356,000-407,000 km.
	km := pos.Distance * kmPerAU
	if km < 350000 || km > 410000 {
		t.Errorf("Moon distance out of range: %.0f km", km)
	}
	if pos.Illum < 0 || pos.Illum > 1 {
		t.Errorf("illumination out of range: %f", pos.Illum)
	}
	if math.Abs(pos.Dec) > 29 {
		t.Errorf("Moon declination out of range: %.2f°", pos.Dec)
	}
}

func TestPlanetPositions(t *testing.T) {
	// Geocentric distance bounds, generous enough to hold on any date.
	bounds := map[Body][2]float64{
		Mercury: {0.5, 1.5},
		Venus:   {0.2, 1.8},
		Mars:    {0.3, 2.7},
		Jupiter: {3.9, 6.5},
		Saturn:  {8.0, 11.1},
		Uranus:  {17.2, 21.1},
		Neptune: {28.7, 31.3},
	}

	at := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	alm := NewAlmanac()
	for body, b := range bounds {
		pos, err := alm.Position(body, at, greenwich)
		if err != nil {
			t.Fatalf("Position(%v) failed: %v", body, err)
		}
		if pos.Distance < b[0] || pos.Distance > b[1] {
			t.Errorf("%v distance %.3f AU outside [%.1f, %.1f]", body, pos.Distance, b[0], b[1])
		}
		if pos.RA < 0 || pos.RA >= 24 {
			t.Errorf("%v RA out of range: %f", body, pos.RA)
		}
		if pos.Azimuth < 0 || pos.Azimuth >= 360 {
			t.Errorf("%v azimuth out of range: %f", body, pos.Azimuth)
		}
		if pos.Illum < 0 || pos.Illum > 1 {
			t.Errorf("%v illumination out of range: %f", body, pos.Illum)
		}
	}
}

func TestAzimuthIsCompassBearing(t *testing.T) {
	// The horizontal-coordinate azimuth is measured from south; Position must
	// hand out a compass bearing in [0, 360) at any hour for any body.
	alm := NewAlmanac()
	for _, b := range Bodies() {
		for hour := 0; hour < 24; hour += 3 {
			at := time.Date(2026, 4, 10, hour, 0, 0, 0, time.UTC)
			pos, err := alm.Position(b, at, greenwich)
			if err != nil {
				t.Fatalf("Position(%v) failed: %v", b, err)
			}
			if pos.Azimuth < 0 || pos.Azimuth >= 360 {
				t.Errorf("%v at %02dh: azimuth %f outside [0, 360)", b, hour, pos.Azimuth)
			}
		}
	}
}

func TestSolveKepler(t *testing.T) {
	for _, e := range []float64{0, 0.1, 0.2056, 0.5, 0.9} {
		for m := 0.0; m < 2*math.Pi; m += 0.3 {
			E := solveKepler(m, e)
			if residual := E - e*math.Sin(E) - m; math.Abs(residual) > 1e-9 {
				t.Errorf("e=%.4f M=%.2f: residual %g", e, m, residual)
			}
		}
	}
}

func TestRefraction(t *testing.T) {
	// About half a degree at the horizon, near zero high up, and cut off
	// far below the horizon.
	if r := refractionDeg(0); r < 0.4 || r > 0.6 {
		t.Errorf("horizon refraction out of range: %f", r)
	}
	if r := refractionDeg(80); r > 0.01 {
		t.Errorf("near-zenith refraction too large: %f", r)
	}
	if r := refractionDeg(-10); r != 0 {
		t.Errorf("expected no refraction far below horizon, got %f", r)
	}
}
