// Package geodesy provides the observer-side geometry for alignment searches:
// coordinate parsing, great-circle bearings, and the elevation angle of the
// sight line between two points on the Earth's surface.
package geodesy

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Mean Earth radius in meters, matching the spherical model used for
// surface distances and sight-line angles.
const earthRadiusM = 6371000.0

// Location is a point on (or above) the Earth's surface.
type Location struct {
	Lat  float64 // decimal degrees, north positive
	Lon  float64 // decimal degrees, east positive
	Elev float64 // meters above sea level
}

// ParseLocation parses a "lat,lon,elev" triplet in decimal degrees and meters.
// The elevation component may be omitted, in which case it defaults to 0.
func ParseLocation(s string) (Location, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 && len(parts) != 3 {
		return Location{}, fmt.Errorf("expected 'lat,lon,elev', got %q", s)
	}

	var vals [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Location{}, fmt.Errorf("invalid coordinate component %q: %w", p, err)
		}
		vals[i] = v
	}

	loc := Location{Lat: vals[0], Lon: vals[1], Elev: vals[2]}
	if err := loc.Validate(); err != nil {
		return Location{}, err
	}
	return loc, nil
}

// Validate checks that the coordinates are within range.
func (l Location) Validate() error {
	if l.Lat < -90 || l.Lat > 90 {
		return fmt.Errorf("latitude %.6f out of range [-90, 90]", l.Lat)
	}
	if l.Lon < -180 || l.Lon > 180 {
		return fmt.Errorf("longitude %.6f out of range [-180, 180]", l.Lon)
	}
	return nil
}

// String renders the location in the same triplet form ParseLocation accepts.
func (l Location) String() string {
	return fmt.Sprintf("%.6f,%.6f,%.1f", l.Lat, l.Lon, l.Elev)
}

// Bearing returns the initial great-circle bearing from one location to
// another, in degrees east of north, [0, 360).
func Bearing(from, to Location) float64 {
	φ1 := radians(from.Lat)
	φ2 := radians(to.Lat)
	Δλ := radians(to.Lon - from.Lon)

	x := math.Sin(Δλ) * math.Cos(φ2)
	y := math.Cos(φ1)*math.Sin(φ2) - math.Sin(φ1)*math.Cos(φ2)*math.Cos(Δλ)
	return math.Mod(degrees(math.Atan2(x, y))+360, 360)
}

// SightLine returns the elevation angle in degrees of the straight line of
// sight from one location to another, together with the great-circle surface
// distance in meters. The angle is positive when the target stands above the
// observer's local horizontal.
func SightLine(from, to Location) (elevDeg, distM float64) {
	distM = SurfaceDistance(from, to)
	elevDeg = degrees(math.Atan2(to.Elev-from.Elev, distM))
	return elevDeg, distM
}

// SurfaceDistance returns the haversine great-circle distance in meters.
func SurfaceDistance(from, to Location) float64 {
	Δφ := radians(to.Lat - from.Lat)
	Δλ := radians(to.Lon - from.Lon)

	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) +
		math.Cos(radians(from.Lat))*math.Cos(radians(to.Lat))*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	return 2 * earthRadiusM * math.Asin(math.Sqrt(a))
}

// AngularSep returns the smallest separation between two azimuths in degrees,
// always in [0, 180].
func AngularSep(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		return 360 - d
	}
	return d
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }
