// Package ephemeris computes topocentric positions of solar-system bodies for
// a ground observer. Solar and lunar positions and all frame conversions come
// from the Meeus algorithms (soniakeys/meeus); planetary positions use
// built-in mean orbital elements.
package ephemeris

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/unit"

	"skyalign/internal/geodesy"
)

const (
	kmPerAU       = 1.495978707e8
	earthRadiusKm = 6378.137
)

// Topocentric is the position of a body as seen by a particular observer at a
// particular instant. Angles are degrees at this boundary.
type Topocentric struct {
	Azimuth  float64 // degrees east of north, [0, 360)
	Altitude float64 // degrees above the horizon, refraction applied
	RA       float64 // apparent right ascension, hours
	Dec      float64 // apparent declination, degrees
	Distance float64 // AU
	Illum    float64 // illuminated fraction, [0, 1]
}

// Source computes body positions. The alignment engine and the event scanner
// depend on this rather than on the almanac directly so tests can substitute
// synthetic bodies.
type Source interface {
	Position(b Body, t time.Time, obs geodesy.Location) (Topocentric, error)
}

// Almanac is the Meeus-backed Source.
type Almanac struct{}

// NewAlmanac returns the standard almanac.
func NewAlmanac() *Almanac { return &Almanac{} }

// Position computes the topocentric position of a body. The altitude includes
// atmospheric refraction and, for the Moon, the parallax correction that
// matters at its distance.
func (a *Almanac) Position(b Body, t time.Time, obs geodesy.Location) (Topocentric, error) {
	jd := julian.TimeToJD(t.UTC())

	var g geocentric
	var err error
	switch b {
	case Sun:
		g = sunPosition(jd)
	case Moon:
		g = moonPosition(jd)
	case Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune:
		g, err = planetPosition(b, jd)
	default:
		err = fmt.Errorf("no ephemeris for body %v", b)
	}
	if err != nil {
		return Topocentric{}, err
	}

	// Meeus observer longitudes are positive west of Greenwich.
	φ := unit.AngleFromDeg(obs.Lat)
	ψ := unit.AngleFromDeg(-obs.Lon)
	st := sidereal.Apparent(jd)

	// EqToHz azimuth is measured westward from south; rotate to a compass
	// bearing from north.
	A, h := coord.EqToHz(g.ra, g.dec, φ, ψ, st)
	az := unit.PMod(A.Deg()+180, 360)
	alt := h.Deg()

	// Geocentric-to-topocentric parallax, applied in altitude only. At 0.5°
	// search tolerances this matters for the Moon (up to ~1°) and is noise
	// for everything else.
	if g.distAU > 0 {
		hp := math.Asin(earthRadiusKm / (g.distAU * kmPerAU))
		alt -= hp * 180 / math.Pi * math.Cos(h.Rad())
	}

	alt += refractionDeg(alt)

	return Topocentric{
		Azimuth:  az,
		Altitude: alt,
		RA:       g.ra.Hour(),
		Dec:      g.dec.Deg(),
		Distance: g.distAU,
		Illum:    g.illum,
	}, nil
}

// geocentric is an apparent geocentric equatorial position.
type geocentric struct {
	ra     unit.RA
	dec    unit.Angle
	distAU float64
	illum  float64
}

// refractionDeg returns the atmospheric refraction in degrees to add to a
// true altitude (Sæmundsson's formula, standard conditions). The term decays
// to roughly half a degree at the horizon and is cut off well below it, where
// nothing is observable anyway.
func refractionDeg(altDeg float64) float64 {
	if altDeg < -2 {
		return 0
	}
	return 1.02 / math.Tan((altDeg+10.3/(altDeg+5.11))*math.Pi/180) / 60
}
