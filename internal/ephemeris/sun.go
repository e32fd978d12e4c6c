package ephemeris

import (
	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/solar"
)

// sunPosition returns the apparent geocentric equatorial position of the Sun.
func sunPosition(jd float64) geocentric {
	α, δ := solar.ApparentEquatorial(jd)
	return geocentric{
		ra:     α,
		dec:    δ,
		distAU: solar.Radius(base.J2000Century(jd)),
		illum:  1,
	}
}
