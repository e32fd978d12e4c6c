package ephemeris

import (
	"math"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/moonillum"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
)

// moonPosition returns the apparent geocentric equatorial position of the
// Moon, with its illuminated fraction.
func moonPosition(jd float64) geocentric {
	λ, β, Δkm := moonposition.Position(jd)

	Δψ, Δε := nutation.Nutation(jd)
	ε := nutation.MeanObliquity(jd) + Δε
	λ += Δψ

	sε, cε := math.Sincos(ε.Rad())
	α, δ := coord.EclToEq(λ, β, sε, cε)

	return geocentric{
		ra:     α,
		dec:    δ,
		distAU: Δkm / kmPerAU,
		illum:  base.Illuminated(moonillum.PhaseAngle3(jd)),
	}
}
