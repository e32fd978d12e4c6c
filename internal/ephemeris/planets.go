package ephemeris

import (
	"fmt"
	"math"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/unit"
)

// Mean Keplerian elements and centennial rates (Standish, JPL approximate
// positions, valid 1800-2050). The meeus planetposition package would be more
// precise but depends on VSOP87 data files shipped outside the binary; these
// elements keep skyalign self-contained at a precision well inside the
// default half-degree search tolerances.
type meanElements struct {
	a, aDot   float64 // semi-major axis, AU
	e, eDot   float64 // eccentricity
	i, iDot   float64 // inclination, deg
	l, lDot   float64 // mean longitude, deg
	lp, lpDot float64 // longitude of perihelion, deg
	om, omDot float64 // longitude of ascending node, deg
}

var planetTable = map[Body]meanElements{
	Mercury: {0.38709927, 0.00000037, 0.20563593, 0.00001906, 7.00497902, -0.00594749,
		252.25032350, 149472.67411175, 77.45779628, 0.16047689, 48.33076593, -0.12534081},
	Venus: {0.72333566, 0.00000390, 0.00677672, -0.00004107, 3.39467605, -0.00078890,
		181.97909950, 58517.81538729, 131.60246718, 0.00268329, 76.67984255, -0.27769418},
	Mars: {1.52371034, 0.00001847, 0.09339410, 0.00007882, 1.84969142, -0.00813131,
		-4.55343205, 19140.30268499, -23.94362959, 0.44441088, 49.55953891, -0.29257343},
	Jupiter: {5.20288700, -0.00011607, 0.04838624, -0.00013253, 1.30439695, -0.00183714,
		34.39644051, 3034.74612775, 14.72847983, 0.21252668, 100.47390909, 0.20469106},
	Saturn: {9.53667594, -0.00125060, 0.05386179, -0.00050991, 2.48599187, 0.00193609,
		49.95424423, 1222.49362201, 92.59887831, -0.41897216, 113.66242448, -0.28867794},
	Uranus: {19.18916464, -0.00196176, 0.04725744, -0.00004397, 0.77263783, -0.00242939,
		313.23810451, 428.48202785, 170.95427630, 0.40805281, 74.01692503, 0.04240589},
	Neptune: {30.06992276, 0.00026291, 0.00859048, 0.00005105, 1.77004347, 0.00035372,
		-55.12002969, 218.45945325, 44.96476227, -0.32241464, 131.78422574, -0.00508664},
}

// Earth-Moon barycenter, used to shift heliocentric positions to geocentric.
var earthElements = meanElements{1.00000261, 0.00000562, 0.01671123, -0.00004392,
	-0.00001531, -0.01294668, 100.46457166, 35999.37244981,
	102.93768193, 0.32327364, 0, 0}

// General precession in ecliptic longitude, degrees per Julian century,
// rotating the J2000 frame of the elements to the equinox of date.
const precessionDegPerCy = 1.3969714

// planetPosition returns the apparent geocentric equatorial position of a
// planet and its illuminated fraction.
func planetPosition(b Body, jd float64) (geocentric, error) {
	el, ok := planetTable[b]
	if !ok {
		return geocentric{}, fmt.Errorf("no orbital elements for body %v", b)
	}
	T := base.J2000Century(jd)

	px, py, pz, r := heliocentric(el, T)
	ex, ey, ez, re := heliocentric(earthElements, T)

	gx, gy, gz := px-ex, py-ey, pz-ez
	Δ := math.Sqrt(gx*gx + gy*gy + gz*gz)

	λ := math.Atan2(gy, gx) + precessionDegPerCy*T*math.Pi/180
	β := math.Atan2(gz, math.Hypot(gx, gy))

	Δψ, Δε := nutation.Nutation(jd)
	ε := nutation.MeanObliquity(jd) + Δε
	sε, cε := math.Sincos(ε.Rad())
	α, δ := coord.EclToEq(unit.Angle(λ)+Δψ, unit.Angle(β), sε, cε)

	// Phase angle from the Sun-planet-Earth triangle.
	cosPhase := (r*r + Δ*Δ - re*re) / (2 * r * Δ)
	phase := math.Acos(math.Max(-1, math.Min(1, cosPhase)))

	return geocentric{
		ra:     α,
		dec:    δ,
		distAU: Δ,
		illum:  base.Illuminated(unit.Angle(phase)),
	}, nil
}

// heliocentric computes rectangular ecliptic J2000 coordinates (AU) and the
// heliocentric distance from mean elements at T centuries past J2000.
func heliocentric(el meanElements, T float64) (x, y, z, r float64) {
	a := el.a + el.aDot*T
	e := el.e + el.eDot*T
	i := (el.i + el.iDot*T) * math.Pi / 180
	L := el.l + el.lDot*T
	lp := el.lp + el.lpDot*T
	om := (el.om + el.omDot*T) * math.Pi / 180

	M := unit.PMod(L-lp, 360) * math.Pi / 180
	ω := (lp*math.Pi/180 - om)

	E := solveKepler(M, e)

	// Position in the orbital plane, x' toward perihelion.
	xp := a * (math.Cos(E) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(E)
	r = math.Hypot(xp, yp)

	cω, sω := math.Cos(ω), math.Sin(ω)
	cΩ, sΩ := math.Cos(om), math.Sin(om)
	ci, si := math.Cos(i), math.Sin(i)

	x = (cω*cΩ-sω*sΩ*ci)*xp + (-sω*cΩ-cω*sΩ*ci)*yp
	y = (cω*sΩ+sω*cΩ*ci)*xp + (-sω*sΩ+cω*cΩ*ci)*yp
	z = sω*si*xp + cω*si*yp
	return x, y, z, r
}

// solveKepler solves Kepler's equation M = E - e sin E by Newton iteration.
func solveKepler(M, e float64) float64 {
	E := M
	if e > 0.8 {
		E = math.Pi
	}
	for range 20 {
		dE := (E - e*math.Sin(E) - M) / (1 - e*math.Cos(E))
		E -= dE
		if math.Abs(dE) < 1e-12 {
			break
		}
	}
	return E
}
