package geodesy

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// dmsPattern matches coordinate strings of the form
//
//	41°02'38"N 111°56'45"W 1,331 m
//
// as produced by mapping tools. Seconds may carry a decimal fraction, the
// elevation suffix is optional, and thousands separators in the elevation are
// tolerated.
var dmsPattern = regexp.MustCompile(
	`(\d+)°(\d+)'(\d+(?:\.\d+)?)"?\s*([NS])\s+(\d+)°(\d+)'(\d+(?:\.\d+)?)"?\s*([EW])\s*([\d,.]*)\s*m?`)

var quoteNormalizer = strings.NewReplacer("’", "'", "′", "'", "”", `"`, "″", `"`)

// ParseDMS parses a degrees-minutes-seconds coordinate string with hemisphere
// letters and an optional elevation into a Location. Unicode prime and quote
// marks are accepted alongside their ASCII equivalents.
func ParseDMS(s string) (Location, error) {
	m := dmsPattern.FindStringSubmatch(quoteNormalizer.Replace(s))
	if m == nil {
		return Location{}, fmt.Errorf("unrecognized DMS coordinate %q", s)
	}

	lat, err := dmsToDecimal(m[1], m[2], m[3], m[4])
	if err != nil {
		return Location{}, err
	}
	lon, err := dmsToDecimal(m[5], m[6], m[7], m[8])
	if err != nil {
		return Location{}, err
	}

	var elev float64
	if m[9] != "" {
		elev, err = strconv.ParseFloat(strings.ReplaceAll(m[9], ",", ""), 64)
		if err != nil {
			return Location{}, fmt.Errorf("invalid elevation %q: %w", m[9], err)
		}
	}

	loc := Location{Lat: lat, Lon: lon, Elev: elev}
	if err := loc.Validate(); err != nil {
		return Location{}, err
	}
	return loc, nil
}

func dmsToDecimal(d, m, s, hemi string) (float64, error) {
	deg, err := strconv.ParseFloat(d, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid degrees %q: %w", d, err)
	}
	min, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid minutes %q: %w", m, err)
	}
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seconds %q: %w", s, err)
	}
	if min >= 60 || sec >= 60 {
		return 0, fmt.Errorf("minutes and seconds must be below 60 in %s°%s'%s\"", d, m, s)
	}

	dec := deg + min/60 + sec/3600
	if hemi == "S" || hemi == "W" {
		dec = -dec
	}
	return dec, nil
}

// FormatDMS renders a location back into DMS form, the inverse of ParseDMS.
func FormatDMS(l Location) string {
	latH, lonH := "N", "E"
	if l.Lat < 0 {
		latH = "S"
	}
	if l.Lon < 0 {
		lonH = "W"
	}
	return fmt.Sprintf(`%s%s %s%s %.0f m`,
		formatDMSComponent(math.Abs(l.Lat)), latH,
		formatDMSComponent(math.Abs(l.Lon)), lonH,
		l.Elev)
}

func formatDMSComponent(deg float64) string {
	d := math.Floor(deg)
	rem := (deg - d) * 60
	m := math.Floor(rem)
	s := math.Round((rem - m) * 60)
	if s >= 60 {
		s -= 60
		m++
	}
	if m >= 60 {
		m -= 60
		d++
	}
	return fmt.Sprintf(`%d°%02d'%02.0f"`, int(d), int(m), s)
}
