// Package events computes rise, transit, and set times of a body for an
// observer over a single day.
package events

import (
	"fmt"
	"time"

	"skyalign/internal/ephemeris"
	"skyalign/internal/geodesy"
)

const (
	scanStep   = time.Minute
	bisectStep = time.Second
)

// Day holds the horizon events of one body over one calendar day. A nil
// event did not occur within the day.
type Day struct {
	Body    ephemeris.Body
	Date    time.Time // midnight opening the day, in the reporting zone
	Rise    *Event
	Transit *Event
	Set     *Event

	// Circumpolar is true when the body stays above the horizon all day;
	// NeverRises when it stays below. Either way Rise and Set are nil while
	// Transit is still reported.
	Circumpolar bool
	NeverRises  bool
}

// Event is one horizon crossing or culmination.
type Event struct {
	Time     time.Time
	Azimuth  float64 // degrees
	Altitude float64 // degrees; meaningful for transit
}

// horizonDeg returns the altitude defining "risen" for a body. Positions
// from the ephemeris already include refraction, so only the semidiameter of
// the Sun and Moon shifts the threshold: their rise is the upper limb.
func horizonDeg(b ephemeris.Body) float64 {
	switch b {
	case ephemeris.Sun, ephemeris.Moon:
		return -0.2667
	default:
		return 0
	}
}

// Compute scans the 24 hours following date (interpreted in its own zone) at
// one-minute resolution and bisects each horizon crossing down to a second.
func Compute(src ephemeris.Source, b ephemeris.Body, obs geodesy.Location, date time.Time) (*Day, error) {
	day := &Day{Body: b, Date: date}
	h0 := horizonDeg(b)
	end := date.Add(24 * time.Hour)

	altAt := func(t time.Time) (ephemeris.Topocentric, error) {
		return src.Position(b, t, obs)
	}

	prev, err := altAt(date)
	if err != nil {
		return nil, fmt.Errorf("computing %v at %s: %w", b, date.Format(time.RFC3339), err)
	}

	anyUp := prev.Altitude > h0
	anyDown := !anyUp
	maxAlt := prev.Altitude
	maxAt := date

	for t := date.Add(scanStep); !t.After(end); t = t.Add(scanStep) {
		cur, err := altAt(t)
		if err != nil {
			return nil, fmt.Errorf("computing %v at %s: %w", b, t.Format(time.RFC3339), err)
		}

		wasUp := prev.Altitude > h0
		isUp := cur.Altitude > h0
		if isUp {
			anyUp = true
		} else {
			anyDown = true
		}

		if isUp != wasUp {
			at, pos, err := bisect(altAt, t.Add(-scanStep), t, h0)
			if err != nil {
				return nil, err
			}
			ev := &Event{Time: at, Azimuth: pos.Azimuth, Altitude: pos.Altitude}
			if isUp {
				if day.Rise == nil {
					day.Rise = ev
				}
			} else if day.Set == nil {
				day.Set = ev
			}
		}

		if cur.Altitude > maxAlt {
			maxAlt = cur.Altitude
			maxAt = t
		}
		prev = cur
	}

	// Culmination, refined around the best minute sample.
	tr, trPos, err := refineTransit(altAt, maxAt, date, end)
	if err != nil {
		return nil, err
	}
	day.Transit = &Event{Time: tr, Azimuth: trPos.Azimuth, Altitude: trPos.Altitude}

	if day.Rise == nil && day.Set == nil {
		day.Circumpolar = anyUp && !anyDown
		day.NeverRises = anyDown && !anyUp
	}
	return day, nil
}

// bisect narrows a horizon crossing between lo and hi to one second.
func bisect(altAt func(time.Time) (ephemeris.Topocentric, error), lo, hi time.Time, h0 float64) (time.Time, ephemeris.Topocentric, error) {
	loPos, err := altAt(lo)
	if err != nil {
		return time.Time{}, ephemeris.Topocentric{}, err
	}
	loUp := loPos.Altitude > h0

	for hi.Sub(lo) > bisectStep {
		mid := lo.Add(hi.Sub(lo) / 2)
		midPos, err := altAt(mid)
		if err != nil {
			return time.Time{}, ephemeris.Topocentric{}, err
		}
		if (midPos.Altitude > h0) == loUp {
			lo = mid
		} else {
			hi = mid
		}
	}

	pos, err := altAt(hi)
	if err != nil {
		return time.Time{}, ephemeris.Topocentric{}, err
	}
	return hi, pos, nil
}

// refineTransit scans ±1 minute around the coarse maximum at one-second
// resolution.
func refineTransit(altAt func(time.Time) (ephemeris.Topocentric, error), around, dayStart, dayEnd time.Time) (time.Time, ephemeris.Topocentric, error) {
	lo := around.Add(-scanStep)
	if lo.Before(dayStart) {
		lo = dayStart
	}
	hi := around.Add(scanStep)
	if hi.After(dayEnd) {
		hi = dayEnd
	}

	var bestPos ephemeris.Topocentric
	bestAlt := -91.0
	bestAt := lo
	for t := lo; !t.After(hi); t = t.Add(bisectStep) {
		pos, err := altAt(t)
		if err != nil {
			return time.Time{}, ephemeris.Topocentric{}, err
		}
		if pos.Altitude > bestAlt {
			bestAlt = pos.Altitude
			bestAt = t
			bestPos = pos
		}
	}
	return bestAt, bestPos, nil
}
