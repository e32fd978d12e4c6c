// Package timezone resolves the IANA timezone of a coordinate so search
// results can be presented in the observer's local time.
package timezone

import (
	"sync"
	"time"
	_ "time/tzdata" // zone database for hosts without one installed

	"github.com/ringsaturn/tzf"
)

var (
	once    sync.Once
	finder  tzf.F
	initErr error
)

// Lookup returns the local timezone at a coordinate. Any failure, from the
// finder or from an unknown zone name, falls back to UTC; local time is a
// presentation concern and must not fail a search.
func Lookup(lat, lon float64) *time.Location {
	once.Do(func() {
		finder, initErr = tzf.NewDefaultFinder()
	})
	if initErr != nil {
		return time.UTC
	}

	name := finder.GetTimezoneName(lon, lat)
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Name returns the IANA zone name at a coordinate, or "UTC" when none
// resolves.
func Name(lat, lon float64) string {
	return Lookup(lat, lon).String()
}
