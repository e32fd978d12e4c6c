// Package align finds the instants at which a celestial body crosses the
// sight line from an observer to a point of interest.
package align

import (
	"fmt"
	"runtime"
	"time"

	"skyalign/internal/ephemeris"
	"skyalign/internal/geodesy"
)

// Default search parameters, applied by Params.normalize.
const (
	DefaultStep   = 5 * time.Minute
	DefaultRefine = time.Second
	DefaultMinSep = 10 * time.Second
	DefaultWindow = 30 * 24 * time.Hour
	DefaultAzTol  = 0.5
	DefaultElTol  = 0.5
)

// Params configures a search.
type Params struct {
	Body     ephemeris.Body
	Observer geodesy.Location
	POI      geodesy.Location

	Start  time.Time     // beginning of the search window
	Window time.Duration // width of the search window

	AzTol float64 // azimuth tolerance, degrees
	ElTol float64 // altitude tolerance, degrees

	Step   time.Duration // coarse scan resolution
	Refine time.Duration // fine scan resolution around coarse hits
	MinSep time.Duration // minimum separation between reported results

	Workers int // parallel scan workers, defaults to GOMAXPROCS

	// Progress, when set, receives coarse-scan completion counts. It is
	// called from a single goroutine.
	Progress func(done, total int)
}

// normalize fills defaults for zero values only. Negative values pass
// through so Validate can reject them.
func (p *Params) normalize() {
	if p.Window == 0 {
		p.Window = DefaultWindow
	}
	if p.AzTol == 0 {
		p.AzTol = DefaultAzTol
	}
	if p.ElTol == 0 {
		p.ElTol = DefaultElTol
	}
	if p.Step == 0 {
		p.Step = DefaultStep
	}
	if p.Refine == 0 {
		p.Refine = DefaultRefine
	}
	if p.MinSep == 0 {
		p.MinSep = DefaultMinSep
	}
	if p.Workers == 0 {
		p.Workers = runtime.GOMAXPROCS(0)
	}
	if p.Start.IsZero() {
		p.Start = time.Now().UTC()
	}
}

// Validate reports the first problem with the parameters. normalize has
// already filled defaults when Validate is called by the engine.
func (p *Params) Validate() error {
	if err := p.Observer.Validate(); err != nil {
		return fmt.Errorf("observer: %w", err)
	}
	if err := p.POI.Validate(); err != nil {
		return fmt.Errorf("poi: %w", err)
	}
	if p.Observer.Lat == p.POI.Lat && p.Observer.Lon == p.POI.Lon {
		return fmt.Errorf("observer and POI are the same point; bearing is undefined")
	}
	if p.AzTol < 0 || p.ElTol < 0 {
		return fmt.Errorf("tolerances must not be negative (az %.3f, el %.3f)", p.AzTol, p.ElTol)
	}
	if p.Window < 0 {
		return fmt.Errorf("search window must not be negative: %v", p.Window)
	}
	if p.Step < 0 || p.Refine < 0 || p.MinSep < 0 {
		return fmt.Errorf("scan resolutions must not be negative (step %v, refine %v, min sep %v)",
			p.Step, p.Refine, p.MinSep)
	}
	if p.Workers < 0 {
		return fmt.Errorf("worker count must not be negative: %d", p.Workers)
	}
	if p.Refine >= p.Step {
		return fmt.Errorf("refine resolution %v must be finer than coarse step %v", p.Refine, p.Step)
	}
	return nil
}

// Target is the fixed geometry of the observer-POI sight line.
type Target struct {
	Bearing   float64 // degrees east of north
	Elevation float64 // degrees above the observer's horizontal
	DistanceM float64 // surface distance, meters
}

// Result is one refined alignment instant.
type Result struct {
	Time     time.Time
	Azimuth  float64 // body azimuth, degrees
	Altitude float64 // body altitude, degrees
	AzDelta  float64 // |azimuth - target bearing|, degrees
	ElDelta  float64 // |altitude - target elevation|, degrees
	Illum    float64 // illuminated fraction at the instant
}

// Report is the outcome of a search.
type Report struct {
	Body     ephemeris.Body
	Observer geodesy.Location
	POI      geodesy.Location
	Target   Target
	Start    time.Time
	End      time.Time
	Results  []Result
}

// ComputeTarget derives the sight-line geometry for a parameter set.
func ComputeTarget(observer, poi geodesy.Location) Target {
	elev, dist := geodesy.SightLine(observer, poi)
	return Target{
		Bearing:   geodesy.Bearing(observer, poi),
		Elevation: elev,
		DistanceM: dist,
	}
}
