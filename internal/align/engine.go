package align

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"skyalign/internal/ephemeris"
	"skyalign/internal/geodesy"
)

// progressStride is the number of coarse samples scanned between progress
// callbacks, per worker.
const progressStride = 256

// Engine runs alignment searches against an ephemeris source.
type Engine struct {
	src ephemeris.Source
	log *zap.Logger
}

// New creates an engine. A nil logger disables logging.
func New(src ephemeris.Source, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{src: src, log: log}
}

// Search scans the window for alignments in two passes: a parallel coarse
// scan at Step resolution, then a fine scan at Refine resolution around each
// coarse hit keeping the closest sample. Results are deduplicated so that
// consecutive hits are at least MinSep apart.
func (e *Engine) Search(ctx context.Context, p Params) (*Report, error) {
	p.normalize()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid search parameters: %w", err)
	}

	target := ComputeTarget(p.Observer, p.POI)
	start := p.Start.UTC()
	end := start.Add(p.Window)

	e.log.Info("starting alignment search",
		zap.Stringer("body", p.Body),
		zap.Float64("target_bearing", target.Bearing),
		zap.Float64("target_elevation", target.Elevation),
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Duration("step", p.Step),
		zap.Int("workers", p.Workers))

	coarse, err := e.coarseScan(ctx, p, target, start, end)
	if err != nil {
		return nil, err
	}
	e.log.Debug("coarse scan complete", zap.Int("hits", len(coarse)))

	refined, err := e.refine(ctx, p, target, coarse, start, end)
	if err != nil {
		return nil, err
	}

	results := dedupe(refined, p.MinSep)
	e.log.Info("alignment search complete",
		zap.Int("coarse_hits", len(coarse)),
		zap.Int("results", len(results)))

	return &Report{
		Body:     p.Body,
		Observer: p.Observer,
		POI:      p.POI,
		Target:   target,
		Start:    start,
		End:      end,
		Results:  results,
	}, nil
}

// coarseScan samples the whole window at Step resolution, splitting the
// samples into one contiguous chunk per worker.
func (e *Engine) coarseScan(ctx context.Context, p Params, target Target, start, end time.Time) ([]time.Time, error) {
	total := int(end.Sub(start)/p.Step) + 1
	workers := p.Workers
	if workers > total {
		workers = 1
	}
	perChunk := (total + workers - 1) / workers

	var done atomic.Int64
	var progressMu sync.Mutex
	report := func() {
		if p.Progress == nil {
			return
		}
		progressMu.Lock()
		p.Progress(int(done.Load()), total)
		progressMu.Unlock()
	}

	chunkHits := make([][]time.Time, workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			lo := w * perChunk
			hi := lo + perChunk
			if hi > total {
				hi = total
			}
			var hits []time.Time
			for i := lo; i < hi; i++ {
				if i%progressStride == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				t := start.Add(time.Duration(i) * p.Step)
				pos, err := e.src.Position(p.Body, t, p.Observer)
				if err != nil {
					return fmt.Errorf("ephemeris at %s: %w", t.Format(time.RFC3339), err)
				}
				if matches(pos, target, p.AzTol, p.ElTol) {
					hits = append(hits, t)
				}
				if n := done.Add(1); n%progressStride == 0 {
					report()
				}
			}
			chunkHits[w] = hits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	report()

	var all []time.Time
	for _, hits := range chunkHits {
		all = append(all, hits...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Before(all[j]) })
	return all, nil
}

// refine scans ±Step around each coarse hit at Refine resolution and keeps
// the sample minimizing the combined angular distance to the target.
func (e *Engine) refine(ctx context.Context, p Params, target Target, coarse []time.Time, start, end time.Time) ([]Result, error) {
	results := make([]Result, len(coarse))
	found := make([]bool, len(coarse))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Workers)
	for i, hit := range coarse {
		g.Go(func() error {
			lo := hit.Add(-p.Step)
			if lo.Before(start) {
				lo = start
			}
			hi := hit.Add(p.Step)
			if hi.After(end) {
				hi = end
			}

			var best Result
			bestMetric := -1.0
			for t := lo; !t.After(hi); t = t.Add(p.Refine) {
				if err := gctx.Err(); err != nil {
					return err
				}
				pos, err := e.src.Position(p.Body, t, p.Observer)
				if err != nil {
					return fmt.Errorf("ephemeris at %s: %w", t.Format(time.RFC3339), err)
				}
				r := Result{
					Time:     t,
					Azimuth:  pos.Azimuth,
					Altitude: pos.Altitude,
					AzDelta:  geodesy.AngularSep(pos.Azimuth, target.Bearing),
					ElDelta:  abs(pos.Altitude - target.Elevation),
					Illum:    pos.Illum,
				}
				if metric := r.AzDelta + r.ElDelta; bestMetric < 0 || metric < bestMetric {
					best = r
					bestMetric = metric
				}
			}
			if bestMetric >= 0 {
				results[i] = best
				found[i] = true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := results[:0]
	for i, r := range results {
		if found[i] {
			out = append(out, r)
		}
	}
	return out, nil
}

// dedupe sorts refined results and drops any within minSep of the previously
// kept one. Adjacent coarse hits refining to the same instant collapse here.
func dedupe(results []Result, minSep time.Duration) []Result {
	sort.Slice(results, func(i, j int) bool { return results[i].Time.Before(results[j].Time) })

	out := results[:0]
	var last time.Time
	for _, r := range results {
		if last.IsZero() || r.Time.Sub(last) >= minSep {
			out = append(out, r)
			last = r.Time
		}
	}
	return out
}

func matches(pos ephemeris.Topocentric, target Target, azTol, elTol float64) bool {
	return geodesy.AngularSep(pos.Azimuth, target.Bearing) <= azTol &&
		abs(pos.Altitude-target.Elevation) <= elTol
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
