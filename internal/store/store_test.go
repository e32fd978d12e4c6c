package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skyalign/internal/align"
	"skyalign/internal/ephemeris"
	"skyalign/internal/geodesy"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs", "skyalign.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleReport(start time.Time, n int) *align.Report {
	rep := &align.Report{
		Body:     ephemeris.Mars,
		Observer: geodesy.Location{Lat: 40.0, Lon: -105.0, Elev: 1600},
		POI:      geodesy.Location{Lat: 41.0, Lon: -105.5, Elev: 2200},
		Target:   align.Target{Bearing: 339.2, Elevation: 0.29, DistanceM: 118000},
		Start:    start,
		End:      start.Add(30 * 24 * time.Hour),
	}
	for i := range n {
		rep.Results = append(rep.Results, align.Result{
			Time:     start.Add(time.Duration(i) * 25 * time.Hour),
			Azimuth:  339.2 + 0.01*float64(i),
			Altitude: 0.3,
			AzDelta:  0.01 * float64(i),
			ElDelta:  0.01,
			Illum:    0.85,
		})
	}
	return rep
}

func TestSaveAndLoadRun(t *testing.T) {
	s := testStore(t)
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	rep := sampleReport(start, 3)

	id, err := s.SaveReport(rep, 0.5, 0.5, 5*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	run, err := s.GetRun(id)
	require.NoError(t, err)
	assert.Equal(t, id, run.ID)
	assert.Equal(t, "Mars", run.Body)
	assert.Equal(t, rep.Observer, run.Observer)
	assert.Equal(t, rep.POI, run.POI)
	assert.Equal(t, 0.5, run.AzTol)
	assert.Equal(t, 5*time.Minute, run.Step)
	assert.True(t, run.Start.Equal(start))
	assert.True(t, run.End.Equal(rep.End))
	assert.Equal(t, rep.Target, run.Target)
	assert.Equal(t, 3, run.Matches)

	matches, err := s.GetMatches(id)
	require.NoError(t, err)
	if diff := cmp.Diff(rep.Results, matches); diff != "" {
		t.Errorf("matches mismatch (-want +got):\n%s", diff)
	}
}

func TestGetRunByPrefix(t *testing.T) {
	s := testStore(t)
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	id, err := s.SaveReport(sampleReport(start, 1), 0.5, 0.5, time.Minute)
	require.NoError(t, err)

	run, err := s.GetRun(id[:8])
	require.NoError(t, err)
	assert.Equal(t, id, run.ID)

	_, err = s.GetRun("nonexistent")
	assert.ErrorContains(t, err, "no run with id")
}

func TestListRunsNewestFirst(t *testing.T) {
	s := testStore(t)
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	var ids []string
	for i := range 3 {
		id, err := s.SaveReport(sampleReport(start, i), 0.5, 0.5, time.Minute)
		require.NoError(t, err)
		ids = append(ids, id)
		time.Sleep(5 * time.Millisecond)
	}

	runs, err := s.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[0], runs[2].ID)

	limited, err := s.ListRuns(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestDeleteRun(t *testing.T) {
	s := testStore(t)
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	id, err := s.SaveReport(sampleReport(start, 2), 0.5, 0.5, time.Minute)
	require.NoError(t, err)

	require.NoError(t, s.DeleteRun(id))

	_, err = s.GetRun(id)
	assert.Error(t, err)

	matches, err := s.GetMatches(id)
	require.NoError(t, err)
	assert.Empty(t, matches)

	assert.ErrorContains(t, s.DeleteRun(id), "no run with id")
}

func TestReportRoundTrip(t *testing.T) {
	s := testStore(t)
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	rep := sampleReport(start, 2)

	id, err := s.SaveReport(rep, 0.5, 0.5, time.Minute)
	require.NoError(t, err)

	got, err := s.Report(id)
	require.NoError(t, err)
	assert.Equal(t, ephemeris.Mars, got.Body)
	assert.Equal(t, rep.Observer, got.Observer)
	assert.Equal(t, rep.Target, got.Target)
	require.Len(t, got.Results, 2)
	assert.True(t, got.Results[0].Time.Equal(rep.Results[0].Time))
}

func TestOpenCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "a", "b", "history.db"))
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.ListRuns(0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
