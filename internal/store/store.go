// Package store persists alignment search runs in SQLite so past searches
// can be listed, inspected, and re-exported.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"skyalign/internal/align"
	"skyalign/internal/ephemeris"
	"skyalign/internal/geodesy"
)

// Store wraps the run-history database.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// Run is a persisted search with its parameters and target geometry.
type Run struct {
	ID        string
	CreatedAt time.Time
	Body      string
	Observer  geodesy.Location
	POI       geodesy.Location
	AzTol     float64
	ElTol     float64
	Step      time.Duration
	Start     time.Time
	End       time.Time
	Target    align.Target
	Matches   int
}

// Open creates or opens the store at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, dbPath: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	schema := `
	PRAGMA journal_mode = WAL;

	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		body TEXT NOT NULL,
		observer_lat REAL NOT NULL,
		observer_lon REAL NOT NULL,
		observer_elev REAL NOT NULL,
		poi_lat REAL NOT NULL,
		poi_lon REAL NOT NULL,
		poi_elev REAL NOT NULL,
		az_tol REAL NOT NULL,
		el_tol REAL NOT NULL,
		step_seconds INTEGER NOT NULL,
		window_start DATETIME NOT NULL,
		window_end DATETIME NOT NULL,
		target_bearing REAL NOT NULL,
		target_elevation REAL NOT NULL,
		target_distance_m REAL NOT NULL,
		match_count INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_body ON runs(body);

	CREATE TABLE IF NOT EXISTS matches (
		run_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		time DATETIME NOT NULL,
		azimuth REAL NOT NULL,
		altitude REAL NOT NULL,
		az_delta REAL NOT NULL,
		el_delta REAL NOT NULL,
		illum REAL NOT NULL,
		PRIMARY KEY (run_id, seq),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_matches_run ON matches(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveReport stores a search report and returns the new run ID. The run row
// and its matches commit in one transaction.
func (s *Store) SaveReport(rep *align.Report, azTol, elTol float64, step time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, created_at, body,
			observer_lat, observer_lon, observer_elev,
			poi_lat, poi_lon, poi_elev,
			az_tol, el_tol, step_seconds,
			window_start, window_end,
			target_bearing, target_elevation, target_distance_m,
			match_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, time.Now().UTC(), rep.Body.String(),
		rep.Observer.Lat, rep.Observer.Lon, rep.Observer.Elev,
		rep.POI.Lat, rep.POI.Lon, rep.POI.Elev,
		azTol, elTol, int64(step.Seconds()),
		rep.Start, rep.End,
		rep.Target.Bearing, rep.Target.Elevation, rep.Target.DistanceM,
		len(rep.Results))
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO matches (run_id, seq, time, azimuth, altitude, az_delta, el_delta, illum)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare match insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range rep.Results {
		if _, err := stmt.Exec(id, i, r.Time.UTC(), r.Azimuth, r.Altitude, r.AzDelta, r.ElDelta, r.Illum); err != nil {
			return "", fmt.Errorf("failed to insert match %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return id, nil
}

// ListRuns returns stored runs, newest first. A limit of 0 means all.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := `
		SELECT id, created_at, body,
			observer_lat, observer_lon, observer_elev,
			poi_lat, poi_lon, poi_elev,
			az_tol, el_tol, step_seconds,
			window_start, window_end,
			target_bearing, target_elevation, target_distance_m,
			match_count
		FROM runs ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun loads one run by ID, or by an unambiguous ID prefix.
func (s *Store) GetRun(id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, created_at, body,
			observer_lat, observer_lon, observer_elev,
			poi_lat, poi_lon, poi_elev,
			az_tol, el_tol, step_seconds,
			window_start, window_end,
			target_bearing, target_elevation, target_distance_m,
			match_count
		FROM runs WHERE id = ? OR id LIKE ? || '%'`, id, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}
	defer rows.Close()

	var found []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("no run with id %q", id)
	case 1:
		return &found[0], nil
	default:
		return nil, fmt.Errorf("ambiguous run id %q matches %d runs", id, len(found))
	}
}

// GetMatches loads the stored results of a run in order.
func (s *Store) GetMatches(runID string) ([]align.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT time, azimuth, altitude, az_delta, el_delta, illum
		FROM matches WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}
	defer rows.Close()

	var out []align.Result
	for rows.Next() {
		var r align.Result
		if err := rows.Scan(&r.Time, &r.Azimuth, &r.Altitude, &r.AzDelta, &r.ElDelta, &r.Illum); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		r.Time = r.Time.UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteRun removes a run and its matches.
func (s *Store) DeleteRun(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM matches WHERE run_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete matches: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("no run with id %q", id)
	}
	return tx.Commit()
}

// Report reassembles a run into an align.Report for re-export.
func (s *Store) Report(runID string) (*align.Report, error) {
	run, err := s.GetRun(runID)
	if err != nil {
		return nil, err
	}
	matches, err := s.GetMatches(run.ID)
	if err != nil {
		return nil, err
	}

	body, err := ephemeris.ParseBody(run.Body)
	if err != nil {
		return nil, err
	}
	return &align.Report{
		Body:     body,
		Observer: run.Observer,
		POI:      run.POI,
		Target:   run.Target,
		Start:    run.Start,
		End:      run.End,
		Results:  matches,
	}, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var r Run
	var stepSec int64
	err := rows.Scan(&r.ID, &r.CreatedAt, &r.Body,
		&r.Observer.Lat, &r.Observer.Lon, &r.Observer.Elev,
		&r.POI.Lat, &r.POI.Lon, &r.POI.Elev,
		&r.AzTol, &r.ElTol, &stepSec,
		&r.Start, &r.End,
		&r.Target.Bearing, &r.Target.Elevation, &r.Target.DistanceM,
		&r.Matches)
	if err != nil {
		return Run{}, fmt.Errorf("failed to scan run: %w", err)
	}
	r.Step = time.Duration(stepSec) * time.Second
	r.CreatedAt = r.CreatedAt.UTC()
	r.Start = r.Start.UTC()
	r.End = r.End.UTC()
	return r, nil
}
