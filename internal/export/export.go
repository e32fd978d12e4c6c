// Package export writes alignment reports as CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"
)

// csvHeader is the column set of the CSV export. Local time is filled only
// when a reporting zone other than UTC is supplied.
var csvHeader = []string{
	"utc_iso", "local_iso", "az_deg", "el_deg", "az_diff_deg", "el_diff_deg", "illum_pct",
}

// Row is one exportable alignment match.
type Row struct {
	Time     time.Time `json:"time"`
	Azimuth  float64   `json:"azimuth_deg"`
	Altitude float64   `json:"altitude_deg"`
	AzDelta  float64   `json:"azimuth_delta_deg"`
	ElDelta  float64   `json:"altitude_delta_deg"`
	Illum    float64   `json:"illuminated_fraction"`
}

// Report is the JSON export envelope.
type Report struct {
	Body            string  `json:"body"`
	Observer        string  `json:"observer"`
	POI             string  `json:"poi"`
	TargetBearing   float64 `json:"target_bearing_deg"`
	TargetElevation float64 `json:"target_elevation_deg"`
	TargetDistanceM float64 `json:"target_distance_m"`
	Start           string  `json:"window_start"`
	End             string  `json:"window_end"`
	Matches         []Row   `json:"matches"`
}

// WriteCSV writes rows under the csvHeader columns. The local column is
// rendered in loc when non-nil and non-UTC, else left empty.
func WriteCSV(w io.Writer, rows []Row, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range rows {
		local := ""
		if loc != nil && loc != time.UTC {
			local = r.Time.In(loc).Format(time.RFC3339)
		}
		rec := []string{
			r.Time.UTC().Format(time.RFC3339),
			local,
			strconv.FormatFloat(r.Azimuth, 'f', 6, 64),
			strconv.FormatFloat(r.Altitude, 'f', 6, 64),
			strconv.FormatFloat(r.AzDelta, 'f', 6, 64),
			strconv.FormatFloat(r.ElDelta, 'f', 6, 64),
			strconv.FormatFloat(r.Illum*100, 'f', 6, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the full report as indented JSON.
func WriteJSON(w io.Writer, rep Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
