package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"skyalign/cmd/skyalign/ui"
	"skyalign/internal/align"
	"skyalign/internal/ephemeris"
	"skyalign/internal/export"
	"skyalign/internal/store"
	"skyalign/internal/timezone"
)

var (
	alignBody     string
	alignPOI      string
	alignDays     int
	alignAzTol    float64
	alignElTol    float64
	alignStep     time.Duration
	alignWorkers  int
	alignOutput   string
	alignJSON     string
	alignLocal    bool
	alignNoSave   bool
	alignProgress bool
)

var alignCmd = &cobra.Command{
	Use:   "align",
	Short: "Find when a body crosses the observer-POI sight line",
	Long: `Searches a time window for instants when a celestial body stands on the
line of sight from the observer to a point of interest, within azimuth and
altitude tolerances.

Example:
  skyalign align --body Moon \
    --observer 41.113889,-111.951389,1486 \
    --poi 41.032778,-111.838889,2880 \
    --days 365 --az-tol 0.5 --el-tol 0.5 --step 1m \
    --output alignments.csv --local-time`,
	RunE: runAlign,
}

func init() {
	alignCmd.Flags().StringVarP(&alignBody, "body", "b", "", "Celestial body (required)")
	alignCmd.Flags().StringVarP(&alignPOI, "poi", "p", "", "Point of interest (lat,lon,elev | DMS | @name) (required)")
	alignCmd.Flags().IntVarP(&alignDays, "days", "d", 0, "Search window in days (default from config)")
	alignCmd.Flags().Float64Var(&alignAzTol, "az-tol", 0, "Azimuth tolerance in degrees")
	alignCmd.Flags().Float64Var(&alignElTol, "el-tol", 0, "Altitude tolerance in degrees")
	alignCmd.Flags().DurationVar(&alignStep, "step", 0, "Coarse scan step (e.g. 1m, 5m)")
	alignCmd.Flags().IntVar(&alignWorkers, "workers", 0, "Parallel scan workers (default GOMAXPROCS)")
	alignCmd.Flags().StringVar(&alignOutput, "output", "", "Write matches to a CSV file")
	alignCmd.Flags().StringVar(&alignJSON, "json", "", "Write the report as JSON ('-' for stdout)")
	alignCmd.Flags().BoolVar(&alignLocal, "local-time", false, "Also show observer-local times")
	alignCmd.Flags().BoolVar(&alignNoSave, "no-save", false, "Do not record this run in the history database")
	alignCmd.Flags().BoolVar(&alignProgress, "progress", false, "Show a progress bar during the scan")
	alignCmd.MarkFlagRequired("body")
	alignCmd.MarkFlagRequired("poi")
}

func runAlign(cmd *cobra.Command, args []string) error {
	body, err := ephemeris.ParseBody(alignBody)
	if err != nil {
		return err
	}
	observer, err := resolveObserver()
	if err != nil {
		return err
	}
	poi, err := cfg.ResolveLocation(alignPOI)
	if err != nil {
		return fmt.Errorf("invalid poi: %w", err)
	}

	days := alignDays
	if days <= 0 {
		days = cfg.Search.WindowDays
	}
	azTol := alignAzTol
	if azTol == 0 {
		azTol = cfg.Search.AzTolDeg
	}
	elTol := alignElTol
	if elTol == 0 {
		elTol = cfg.Search.ElTolDeg
	}
	step := alignStep
	if step == 0 {
		step = cfg.StepDuration()
	}
	workers := alignWorkers
	if workers == 0 {
		workers = cfg.Search.Workers
	}

	params := align.Params{
		Body:     body,
		Observer: observer,
		POI:      poi,
		Start:    time.Now().UTC(),
		Window:   time.Duration(days) * 24 * time.Hour,
		AzTol:    azTol,
		ElTol:    elTol,
		Step:     step,
		Refine:   cfg.RefineDuration(),
		MinSep:   cfg.MinSepDuration(),
		Workers:  workers,
	}

	var prog *ui.Progress
	if alignProgress {
		prog = ui.StartProgress(fmt.Sprintf("Scanning %d days for %s alignments...", days, body))
		params.Progress = prog.Set
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	engine := align.New(ephemeris.NewAlmanac(), logger)
	report, err := engine.Search(ctx, params)
	if prog != nil {
		prog.Done()
	}
	if err != nil {
		return fmt.Errorf("alignment search failed: %w", err)
	}

	loc := time.UTC
	if alignLocal {
		loc = timezone.Lookup(observer.Lat, observer.Lon)
	}
	printReport(report, loc, alignLocal)

	if !alignNoSave {
		st, err := store.Open(cfg.Storage.DatabasePath)
		if err != nil {
			return err
		}
		defer st.Close()
		id, err := st.SaveReport(report, azTol, elTol, step)
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		logger.Info("run saved", zap.String("id", id))
		fmt.Println(dimStyle.Render("run " + id))
	}

	if alignOutput != "" {
		if err := writeCSVFile(alignOutput, report, loc); err != nil {
			return err
		}
		fmt.Printf("CSV written to: %s\n", alignOutput)
	}
	if alignJSON != "" {
		if err := writeJSONReport(alignJSON, report); err != nil {
			return err
		}
	}
	return nil
}

// printReport renders the target geometry and the match table.
func printReport(rep *align.Report, loc *time.Location, showLocal bool) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("%s / sight line", rep.Body)))
	fmt.Println(kv("POI azimuth", "%.4f°", rep.Target.Bearing))
	fmt.Println(kv("POI elevation angle", "%.4f°", rep.Target.Elevation))
	fmt.Println(kv("POI surface distance", "%.3f km", rep.Target.DistanceM/1000))
	fmt.Println(kv("Search window", "%s to %s (UTC)",
		rep.Start.Format(time.RFC3339), rep.End.Format(time.RFC3339)))
	if showLocal && loc != time.UTC {
		fmt.Println(kv("Observer timezone", "%s", loc))
	}
	fmt.Println()

	if len(rep.Results) == 0 {
		fmt.Println(warnStyle.Render("No alignments found in the search window."))
		return
	}

	fmt.Printf("Found %d alignment(s):\n", len(rep.Results))
	headers := []string{"#", "UTC", "Azimuth", "Altitude", "Illum"}
	if showLocal {
		headers = []string{"#", "UTC", "Local", "Azimuth", "Altitude", "Illum"}
	}
	tbl := newTable(headers...)
	for i, r := range rep.Results {
		az := fmt.Sprintf("%.3f° (Δ %.3f°)", r.Azimuth, r.AzDelta)
		el := fmt.Sprintf("%.3f° (Δ %.3f°)", r.Altitude, r.ElDelta)
		illum := fmt.Sprintf("%.1f%%", r.Illum*100)
		utc := r.Time.UTC().Format(time.RFC3339)
		if showLocal {
			tbl.addRow(fmt.Sprintf("%d", i+1), utc, r.Time.In(loc).Format(time.RFC3339), az, el, illum)
		} else {
			tbl.addRow(fmt.Sprintf("%d", i+1), utc, az, el, illum)
		}
	}
	fmt.Print(tbl.render())
}

func exportRows(rep *align.Report) []export.Row {
	rows := make([]export.Row, len(rep.Results))
	for i, r := range rep.Results {
		rows[i] = export.Row{
			Time:     r.Time,
			Azimuth:  r.Azimuth,
			Altitude: r.Altitude,
			AzDelta:  r.AzDelta,
			ElDelta:  r.ElDelta,
			Illum:    r.Illum,
		}
	}
	return rows
}

func writeCSVFile(path string, rep *align.Report, loc *time.Location) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return export.WriteCSV(f, exportRows(rep), loc)
}

func writeJSONReport(path string, rep *align.Report) error {
	out := export.Report{
		Body:            rep.Body.String(),
		Observer:        rep.Observer.String(),
		POI:             rep.POI.String(),
		TargetBearing:   rep.Target.Bearing,
		TargetElevation: rep.Target.Elevation,
		TargetDistanceM: rep.Target.DistanceM,
		Start:           rep.Start.Format(time.RFC3339),
		End:             rep.End.Format(time.RFC3339),
		Matches:         exportRows(rep),
	}
	if path == "-" {
		return export.WriteJSON(os.Stdout, out)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return export.WriteJSON(f, out)
}
