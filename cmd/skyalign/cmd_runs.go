package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"skyalign/internal/store"
	"skyalign/internal/timezone"
)

var (
	runsLimit      int
	runsLocal      bool
	runsExportCSV  string
	runsExportJSON string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect stored search runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.Storage.DatabasePath)
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.ListRuns(runsLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println(dimStyle.Render("No stored runs."))
			return nil
		}

		tbl := newTable("ID", "Created", "Body", "Window", "Matches")
		for _, r := range runs {
			tbl.addRow(
				r.ID[:8],
				r.CreatedAt.Format("2006-01-02 15:04"),
				r.Body,
				fmt.Sprintf("%s → %s", r.Start.Format("2006-01-02"), r.End.Format("2006-01-02")),
				fmt.Sprintf("%d", r.Matches),
			)
		}
		fmt.Print(tbl.render())
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show a stored run and its matches",
	Long:  `Shows a stored run. The run ID may be abbreviated to a unique prefix.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.Storage.DatabasePath)
		if err != nil {
			return err
		}
		defer st.Close()

		run, err := st.GetRun(args[0])
		if err != nil {
			return err
		}
		rep, err := st.Report(run.ID)
		if err != nil {
			return err
		}

		fmt.Println(kv("Run", "%s (%s)", run.ID, run.CreatedAt.Format(time.RFC3339)))
		fmt.Println(kv("Tolerances", "az %.3f° el %.3f°, step %s", run.AzTol, run.ElTol, run.Step))

		loc := time.UTC
		if runsLocal {
			loc = timezone.Lookup(run.Observer.Lat, run.Observer.Lon)
		}
		printReport(rep, loc, runsLocal)
		return nil
	},
}

var runsExportCmd = &cobra.Command{
	Use:   "export [run-id]",
	Short: "Re-export a stored run as CSV or JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if runsExportCSV == "" && runsExportJSON == "" {
			return fmt.Errorf("nothing to do: pass --output and/or --json")
		}

		st, err := store.Open(cfg.Storage.DatabasePath)
		if err != nil {
			return err
		}
		defer st.Close()

		run, err := st.GetRun(args[0])
		if err != nil {
			return err
		}
		rep, err := st.Report(run.ID)
		if err != nil {
			return err
		}

		if runsExportCSV != "" {
			loc := time.UTC
			if runsLocal {
				loc = timezone.Lookup(run.Observer.Lat, run.Observer.Lon)
			}
			if err := writeCSVFile(runsExportCSV, rep, loc); err != nil {
				return err
			}
			fmt.Printf("CSV written to: %s\n", runsExportCSV)
		}
		if runsExportJSON != "" {
			if err := writeJSONReport(runsExportJSON, rep); err != nil {
				return err
			}
		}
		return nil
	},
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete [run-id]",
	Short: "Delete a stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.Storage.DatabasePath)
		if err != nil {
			return err
		}
		defer st.Close()

		run, err := st.GetRun(args[0])
		if err != nil {
			return err
		}
		if err := st.DeleteRun(run.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted run %s\n", run.ID)
		return nil
	},
}

func init() {
	runsListCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Maximum runs to list (0 = all)")
	runsShowCmd.Flags().BoolVar(&runsLocal, "local-time", false, "Show observer-local times")
	runsExportCmd.Flags().StringVar(&runsExportCSV, "output", "", "CSV output file")
	runsExportCmd.Flags().StringVar(&runsExportJSON, "json", "", "JSON output file ('-' for stdout)")
	runsExportCmd.Flags().BoolVar(&runsLocal, "local-time", false, "Fill the local time column from the observer timezone")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsDeleteCmd)
}
