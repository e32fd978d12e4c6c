package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"skyalign/internal/ephemeris"
	"skyalign/internal/events"
	"skyalign/internal/timezone"
)

var eventsDate string

var eventsCmd = &cobra.Command{
	Use:   "events [body]",
	Short: "Show rise, transit, and set times for a body",
	Long: `Computes the horizon events of a body over one observer-local day:
rise, upper culmination (transit), and set.

Example:
  skyalign events sun --date 2026-12-21`,
	Args: cobra.ExactArgs(1),
	RunE: runEvents,
}

func init() {
	eventsCmd.Flags().StringVar(&eventsDate, "date", "", "Date as YYYY-MM-DD (default today)")
}

func runEvents(cmd *cobra.Command, args []string) error {
	body, err := ephemeris.ParseBody(args[0])
	if err != nil {
		return err
	}
	observer, err := resolveObserver()
	if err != nil {
		return err
	}

	loc := timezone.Lookup(observer.Lat, observer.Lon)
	midnight := time.Now().In(loc)
	if eventsDate != "" {
		midnight, err = time.ParseInLocation("2006-01-02", eventsDate, loc)
		if err != nil {
			return fmt.Errorf("invalid --date (want YYYY-MM-DD): %w", err)
		}
	}
	midnight = time.Date(midnight.Year(), midnight.Month(), midnight.Day(), 0, 0, 0, 0, loc)

	day, err := events.Compute(ephemeris.NewAlmanac(), body, observer, midnight)
	if err != nil {
		return err
	}

	zone := timezone.Name(observer.Lat, observer.Lon)
	fmt.Println(titleStyle.Render(fmt.Sprintf("%s on %s (%s)", body, midnight.Format("2006-01-02"), zone)))
	switch {
	case day.Circumpolar:
		fmt.Println(warnStyle.Render("Circumpolar: above the horizon all day."))
	case day.NeverRises:
		fmt.Println(warnStyle.Render("Never rises on this date."))
	}
	printEvent("Rise", day.Rise, loc, false)
	printEvent("Transit", day.Transit, loc, true)
	printEvent("Set", day.Set, loc, false)
	return nil
}

func printEvent(label string, ev *events.Event, loc *time.Location, withAlt bool) {
	if ev == nil {
		fmt.Println(kv(label, "%s", dimStyle.Render("—")))
		return
	}
	line := fmt.Sprintf("%s  az %.1f°", ev.Time.In(loc).Format("15:04:05"), ev.Azimuth)
	if withAlt {
		line += fmt.Sprintf("  alt %.1f°", ev.Altitude)
	}
	fmt.Println(kv(label, "%s", line))
}
