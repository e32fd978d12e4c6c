package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"skyalign/internal/ephemeris"
	"skyalign/internal/timezone"
)

var (
	positionTime  string
	positionLocal bool
)

var positionCmd = &cobra.Command{
	Use:   "position [body]",
	Short: "Show where a body is for the observer",
	Long: `Prints the topocentric position of a body: right ascension, declination,
compass azimuth, altitude, distance, and illuminated fraction.

Examples:
  skyalign position mars
  skyalign position Moon --time 2026-09-01T03:00:00Z --local-time`,
	Args: cobra.ExactArgs(1),
	RunE: runPosition,
}

func init() {
	positionCmd.Flags().StringVarP(&positionTime, "time", "t", "", "Instant in RFC3339 (default now)")
	positionCmd.Flags().BoolVar(&positionLocal, "local-time", false, "Show the instant in observer-local time")
}

func runPosition(cmd *cobra.Command, args []string) error {
	body, err := ephemeris.ParseBody(args[0])
	if err != nil {
		return err
	}
	observer, err := resolveObserver()
	if err != nil {
		return err
	}

	at := time.Now().UTC()
	if positionTime != "" {
		at, err = time.Parse(time.RFC3339, positionTime)
		if err != nil {
			return fmt.Errorf("invalid --time (want RFC3339): %w", err)
		}
	}

	pos, err := ephemeris.NewAlmanac().Position(body, at, observer)
	if err != nil {
		return err
	}

	when := at.UTC().Format(time.RFC3339)
	if positionLocal {
		when = at.In(timezone.Lookup(observer.Lat, observer.Lon)).Format(time.RFC3339)
	}

	fmt.Println(titleStyle.Render(body.String()))
	fmt.Println(kv("Time", "%s", when))
	fmt.Println(kv("RA", "%s", formatRA(pos.RA)))
	fmt.Println(kv("Dec", "%+.4f°", pos.Dec))
	fmt.Println(kv("Azimuth", "%.4f°", pos.Azimuth))
	fmt.Println(kv("Altitude", "%.4f°", pos.Altitude))
	fmt.Println(kv("Distance", "%.6f AU", pos.Distance))
	if body != ephemeris.Sun {
		fmt.Println(kv("Illuminated", "%.1f%%", pos.Illum*100))
	}
	return nil
}

// formatRA renders fractional hours as h m s.
func formatRA(hours float64) string {
	h := int(hours)
	rem := (hours - float64(h)) * 60
	m := int(rem)
	s := (rem - float64(m)) * 60
	return fmt.Sprintf("%dh%02dm%04.1fs", h, m, s)
}
