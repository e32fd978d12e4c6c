package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"skyalign/internal/geodesy"
)

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "Manage named locations in the config file",
}

var locationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved locations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.Locations) == 0 {
			fmt.Println(dimStyle.Render("No saved locations."))
			return nil
		}
		names := make([]string, 0, len(cfg.Locations))
		for name := range cfg.Locations {
			names = append(names, name)
		}
		sort.Strings(names)

		tbl := newTable("Name", "Coordinates", "DMS")
		for _, name := range names {
			loc, err := geodesy.ParseLocation(cfg.Locations[name])
			if err != nil {
				tbl.addRow("@"+name, cfg.Locations[name], warnStyle.Render("invalid"))
				continue
			}
			tbl.addRow("@"+name, loc.String(), geodesy.FormatDMS(loc))
		}
		fmt.Print(tbl.render())
		return nil
	},
}

var locationsAddCmd = &cobra.Command{
	Use:   "add [name] [coordinate]",
	Short: "Save a location under a name",
	Long: `Saves a coordinate (decimal triplet or DMS) under a name, after which it
can be used as @name with any location flag.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		loc, err := cfg.ResolveLocation(args[1])
		if err != nil {
			return err
		}

		if cfg.Locations == nil {
			cfg.Locations = map[string]string{}
		}
		cfg.Locations[name] = loc.String()
		if err := cfg.Save(configPath); err != nil {
			return err
		}
		logger.Info("location saved", zap.String("name", name), zap.String("coords", loc.String()))
		fmt.Printf("Saved @%s = %s\n", name, loc)
		return nil
	},
}

var locationsRemoveCmd = &cobra.Command{
	Use:   "remove [name]",
	Short: "Remove a saved location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if _, ok := cfg.Locations[name]; !ok {
			return fmt.Errorf("no saved location named %q", name)
		}
		delete(cfg.Locations, name)
		if err := cfg.Save(configPath); err != nil {
			return err
		}
		fmt.Printf("Removed @%s\n", name)
		return nil
	},
}

func init() {
	locationsCmd.AddCommand(locationsListCmd)
	locationsCmd.AddCommand(locationsAddCmd)
	locationsCmd.AddCommand(locationsRemoveCmd)
}
