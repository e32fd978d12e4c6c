package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"skyalign/internal/config"
	"skyalign/internal/geodesy"
)

var (
	// Global flags
	verbose      bool
	configPath   string
	observerFlag string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "skyalign",
	Short: "skyalign - celestial alignments and events for a fixed observer",
	Long: `skyalign computes what the sky does from where you stand.

Given an observer location it answers when a celestial body lines up with the
sight line to a landmark (align), where a body is right now (position), and
when it rises, culminates, and sets (events). Searches are stored locally so
past runs can be listed and re-exported.

Locations are decimal 'lat,lon,elev' triplets, DMS strings like
'41°02'38"N 111°56'45"W 1,331 m', or '@name' references to locations saved
in the config file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		zc := zap.NewProductionConfig()
		if cfg.Logging.Format != "json" {
			zc = zap.NewDevelopmentConfig()
		}
		// Keep stdout clean for results and exports.
		zc.OutputPaths = []string{"stderr"}
		zc.Level = zap.NewAtomicLevelAt(logLevel(cfg.Logging.Level))
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func logLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// resolveObserver returns the observer from --observer, falling back to the
// configured default.
func resolveObserver() (geodesy.Location, error) {
	arg := observerFlag
	if arg == "" {
		arg = cfg.Observer.Location
	}
	if arg == "" {
		return geodesy.Location{}, fmt.Errorf("no observer given: pass --observer or set observer.location in %s", configPath)
	}
	loc, err := cfg.ResolveLocation(arg)
	if err != nil {
		return geodesy.Location{}, fmt.Errorf("invalid observer: %w", err)
	}
	return loc, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Config file path")
	rootCmd.PersistentFlags().StringVarP(&observerFlag, "observer", "o", "", "Observer location (lat,lon,elev | DMS | @name)")

	rootCmd.AddCommand(alignCmd)
	rootCmd.AddCommand(positionCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(bodiesCmd)
	rootCmd.AddCommand(locationsCmd)
	rootCmd.AddCommand(runsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
