// Package cmd implements the soiree CLI commands.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/soiree/internal/cli"
	"github.com/theirongolddev/soiree/internal/config"
	"github.com/theirongolddev/soiree/internal/logger"
	"github.com/theirongolddev/soiree/internal/model"
	"github.com/theirongolddev/soiree/internal/pipeline"
	"github.com/theirongolddev/soiree/internal/source"
)

var (
	flagDataFile string
	flagDays     int
	flagHorizon  int
	flagNoCache  bool
	flagQuiet    bool
)

// cfg is loaded once per invocation by the root pre-run hook.
var cfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "soiree",
	Short: "Game night attendance and takings tracker",
	Long: "Record attendance and revenue per game night, follow the average ticket\n" +
		"per person, and project both forward with a linear trend.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataFile, "data-file", "f", "", "Record file (CSV), overrides config")
	rootCmd.PersistentFlags().IntVarP(&flagDays, "days", "n", 0, "Only consider the last N days (0 = all)")
	rootCmd.PersistentFlags().IntVar(&flagHorizon, "horizon", 0, "Projection horizon in days, overrides config")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip SQLite cache, reparse the record file")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("config %s: %w", config.ConfigPath(), err)
	}
	cfg = loaded

	if flagDataFile != "" {
		cfg.General.DataFile = flagDataFile
	}
	if cmd.Flags().Changed("horizon") {
		if flagHorizon < 1 {
			return fmt.Errorf("%w: --horizon must be at least 1", model.ErrInvalidInput)
		}
		cfg.General.HorizonDays = flagHorizon
	}
	if flagDays < 0 {
		return fmt.Errorf("%w: --days must not be negative", model.ErrInvalidInput)
	}

	logger.Init(cfg.Logging.Level)
	logger.Debug("config %s, data file %s", config.ConfigPath(), cfg.DataFile())
	return nil
}

// newStore returns the record store for the configured data file.
func newStore() *source.Store {
	return source.NewStore(cfg.DataFile(), cfg.RoundingMode())
}

// loadState is the shared data loading path used by all commands.
// Uses the SQLite cache unless --no-cache is set.
func loadState() (*pipeline.State, error) {
	st := newStore()
	start := time.Now()

	state, err := pipeline.LoadState(st, !flagNoCache)
	if err != nil {
		return nil, err
	}
	progress("Loaded %s events from %s (%s)", cli.FormatNumber(int64(len(state.Records))),
		st.Path(), time.Since(start).Round(time.Millisecond))
	return state, nil
}

// windowed applies the --days filter.
func windowed(set model.RecordSet) model.RecordSet {
	if flagDays <= 0 {
		return set
	}
	since := time.Now().AddDate(0, 0, -flagDays)
	return pipeline.FilterByTime(set, since, time.Time{})
}

func progress(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, "  "+format+"\n", args...)
}

func formatter() *cli.Formatter {
	return cli.NewFormatter(cfg.Appearance.Locale)
}

func printEmptyState() {
	fmt.Print(cli.RenderEmptyState("No events recorded yet."))
	fmt.Println("  Add one with `soiree add` or from the dashboard (`soiree tui`).")
}
