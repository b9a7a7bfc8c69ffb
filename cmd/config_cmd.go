package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/soiree/internal/cli"
	"github.com/theirongolddev/soiree/internal/config"
	"github.com/theirongolddev/soiree/internal/pipeline"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	f := formatter()

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Record file:   %s", cfg.DataFile())
	if !newStore().Exists() {
		fmt.Print(cli.Muted("  (not created yet)"))
	}
	fmt.Println()
	fmt.Printf("    Horizon:       %d days\n", cfg.General.HorizonDays)
	fmt.Printf("    Rounding:      %s\n", cfg.RoundingMode())
	fmt.Printf("    Cache:         %s\n", pipeline.CachePath())
	fmt.Println()

	fmt.Println("  [Dashboard]")
	fmt.Printf("    Threshold:        %s / person\n", f.Euro(cfg.ThresholdDecimal()))
	fmt.Printf("    Weekly median:    %v\n", cfg.Dashboard.ShowWeeklyMedian)
	fmt.Printf("    Projection:       %v\n", cfg.Dashboard.ShowProjection)
	fmt.Printf("    Frequency chart:  %v\n", cfg.Dashboard.ShowFrequencyChart)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:  %s\n", cfg.Appearance.Theme)
	fmt.Printf("    Locale: %s\n", f.Locale())
	fmt.Println()

	fmt.Println("  [Logging]")
	fmt.Printf("    Level: %s\n", cfg.Logging.Level)
	fmt.Println()

	fmt.Println("  Run `soiree setup` to reconfigure.")
	return nil
}
