package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/soiree/internal/config"
	"github.com/theirongolddev/soiree/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Start from the file (or defaults), not the flag-adjusted config, so
	// one-off overrides are not persisted.
	saved, err := config.Load()
	if err != nil {
		return err
	}

	vals := tui.SetupValuesFrom(saved)
	if err := tui.NewSetupForm(&vals).Run(); err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	if err := vals.Apply(&saved); err != nil {
		return err
	}

	if err := config.Save(saved); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Printf("  Records go to %s\n", saved.DataFile())
	fmt.Println("  Run `soiree setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
