package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/soiree/internal/cli"
	"github.com/theirongolddev/soiree/internal/model"
	"github.com/theirongolddev/soiree/internal/pipeline"
)

var flagForecastStep int

var forecastCmd = &cobra.Command{
	Use:     "forecast",
	Aliases: []string{"projection"},
	Short:   "Linear projection of ticket and attendance",
	RunE:    runForecast,
}

func init() {
	forecastCmd.Flags().IntVar(&flagForecastStep, "step", 7, "Days between printed rows")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(_ *cobra.Command, _ []string) error {
	if flagForecastStep < 1 {
		return fmt.Errorf("%w: --step must be at least 1", model.ErrInvalidInput)
	}

	state, err := loadState()
	if err != nil {
		return err
	}

	set := windowed(state.Records)
	if len(set) == 0 {
		printEmptyState()
		return nil
	}
	if !cfg.Dashboard.ShowProjection {
		fmt.Println("\n  The projection view is disabled (dashboard.show_projection).")
		fmt.Println()
		return nil
	}
	if !pipeline.CanProject(set) {
		fmt.Print(cli.RenderEmptyState("Not enough history for a trend."))
		fmt.Println("  A projection needs events on at least two different dates.")
		fmt.Println()
		return nil
	}

	horizon := cfg.General.HorizonDays
	ticketProj, partProj, err := pipeline.ProjectBoth(set, horizon)
	if err != nil {
		return err
	}

	f := formatter()
	threshold := cfg.ThresholdDecimal().InexactFloat64()

	rows := make([][]string, 0, horizon/flagForecastStep+2)
	last := len(ticketProj.Dates) - 1
	for i := 0; i <= last; i++ {
		if i%flagForecastStep != 0 && i != last {
			continue
		}
		t := ticketProj.Values[i]
		mark := ""
		if t < threshold {
			mark = "▼"
		}
		rows = append(rows, []string{
			cli.FormatDate(ticketProj.Dates[i]),
			f.EuroFloat(t),
			f.Float(partProj.Values[i], 1),
			mark,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Projection, %d days", horizon),
		Headers: []string{"Date", "Ticket", "Participants", ""},
		Rows:    rows,
	}))
	fmt.Println()
	fmt.Printf("  Ticket trend      %s\n", cli.FormatSlope(ticketProj.Fit.Slope, "€"))
	fmt.Printf("  Attendance trend  %s\n", cli.FormatSlope(partProj.Fit.Slope, ""))
	fmt.Printf("  Ticket            %s\n", cli.Money(cli.RenderSparkline(ticketProj.Values)))
	fmt.Printf("  Attendance        %s\n", cli.Money(cli.RenderSparkline(partProj.Values)))

	if at, ok := pipeline.Crossing(ticketProj, threshold); ok {
		dir := "falls below"
		if ticketProj.Values[0] < threshold {
			dir = "climbs back over"
		}
		fmt.Println()
		fmt.Println(cli.Warn(fmt.Sprintf("  The ticket %s the %s threshold around %s.",
			dir, f.EuroFloat(threshold), cli.FormatDate(at))))
	}
	fmt.Println()
	fmt.Println(cli.Muted("  Ticket and attendance are fitted independently; read them as trends, not a budget."))
	fmt.Println()
	return nil
}
