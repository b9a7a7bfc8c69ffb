package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/soiree/internal/cli"
	"github.com/theirongolddev/soiree/internal/pipeline"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Headline numbers, median ticket and trend",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	state, err := loadState()
	if err != nil {
		return err
	}

	set := windowed(state.Records)
	if len(set) == 0 {
		printEmptyState()
		return nil
	}

	f := formatter()
	stats := pipeline.Summarize(set)
	thr := pipeline.Threshold(set, cfg.ThresholdDecimal())

	title := "SOIREE  All time"
	if flagDays > 0 {
		title = fmt.Sprintf("SOIREE  Last %dd", flagDays)
	}
	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()

	rows := [][]string{
		{"Events", f.Number(stats.Events)},
		{"Active weeks", f.Number(stats.ActiveWeeks)},
		{"Period", cli.FormatDate(stats.FirstDate) + " → " + cli.FormatDate(stats.LastDate)},
		{"---"},
		{"Participants", f.Number(stats.TotalParticipants)},
		{"Mean / event", f.Float(stats.MeanParticipants, 1)},
		{"---"},
		{"Revenue", f.Euro(stats.TotalRevenue)},
		{"Revenue / head", f.Euro(stats.RevenuePerHead)},
		{"Median ticket", f.Euro(stats.MedianTicket)},
		{"Lowest ticket", f.Euro(stats.MinTicket)},
		{"Highest ticket", f.Euro(stats.MaxTicket)},
		{"---"},
		{"Threshold", f.Euro(thr.Threshold) + " / person"},
		{"Below threshold", fmt.Sprintf("%d of %d", thr.Below, stats.Events)},
	}
	if thr.Below > 0 {
		rows = append(rows, []string{"Mean shortfall", f.Euro(thr.ShortfallPP) + " / person"})
	}

	if cfg.Dashboard.ShowProjection && pipeline.CanProject(set) {
		ticket, participants, err := pipeline.ProjectBoth(set, cfg.General.HorizonDays)
		if err != nil {
			return err
		}
		lastDate, lastTicket, _ := ticket.Last()
		_, lastPart, _ := participants.Last()
		rows = append(rows,
			[]string{"---"},
			[]string{"Ticket trend", cli.FormatSlope(ticket.Fit.Slope, "€")},
			[]string{"Attendance trend", cli.FormatSlope(participants.Fit.Slope, "")},
			[]string{fmt.Sprintf("Ticket on %s", cli.FormatDate(lastDate)), f.EuroFloat(lastTicket)},
			[]string{fmt.Sprintf("Attendance on %s", cli.FormatDate(lastDate)), f.Float(lastPart, 1)},
		)
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	fmt.Println()
	fmt.Printf("  Above threshold  %s\n", cli.RenderProgressBar(thr.AtOrAbove, stats.Events, 30))

	tickets := make([]float64, 0, len(set))
	for _, r := range pipeline.Chronological(set) {
		tickets = append(tickets, r.AverageTicket.InexactFloat64())
	}
	fmt.Printf("  Ticket history   %s\n", cli.Money(cli.RenderSparkline(tickets)))

	if state.Rederived > 0 {
		fmt.Println()
		fmt.Println(cli.Warn(fmt.Sprintf("  %d stored tickets did not match revenue/participants and were recomputed.", state.Rederived)))
	}
	return nil
}
