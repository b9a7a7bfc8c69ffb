package cmd

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/soiree/internal/cli"
	"github.com/theirongolddev/soiree/internal/model"
	"github.com/theirongolddev/soiree/internal/pipeline"
)

var flagListLimit int

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Event details, oldest first",
	RunE:    runList,
}

func init() {
	listCmd.Flags().IntVarP(&flagListLimit, "limit", "l", 0, "Show only the N most recent events (0 = all)")
	rootCmd.AddCommand(listCmd)
}

func runList(_ *cobra.Command, _ []string) error {
	state, err := loadState()
	if err != nil {
		return err
	}

	set := pipeline.Chronological(windowed(state.Records))
	if len(set) == 0 {
		printEmptyState()
		return nil
	}
	if flagListLimit > 0 && len(set) > flagListLimit {
		set = set[len(set)-flagListLimit:]
	}

	f := formatter()
	threshold := cfg.ThresholdDecimal()
	rows := make([][]string, 0, len(set))
	for _, r := range set {
		rows = append(rows, []string{
			cli.FormatDate(r.Date),
			cli.FormatDayOfWeek(int(r.Date.Weekday())),
			f.Number(r.Participants),
			f.Euro(r.Revenue),
			f.Euro(r.AverageTicket),
			belowMark(r, threshold),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Events (threshold %s / person)", f.Euro(threshold)),
		Headers: []string{"Date", "Day", "Participants", "Recette", "Ticket Moyen", ""},
		Rows:    rows,
	}))

	if cfg.Dashboard.ShowFrequencyChart {
		printFrequency(set)
	}
	return nil
}

// belowMark flags events whose ticket fell short of the threshold. Table
// cells stay unstyled so column widths line up.
func belowMark(r model.EventRecord, threshold decimal.Decimal) string {
	if r.AverageTicket.LessThan(threshold) {
		return "▼"
	}
	return ""
}

// printFrequency renders attendance bars per event and the revenue series.
func printFrequency(set model.RecordSet) {
	maxP := 0
	revenue := make([]float64, len(set))
	for i, r := range set {
		if r.Participants > maxP {
			maxP = r.Participants
		}
		revenue[i] = r.Revenue.InexactFloat64()
	}

	fmt.Println()
	fmt.Println("  Attendance")
	for _, r := range set {
		fmt.Println(cli.RenderHorizontalBar(cli.FormatDate(r.Date), 10,
			float64(r.Participants), float64(maxP), 30, strconv.Itoa(r.Participants)))
	}
	fmt.Println()
	fmt.Printf("  Revenue  %s\n\n", cli.Money(cli.RenderSparkline(revenue)))
}
