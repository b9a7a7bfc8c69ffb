package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/soiree/internal/cli"
	"github.com/theirongolddev/soiree/internal/model"
	"github.com/theirongolddev/soiree/internal/pipeline"
)

var flagMonthly bool

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Median ticket per ISO week",
	RunE:  runWeekly,
}

func init() {
	weeklyCmd.Flags().BoolVar(&flagMonthly, "monthly", false, "Show attendance and takings per calendar month instead")
	rootCmd.AddCommand(weeklyCmd)
}

func runWeekly(_ *cobra.Command, _ []string) error {
	state, err := loadState()
	if err != nil {
		return err
	}

	set := windowed(state.Records)
	if len(set) == 0 {
		printEmptyState()
		return nil
	}
	if flagMonthly {
		return printMonthly(set)
	}
	if !cfg.Dashboard.ShowWeeklyMedian {
		fmt.Println("\n  The weekly median view is disabled (dashboard.show_weekly_median).")
		fmt.Println()
		return nil
	}

	f := formatter()
	threshold := cfg.ThresholdDecimal()
	weeks := pipeline.WeeklyMedians(set)

	rows := make([][]string, 0, len(weeks))
	series := make([]float64, 0, len(weeks))
	for _, w := range weeks {
		mark := ""
		if w.MedianTicket.LessThan(threshold) {
			mark = "▼"
		}
		rows = append(rows, []string{
			w.Label,
			cli.FormatDate(w.WeekStart),
			f.Number(w.Events),
			f.Euro(w.MedianTicket),
			mark,
		})
		series = append(series, w.MedianTicket.InexactFloat64())
	}

	global, err := pipeline.GlobalMedian(set)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Weekly median ticket",
		Headers: []string{"Week", "Monday", "Events", "Median", ""},
		Rows:    rows,
	}))
	fmt.Println()
	fmt.Printf("  Overall median  %s   threshold %s\n", cli.Money(f.Euro(global)), f.Euro(threshold))
	fmt.Printf("  Trend           %s\n\n", cli.Money(cli.RenderSparkline(series)))
	return nil
}

func printMonthly(set model.RecordSet) error {
	f := formatter()
	months := pipeline.AggregateMonths(set)

	rows := make([][]string, 0, len(months))
	for _, m := range months {
		rows = append(rows, []string{
			m.Month,
			f.Number(m.Events),
			f.Number(m.Participants),
			f.Euro(m.Revenue),
			f.Euro(m.RevenuePerHead),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Monthly totals",
		Headers: []string{"Month", "Events", "Participants", "Revenue", "Per head"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}
