package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/soiree/internal/cli"
	"github.com/theirongolddev/soiree/internal/tui/components"
	"github.com/theirongolddev/soiree/internal/tui/theme"
)

func (a App) renderDashboardTab(cw int) string {
	if len(a.data.records) == 0 {
		return a.renderEmpty("Dashboard", cw)
	}

	t := theme.Active
	f := a.formatter()
	stats := a.data.stats
	thr := a.data.threshold
	var b strings.Builder

	// Row 1: metric cards
	cards := []components.Metric{
		{Label: "Events", Value: f.Number(stats.Events), Delta: fmt.Sprintf("over %d weeks", stats.ActiveWeeks)},
		{Label: "Participants", Value: f.Number(stats.TotalParticipants), Delta: f.Float(stats.MeanParticipants, 1) + " / event"},
		{Label: "Revenue", Value: f.Euro(stats.TotalRevenue), Delta: f.Euro(stats.RevenuePerHead) + " / head"},
		{
			Label: "Median ticket",
			Value: f.Euro(stats.MedianTicket),
			Delta: "threshold " + f.Euro(thr.Threshold),
			Alert: stats.MedianTicket.LessThan(thr.Threshold),
		},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: ticket per event against the threshold
	tickets := make([]float64, len(a.data.records))
	dates := a.data.records.Dates()
	for i, r := range a.data.records {
		tickets[i] = r.AverageTicket.InexactFloat64()
	}
	chartH := 10
	if a.isCompactLayout() {
		chartH = 7
	}
	b.WriteString(components.ContentCard(
		"Average ticket per event (€)",
		components.BarChart(tickets, chartDateLabels(dates), components.ChartOpts{
			Color:     t.Green,
			Width:     components.CardInnerWidth(cw),
			Height:    chartH,
			Threshold: thr.Threshold.InexactFloat64(),
		}),
		cw,
	))
	b.WriteString("\n")

	// Row 3: threshold breakdown + weekly/frequency view
	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		halves = []int{cw, cw}
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	row := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-16s", label)) + valueStyle.Render(value) + "\n"
	}

	var thrBody strings.Builder
	barW := max(10, components.CardInnerWidth(halves[0])-28)
	thrBody.WriteString(components.ThresholdBar("At or above", thr.AtOrAbove, stats.Events, 12, barW))
	thrBody.WriteString("\n\n")
	thrBody.WriteString(row("Below threshold", fmt.Sprintf("%d of %d", thr.Below, stats.Events)))
	if thr.Below > 0 {
		thrBody.WriteString(row("Mean shortfall", f.Euro(thr.ShortfallPP)+" / person"))
	}
	thrBody.WriteString(row("Lowest ticket", f.Euro(stats.MinTicket)))
	thrBody.WriteString(row("Highest ticket", f.Euro(stats.MaxTicket)))
	thrCard := components.ContentCard("Profitability", thrBody.String(), halves[0])

	var sideCard string
	innerW := components.CardInnerWidth(halves[1])
	switch {
	case a.cfg.Dashboard.ShowWeeklyMedian && len(a.data.weeks) > 0:
		medians := make([]float64, len(a.data.weeks))
		for i, w := range a.data.weeks {
			medians[i] = w.MedianTicket.InexactFloat64()
		}
		last := a.data.weeks[len(a.data.weeks)-1]
		var body strings.Builder
		body.WriteString(components.Sparkline(tail(medians, innerW), t.Accent))
		body.WriteString("\n\n")
		body.WriteString(row("Latest week", last.Label))
		body.WriteString(row("Median", f.Euro(last.MedianTicket)))
		body.WriteString(row("Overall median", f.Euro(stats.MedianTicket)))
		sideCard = components.ContentCard(fmt.Sprintf("Weekly median (%d weeks)", len(a.data.weeks)), body.String(), halves[1])
	case a.cfg.Dashboard.ShowFrequencyChart:
		sideCard = components.ContentCard("Attendance", a.frequencyBody(innerW, 6), halves[1])
	}

	if a.isCompactLayout() {
		b.WriteString(thrCard)
		if sideCard != "" {
			b.WriteString("\n")
			b.WriteString(sideCard)
		}
	} else {
		b.WriteString(components.CardRow([]string{thrCard, sideCard}))
	}

	// Row 4: combined projection
	if a.cfg.Dashboard.ShowProjection {
		b.WriteString("\n")
		b.WriteString(components.ContentCard(
			fmt.Sprintf("Projection (%d days)", a.cfg.General.HorizonDays),
			a.projectionSummary(),
			cw,
		))
	}

	return b.String()
}

// projectionSummary renders the one-line-per-metric trend readout shared by
// the dashboard and the forecast tab.
func (a App) projectionSummary() string {
	t := theme.Active
	f := a.formatter()
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	if !a.data.canProject {
		return labelStyle.Render("Not enough history for a trend: record events on at least two different dates.")
	}
	if a.data.projErr != nil {
		return lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Render(a.data.projErr.Error())
	}

	endDate, endTicket, _ := a.data.ticketProj.Last()
	_, endPart, _ := a.data.partProj.Last()
	below := endTicket < a.cfg.ThresholdDecimal().InexactFloat64()
	ticketStyle := lipgloss.NewStyle().Foreground(t.Threshold(below)).Background(t.Surface).Bold(true)

	return labelStyle.Render(fmt.Sprintf("%-12s", "Ticket")) +
		valueStyle.Render(fmt.Sprintf("%-14s", cli.FormatSlope(a.data.ticketProj.Fit.Slope, "€"))) +
		labelStyle.Render("→ ") + ticketStyle.Render(f.EuroFloat(endTicket)) +
		labelStyle.Render(" on "+cli.FormatDate(endDate)) + "\n" +
		labelStyle.Render(fmt.Sprintf("%-12s", "Attendance")) +
		valueStyle.Render(fmt.Sprintf("%-14s", cli.FormatSlope(a.data.partProj.Fit.Slope, ""))) +
		labelStyle.Render("→ ") + valueStyle.Render(f.Float(endPart, 1)) +
		labelStyle.Render(" on "+cli.FormatDate(endDate))
}

// frequencyBody renders per-event attendance bars for the most recent
// events that fit in rows lines.
func (a App) frequencyBody(innerW, rows int) string {
	t := theme.Active
	recs := a.data.records
	if len(recs) > rows {
		recs = recs[len(recs)-rows:]
	}

	maxP := 1
	for _, r := range recs {
		maxP = max(maxP, r.Participants)
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(t.Blue).Background(t.Surface)
	numStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	barMax := max(1, innerW-16)
	var b strings.Builder
	for _, r := range recs {
		n := r.Participants * barMax / maxP
		fmt.Fprintf(&b, "%s %s %s\n",
			labelStyle.Render(cli.FormatDate(r.Date)),
			barStyle.Render(strings.Repeat("█", n)),
			numStyle.Render(fmt.Sprintf("%d", r.Participants)))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// tail returns at most the last n values.
func tail(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
