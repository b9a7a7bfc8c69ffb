package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/soiree/internal/cli"
	"github.com/theirongolddev/soiree/internal/model"
	"github.com/theirongolddev/soiree/internal/pipeline"
	"github.com/theirongolddev/soiree/internal/tui/components"
	"github.com/theirongolddev/soiree/internal/tui/theme"
)

func (a App) renderForecastTab(cw int) string {
	if len(a.data.records) == 0 {
		return a.renderEmpty("Forecast", cw)
	}

	t := theme.Active
	var b strings.Builder

	if !a.cfg.Dashboard.ShowProjection {
		muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		return components.ContentCard("Forecast", muted.Render("Disabled in settings (show projection)."), cw)
	}

	title := fmt.Sprintf("Trend over the next %d days", a.cfg.General.HorizonDays)
	b.WriteString(components.ContentCard(title, a.projectionSummary(), cw))
	if !a.data.canProject || a.data.projErr != nil {
		return b.String()
	}
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		halves = []int{cw, cw}
	}

	ticketCard := components.ContentCard("Average ticket (€): history │ projection",
		a.trendBody(model.MetricAverageTicket, a.data.ticketProj, components.CardInnerWidth(halves[0]), t.Green),
		halves[0])
	partCard := components.ContentCard("Participants: history │ projection",
		a.trendBody(model.MetricParticipants, a.data.partProj, components.CardInnerWidth(halves[1]), t.Blue),
		halves[1])

	if a.isCompactLayout() {
		b.WriteString(ticketCard)
		b.WriteString("\n")
		b.WriteString(partCard)
	} else {
		b.WriteString(components.CardRow([]string{ticketCard, partCard}))
	}
	b.WriteString("\n")
	b.WriteString(a.forecastTable(cw))
	return b.String()
}

// trendBody draws observed values and the projection on one shared scale.
func (a App) trendBody(metric model.Metric, proj model.Projection, innerW int, color lipgloss.Color) string {
	t := theme.Active
	history := make([]float64, len(a.data.records))
	for i, r := range a.data.records {
		if metric == model.MetricAverageTicket {
			history[i] = r.AverageTicket.InexactFloat64()
		} else {
			history[i] = float64(r.Participants)
		}
	}

	// Give the projection a third of the width, sampled evenly.
	projW := max(4, innerW/3)
	histW := max(4, innerW-projW-3)
	history = tail(history, histW)
	projected := sample(proj.Values, projW)

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range append(append([]float64{}, history...), projected...) {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	sep := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render(" │ ")
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	line := components.SparklineRange(history, lo, hi, color) + sep +
		components.SparklineRange(projected, lo, hi, t.Orange)

	f := a.formatter()
	format := func(v float64) string {
		if metric == model.MetricAverageTicket {
			return f.EuroFloat(v)
		}
		return f.Float(v, 1)
	}
	return line + "\n" + muted.Render(fmt.Sprintf("range %s to %s", format(lo), format(hi)))
}

// forecastTable lists the projection at weekly steps plus the final day.
func (a App) forecastTable(cw int) string {
	t := theme.Active
	f := a.formatter()
	threshold := a.cfg.ThresholdDecimal().InexactFloat64()

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	tp, pp := a.data.ticketProj, a.data.partProj
	var body strings.Builder
	body.WriteString(headerStyle.Render(fmt.Sprintf("%-12s %12s %14s", "Date", "Ticket", "Participants")))
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(strings.Repeat("─", 40)))
	body.WriteString("\n")

	last := len(tp.Values) - 1
	for i := 0; i <= last; i++ {
		if i%7 != 0 && i != last {
			continue
		}
		ticketStyle := lipgloss.NewStyle().Foreground(t.Threshold(tp.Values[i] < threshold)).Background(t.Surface)
		body.WriteString(rowStyle.Render(fmt.Sprintf("%-12s ", cli.FormatDate(tp.Dates[i]))))
		body.WriteString(ticketStyle.Render(fmt.Sprintf("%12s", f.EuroFloat(tp.Values[i]))))
		body.WriteString(rowStyle.Render(fmt.Sprintf(" %14s", f.Float(pp.Values[i], 1))))
		body.WriteString("\n")
	}

	if at, ok := pipeline.Crossing(tp, threshold); ok {
		warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		body.WriteString("\n")
		body.WriteString(warn.Render(fmt.Sprintf("Ticket crosses the %s threshold around %s",
			f.EuroFloat(threshold), cli.FormatDate(at))))
		body.WriteString("\n")
	}
	body.WriteString(mutedStyle.Render("Ticket and attendance are fitted independently."))

	return components.ContentCard("Projection", body.String(), cw)
}

// sample picks n evenly spaced values, always keeping the first and last.
func sample(values []float64, n int) []float64 {
	if n <= 1 || len(values) <= n {
		return values
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = values[i*(len(values)-1)/(n-1)]
	}
	return out
}
