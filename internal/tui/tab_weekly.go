package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/soiree/internal/cli"
	"github.com/theirongolddev/soiree/internal/tui/components"
	"github.com/theirongolddev/soiree/internal/tui/theme"
)

func (a App) renderWeeklyTab(cw int) string {
	if len(a.data.records) == 0 {
		return a.renderEmpty("Weekly", cw)
	}

	t := theme.Active
	f := a.formatter()
	threshold := a.data.threshold.Threshold

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	weekStyle := lipgloss.NewStyle().Foreground(t.BlueBright).Background(t.Surface)

	var b strings.Builder

	if a.cfg.Dashboard.ShowWeeklyMedian {
		weeks := a.data.weeks
		medians := make([]float64, len(weeks))
		labels := make([]string, len(weeks))
		for i, w := range weeks {
			medians[i] = w.MedianTicket.InexactFloat64()
			labels[i] = fmt.Sprintf("W%02d", isoWeek(w.WeekStart))
		}
		innerW := components.CardInnerWidth(cw)
		b.WriteString(components.ContentCard(
			"Median ticket per ISO week (€)",
			components.BarChart(medians, labels, components.ChartOpts{
				Color:     t.Accent,
				Width:     innerW,
				Height:    8,
				Threshold: threshold.InexactFloat64(),
			}),
			cw,
		))
		b.WriteString("\n")

		// Most recent weeks first in the table.
		var table strings.Builder
		table.WriteString(headerStyle.Render(fmt.Sprintf("%-10s %-12s %7s %12s", "Week", "Monday", "Events", "Median")))
		table.WriteString("\n")
		table.WriteString(mutedStyle.Render(strings.Repeat("─", 44)))
		table.WriteString("\n")
		limit := 8
		for i := len(weeks) - 1; i >= 0 && i >= len(weeks)-limit; i-- {
			w := weeks[i]
			medStyle := lipgloss.NewStyle().Foreground(t.Threshold(w.MedianTicket.LessThan(threshold))).Background(t.Surface)
			table.WriteString(weekStyle.Render(fmt.Sprintf("%-10s", w.Label)))
			table.WriteString(rowStyle.Render(fmt.Sprintf(" %-12s %7d ", cli.FormatDate(w.WeekStart), w.Events)))
			table.WriteString(medStyle.Render(fmt.Sprintf("%12s", f.Euro(w.MedianTicket))))
			table.WriteString("\n")
		}
		if len(weeks) > limit {
			table.WriteString(mutedStyle.Render(fmt.Sprintf("… %d earlier weeks", len(weeks)-limit)))
		}

		title := fmt.Sprintf("Weeks (%d)", len(weeks))
		tableBody := strings.TrimSuffix(table.String(), "\n")
		if a.isCompactLayout() {
			b.WriteString(components.ContentCard(title, tableBody, cw))
			b.WriteString("\n")
			b.WriteString(a.monthsCard(cw))
			return b.String()
		}
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard(title, tableBody, halves[0]),
			a.monthsCard(halves[1]),
		}))
		return b.String()
	}

	b.WriteString(components.ContentCard("Weekly median",
		mutedStyle.Render("Disabled in settings (show weekly median)."), cw))
	b.WriteString("\n")
	b.WriteString(a.monthsCard(cw))
	return b.String()
}

// monthsCard renders attendance and takings per calendar month.
func (a App) monthsCard(w int) string {
	t := theme.Active
	f := a.formatter()

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	moneyStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var body strings.Builder
	body.WriteString(headerStyle.Render(fmt.Sprintf("%-8s %6s %6s %12s %10s", "Month", "Events", "Heads", "Revenue", "Per head")))
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(strings.Repeat("─", 46)))
	body.WriteString("\n")

	months := a.data.months
	limit := 8
	for i := len(months) - 1; i >= 0 && i >= len(months)-limit; i-- {
		m := months[i]
		body.WriteString(rowStyle.Render(fmt.Sprintf("%-8s %6d %6d ", m.Month, m.Events, m.Participants)))
		body.WriteString(moneyStyle.Render(fmt.Sprintf("%12s %10s", f.Euro(m.Revenue), f.Euro(m.RevenuePerHead))))
		body.WriteString("\n")
	}
	return components.ContentCard("Months", strings.TrimSuffix(body.String(), "\n"), w)
}

func isoWeek(t time.Time) int {
	_, w := t.ISOWeek()
	return w
}
