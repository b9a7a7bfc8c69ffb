package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/soiree/internal/cli"
	"github.com/theirongolddev/soiree/internal/model"
	"github.com/theirongolddev/soiree/internal/pipeline"
	"github.com/theirongolddev/soiree/internal/tui/components"
	"github.com/theirongolddev/soiree/internal/tui/theme"
)

// eventsState holds the events tab state. The cursor indexes the
// chronological record list.
type eventsState struct {
	cursor int
	offset int // first visible row
}

func (s *eventsState) move(delta, n int) {
	s.cursor = max(0, min(s.cursor+delta, n-1))
}

// updateEventsKey handles list navigation. It reports whether the key was
// consumed.
func (a *App) updateEventsKey(key string) bool {
	n := len(a.data.records)
	switch key {
	case "j", "down":
		a.events.move(1, n)
	case "k", "up":
		a.events.move(-1, n)
	case "g", "home":
		a.events.cursor = 0
	case "G", "end":
		a.events.cursor = max(0, n-1)
	case "pgdown":
		a.events.move(10, n)
	case "pgup":
		a.events.move(-10, n)
	default:
		return false
	}
	return true
}

func (a App) renderEventsTab(cw, h int) string {
	recs := a.data.records
	if len(recs) == 0 {
		return a.renderEmpty("Events", cw)
	}

	if a.isCompactLayout() {
		return a.renderEventList(recs, cw, h)
	}

	leftW := cw * 3 / 5
	rightW := cw - leftW
	return components.CardRow([]string{
		a.renderEventList(recs, leftW, h),
		a.renderEventDetail(recs, rightW),
	})
}

func (a App) renderEventList(recs model.RecordSet, w, h int) string {
	t := theme.Active
	f := a.formatter()
	threshold := a.data.threshold.Threshold

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	innerW := components.CardInnerWidth(w)
	var body strings.Builder
	body.WriteString(headerStyle.Render(fmt.Sprintf("%-11s %-4s %6s %12s %12s", "Date", "Day", "Heads", "Recette", "Ticket")))
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(strings.Repeat("─", min(innerW, 49))))
	body.WriteString("\n")

	visible := max(3, h-6) // card border (2) + title + header + rule + hint
	offset := a.events.offset
	if a.events.cursor < offset {
		offset = a.events.cursor
	}
	if a.events.cursor >= offset+visible {
		offset = a.events.cursor - visible + 1
	}
	end := min(len(recs), offset+visible)

	for i := offset; i < end; i++ {
		r := recs[i]
		mark := " "
		if r.AverageTicket.LessThan(threshold) {
			mark = "▼"
		}
		line := fmt.Sprintf("%-11s %-4s %6d %12s %12s %s",
			cli.FormatDate(r.Date),
			cli.FormatDayOfWeek(int(r.Date.Weekday())),
			r.Participants,
			f.Euro(r.Revenue),
			f.Euro(r.AverageTicket),
			mark)
		line = truncStr(line, innerW)
		if i == a.events.cursor {
			body.WriteString(selectedStyle.Render(line))
		} else {
			body.WriteString(rowStyle.Render(line))
		}
		body.WriteString("\n")
	}
	body.WriteString(mutedStyle.Render("[j/k] navigate  [g/G] first/last  [a] add"))

	return components.ContentCard(fmt.Sprintf("Events (%d)", len(recs)), body.String(), w)
}

// renderEventDetail compares the selected event with the rest of the set.
func (a App) renderEventDetail(recs model.RecordSet, w int) string {
	t := theme.Active
	f := a.formatter()
	sel := recs[a.events.cursor]
	threshold := a.data.threshold.Threshold

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	row := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-16s", label)) + valueStyle.Render(value) + "\n"
	}

	var body strings.Builder
	body.WriteString(row("Week", pipeline.WeekLabel(sel.Date)))
	body.WriteString(row("Participants", fmt.Sprintf("%d", sel.Participants)))
	body.WriteString(row("Recette", f.Euro(sel.Revenue)))

	below := sel.AverageTicket.LessThan(threshold)
	ticketStyle := lipgloss.NewStyle().Foreground(t.Threshold(below)).Background(t.Surface).Bold(true)
	body.WriteString(labelStyle.Render(fmt.Sprintf("%-16s", "Ticket moyen")) + ticketStyle.Render(f.Euro(sel.AverageTicket)) + "\n")
	body.WriteString("\n")

	body.WriteString(row("vs threshold", f.EuroDelta(sel.AverageTicket.Sub(threshold))))
	body.WriteString(row("vs median", f.EuroDelta(sel.AverageTicket.Sub(a.data.stats.MedianTicket))))
	for _, wk := range a.data.weeks {
		if wk.Label == pipeline.WeekLabel(sel.Date) && wk.Events > 1 {
			body.WriteString(row("Week median", fmt.Sprintf("%s (%d events)", f.Euro(wk.MedianTicket), wk.Events)))
			break
		}
	}

	return components.ContentCard(cli.FormatDate(sel.Date)+" "+cli.FormatDayOfWeek(int(sel.Date.Weekday())), body.String(), w)
}
