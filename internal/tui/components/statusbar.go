package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/soiree/internal/tui/theme"
)

// StatusInfo is the data shown in the bottom status bar.
type StatusInfo struct {
	Records  int
	LoadTime string
	Pending  bool
	Message  string
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)
	pendingStyle := lipgloss.NewStyle().
		Foreground(t.Orange).
		Background(t.Surface).
		Bold(true)
	msgStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface)

	left := style.Render(" [?]help  [q]uit")
	switch {
	case info.Pending:
		left += style.Render("  ") + pendingStyle.Render("● unsaved, [s] to retry")
	case info.Message != "":
		left += style.Render("  ") + msgStyle.Render(info.Message)
	}

	right := fmt.Sprintf("%d events", info.Records)
	if info.LoadTime != "" {
		right += " · " + info.LoadTime
	}
	right = style.Render(right + " ")

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	return left + style.Render(strings.Repeat(" ", padding)) + right
}
