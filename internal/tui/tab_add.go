package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/soiree/internal/cli"
	"github.com/theirongolddev/soiree/internal/model"
	"github.com/theirongolddev/soiree/internal/pipeline"
	"github.com/theirongolddev/soiree/internal/tui/components"
	"github.com/theirongolddev/soiree/internal/tui/theme"
)

// addValues holds the raw strings typed into the add form.
type addValues struct {
	Date         string
	Participants string
	Revenue      string
}

// addState tracks the add tab: the live form, or the outcome of the last
// submission.
type addState struct {
	form   *huh.Form
	vals   addValues
	result string
	failed bool
}

func newAddForm(v *addValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Date").
				Description("YYYY-MM-DD").
				Value(&v.Date).
				Validate(func(s string) error {
					_, err := model.ParseDate(strings.TrimSpace(s))
					return err
				}),
			huh.NewInput().
				Title("Participants").
				Value(&v.Participants).
				Validate(func(s string) error {
					_, err := model.ParseParticipants(s)
					return err
				}),
			huh.NewInput().
				Title("Recette (€)").
				Value(&v.Revenue).
				Validate(func(s string) error {
					_, err := model.ParseRevenue(s)
					return err
				}),
		),
	).WithShowHelp(false)
}

func (a App) formWidth() int {
	return min(60, components.CardInnerWidth(a.contentWidth()))
}

// startAddForm opens a fresh form dated today.
func (a *App) startAddForm() tea.Cmd {
	a.add.vals = addValues{Date: time.Now().Format(model.DateLayout)}
	a.add.form = newAddForm(&a.add.vals).WithWidth(a.formWidth())
	a.add.result = ""
	a.add.failed = false
	return a.add.form.Init()
}

func (a App) updateAddForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.add.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.add.form = f
	}

	switch a.add.form.State {
	case huh.StateCompleted:
		a.add.form = nil
		return a.submitAdd(), nil
	case huh.StateAborted:
		a.add.form = nil
		return a, nil
	}
	return a, cmd
}

// submitAdd records the completed form. This is the only place records are
// appended in the TUI.
func (a App) submitAdd() App {
	in, err := model.ParseInput(a.add.vals.Date, a.add.vals.Participants, a.add.vals.Revenue)
	if err != nil {
		a.add.result = err.Error()
		a.add.failed = true
		return a
	}

	rec, err := a.state.Submit(in)
	if err != nil && !a.state.Pending {
		a.add.result = err.Error()
		a.add.failed = true
		return a
	}
	a.recompute()

	f := a.formatter()
	a.add.result = fmt.Sprintf("Recorded %s: %d participants, %s, ticket %s",
		cli.FormatDate(rec.Date), rec.Participants, f.Euro(rec.Revenue), f.Euro(rec.AverageTicket))
	a.add.failed = err != nil
	if err != nil {
		a.add.result += "\n" + pipeline.Describe(err, a.state.Pending)
	}
	return a
}

func (a App) renderAddTab(cw int) string {
	t := theme.Active

	if a.add.form != nil {
		hint := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
			Render("[Enter] next / submit  [Esc] cancel")
		return components.ContentCard("Record a game night", a.add.form.View()+"\n"+hint, cw)
	}

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	var body strings.Builder
	if a.add.result != "" {
		color := t.Green
		if a.add.failed {
			color = t.Red
		}
		body.WriteString(lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(a.add.result))
		body.WriteString("\n\n")
	}
	if a.pending() {
		body.WriteString(lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).
			Render("The record file could not be written. Press [s] to retry."))
		body.WriteString("\n\n")
	}
	body.WriteString(muted.Render("Press ") + accent.Render("Enter") + muted.Render(" to record another game night."))
	return components.ContentCard("Record a game night", body.String(), cw)
}
