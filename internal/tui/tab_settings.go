package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/soiree/internal/config"
	"github.com/theirongolddev/soiree/internal/model"
	"github.com/theirongolddev/soiree/internal/tui/components"
	"github.com/theirongolddev/soiree/internal/tui/theme"
)

const (
	settingsFieldThreshold = iota
	settingsFieldHorizon
	settingsFieldRounding
	settingsFieldTheme
	settingsFieldLocale
	settingsFieldWeekly
	settingsFieldProjection
	settingsFieldFrequency
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message
	saveErr error // last save or validation failure
}

func isToggleField(field int) bool {
	return field == settingsFieldWeekly || field == settingsFieldProjection || field == settingsFieldFrequency
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	a.settings.saved = false
	cfg := a.cfg

	if isToggleField(a.settings.cursor) {
		switch a.settings.cursor {
		case settingsFieldWeekly:
			cfg.Dashboard.ShowWeeklyMedian = !cfg.Dashboard.ShowWeeklyMedian
		case settingsFieldProjection:
			cfg.Dashboard.ShowProjection = !cfg.Dashboard.ShowProjection
		case settingsFieldFrequency:
			cfg.Dashboard.ShowFrequencyChart = !cfg.Dashboard.ShowFrequencyChart
		}
		return a.commitSettings(cfg)
	}

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldThreshold:
		ti.Placeholder = "10.00 (€ per person)"
		ti.SetValue(strconv.FormatFloat(cfg.Dashboard.Threshold, 'f', 2, 64))
	case settingsFieldHorizon:
		ti.Placeholder = "90 (days)"
		ti.SetValue(strconv.Itoa(cfg.General.HorizonDays))
	case settingsFieldRounding:
		ti.Placeholder = "half_even or half_up"
		ti.SetValue(cfg.RoundingMode().String())
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(cfg.Appearance.Theme)
	case settingsFieldLocale:
		ti.Placeholder = "fr-FR"
		ti.SetValue(cfg.Appearance.Locale)
	}

	ti.Focus()
	a.settings.input = ti
	a.settings.editing = true
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settings.editing = false
		cfg, err := a.settingsParse(strings.TrimSpace(a.settings.input.Value()))
		if err != nil {
			a.settings.saveErr = err
			return a, nil
		}
		return a.commitSettings(cfg)
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsParse applies the edited value to a copy of the live config.
func (a App) settingsParse(val string) (config.Config, error) {
	cfg := a.cfg
	switch a.settings.cursor {
	case settingsFieldThreshold:
		v, err := model.ParseRevenue(val)
		if err != nil {
			return cfg, err
		}
		cfg.Dashboard.Threshold = v
	case settingsFieldHorizon:
		n, err := strconv.Atoi(val)
		if err != nil {
			return cfg, fmt.Errorf("%w: horizon must be a whole number of days", model.ErrInvalidInput)
		}
		cfg.General.HorizonDays = n
	case settingsFieldRounding:
		cfg.General.Rounding = val
	case settingsFieldTheme:
		if !theme.Valid(val) {
			return cfg, fmt.Errorf("%w: unknown theme %q", model.ErrInvalidInput, val)
		}
		cfg.Appearance.Theme = val
	case settingsFieldLocale:
		cfg.Appearance.Locale = val
	}
	return cfg, cfg.Validate()
}

// commitSettings saves cfg and makes it live. A rounding change re-reads
// the record file so stored tickets are re-derived with the new mode.
func (a App) commitSettings(cfg config.Config) (tea.Model, tea.Cmd) {
	if err := cfg.Validate(); err != nil {
		a.settings.saveErr = err
		return a, nil
	}
	a.settings.saveErr = config.SaveTo(a.cfgPath, cfg)
	a.settings.saved = a.settings.saveErr == nil

	roundingChanged := cfg.RoundingMode() != a.cfg.RoundingMode()
	a.cfg = cfg
	theme.SetActive(cfg.Appearance.Theme)
	a.recompute()
	if roundingChanged {
		return a.reload()
	}
	return a, nil
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := a.cfg
	f := a.formatter()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}

	type field struct {
		label string
		value string
	}
	fields := []field{
		{"Threshold", f.Euro(cfg.ThresholdDecimal()) + " / person"},
		{"Horizon", fmt.Sprintf("%d days", cfg.General.HorizonDays)},
		{"Rounding", cfg.RoundingMode().String()},
		{"Theme", cfg.Appearance.Theme},
		{"Locale", cfg.Appearance.Locale},
		{"Weekly median", onOff(cfg.Dashboard.ShowWeeklyMedian)},
		{"Projection", onOff(cfg.Dashboard.ShowProjection)},
		{"Frequency chart", onOff(cfg.Dashboard.ShowFrequencyChart)},
	}

	innerW := components.CardInnerWidth(cw)
	var formBody strings.Builder
	for i, fld := range fields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", fld.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", fld.label+":"))
			value := selectedStyle.Render(fld.value)
			formBody.WriteString(marker + label + value)
			if pad := innerW - lipgloss.Width(marker) - lipgloss.Width(label) - lipgloss.Width(value); pad > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", fld.label+":")))
			formBody.WriteString(valueStyle.Render(fld.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Not saved: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}
	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit / toggle  [Esc] cancel"))

	var infoBody strings.Builder
	records := 0
	if a.state != nil {
		records = len(a.state.Records)
	}
	infoBody.WriteString(labelStyle.Render("Record file:     ") + valueStyle.Render(cfg.DataFile()) + "\n")
	infoBody.WriteString(labelStyle.Render("Events loaded:   ") + valueStyle.Render(f.Number(records)) + "\n")
	infoBody.WriteString(labelStyle.Render("Load time:       ") + valueStyle.Render(fmt.Sprintf("%.2fs", a.loadTime.Seconds())) + "\n")
	infoBody.WriteString(labelStyle.Render("Config file:     ") + valueStyle.Render(a.cfgPath))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))
	return b.String()
}
