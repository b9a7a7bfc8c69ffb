// Package tui provides the interactive Bubble Tea dashboard for soiree.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/soiree/internal/cli"
	"github.com/theirongolddev/soiree/internal/config"
	"github.com/theirongolddev/soiree/internal/logger"
	"github.com/theirongolddev/soiree/internal/model"
	"github.com/theirongolddev/soiree/internal/pipeline"
	"github.com/theirongolddev/soiree/internal/source"
	"github.com/theirongolddev/soiree/internal/tui/components"
	"github.com/theirongolddev/soiree/internal/tui/theme"
)

// DataLoadedMsg is sent when the background load finishes. State is nil
// when Err is set.
type DataLoadedMsg struct {
	State    *pipeline.State
	Err      error
	LoadTime time.Duration
}

// Options configures NewApp.
type Options struct {
	Config config.Config
	// ConfigPath is where settings and first-run answers are saved.
	ConfigPath string
	// FirstRun shows the setup form once the data has loaded.
	FirstRun bool
	// Days limits the views to the last N days; 0 shows everything.
	Days    int
	NoCache bool
}

// Tab indices, in components.Tabs order.
const (
	tabDashboard = iota
	tabWeekly
	tabForecast
	tabEvents
	tabAdd
	tabSettings
)

// App is the root Bubble Tea model. The record state is only mutated from
// Update; background commands hand over a fresh State through DataLoadedMsg.
type App struct {
	cfg        config.Config
	cfgPath    string
	state      *pipeline.State
	loaded     bool
	loadErr    error
	loadTime   time.Duration
	noCache    bool
	reloading  bool
	quitArmed  bool // q pressed once with unsaved data
	statusLine string

	// Pre-computed for the current window
	data viewData

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	days      int

	// Per-tab state
	events   eventsState
	add      addState
	settings settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals SetupValues
	needSetup bool

	spinner spinner.Model
}

// viewData is everything the tabs render, derived from the record set.
type viewData struct {
	records    model.RecordSet // chronological
	stats      model.SummaryStats
	threshold  model.ThresholdStats
	weeks      []model.WeeklyAggregate
	months     []model.MonthlyStats
	canProject bool
	ticketProj model.Projection
	partProj   model.Projection
	projErr    error
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	path := opts.ConfigPath
	if path == "" {
		path = config.ConfigPath()
	}

	return App{
		cfg:       opts.Config,
		cfgPath:   path,
		days:      opts.Days,
		noCache:   opts.NoCache,
		needSetup: opts.FirstRun,
		spinner:   sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.newStore(), !a.noCache),
		a.spinner.Tick,
	)
}

func (a App) newStore() *source.Store {
	return source.NewStore(a.cfg.DataFile(), a.cfg.RoundingMode())
}

func (a App) formatter() *cli.Formatter {
	return cli.NewFormatter(a.cfg.Appearance.Locale)
}

func (a *App) recompute() {
	set := model.RecordSet{}
	if a.state != nil {
		set = a.state.Records
	}
	if a.days > 0 {
		set = pipeline.FilterByTime(set, time.Now().AddDate(0, 0, -a.days), time.Time{})
	}

	d := viewData{
		records: pipeline.Chronological(set),
		weeks:   pipeline.WeeklyMedians(set),
		months:  pipeline.AggregateMonths(set),
	}
	if len(set) > 0 {
		d.stats = pipeline.Summarize(set)
		d.threshold = pipeline.Threshold(set, a.cfg.ThresholdDecimal())
	}
	d.canProject = pipeline.CanProject(set)
	if d.canProject {
		d.ticketProj, d.partProj, d.projErr = pipeline.ProjectBoth(set, a.cfg.General.HorizonDays)
	}
	a.data = d

	if a.events.cursor >= len(d.records) {
		a.events.cursor = len(d.records) - 1
	}
	if a.events.cursor < 0 {
		a.events.cursor = 0
	}
}

func (a App) pending() bool {
	return a.state != nil && a.state.Pending
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		if a.add.form != nil {
			a.add.form = a.add.form.WithWidth(a.formWidth())
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabEvents {
				a.events.move(-1, len(a.data.records))
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == tabEvents {
				a.events.move(1, len(a.data.records))
			}
		case tea.MouseButtonLeft:
			if msg.Action == tea.MouseActionPress && msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					return a.switchTab(tab)
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.reloading = false
		a.loadTime = msg.LoadTime
		if msg.Err != nil {
			a.loadErr = msg.Err
			return a, nil
		}
		a.loadErr = nil
		a.state = msg.State
		a.recompute()
		if a.state.Rederived > 0 {
			a.statusLine = fmt.Sprintf("%d stored tickets recomputed", a.state.Rederived)
		}

		if a.needSetup {
			a.setupVals = SetupValuesFrom(a.cfg)
			a.setupForm = NewSetupForm(&a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded || a.reloading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages (cursor blinks etc.) to an active form.
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.activeTab == tabAdd && a.add.form != nil {
		return a.updateAddForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}

	// First-run setup wizard intercepts all keys
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	if a.loadErr != nil {
		switch key {
		case "q":
			return a, tea.Quit
		case "r":
			return a.reload()
		}
		return a, nil
	}

	if a.activeTab == tabAdd && a.add.form != nil {
		if key == "esc" {
			a.add.form = nil
			return a, nil
		}
		return a.updateAddForm(msg)
	}

	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if key != "q" {
		a.quitArmed = false
	}

	switch a.activeTab {
	case tabEvents:
		if a.updateEventsKey(key) {
			return a, nil
		}
	case tabAdd:
		if key == "enter" || key == "n" {
			cmd := a.startAddForm()
			return a, cmd
		}
	case tabSettings:
		switch key {
		case "j", "down":
			if a.settings.cursor < settingsFieldCount-1 {
				a.settings.cursor++
			}
			return a, nil
		case "k", "up":
			if a.settings.cursor > 0 {
				a.settings.cursor--
			}
			return a, nil
		case "enter":
			return a.settingsStartEdit()
		}
	}

	switch key {
	case "q":
		if a.pending() && !a.quitArmed {
			a.quitArmed = true
			a.statusLine = "unsaved record: [s] retry save, [q] again to quit anyway"
			return a, nil
		}
		return a, tea.Quit
	case "s":
		return a.retrySave(), nil
	case "r":
		return a.reload()
	case "left":
		return a.switchTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
	case "right", "tab":
		return a.switchTab((a.activeTab + 1) % len(components.Tabs))
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			return a.switchTab(idx)
		}
	}
	return a, nil
}

func (a App) switchTab(idx int) (tea.Model, tea.Cmd) {
	a.activeTab = idx
	if idx == tabAdd && a.add.form == nil && a.add.result == "" {
		cmd := a.startAddForm()
		return a, cmd
	}
	return a, nil
}

// retrySave persists the in-memory records after an earlier failure.
func (a App) retrySave() App {
	if !a.pending() {
		return a
	}
	if err := a.state.Save(); err != nil {
		a.statusLine = "save failed: " + err.Error()
		logger.Error("retrying save: %v", err)
		return a
	}
	a.quitArmed = false
	a.statusLine = "saved to " + a.state.Store.Path()
	return a
}

// reload re-reads the record file. Refused while a save is pending, since
// the reload would drop the unsaved record.
func (a App) reload() (tea.Model, tea.Cmd) {
	if a.pending() {
		a.statusLine = "unsaved record: [s] retry save before reloading"
		return a, nil
	}
	if a.reloading {
		return a, nil
	}
	a.reloading = true
	a.statusLine = ""
	return a, tea.Batch(loadDataCmd(a.newStore(), !a.noCache), a.spinner.Tick)
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.needSetup = false
		a.setupForm = nil
		return a.applySetup()
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

// applySetup saves the first-run answers and reloads if the record file
// or rounding changed.
func (a App) applySetup() (tea.Model, tea.Cmd) {
	cfg := a.cfg
	if err := a.setupVals.Apply(&cfg); err != nil {
		a.statusLine = "setup not applied: " + err.Error()
		return a, nil
	}
	if err := config.SaveTo(a.cfgPath, cfg); err != nil {
		a.statusLine = "config not saved: " + err.Error()
	}

	needReload := cfg.DataFile() != a.cfg.DataFile() || cfg.RoundingMode() != a.cfg.RoundingMode()
	a.cfg = cfg
	theme.SetActive(cfg.Appearance.Theme)
	a.recompute()
	if needReload {
		return a.reload()
	}
	return a, nil
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.loadErr != nil {
		return a.viewLoadError()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  soiree needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)
	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ soiree"))
	b.WriteString(subtitleStyle.Render(" · game night tracker"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Reading " + a.cfg.DataFile()))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoadError() string {
	t := theme.Active
	cw := min(a.contentWidth(), 100)

	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	body := errStyle.Render(a.loadErr.Error()) + "\n\n" +
		hintStyle.Render("Fix the file and press [r] to reload, or [q] to quit.")
	card := components.ContentCard("Could not load "+a.cfg.DataFile(), body, cw)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	section := func(title string, binds []struct{ key, desc string }) {
		b.WriteString(sectionStyle.Render(title))
		b.WriteString("\n")
		for _, bind := range binds {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
		b.WriteString("\n")
	}

	section("Navigation", []struct{ key, desc string }{
		{"d w f e a x", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Move through events"},
		{"g G", "First / last event"},
	})
	section("Actions", []struct{ key, desc string }{
		{"a", "Record a game night"},
		{"Enter", "Edit setting / new entry"},
		{"Esc", "Cancel"},
		{"s", "Retry a failed save"},
		{"r", "Reload the record file"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	})
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height
	f := a.formatter()

	// 1. Header: tab bar + filter pill
	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pillAccent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	window := "all time"
	if a.days > 0 {
		window = fmt.Sprintf("last %dd", a.days)
	}
	filterStr := pillStyle.Render(" ") + pillAccent.Render(window) +
		pillStyle.Render(" │ threshold ") + pillAccent.Render(f.Euro(a.cfg.ThresholdDecimal())) +
		pillStyle.Render(" │ "+a.cfg.DataFile()+" ")
	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(filterStr)

	// 2. Status bar
	info := components.StatusInfo{
		LoadTime: fmt.Sprintf("%.2fs", a.loadTime.Seconds()),
		Pending:  a.pending() && !a.quitArmed,
		Message:  a.statusLine,
	}
	if a.state != nil {
		info.Records = len(a.state.Records)
	}
	if a.reloading {
		info.Message = a.spinner.View() + " reloading"
	}
	statusBar := components.RenderStatusBar(w, info)

	// 3. Content zone height
	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	// 4. Tab content
	var content string
	switch a.activeTab {
	case tabDashboard:
		content = a.renderDashboardTab(cw)
	case tabWeekly:
		content = a.renderWeeklyTab(cw)
	case tabForecast:
		content = a.renderForecastTab(cw)
	case tabEvents:
		content = a.renderEventsTab(cw, contentH)
	case tabAdd:
		content = a.renderAddTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	// 5. Truncate + pad to exactly contentH lines, fill background
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// renderEmpty is the shared empty state for tabs that need records.
func (a App) renderEmpty(title string, cw int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	body := muted.Render("No events recorded yet.") + "\n\n" +
		muted.Render("Press ") + accent.Render("a") + muted.Render(" to record your first game night.")
	return components.ContentCard(title, body, cw)
}

// ─── Helpers ────────────────────────────────────────────────────

// loadDataCmd loads the record file off the Update loop.
func loadDataCmd(st *source.Store, useCache bool) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		state, err := pipeline.LoadState(st, useCache)
		return DataLoadedMsg{State: state, Err: err, LoadTime: time.Since(start)}
	}
}

// chartDateLabels builds compact X-axis labels for chronological dates:
// a month abbreviation at the first point and at month changes, the day
// number otherwise.
func chartDateLabels(dates []time.Time) []string {
	labels := make([]string, len(dates))
	prevMonth := time.Month(0)
	for i, dt := range dates {
		if i == 0 || dt.Month() != prevMonth {
			labels[i] = dt.Format("Jan")
		} else {
			labels[i] = fmt.Sprintf("%d", dt.Day())
		}
		prevMonth = dt.Month()
	}
	return labels
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color
// so gaps between cards keep the theme background.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}
