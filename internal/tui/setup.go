package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/text/language"

	"github.com/theirongolddev/soiree/internal/config"
	"github.com/theirongolddev/soiree/internal/model"
	"github.com/theirongolddev/soiree/internal/ticket"
	"github.com/theirongolddev/soiree/internal/tui/theme"
)

// SetupValues holds the raw answers of the setup form.
type SetupValues struct {
	DataFile  string
	Threshold string
	Rounding  string
	Theme     string
	Locale    string
}

// SetupValuesFrom pre-fills the form from cfg.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		DataFile:  cfg.DataFile(),
		Threshold: strconv.FormatFloat(cfg.Dashboard.Threshold, 'f', 2, 64),
		Rounding:  cfg.RoundingMode().String(),
		Theme:     theme.ByName(cfg.Appearance.Theme).Name,
		Locale:    cfg.Appearance.Locale,
	}
}

// Apply writes the answers into cfg and validates the result.
func (v SetupValues) Apply(cfg *config.Config) error {
	thr, err := model.ParseRevenue(v.Threshold)
	if err != nil {
		return err
	}
	if path := strings.TrimSpace(v.DataFile); path != "" {
		cfg.General.DataFile = path
	}
	cfg.Dashboard.Threshold = thr
	cfg.General.Rounding = v.Rounding
	cfg.Appearance.Theme = v.Theme
	cfg.Appearance.Locale = strings.TrimSpace(v.Locale)
	return cfg.Validate()
}

// NewSetupForm builds the first-run form. Validators mirror Apply so a
// completed form always applies cleanly.
func NewSetupForm(v *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to soiree").
				Description("Track attendance and takings per game night.\n\n"+
					"Press Enter to start setup."),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Record file").
				Description("CSV file holding one row per event; created on first save.").
				Value(&v.DataFile),
			huh.NewInput().
				Title("Profitability threshold (€ per person)").
				Description("Events whose average ticket falls below this are flagged.").
				Value(&v.Threshold).
				Validate(func(s string) error {
					_, err := model.ParseRevenue(s)
					return err
				}),
			huh.NewSelect[string]().
				Title("Ticket rounding").
				Options(
					huh.NewOption("Half to even (banker's)", ticket.HalfEven.String()),
					huh.NewOption("Half up", ticket.HalfUp.String()),
				).
				Value(&v.Rounding),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&v.Theme),
			huh.NewInput().
				Title("Locale").
				Description("Number and currency format, e.g. fr-FR or en-GB.").
				Value(&v.Locale).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					_, err := language.Parse(strings.TrimSpace(s))
					return err
				}),
		),
	).WithShowHelp(false)
}
