package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/soiree/internal/cli"
	"github.com/theirongolddev/soiree/internal/model"
)

var (
	flagAddDate         string
	flagAddParticipants int
	flagAddRevenue      float64
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a game night",
	Long: "Record a game night. Without --participants and --revenue an\n" +
		"interactive form asks for the values.",
	Example: "  soiree add --date 2024-01-08 --participants 5 --revenue 60",
	RunE:    runAdd,
}

func init() {
	addCmd.Flags().StringVar(&flagAddDate, "date", "", "Event date (YYYY-MM-DD), defaults to today")
	addCmd.Flags().IntVarP(&flagAddParticipants, "participants", "p", 0, "Number of participants")
	addCmd.Flags().Float64VarP(&flagAddRevenue, "revenue", "r", 0, "Revenue in euros")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, _ []string) error {
	var in model.EventInput
	var err error

	if cmd.Flags().Changed("participants") && cmd.Flags().Changed("revenue") {
		in, err = inputFromFlags()
	} else {
		in, err = inputFromForm()
	}
	if err != nil {
		return err
	}

	state, err := loadState()
	if err != nil {
		return err
	}

	rec, err := state.Submit(in)
	if err != nil && state.Pending {
		// One retry before giving up; the process is about to exit and would
		// lose the record otherwise.
		if retryErr := state.Save(); retryErr == nil {
			err = nil
		}
	}
	if err != nil {
		if state.Pending {
			return fmt.Errorf("%w; the record was not saved", err)
		}
		return err
	}

	f := formatter()
	fmt.Printf("\n  Recorded %s: %d participants, %s revenue, ticket %s\n",
		cli.FormatDate(rec.Date), rec.Participants, f.Euro(rec.Revenue),
		cli.Threshold(f.Euro(rec.AverageTicket), rec.AverageTicket.LessThan(cfg.ThresholdDecimal())))
	fmt.Printf("  %s now holds %d events.\n\n", state.Store.Path(), len(state.Records))
	return nil
}

func inputFromFlags() (model.EventInput, error) {
	date := time.Now()
	if flagAddDate != "" {
		d, err := model.ParseDate(flagAddDate)
		if err != nil {
			return model.EventInput{}, err
		}
		date = d
	}
	in := model.EventInput{Date: date, Participants: flagAddParticipants, Revenue: flagAddRevenue}
	return in, in.Validate()
}

// addFormValues holds the raw strings entered in the add form.
type addFormValues struct {
	Date         string
	Participants string
	Revenue      string
}

// newAddForm builds the add-record form. Field validators reuse the same
// parsing as the final conversion, so a completed form always converts.
func newAddForm(v *addFormValues) *huh.Form {
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
				Title("Revenue (€)").
				Value(&v.Revenue).
				Validate(func(s string) error {
					_, err := model.ParseRevenue(s)
					return err
				}),
		),
	)
}

func inputFromForm() (model.EventInput, error) {
	v := addFormValues{Date: time.Now().Format(model.DateLayout)}
	if err := newAddForm(&v).Run(); err != nil {
		return model.EventInput{}, err
	}
	return model.ParseInput(v.Date, v.Participants, v.Revenue)
}
