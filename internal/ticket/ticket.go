// Package ticket derives the per-person average ("average ticket") of an event.
package ticket

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/soiree/internal/model"
)

// Places is the number of fraction digits kept on a stored ticket.
const Places = 2

// Rounding selects how the ticket is rounded to Places digits.
type Rounding int

const (
	// HalfEven is banker's rounding: 0.125 -> 0.12, 0.135 -> 0.14.
	HalfEven Rounding = iota
	// HalfUp rounds ties away from zero: 0.125 -> 0.13.
	HalfUp
)

// String implements fmt.Stringer, using the config file spelling.
func (r Rounding) String() string {
	if r == HalfUp {
		return "half_up"
	}
	return "half_even"
}

// ParseRounding maps a config value to a Rounding. Empty means HalfEven.
func ParseRounding(s string) (Rounding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "half_even":
		return HalfEven, nil
	case "half_up":
		return HalfUp, nil
	default:
		return HalfEven, fmt.Errorf("%w: unknown rounding %q (want half_even or half_up)", model.ErrInvalidInput, s)
	}
}

// Compute returns revenue/participants rounded half-to-even to two places.
func Compute(revenue decimal.Decimal, participants int) (decimal.Decimal, error) {
	return ComputeWith(HalfEven, revenue, participants)
}

// ComputeWith is Compute with an explicit rounding mode.
func ComputeWith(mode Rounding, revenue decimal.Decimal, participants int) (decimal.Decimal, error) {
	if participants < 1 {
		return decimal.Zero, fmt.Errorf("%w: participants must be at least 1, got %d", model.ErrInvalidInput, participants)
	}
	if revenue.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: revenue must not be negative, got %s", model.ErrInvalidInput, revenue)
	}

	avg := revenue.Div(decimal.NewFromInt(int64(participants)))
	if mode == HalfUp {
		return avg.Round(Places), nil
	}
	return avg.RoundBank(Places), nil
}

// NewRecord validates in and builds the stored record with its derived ticket.
// Revenue must already be a whole number of cents; Validate rejects finer input.
func NewRecord(mode Rounding, in model.EventInput) (model.EventRecord, error) {
	if err := in.Validate(); err != nil {
		return model.EventRecord{}, err
	}

	revenue := decimal.NewFromFloat(in.Revenue).Round(Places)
	avg, err := ComputeWith(mode, revenue, in.Participants)
	if err != nil {
		return model.EventRecord{}, err
	}

	return model.EventRecord{
		Date:          model.Date(in.Date),
		Participants:  in.Participants,
		Revenue:       revenue,
		AverageTicket: avg,
	}, nil
}

// Rederive recomputes the ticket of a stored record from its revenue and
// attendance. Used when loading so a hand-edited ticket column is never trusted.
func Rederive(mode Rounding, rec model.EventRecord) (model.EventRecord, error) {
	avg, err := ComputeWith(mode, rec.Revenue, rec.Participants)
	if err != nil {
		return rec, fmt.Errorf("record %s: %w", rec.Date.Format(model.DateLayout), err)
	}
	rec.AverageTicket = avg
	return rec, nil
}
