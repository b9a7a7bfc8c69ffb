package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseParticipants parses a typed attendance count.
func ParseParticipants(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: participants must be a whole number of at least 1", ErrInvalidInput)
	}
	return n, nil
}

// ParseRevenue parses a typed euro amount. Both "12.50" and "12,50" are
// accepted, with or without a trailing euro sign.
func ParseRevenue(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "€"))
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: revenue %q is not a number", ErrInvalidInput, s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: revenue must not be negative", ErrInvalidInput)
	}
	if d, err := decimal.NewFromString(s); err == nil && !isCents(d) {
		return 0, fmt.Errorf("%w: revenue %q has more than 2 decimals", ErrInvalidInput, s)
	}
	return v, nil
}

// ParseInput converts the three typed fields of the add form into a
// validated EventInput.
func ParseInput(date, participants, revenue string) (EventInput, error) {
	d, err := ParseDate(strings.TrimSpace(date))
	if err != nil {
		return EventInput{}, err
	}
	p, err := ParseParticipants(participants)
	if err != nil {
		return EventInput{}, err
	}
	r, err := ParseRevenue(revenue)
	if err != nil {
		return EventInput{}, err
	}
	in := EventInput{Date: d, Participants: p, Revenue: r}
	return in, in.Validate()
}
