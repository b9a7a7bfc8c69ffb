// Package model defines domain types for soiree records and derived metrics.
package model

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO-8601 calendar date format used for storage and display.
const DateLayout = "2006-01-02"

// unixEpochOrdinal is the proleptic Gregorian ordinal of 1970-01-01,
// counting 0001-01-01 as day 1.
const unixEpochOrdinal = 719163

// EventRecord is one game night: attendance, takings, and the derived
// per-person average. AverageTicket is a cached value of Revenue/Participants
// and is never set from user input.
type EventRecord struct {
	Date          time.Time
	Participants  int
	Revenue       decimal.Decimal
	AverageTicket decimal.Decimal
}

// EventInput is the raw "add record" payload collected by the presentation layer.
type EventInput struct {
	Date         time.Time
	Participants int
	Revenue      float64
}

// Validate checks the input before any derivation happens.
func (in EventInput) Validate() error {
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if in.Participants < 1 {
		return fmt.Errorf("%w: participants must be at least 1, got %d", ErrInvalidInput, in.Participants)
	}
	if math.IsNaN(in.Revenue) || math.IsInf(in.Revenue, 0) {
		return fmt.Errorf("%w: revenue must be a finite number", ErrInvalidInput)
	}
	if in.Revenue < 0 {
		return fmt.Errorf("%w: revenue must not be negative, got %.2f", ErrInvalidInput, in.Revenue)
	}
	if !isCents(decimal.NewFromFloat(in.Revenue)) {
		return fmt.Errorf("%w: revenue %v has more than 2 decimals", ErrInvalidInput, in.Revenue)
	}
	return nil
}

// isCents reports whether d is a whole number of cents.
func isCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// RecordSet is the ordered collection of event records. Order is insertion
// order; duplicate dates are allowed (several sessions on one day).
type RecordSet []EventRecord

// Append returns a new set with rec at the end. The receiver is not modified,
// so callers must keep (and persist) the returned value.
func (rs RecordSet) Append(rec EventRecord) RecordSet {
	out := make(RecordSet, len(rs), len(rs)+1)
	copy(out, rs)
	return append(out, rec)
}

// Dates returns the distinct calendar dates in the set, oldest first.
func (rs RecordSet) Dates() []time.Time {
	seen := make(map[int]struct{}, len(rs))
	var dates []time.Time
	for _, r := range rs {
		o := Ordinal(r.Date)
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		dates = append(dates, r.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Latest returns the most recent record date, or the zero time for an empty set.
func (rs RecordSet) Latest() time.Time {
	var latest time.Time
	for _, r := range rs {
		if r.Date.After(latest) {
			latest = r.Date
		}
	}
	return latest
}

// Date normalizes t to midnight UTC of its calendar day.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO-8601 calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", ErrInvalidInput, s)
	}
	return t, nil
}

// Ordinal maps a calendar date to its proleptic Gregorian day count
// (0001-01-01 is 1). This is the only date-to-number mapping in the codebase.
func Ordinal(t time.Time) int {
	d := Date(t)
	days := d.Unix() / 86400
	return int(days) + unixEpochOrdinal
}

// FromOrdinal is the inverse of Ordinal.
func FromOrdinal(o int) time.Time {
	return time.Unix(int64(o-unixEpochOrdinal)*86400, 0).UTC()
}
