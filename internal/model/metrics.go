package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Metric selects which series a trend fit runs over.
type Metric int

const (
	MetricAverageTicket Metric = iota
	MetricParticipants
)

// String implements fmt.Stringer.
func (m Metric) String() string {
	switch m {
	case MetricAverageTicket:
		return "average ticket"
	case MetricParticipants:
		return "participants"
	default:
		return "unknown"
	}
}

// WeeklyAggregate holds the median ticket for one ISO week.
type WeeklyAggregate struct {
	Label        string // e.g. "2024-W01"
	WeekStart    time.Time
	Events       int
	MedianTicket decimal.Decimal
}

// Fit is a fitted line y = Slope*ordinal + Intercept.
type Fit struct {
	Slope     float64
	Intercept float64
}

// At evaluates the line at a day ordinal.
func (f Fit) At(ordinal int) float64 {
	return f.Slope*float64(ordinal) + f.Intercept
}

// Projection is a forward extrapolation of one metric.
// Dates and Values are parallel.
type Projection struct {
	Metric Metric
	Fit    Fit
	Dates  []time.Time
	Values []float64
}

// Last returns the final projected point. ok is false for an empty projection.
func (p Projection) Last() (time.Time, float64, bool) {
	if len(p.Values) == 0 {
		return time.Time{}, 0, false
	}
	n := len(p.Values) - 1
	return p.Dates[n], p.Values[n], true
}

// SummaryStats holds the top-level aggregate across all records.
type SummaryStats struct {
	Events            int
	ActiveWeeks       int
	FirstDate         time.Time
	LastDate          time.Time
	TotalParticipants int
	TotalRevenue      decimal.Decimal

	MeanParticipants float64
	MedianTicket     decimal.Decimal
	MinTicket        decimal.Decimal
	MaxTicket        decimal.Decimal
	// RevenuePerHead is total revenue over total attendance, unlike the median
	// which weights every event equally.
	RevenuePerHead decimal.Decimal
}

// ThresholdStats summarizes records against the profitability threshold
// (minimum acceptable euros per person).
type ThresholdStats struct {
	Threshold   decimal.Decimal
	Below       int
	AtOrAbove   int
	ShortfallPP decimal.Decimal // mean gap per below-threshold event
}

// MonthlyStats holds attendance and takings for one calendar month.
type MonthlyStats struct {
	Month          string // "2024-01"
	Events         int
	Participants   int
	Revenue        decimal.Decimal
	RevenuePerHead decimal.Decimal
}
