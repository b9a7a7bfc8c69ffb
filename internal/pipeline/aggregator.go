// Package pipeline orchestrates record loading, caching, aggregation and
// trend projection.
package pipeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/soiree/internal/model"
)

var two = decimal.NewFromInt(2)

// Median returns the middle of values, or the mean of the two middle values
// when the count is even. values is not modified.
func Median(values []decimal.Decimal) (decimal.Decimal, error) {
	if len(values) == 0 {
		return decimal.Zero, fmt.Errorf("%w: median of no values", model.ErrEmptyDataset)
	}
	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], nil
	}
	return sorted[mid-1].Add(sorted[mid]).Div(two), nil
}

// GlobalMedian is the median average ticket over every record.
func GlobalMedian(set model.RecordSet) (decimal.Decimal, error) {
	if len(set) == 0 {
		return decimal.Zero, fmt.Errorf("%w: no records", model.ErrEmptyDataset)
	}
	return Median(tickets(set))
}

// WeeklyMedians groups records by ISO week (Monday start) and returns the
// median ticket per week, oldest week first. An empty set yields an empty slice.
func WeeklyMedians(set model.RecordSet) []model.WeeklyAggregate {
	type bucket struct {
		start   time.Time
		tickets []decimal.Decimal
	}
	buckets := make(map[string]*bucket)

	for _, r := range set {
		label := WeekLabel(r.Date)
		b, ok := buckets[label]
		if !ok {
			b = &bucket{start: WeekStart(r.Date)}
			buckets[label] = b
		}
		b.tickets = append(b.tickets, r.AverageTicket)
	}

	weeks := make([]model.WeeklyAggregate, 0, len(buckets))
	for label, b := range buckets {
		med, _ := Median(b.tickets)
		weeks = append(weeks, model.WeeklyAggregate{
			Label:        label,
			WeekStart:    b.start,
			Events:       len(b.tickets),
			MedianTicket: med,
		})
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].WeekStart.Before(weeks[j].WeekStart) })
	return weeks
}

// WeekLabel formats the ISO week of t as "2024-W01".
func WeekLabel(t time.Time) string {
	y, w := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", y, w)
}

// WeekStart returns the Monday of t's ISO week at midnight UTC.
func WeekStart(t time.Time) time.Time {
	d := model.Date(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDate(0, 0, -offset)
}

// Summarize computes the headline numbers across all records.
func Summarize(set model.RecordSet) model.SummaryStats {
	var stats model.SummaryStats
	if len(set) == 0 {
		return stats
	}

	stats.Events = len(set)
	stats.FirstDate = set[0].Date
	stats.LastDate = set[0].Date
	stats.MinTicket = set[0].AverageTicket
	stats.MaxTicket = set[0].AverageTicket

	weeks := make(map[string]struct{})
	for _, r := range set {
		stats.TotalParticipants += r.Participants
		stats.TotalRevenue = stats.TotalRevenue.Add(r.Revenue)
		weeks[WeekLabel(r.Date)] = struct{}{}

		if r.Date.Before(stats.FirstDate) {
			stats.FirstDate = r.Date
		}
		if r.Date.After(stats.LastDate) {
			stats.LastDate = r.Date
		}
		if r.AverageTicket.LessThan(stats.MinTicket) {
			stats.MinTicket = r.AverageTicket
		}
		if r.AverageTicket.GreaterThan(stats.MaxTicket) {
			stats.MaxTicket = r.AverageTicket
		}
	}

	stats.ActiveWeeks = len(weeks)
	stats.MeanParticipants = float64(stats.TotalParticipants) / float64(stats.Events)
	stats.MedianTicket, _ = GlobalMedian(set)
	stats.RevenuePerHead = stats.TotalRevenue.Div(decimal.NewFromInt(int64(stats.TotalParticipants))).RoundBank(2)
	return stats
}

// Threshold counts events whose ticket fell below the profitability
// threshold, and the mean shortfall of those events.
func Threshold(set model.RecordSet, threshold decimal.Decimal) model.ThresholdStats {
	ts := model.ThresholdStats{Threshold: threshold}
	gap := decimal.Zero
	for _, r := range set {
		if r.AverageTicket.LessThan(threshold) {
			ts.Below++
			gap = gap.Add(threshold.Sub(r.AverageTicket))
		} else {
			ts.AtOrAbove++
		}
	}
	if ts.Below > 0 {
		ts.ShortfallPP = gap.Div(decimal.NewFromInt(int64(ts.Below))).RoundBank(2)
	}
	return ts
}

// AggregateMonths totals attendance and revenue per calendar month, oldest first.
func AggregateMonths(set model.RecordSet) []model.MonthlyStats {
	byMonth := make(map[string]*model.MonthlyStats)
	for _, r := range set {
		key := r.Date.Format("2006-01")
		ms, ok := byMonth[key]
		if !ok {
			ms = &model.MonthlyStats{Month: key}
			byMonth[key] = ms
		}
		ms.Events++
		ms.Participants += r.Participants
		ms.Revenue = ms.Revenue.Add(r.Revenue)
	}

	months := make([]model.MonthlyStats, 0, len(byMonth))
	for _, ms := range byMonth {
		if ms.Participants > 0 {
			ms.RevenuePerHead = ms.Revenue.Div(decimal.NewFromInt(int64(ms.Participants))).RoundBank(2)
		}
		months = append(months, *ms)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })
	return months
}

// Chronological returns a copy of set ordered by date. Records sharing a
// date keep their insertion order.
func Chronological(set model.RecordSet) model.RecordSet {
	out := make(model.RecordSet, len(set))
	copy(out, set)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// FilterByTime returns records dated within [since, until). A zero bound is open.
func FilterByTime(set model.RecordSet, since, until time.Time) model.RecordSet {
	var out model.RecordSet
	for _, r := range set {
		if !since.IsZero() && r.Date.Before(model.Date(since)) {
			continue
		}
		if !until.IsZero() && !r.Date.Before(model.Date(until)) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func tickets(set model.RecordSet) []decimal.Decimal {
	out := make([]decimal.Decimal, len(set))
	for i, r := range set {
		out[i] = r.AverageTicket
	}
	return out
}
