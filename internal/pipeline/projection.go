package pipeline

import (
	"fmt"
	"time"

	"github.com/theirongolddev/soiree/internal/model"
)

// DefaultHorizonDays is how far ahead projections run unless configured.
const DefaultHorizonDays = 90

// CanProject reports whether set has enough spread for a linear fit: at
// least two records on at least two distinct dates. Callers check this
// before projecting and show an empty state otherwise.
func CanProject(set model.RecordSet) bool {
	if len(set) < 2 {
		return false
	}
	first := model.Ordinal(set[0].Date)
	for _, r := range set[1:] {
		if model.Ordinal(r.Date) != first {
			return true
		}
	}
	return false
}

// Project fits an ordinary least squares line of metric against date ordinal
// and evaluates it on horizonDays consecutive days, starting at the most
// recent record date.
func Project(set model.RecordSet, metric model.Metric, horizonDays int) (model.Projection, error) {
	if horizonDays < 1 {
		return model.Projection{}, fmt.Errorf("%w: horizon must be at least 1 day, got %d", model.ErrInvalidInput, horizonDays)
	}
	if len(set) < 2 {
		return model.Projection{}, fmt.Errorf("%w: %s needs at least 2 records, have %d",
			model.ErrInsufficientData, metric, len(set))
	}

	sorted := Chronological(set)
	xs := make([]float64, len(sorted))
	ys := make([]float64, len(sorted))
	for i, r := range sorted {
		xs[i] = float64(model.Ordinal(r.Date))
		ys[i] = metricValue(r, metric)
	}

	fit, err := FitLine(xs, ys)
	if err != nil {
		return model.Projection{}, fmt.Errorf("%s: %w", metric, err)
	}

	start := sorted[len(sorted)-1].Date
	p := model.Projection{
		Metric: metric,
		Fit:    fit,
		Dates:  make([]time.Time, horizonDays),
		Values: make([]float64, horizonDays),
	}
	base := model.Ordinal(start)
	for i := 0; i < horizonDays; i++ {
		p.Dates[i] = start.AddDate(0, 0, i)
		p.Values[i] = fit.At(base + i)
	}
	return p, nil
}

// ProjectBoth runs the ticket and attendance fits over the same date axis.
// The two series are fitted independently.
func ProjectBoth(set model.RecordSet, horizonDays int) (ticket, participants model.Projection, err error) {
	ticket, err = Project(set, model.MetricAverageTicket, horizonDays)
	if err != nil {
		return model.Projection{}, model.Projection{}, err
	}
	participants, err = Project(set, model.MetricParticipants, horizonDays)
	if err != nil {
		return model.Projection{}, model.Projection{}, err
	}
	return ticket, participants, nil
}

// FitLine computes the closed-form least squares line through (xs, ys).
// The sums run over deviations from the means to keep precision with
// ordinals in the hundreds of thousands.
func FitLine(xs, ys []float64) (model.Fit, error) {
	n := len(xs)
	if n != len(ys) {
		return model.Fit{}, fmt.Errorf("%w: %d x values, %d y values", model.ErrInvalidInput, n, len(ys))
	}
	if n < 2 {
		return model.Fit{}, fmt.Errorf("%w: need at least 2 points, have %d", model.ErrInsufficientData, n)
	}

	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var sxx, sxy float64
	for i := range xs {
		dx := xs[i] - meanX
		sxx += dx * dx
		sxy += dx * (ys[i] - meanY)
	}
	if sxx == 0 {
		return model.Fit{}, fmt.Errorf("%w: all points share one date", model.ErrDegenerateFit)
	}

	slope := sxy / sxx
	return model.Fit{Slope: slope, Intercept: meanY - slope*meanX}, nil
}

func metricValue(r model.EventRecord, metric model.Metric) float64 {
	if metric == model.MetricParticipants {
		return float64(r.Participants)
	}
	return r.AverageTicket.InexactFloat64()
}

// Crossing returns the first projected date on which p's value moves to the
// other side of level, relative to its first point. ok is false when the
// projection stays on one side for the whole horizon.
func Crossing(p model.Projection, level float64) (time.Time, bool) {
	if len(p.Values) == 0 {
		return time.Time{}, false
	}
	startBelow := p.Values[0] < level
	for i, v := range p.Values[1:] {
		if (v < level) != startBelow {
			return p.Dates[i+1], true
		}
	}
	return time.Time{}, false
}
