package pipeline

import (
	"errors"
	"math"
	"testing"

	"github.com/theirongolddev/soiree/internal/model"
)

const eps = 1e-9

func TestProject_TwoPoints(t *testing.T) {
	set := model.RecordSet{
		withTicket(t, "2024-03-01", 1, "10"),
		withTicket(t, "2024-03-11", 1, "20"),
	}
	p, err := Project(set, model.MetricAverageTicket, 90)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	if math.Abs(p.Fit.Slope-1.0) > eps {
		t.Errorf("slope = %v, want 1.0/day", p.Fit.Slope)
	}
	if len(p.Dates) != 90 || len(p.Values) != 90 {
		t.Fatalf("got %d dates, %d values; want 90", len(p.Dates), len(p.Values))
	}
	if !p.Dates[0].Equal(day(t, "2024-03-11")) {
		t.Errorf("first horizon date = %s, want the last record date", p.Dates[0].Format(model.DateLayout))
	}
	if math.Abs(p.Values[0]-20.0) > eps {
		t.Errorf("value at D2 = %v, want 20", p.Values[0])
	}
	for i := 1; i < len(p.Dates); i++ {
		if model.Ordinal(p.Dates[i])-model.Ordinal(p.Dates[i-1]) != 1 {
			t.Fatalf("horizon dates not consecutive at %d", i)
		}
		if math.Abs(p.Values[i]-p.Fit.At(model.Ordinal(p.Dates[i]))) > eps {
			t.Fatalf("value %d off the fitted line", i)
		}
	}
	if last, v, ok := p.Last(); !ok || !last.Equal(day(t, "2024-06-08")) || math.Abs(v-109) > 1e-6 {
		t.Errorf("Last() = %s, %v, %v", last.Format(model.DateLayout), v, ok)
	}
}

func TestProject_InputOrderIrrelevant(t *testing.T) {
	a := model.RecordSet{
		withTicket(t, "2024-01-01", 4, "10"),
		withTicket(t, "2024-01-05", 6, "13"),
		withTicket(t, "2024-01-20", 3, "9"),
	}
	b := model.RecordSet{a[2], a[0], a[1]}

	pa, err := Project(a, model.MetricParticipants, 5)
	if err != nil {
		t.Fatal(err)
	}
	pb, err := Project(b, model.MetricParticipants, 5)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(pa.Fit.Slope-pb.Fit.Slope) > eps || math.Abs(pa.Fit.Intercept-pb.Fit.Intercept) > 1e-6 {
		t.Errorf("fits differ: %+v vs %+v", pa.Fit, pb.Fit)
	}
}

func TestProject_Errors(t *testing.T) {
	same := model.RecordSet{
		withTicket(t, "2024-01-01", 2, "5"),
		withTicket(t, "2024-01-01", 3, "7"),
		withTicket(t, "2024-01-01", 4, "9"),
	}
	two := model.RecordSet{
		withTicket(t, "2024-01-01", 2, "5"),
		withTicket(t, "2024-01-02", 3, "7"),
	}

	tests := []struct {
		name    string
		set     model.RecordSet
		horizon int
		want    error
	}{
		{"identical dates", same, 90, model.ErrDegenerateFit},
		{"empty", model.RecordSet{}, 90, model.ErrInsufficientData},
		{"single", two[:1], 90, model.ErrInsufficientData},
		{"zero horizon", two, 0, model.ErrInvalidInput},
		{"negative horizon", two, -3, model.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, m := range []model.Metric{model.MetricAverageTicket, model.MetricParticipants} {
				if _, err := Project(tt.set, m, tt.horizon); !errors.Is(err, tt.want) {
					t.Errorf("Project(%s) err = %v, want %v", m, err, tt.want)
				}
			}
		})
	}
}

func TestCanProject(t *testing.T) {
	tests := []struct {
		name string
		set  model.RecordSet
		want bool
	}{
		{"empty", nil, false},
		{"single", model.RecordSet{withTicket(t, "2024-01-01", 1, "1")}, false},
		{"same date", model.RecordSet{withTicket(t, "2024-01-01", 1, "1"), withTicket(t, "2024-01-01", 2, "1")}, false},
		{"two dates", model.RecordSet{withTicket(t, "2024-01-01", 1, "1"), withTicket(t, "2024-01-02", 2, "1")}, true},
	}
	for _, tt := range tests {
		if got := CanProject(tt.set); got != tt.want {
			t.Errorf("CanProject(%s) = %v, want %v", tt.name, got, tt.want)
		}
		// CanProject must agree with Project succeeding.
		_, err := Project(tt.set, model.MetricAverageTicket, 1)
		if (err == nil) != tt.want {
			t.Errorf("%s: CanProject = %v but Project err = %v", tt.name, tt.want, err)
		}
	}
}

func TestProjectBoth_IndependentFits(t *testing.T) {
	set := model.RecordSet{
		withTicket(t, "2024-01-01", 10, "8"),
		withTicket(t, "2024-01-11", 5, "12"),
	}
	ticket, participants, err := ProjectBoth(set, 3)
	if err != nil {
		t.Fatal(err)
	}
	if ticket.Metric != model.MetricAverageTicket || participants.Metric != model.MetricParticipants {
		t.Errorf("metrics = %s, %s", ticket.Metric, participants.Metric)
	}
	if math.Abs(ticket.Fit.Slope-0.4) > eps {
		t.Errorf("ticket slope = %v, want 0.4", ticket.Fit.Slope)
	}
	if math.Abs(participants.Fit.Slope+0.5) > eps {
		t.Errorf("participants slope = %v, want -0.5", participants.Fit.Slope)
	}
	for i := range ticket.Dates {
		if !ticket.Dates[i].Equal(participants.Dates[i]) {
			t.Fatalf("date axes differ at %d", i)
		}
	}
}

func TestFitLine(t *testing.T) {
	fit, err := FitLine([]float64{1, 2, 3, 4}, []float64{3, 5, 7, 9})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(fit.Slope-2) > eps || math.Abs(fit.Intercept-1) > eps {
		t.Errorf("fit = %+v, want slope 2 intercept 1", fit)
	}

	if _, err := FitLine([]float64{1, 2}, []float64{1}); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("mismatched lengths err = %v", err)
	}
	if _, err := FitLine([]float64{5, 5}, []float64{1, 2}); !errors.Is(err, model.ErrDegenerateFit) {
		t.Errorf("zero variance err = %v", err)
	}
}

func TestCrossing(t *testing.T) {
	set := model.RecordSet{
		withTicket(t, "2024-01-01", 1, "6"),
		withTicket(t, "2024-01-05", 1, "8"),
	}
	// Ticket grows 0.5/day from 8.00 on 2024-01-05: 9.50 on the 8th, 10.00 on the 9th.
	p, err := Project(set, model.MetricAverageTicket, 30)
	if err != nil {
		t.Fatal(err)
	}
	at, ok := Crossing(p, 9.75)
	if !ok || !at.Equal(day(t, "2024-01-09")) {
		t.Errorf("Crossing(9.75) = %s, %v; want 2024-01-09", at.Format(model.DateLayout), ok)
	}
	if _, ok := Crossing(p, 1); ok {
		t.Error("Crossing(1) found a crossing for a series always above 1")
	}
	if _, ok := Crossing(model.Projection{}, 1); ok {
		t.Error("Crossing on empty projection")
	}
}
