package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/soiree/internal/model"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want string
	}{
		{"single", []string{"4.20"}, "4.20"},
		{"odd", []string{"5.00", "7.00", "9.00"}, "7.00"},
		{"even", []string{"5.00", "7.00", "9.00", "11.00"}, "8.00"},
		{"unsorted", []string{"11.00", "5.00", "9.00", "7.00"}, "8.00"},
		{"half cent", []string{"3.33", "3.34"}, "3.335"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vals := make([]decimal.Decimal, len(tt.in))
			for i, s := range tt.in {
				vals[i] = dec(s)
			}
			got, err := Median(vals)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(dec(tt.want)) {
				t.Errorf("Median(%v) = %s, want %s", tt.in, got, tt.want)
			}
			if tt.name == "unsorted" && !vals[0].Equal(dec("11.00")) {
				t.Error("Median reordered its input")
			}
		})
	}
}

func TestGlobalMedian(t *testing.T) {
	odd := model.RecordSet{
		withTicket(t, "2024-01-01", 1, "5.00"),
		withTicket(t, "2024-01-02", 1, "9.00"),
		withTicket(t, "2024-01-03", 1, "7.00"),
	}
	got, err := GlobalMedian(odd)
	if err != nil || !got.Equal(dec("7.00")) {
		t.Errorf("GlobalMedian(odd) = %s, %v; want 7.00", got, err)
	}

	even := odd.Append(withTicket(t, "2024-01-04", 1, "11.00"))
	got, err = GlobalMedian(even)
	if err != nil || !got.Equal(dec("8.00")) {
		t.Errorf("GlobalMedian(even) = %s, %v; want 8.00", got, err)
	}

	if _, err := GlobalMedian(model.RecordSet{}); !errors.Is(err, model.ErrEmptyDataset) {
		t.Errorf("GlobalMedian(empty) err = %v, want ErrEmptyDataset", err)
	}
}

func TestWeeklyMedians_Empty(t *testing.T) {
	got := WeeklyMedians(model.RecordSet{})
	if got == nil || len(got) != 0 {
		t.Errorf("WeeklyMedians(empty) = %#v, want empty slice", got)
	}
}

func TestWeeklyMedians_DistinctWeeks(t *testing.T) {
	set := model.RecordSet{
		withTicket(t, "2024-01-15", 3, "6.50"),
		withTicket(t, "2024-01-01", 4, "10.00"),
		withTicket(t, "2024-01-10", 5, "12.00"),
	}
	got := WeeklyMedians(set)
	if len(got) != len(set) {
		t.Fatalf("got %d weeks, want %d", len(got), len(set))
	}

	want := []struct {
		label, start, median string
	}{
		{"2024-W01", "2024-01-01", "10.00"},
		{"2024-W02", "2024-01-08", "12.00"},
		{"2024-W03", "2024-01-15", "6.50"},
	}
	for i, w := range want {
		if got[i].Label != w.label {
			t.Errorf("week %d label = %s, want %s", i, got[i].Label, w.label)
		}
		if !got[i].WeekStart.Equal(day(t, w.start)) {
			t.Errorf("week %d start = %s, want %s", i, got[i].WeekStart.Format(model.DateLayout), w.start)
		}
		if !got[i].MedianTicket.Equal(dec(w.median)) || got[i].Events != 1 {
			t.Errorf("week %d = %+v, want median %s over 1 event", i, got[i], w.median)
		}
	}
}

func TestWeeklyMedians_GroupsWithinWeek(t *testing.T) {
	set := model.RecordSet{
		withTicket(t, "2024-01-01", 1, "4.00"), // Monday
		withTicket(t, "2024-01-07", 1, "8.00"), // Sunday, same week
		withTicket(t, "2024-01-08", 1, "1.00"), // next Monday
	}
	got := WeeklyMedians(set)
	if len(got) != 2 {
		t.Fatalf("got %d weeks, want 2", len(got))
	}
	if got[0].Events != 2 || !got[0].MedianTicket.Equal(dec("6.00")) {
		t.Errorf("first week = %+v, want 2 events, median 6.00", got[0])
	}
}

func TestWeekLabel_YearBoundary(t *testing.T) {
	tests := []struct {
		date, label, start string
	}{
		{"2024-12-30", "2025-W01", "2024-12-30"},
		{"2021-01-03", "2020-W53", "2020-12-28"},
		{"2024-02-29", "2024-W09", "2024-02-26"},
	}
	for _, tt := range tests {
		d := day(t, tt.date)
		if got := WeekLabel(d); got != tt.label {
			t.Errorf("WeekLabel(%s) = %s, want %s", tt.date, got, tt.label)
		}
		if got := WeekStart(d); !got.Equal(day(t, tt.start)) {
			t.Errorf("WeekStart(%s) = %s, want %s", tt.date, got.Format(model.DateLayout), tt.start)
		}
	}
}

func TestSummarize(t *testing.T) {
	set := model.RecordSet{
		{Date: day(t, "2024-01-08"), Participants: 5, Revenue: dec("60.00"), AverageTicket: dec("12.00")},
		{Date: day(t, "2024-01-01"), Participants: 4, Revenue: dec("40.00"), AverageTicket: dec("10.00")},
		{Date: day(t, "2024-01-02"), Participants: 3, Revenue: dec("10.00"), AverageTicket: dec("3.33")},
	}
	s := Summarize(set)

	if s.Events != 3 || s.ActiveWeeks != 2 || s.TotalParticipants != 12 {
		t.Errorf("counts = %+v", s)
	}
	if !s.FirstDate.Equal(day(t, "2024-01-01")) || !s.LastDate.Equal(day(t, "2024-01-08")) {
		t.Errorf("date range = %s..%s", s.FirstDate, s.LastDate)
	}
	if !s.TotalRevenue.Equal(dec("110")) {
		t.Errorf("TotalRevenue = %s, want 110", s.TotalRevenue)
	}
	if !s.MedianTicket.Equal(dec("10.00")) || !s.MinTicket.Equal(dec("3.33")) || !s.MaxTicket.Equal(dec("12.00")) {
		t.Errorf("tickets = median %s min %s max %s", s.MedianTicket, s.MinTicket, s.MaxTicket)
	}
	if !s.RevenuePerHead.Equal(dec("9.17")) {
		t.Errorf("RevenuePerHead = %s, want 9.17", s.RevenuePerHead)
	}
	if s.MeanParticipants != 4 {
		t.Errorf("MeanParticipants = %v, want 4", s.MeanParticipants)
	}

	if zero := Summarize(nil); zero.Events != 0 || !zero.FirstDate.IsZero() {
		t.Errorf("Summarize(nil) = %+v", zero)
	}
}

func TestThreshold(t *testing.T) {
	set := model.RecordSet{
		withTicket(t, "2024-01-01", 1, "6.00"),
		withTicket(t, "2024-01-02", 1, "9.00"),
		withTicket(t, "2024-01-03", 1, "10.00"),
		withTicket(t, "2024-01-04", 1, "14.00"),
	}
	ts := Threshold(set, dec("10"))
	if ts.Below != 2 || ts.AtOrAbove != 2 {
		t.Errorf("Below/AtOrAbove = %d/%d, want 2/2", ts.Below, ts.AtOrAbove)
	}
	if !ts.ShortfallPP.Equal(dec("2.50")) {
		t.Errorf("ShortfallPP = %s, want 2.50", ts.ShortfallPP)
	}

	if ts := Threshold(nil, dec("10")); ts.Below != 0 || !ts.ShortfallPP.IsZero() {
		t.Errorf("Threshold(nil) = %+v", ts)
	}
}

func TestAggregateMonths(t *testing.T) {
	set := model.RecordSet{
		{Date: day(t, "2024-02-03"), Participants: 2, Revenue: dec("30")},
		{Date: day(t, "2024-01-10"), Participants: 4, Revenue: dec("40")},
		{Date: day(t, "2024-01-24"), Participants: 6, Revenue: dec("50")},
	}
	got := AggregateMonths(set)
	if len(got) != 2 {
		t.Fatalf("got %d months, want 2", len(got))
	}
	jan := got[0]
	if jan.Month != "2024-01" || jan.Events != 2 || jan.Participants != 10 || !jan.Revenue.Equal(dec("90")) {
		t.Errorf("January = %+v", jan)
	}
	if !jan.RevenuePerHead.Equal(dec("9.00")) {
		t.Errorf("January RevenuePerHead = %s, want 9.00", jan.RevenuePerHead)
	}
	if got[1].Month != "2024-02" {
		t.Errorf("second month = %s", got[1].Month)
	}
}

func TestChronologicalIsStable(t *testing.T) {
	set := model.RecordSet{
		withTicket(t, "2024-01-08", 1, "1.00"),
		withTicket(t, "2024-01-01", 1, "2.00"),
		withTicket(t, "2024-01-08", 1, "3.00"),
		withTicket(t, "2024-01-01", 1, "4.00"),
	}
	got := Chronological(set)
	want := []string{"2.00", "4.00", "1.00", "3.00"}
	for i, w := range want {
		if !got[i].AverageTicket.Equal(dec(w)) {
			t.Fatalf("Chronological order = %v, want tickets %v", got, want)
		}
	}
	if !set[0].AverageTicket.Equal(dec("1.00")) {
		t.Error("Chronological sorted its input")
	}
}

func TestFilterByTime(t *testing.T) {
	set := model.RecordSet{
		withTicket(t, "2024-01-01", 1, "1.00"),
		withTicket(t, "2024-01-15", 1, "2.00"),
		withTicket(t, "2024-02-01", 1, "3.00"),
	}
	got := FilterByTime(set, day(t, "2024-01-15"), day(t, "2024-02-01"))
	if len(got) != 1 || !got[0].AverageTicket.Equal(dec("2.00")) {
		t.Errorf("FilterByTime = %v", got)
	}
	if got := FilterByTime(set, time.Time{}, time.Time{}); len(got) != 3 {
		t.Errorf("open bounds kept %d records, want 3", len(got))
	}
}
