package model

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestOrdinal(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{"first day", time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC), 1},
		{"unix epoch", time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), 719163},
		{"2024 new year", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 738886},
		{"time of day ignored", time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC), 738886},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Ordinal(tt.date); got != tt.want {
				t.Errorf("Ordinal(%s) = %d, want %d", tt.date.Format(time.RFC3339), got, tt.want)
			}
		})
	}
}

func TestFromOrdinalRoundTrip(t *testing.T) {
	d := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	if got := FromOrdinal(Ordinal(d)); !got.Equal(d) {
		t.Fatalf("FromOrdinal(Ordinal(%s)) = %s", d.Format(DateLayout), got.Format(DateLayout))
	}
	if Ordinal(d.AddDate(0, 0, 1))-Ordinal(d) != 1 {
		t.Fatal("consecutive days must differ by one ordinal")
	}
}

func TestEventInputValidate(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		in      EventInput
		wantErr bool
	}{
		{"ok", EventInput{Date: day, Participants: 4, Revenue: 40}, false},
		{"free night", EventInput{Date: day, Participants: 4, Revenue: 0}, false},
		{"zero participants", EventInput{Date: day, Participants: 0, Revenue: 40}, true},
		{"negative participants", EventInput{Date: day, Participants: -2, Revenue: 40}, true},
		{"negative revenue", EventInput{Date: day, Participants: 3, Revenue: -1}, true},
		{"nan revenue", EventInput{Date: day, Participants: 3, Revenue: math.NaN()}, true},
		{"inf revenue", EventInput{Date: day, Participants: 3, Revenue: math.Inf(1)}, true},
		{"missing date", EventInput{Participants: 3, Revenue: 1}, true},
		{"cents", EventInput{Date: day, Participants: 3, Revenue: 12.34}, false},
		{"sub-cent revenue", EventInput{Date: day, Participants: 3, Revenue: 12.345}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("Validate() = %v, want ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestRecordSetAppendDoesNotMutate(t *testing.T) {
	base := RecordSet{{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Participants: 2, Revenue: decimal.NewFromInt(20)}}
	next := base.Append(EventRecord{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Participants: 3})

	if len(base) != 1 {
		t.Fatalf("input set len = %d, want 1", len(base))
	}
	if len(next) != 2 {
		t.Fatalf("appended set len = %d, want 2", len(next))
	}

	next[0].Participants = 99
	if base[0].Participants != 2 {
		t.Fatal("appended set shares backing array with input")
	}
}

func TestRecordSetDatesAndLatest(t *testing.T) {
	d1 := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rs := RecordSet{{Date: d1}, {Date: d2}, {Date: d1}}

	dates := rs.Dates()
	if len(dates) != 2 || !dates[0].Equal(d2) || !dates[1].Equal(d1) {
		t.Fatalf("Dates() = %v, want [%s %s]", dates, d2.Format(DateLayout), d1.Format(DateLayout))
	}
	if !rs.Latest().Equal(d1) {
		t.Fatalf("Latest() = %s, want %s", rs.Latest().Format(DateLayout), d1.Format(DateLayout))
	}
	if !(RecordSet{}).Latest().IsZero() {
		t.Fatal("Latest() of empty set should be zero")
	}
}
