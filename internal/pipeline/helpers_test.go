package pipeline

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/soiree/internal/model"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// withTicket builds a record whose ticket is set directly, for tests that
// exercise aggregation independent of the ticket calculation.
func withTicket(t *testing.T, date string, participants int, avg string) model.EventRecord {
	t.Helper()
	a := dec(avg)
	return model.EventRecord{
		Date:          day(t, date),
		Participants:  participants,
		Revenue:       a.Mul(decimal.NewFromInt(int64(participants))),
		AverageTicket: a,
	}
}
