package pipeline

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/soiree/internal/model"
	"github.com/theirongolddev/soiree/internal/source"
	"github.com/theirongolddev/soiree/internal/ticket"
)

// syntheticSet returns n weekly events starting 2020-01-03.
func syntheticSet(n int) model.RecordSet {
	start := time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC)
	set := make(model.RecordSet, n)
	for i := range set {
		p := 3 + i%9
		rev := decimal.NewFromInt(int64(20 + (i*37)%120))
		avg, _ := ticket.Compute(rev, p)
		set[i] = model.EventRecord{Date: start.AddDate(0, 0, 7*i), Participants: p, Revenue: rev, AverageTicket: avg}
	}
	return set
}

func BenchmarkWeeklyMedians(b *testing.B) {
	set := syntheticSet(5000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = WeeklyMedians(set)
	}
}

func BenchmarkProjectBoth(b *testing.B) {
	set := syntheticSet(5000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := ProjectBoth(set, DefaultHorizonDays); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLoad(b *testing.B) {
	for _, n := range []int{100, 5000} {
		b.Run(fmt.Sprintf("records=%d", n), func(b *testing.B) {
			st := source.NewStore(filepath.Join(b.TempDir(), "data.csv"), ticket.HalfEven)
			if err := st.Persist(syntheticSet(n)); err != nil {
				b.Fatal(err)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := Load(st); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
