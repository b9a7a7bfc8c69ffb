package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/soiree/internal/model"
	"github.com/theirongolddev/soiree/internal/source"
	"github.com/theirongolddev/soiree/internal/store"
	"github.com/theirongolddev/soiree/internal/ticket"
)

func openCache(t *testing.T) *store.Cache {
	t.Helper()
	c, err := store.Open(filepath.Join(t.TempDir(), "records.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestLoadWithCache(t *testing.T) {
	cache := openCache(t)
	path := filepath.Join(t.TempDir(), "data.csv")
	st := source.NewStore(path, ticket.HalfEven)

	missing, err := LoadWithCache(st, cache)
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if !missing.Missing || len(missing.Records) != 0 {
		t.Errorf("missing file result = %+v", missing)
	}

	data := "Date,Participants,Recette,Ticket Moyen\n2024-01-01,4,40.00,99.00\n2024-01-08,5,60.00,12.00\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	first, err := LoadWithCache(st, cache)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if first.FromCache {
		t.Error("first load claims a cache hit")
	}
	if len(first.Records) != 2 || first.Rederived != 1 {
		t.Errorf("first load = %d records, %d rederived", len(first.Records), first.Rederived)
	}

	second, err := LoadWithCache(st, cache)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if !second.FromCache {
		t.Error("unchanged file was re-parsed")
	}
	if len(second.Records) != 2 || !second.Records[0].AverageTicket.Equal(dec("10.00")) || second.Rederived != 1 {
		t.Errorf("cached load = %+v", second)
	}

	// Appending changes the size, so the cache must be bypassed.
	set := second.Records.Append(model.EventRecord{
		Date: day(t, "2024-01-15"), Participants: 2, Revenue: dec("9.00"), AverageTicket: dec("4.50"),
	})
	if err := st.Persist(set); err != nil {
		t.Fatal(err)
	}
	third, err := LoadWithCache(st, cache)
	if err != nil {
		t.Fatalf("third load: %v", err)
	}
	if third.FromCache || len(third.Records) != 3 {
		t.Errorf("after append: FromCache %v, %d records", third.FromCache, len(third.Records))
	}

	// A different rounding mode invalidates the cached tickets.
	halfUp := source.NewStore(path, ticket.HalfUp)
	fourth, err := LoadWithCache(halfUp, cache)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.FromCache {
		t.Error("rounding change served stale cache")
	}
}

func TestStateLoadUsesCache(t *testing.T) {
	cache := openCache(t)
	st := source.NewStore(filepath.Join(t.TempDir(), "data.csv"), ticket.HalfEven)
	s := NewState(st, cache)
	if err := s.Load(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Submit(model.EventInput{Date: day(t, "2024-01-01"), Participants: 3, Revenue: 10}); err != nil {
		t.Fatal(err)
	}
	if err := s.Load(); err != nil {
		t.Fatal(err)
	}
	if len(s.Records) != 1 || !s.Records[0].AverageTicket.Equal(dec("3.33")) {
		t.Errorf("records = %v", s.Records)
	}
}

func TestLoadState(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte("Date,Participants,Recette,Ticket Moyen\n2024-01-01,4,40.00,10.00\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	st := source.NewStore(path, ticket.HalfEven)

	for _, useCache := range []bool{true, true, false} {
		s, err := LoadState(st, useCache)
		if err != nil {
			t.Fatalf("LoadState(cache=%v): %v", useCache, err)
		}
		if s.Cache != nil {
			t.Error("LoadState returned a state holding a cache handle")
		}
		if len(s.Records) != 1 || s.Records[0].Participants != 4 {
			t.Errorf("records = %v", s.Records)
		}
	}
	if _, err := os.Stat(CachePath()); err != nil {
		t.Errorf("cache database not created: %v", err)
	}
}

func TestLoadStateMalformedFile(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte("Date,Participants,Recette,Ticket Moyen\nnot-a-date,4,40.00,10.00\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := LoadState(source.NewStore(path, ticket.HalfEven), true)
	if !IsIOError(err) {
		t.Errorf("LoadState error = %v, want ErrIO", err)
	}
}
