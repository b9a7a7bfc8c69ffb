package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/soiree/internal/model"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache", "records.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func sampleSet() model.RecordSet {
	day := func(s string) time.Time {
		d, _ := time.Parse(model.DateLayout, s)
		return d
	}
	return model.RecordSet{
		{Date: day("2024-01-08"), Participants: 5, Revenue: decimal.RequireFromString("60.00"), AverageTicket: decimal.RequireFromString("12.00")},
		{Date: day("2024-01-01"), Participants: 3, Revenue: decimal.RequireFromString("10.00"), AverageTicket: decimal.RequireFromString("3.33")},
	}
}

func TestGetTrackedFile_Unknown(t *testing.T) {
	c := openTestCache(t)
	_, ok, err := c.GetTrackedFile("/nowhere.csv")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("unknown file reported as tracked")
	}
}

func TestSaveLoadRecords(t *testing.T) {
	c := openTestCache(t)
	set := sampleSet()
	tracked := Tracked{MtimeNs: 42, SizeBytes: 128, Rounding: "half_even", Rederived: 1}

	if err := c.SaveRecords("/data.csv", set, tracked); err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}

	got, err := c.LoadRecords("/data.csv")
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	if len(got) != len(set) {
		t.Fatalf("loaded %d records, want %d", len(got), len(set))
	}
	for i := range set {
		if !got[i].Date.Equal(set[i].Date) || got[i].Participants != set[i].Participants ||
			!got[i].Revenue.Equal(set[i].Revenue) || !got[i].AverageTicket.Equal(set[i].AverageTicket) {
			t.Errorf("record %d = %+v, want %+v", i, got[i], set[i])
		}
	}

	tr, ok, err := c.GetTrackedFile("/data.csv")
	if err != nil || !ok {
		t.Fatalf("GetTrackedFile = ok %v, err %v", ok, err)
	}
	if tr.MtimeNs != 42 || tr.SizeBytes != 128 || tr.Rounding != "half_even" || tr.Rederived != 1 {
		t.Errorf("tracked = %+v", tr)
	}
	if tr.ParsedAt.IsZero() {
		t.Error("ParsedAt not recorded")
	}
}

func TestSaveRecordsReplaces(t *testing.T) {
	c := openTestCache(t)
	set := sampleSet()
	if err := c.SaveRecords("/data.csv", set, Tracked{Rounding: "half_even"}); err != nil {
		t.Fatal(err)
	}
	if err := c.SaveRecords("/data.csv", set[:1], Tracked{Rounding: "half_even"}); err != nil {
		t.Fatal(err)
	}
	if err := c.SaveRecords("/other.csv", set, Tracked{Rounding: "half_up"}); err != nil {
		t.Fatal(err)
	}

	got, err := c.LoadRecords("/data.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("after replace: %d records, want 1", len(got))
	}

	n, err := c.RecordCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("RecordCount = %d, want 3", n)
	}
}

func TestDeleteFile(t *testing.T) {
	c := openTestCache(t)
	if err := c.SaveRecords("/data.csv", sampleSet(), Tracked{Rounding: "half_even"}); err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteFile("/data.csv"); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	if _, ok, _ := c.GetTrackedFile("/data.csv"); ok {
		t.Error("file still tracked after delete")
	}
	got, err := c.LoadRecords("/data.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("%d records survived delete", len(got))
	}
}
