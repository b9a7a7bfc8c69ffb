package model

import (
	"errors"
	"testing"
)

func TestParseRevenue(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"60", 60, true},
		{"12.50", 12.5, true},
		{"12,50", 12.5, true},
		{" 40 € ", 40, true},
		{"0", 0, true},
		{"12.345", 0, false},
		{"12,345", 0, false},
		{"0.005", 0, false},
		{"12.340", 12.34, true},
		{"-1", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"douze", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseRevenue(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseRevenue(%q) err = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if err != nil && !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParseRevenue(%q) err = %v, want ErrInvalidInput", tt.in, err)
		}
		if tt.ok && got != tt.want {
			t.Errorf("ParseRevenue(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseParticipants(t *testing.T) {
	for _, bad := range []string{"0", "-2", "2.5", "", "x"} {
		if _, err := ParseParticipants(bad); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParseParticipants(%q) err = %v", bad, err)
		}
	}
	if n, err := ParseParticipants(" 7 "); err != nil || n != 7 {
		t.Errorf("ParseParticipants(7) = %d, %v", n, err)
	}
}

func TestParseInput(t *testing.T) {
	in, err := ParseInput("2024-01-08", "5", "60,00")
	if err != nil {
		t.Fatal(err)
	}
	if in.Date.Format(DateLayout) != "2024-01-08" || in.Participants != 5 || in.Revenue != 60 {
		t.Errorf("ParseInput = %+v", in)
	}
	if _, err := ParseInput("08/01/2024", "5", "60"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad date err = %v", err)
	}
}
