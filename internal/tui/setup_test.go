package tui

import (
	"errors"
	"testing"

	"github.com/theirongolddev/soiree/internal/config"
	"github.com/theirongolddev/soiree/internal/model"
)

func TestSetupValuesRoundTrip(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cfg := config.DefaultConfig()
	v := SetupValuesFrom(cfg)
	if v.Threshold != "10.00" || v.Rounding != "half_even" || v.Theme != "flexoki-dark" {
		t.Fatalf("SetupValuesFrom(defaults) = %+v", v)
	}

	v.Threshold = "12,5 €"
	v.Rounding = "half_up"
	v.Theme = "tokyo-night"
	v.Locale = " en-GB "
	v.DataFile = "/tmp/nights.csv"
	if err := v.Apply(&cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cfg.Dashboard.Threshold != 12.5 {
		t.Errorf("Threshold = %v, want 12.5", cfg.Dashboard.Threshold)
	}
	if cfg.General.Rounding != "half_up" || cfg.Appearance.Theme != "tokyo-night" || cfg.Appearance.Locale != "en-GB" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.DataFile() != "/tmp/nights.csv" {
		t.Errorf("DataFile = %q", cfg.DataFile())
	}
}

func TestSetupValuesApplyRejects(t *testing.T) {
	tests := []struct {
		name string
		edit func(*SetupValues)
	}{
		{"negative threshold", func(v *SetupValues) { v.Threshold = "-1" }},
		{"text threshold", func(v *SetupValues) { v.Threshold = "ten" }},
		{"bad rounding", func(v *SetupValues) { v.Rounding = "ceiling" }},
		{"bad locale", func(v *SetupValues) { v.Locale = "not a locale!" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			v := SetupValuesFrom(cfg)
			tt.edit(&v)
			if err := v.Apply(&cfg); err == nil {
				t.Error("Apply succeeded, want error")
			}
		})
	}

	cfg := config.DefaultConfig()
	v := SetupValuesFrom(cfg)
	v.Threshold = "abc"
	if err := v.Apply(&cfg); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("threshold error = %v, want ErrInvalidInput", err)
	}
}
