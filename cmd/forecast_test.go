package cmd

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/soiree/internal/config"
)

// captureStdout runs fn and returns what it printed.
func captureStdout(t *testing.T, fn func() error) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdout
	os.Stdout = w
	runErr := fn()
	os.Stdout = orig
	w.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if runErr != nil {
		t.Fatalf("command failed: %v", runErr)
	}
	return string(out)
}

// useRecordFile points the command globals at a fresh record file.
func useRecordFile(t *testing.T, lines ...string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	prevCfg, prevNoCache, prevQuiet, prevDays, prevStep := cfg, flagNoCache, flagQuiet, flagDays, flagForecastStep
	t.Cleanup(func() {
		cfg, flagNoCache, flagQuiet, flagDays, flagForecastStep = prevCfg, prevNoCache, prevQuiet, prevDays, prevStep
	})

	cfg = config.DefaultConfig()
	cfg.General.DataFile = path
	flagNoCache = true
	flagQuiet = true
	flagDays = 0
	flagForecastStep = 7
}

func TestForecastFollowsShowProjection(t *testing.T) {
	tests := []struct {
		name     string
		show     bool
		want     string
		dontWant string
	}{
		{"enabled", true, "Attendance trend", "disabled"},
		{"disabled", false, "dashboard.show_projection", "Attendance trend"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useRecordFile(t,
				"Date,Participants,Recette,Ticket Moyen",
				"2024-01-01,10,120.00,12.00",
				"2024-01-08,8,64.00,8.00",
				"2024-01-15,12,150.00,12.50",
			)
			cfg.Dashboard.ShowProjection = tt.show

			out := captureStdout(t, func() error { return runForecast(nil, nil) })
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
			if strings.Contains(out, tt.dontWant) {
				t.Errorf("output unexpectedly contains %q:\n%s", tt.dontWant, out)
			}
		})
	}
}
