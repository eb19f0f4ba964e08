package cli

import (
	"testing"
	"time"
)

func TestNextReportIn(t *testing.T) {
	base := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		reportTime string
		want       time.Duration
	}{
		{"later today", "09:00", time.Hour},
		{"already passed", "07:30", 23*time.Hour + 30*time.Minute},
		{"exactly now", "08:00", 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextReportIn(base, tt.reportTime); got != tt.want {
				t.Errorf("nextReportIn(%s) = %v, want %v", tt.reportTime, got, tt.want)
			}
		})
	}
}

func TestWriteIfNotExists(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/config.yaml"

	created, err := writeIfNotExists(path, []byte("a: 1\n"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if !created {
		t.Fatal("expected file to be created")
	}

	created, err = writeIfNotExists(path, []byte("b: 2\n"))
	if err != nil {
		t.Fatalf("second write: %v", err)
	}
	if created {
		t.Fatal("existing file must not be overwritten")
	}
}
