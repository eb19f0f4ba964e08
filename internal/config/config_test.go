package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sdumal/JobParserEzh/internal/source"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

const fullConfig = `
telegram:
  token_env: TEST_BOT_TOKEN
  chat_id: -100123
sources:
  - name: HackerNews Jobs
    type: feed
    url: https://hnrss.org/jobs
  - name: Board
    type: markup
    url: https://example.com/jobs
    selectors:
      container: ".job"
      title: "h2 a"
keywords: [golang, backend]
locations: [gdansk]
digest:
  max_jobs_per_source: 5
  show_stats: false
  include_description: true
storage:
  path: /tmp/test/jobs.db
scheduler:
  scan_interval: 30m
  report_time: "08:30"
`

func TestLoadFull(t *testing.T) {
	t.Setenv("TEST_BOT_TOKEN", "token-value")
	dir := writeConfig(t, fullConfig)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Telegram.Token != "token-value" {
		t.Errorf("token = %q", cfg.Telegram.Token)
	}
	if cfg.Telegram.ChatID != -100123 {
		t.Errorf("chat id = %d", cfg.Telegram.ChatID)
	}

	if len(cfg.Sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(cfg.Sources))
	}
	if cfg.Sources[0].Type != source.TypeFeed {
		t.Errorf("source 0 type = %q", cfg.Sources[0].Type)
	}
	if cfg.Sources[1].Selectors.Container != ".job" {
		t.Errorf("selectors not parsed: %+v", cfg.Sources[1].Selectors)
	}

	opts := cfg.Digest.Options()
	if opts.MaxJobsPerSource != 5 {
		t.Errorf("max jobs = %d, want 5", opts.MaxJobsPerSource)
	}
	if opts.ShowStats {
		t.Error("show_stats: false not honored")
	}
	if !opts.ShowCompany || !opts.ShowLocation {
		t.Error("absent toggles must keep their defaults")
	}
	if !opts.IncludeDescription {
		t.Error("include_description: true not honored")
	}

	if cfg.Scheduler.ScanInterval.Duration != 30*time.Minute {
		t.Errorf("scan interval = %v", cfg.Scheduler.ScanInterval.Duration)
	}
	if cfg.Scheduler.ReportTime != "08:30" {
		t.Errorf("report time = %q", cfg.Scheduler.ReportTime)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(DefaultTokenEnv, "token-value")
	dir := writeConfig(t, "telegram:\n  chat_id: 7\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Storage.Path != DefaultStoragePath {
		t.Errorf("storage path = %q", cfg.Storage.Path)
	}
	if cfg.Scheduler.ScanInterval.Duration != DefaultScanInterval {
		t.Errorf("scan interval = %v", cfg.Scheduler.ScanInterval.Duration)
	}
	if cfg.Scheduler.ReportTime != DefaultReportTime {
		t.Errorf("report time = %q", cfg.Scheduler.ReportTime)
	}
	if len(cfg.Locations) != len(DefaultLocations) {
		t.Errorf("locations = %v, want defaults", cfg.Locations)
	}

	opts := cfg.Digest.Options()
	if opts.MaxJobsPerSource != 10 || !opts.ShowStats || !opts.ShowCompany || !opts.ShowLocation || opts.IncludeDescription {
		t.Errorf("digest defaults not applied: %+v", opts)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		token   string
	}{
		{"missing token", "telegram:\n  chat_id: 7\n", ""},
		{"missing chat id", "telegram: {}\n", "tok"},
		{"unknown source type", "telegram:\n  chat_id: 7\nsources:\n  - {name: x, type: soap, url: https://example.com}\n", "tok"},
		{"source without url", "telegram:\n  chat_id: 7\nsources:\n  - {name: x, type: feed}\n", "tok"},
		{"bad report time", "telegram:\n  chat_id: 7\nscheduler:\n  report_time: \"25:99\"\n", "tok"},
		{"bad duration", "telegram:\n  chat_id: 7\nscheduler:\n  scan_interval: often\n", "tok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.token != "" {
				t.Setenv(DefaultTokenEnv, tt.token)
			} else {
				t.Setenv(DefaultTokenEnv, "")
			}
			dir := writeConfig(t, tt.content)
			if _, err := Load(dir); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
