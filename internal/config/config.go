// Package config loads the pipeline configuration from config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sdumal/JobParserEzh/internal/digest"
	"github.com/sdumal/JobParserEzh/internal/source"
)

const (
	DefaultConfigFile   = "config.yaml"
	DefaultStoragePath  = ".jobparser/jobs.db"
	DefaultTokenEnv     = "TELEGRAM_BOT_TOKEN"
	DefaultScanInterval = time.Hour
	DefaultReportTime   = "09:00"
)

// DefaultLocations is the location allow-list used when the config does not
// set one.
var DefaultLocations = []string{"gdansk", "remote", "poland"}

// Duration wraps time.Duration for YAML unmarshaling from strings like "1h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

type Config struct {
	Telegram  TelegramConfig      `yaml:"telegram"`
	Sources   []source.Descriptor `yaml:"sources"`
	Keywords  []string            `yaml:"keywords"`
	Locations []string            `yaml:"locations"`
	Digest    DigestConfig        `yaml:"digest"`
	Storage   StorageConfig       `yaml:"storage"`
	Scheduler SchedulerConfig     `yaml:"scheduler"`
}

type TelegramConfig struct {
	TokenEnv string `yaml:"token_env"`
	ChatID   int64  `yaml:"chat_id"`

	// Resolved from the env var at load time.
	Token string `yaml:"-"`
}

// DigestConfig mirrors digest.Options with pointer booleans so an absent
// key keeps its default instead of collapsing to false.
type DigestConfig struct {
	MaxJobsPerSource   int   `yaml:"max_jobs_per_source"`
	ShowStats          *bool `yaml:"show_stats"`
	ShowCompany        *bool `yaml:"show_company"`
	ShowLocation       *bool `yaml:"show_location"`
	IncludeDescription bool  `yaml:"include_description"`
}

// Options resolves the digest section against the rendering defaults.
func (d DigestConfig) Options() digest.Options {
	opts := digest.DefaultOptions()
	if d.MaxJobsPerSource > 0 {
		opts.MaxJobsPerSource = d.MaxJobsPerSource
	}
	if d.ShowStats != nil {
		opts.ShowStats = *d.ShowStats
	}
	if d.ShowCompany != nil {
		opts.ShowCompany = *d.ShowCompany
	}
	if d.ShowLocation != nil {
		opts.ShowLocation = *d.ShowLocation
	}
	opts.IncludeDescription = d.IncludeDescription
	return opts
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

type SchedulerConfig struct {
	ScanInterval Duration `yaml:"scan_interval"`
	ReportTime   string   `yaml:"report_time"` // "15:04" clock time
}

// Load reads config.yaml from dir, applies defaults, resolves the bot token
// from the environment, and validates. A broken or incomplete config is
// fatal at startup; no pipeline work happens on a bad config.
func Load(dir string) (*Config, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("config dir is required")
	}

	path := filepath.Join(dir, DefaultConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.Telegram.Token = os.Getenv(cfg.Telegram.TokenEnv)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Telegram.TokenEnv == "" {
		c.Telegram.TokenEnv = DefaultTokenEnv
	}
	if c.Storage.Path == "" {
		c.Storage.Path = DefaultStoragePath
	}
	if c.Scheduler.ScanInterval.Duration == 0 {
		c.Scheduler.ScanInterval.Duration = DefaultScanInterval
	}
	if c.Scheduler.ReportTime == "" {
		c.Scheduler.ReportTime = DefaultReportTime
	}
	if len(c.Locations) == 0 {
		c.Locations = DefaultLocations
	}
}

func (c *Config) validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram bot token is not set (env %s)", c.Telegram.TokenEnv)
	}
	if c.Telegram.ChatID == 0 {
		return errors.New("telegram chat_id is required")
	}
	if _, err := time.Parse("15:04", c.Scheduler.ReportTime); err != nil {
		return fmt.Errorf("parse report_time %q: %w", c.Scheduler.ReportTime, err)
	}

	for i, d := range c.Sources {
		if strings.TrimSpace(d.Name) == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if strings.TrimSpace(d.URL) == "" {
			return fmt.Errorf("source %q: url is required", d.Name)
		}
		if d.Type != source.TypeFeed && d.Type != source.TypeMarkup {
			return fmt.Errorf("source %q: unknown type %q", d.Name, d.Type)
		}
	}

	return nil
}
