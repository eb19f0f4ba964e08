package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sdumal/JobParserEzh/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example config file",
	RunE:  initAction,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func initAction(_ *cobra.Command, _ []string) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	configPath := filepath.Join(configDir, config.DefaultConfigFile)
	created, err := writeIfNotExists(configPath, []byte(exampleConfig))
	if err != nil {
		return err
	}

	if !created {
		fmt.Printf("Config %s already exists.\n", configPath)
	}
	return nil
}

// writeIfNotExists writes data to path if the file does not exist.
// Returns true if the file was created.
func writeIfNotExists(path string, data []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("  created: %s\n", path)
	return true, nil
}

const exampleConfig = `# jobparser configuration

telegram:
  token_env: TELEGRAM_BOT_TOKEN
  chat_id: 0  # your chat or channel id

sources:
  - name: HackerNews Jobs
    type: feed
    url: https://hnrss.org/jobs
  - name: Indeed
    type: markup
    url: https://indeed.com/jobs?q=python+developer
    selectors:
      container: ".job_seen_beacon"
      title: ".jobTitle a"
      company: ".companyName"
      location: ".companyLocation"

keywords:
  - python
  - golang
  - backend
  - remote

locations:
  - gdansk
  - remote
  - poland

digest:
  max_jobs_per_source: 10
  show_stats: true
  show_company: true
  show_location: true
  include_description: false

storage:
  path: .jobparser/jobs.db

scheduler:
  scan_interval: 1h
  report_time: "09:00"
`
