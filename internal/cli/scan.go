package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdumal/JobParserEzh/internal/config"
	"github.com/sdumal/JobParserEzh/internal/store"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Fetch all sources once and persist matching postings",
	RunE:  scanAction,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func scanAction(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = db.Close() }()

	mon, err := buildMonitor(cfg, db, nil)
	if err != nil {
		return err
	}

	stats := mon.Scan(cmd.Context())
	fmt.Printf("Scan finished: %d postings viewed, %d added.\n", stats.Viewed, stats.Added)
	return nil
}
