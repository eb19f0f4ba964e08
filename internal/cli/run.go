package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdumal/JobParserEzh/internal/config"
	"github.com/sdumal/JobParserEzh/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scan all sources, then send the digest",
	RunE:  runAction,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runAction(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = db.Close() }()

	delivery, err := buildDelivery(cfg)
	if err != nil {
		return err
	}

	mon, err := buildMonitor(cfg, db, delivery)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	stats := mon.Scan(ctx)
	fmt.Printf("Scan finished: %d postings viewed, %d added.\n", stats.Viewed, stats.Added)

	if err := mon.Report(ctx, stats); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	fmt.Println("Report sent.")
	return nil
}
