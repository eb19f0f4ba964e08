package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sdumal/JobParserEzh/internal/config"
	"github.com/sdumal/JobParserEzh/internal/digest"
	"github.com/sdumal/JobParserEzh/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Send the digest of undelivered postings",
	RunE:  reportAction,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func reportAction(cmd *cobra.Command, _ []string) error {
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

	if err := mon.Report(cmd.Context(), digest.Stats{StartTime: time.Now()}); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	fmt.Println("Report sent.")
	return nil
}
