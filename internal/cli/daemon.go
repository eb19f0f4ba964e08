package cli

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sdumal/JobParserEzh/internal/config"
	"github.com/sdumal/JobParserEzh/internal/digest"
	"github.com/sdumal/JobParserEzh/internal/store"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run scheduled scans and a daily report",
	RunE:  daemonAction,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}

func daemonAction(cmd *cobra.Command, _ []string) error {
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

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scanTicker := time.NewTicker(cfg.Scheduler.ScanInterval.Duration)
	defer scanTicker.Stop()

	reportTimer := time.NewTimer(nextReportIn(time.Now(), cfg.Scheduler.ReportTime))
	defer reportTimer.Stop()

	log.Printf("daemon started: scanning every %s, reporting at %s",
		cfg.Scheduler.ScanInterval.Duration, cfg.Scheduler.ReportTime)

	// Counters accumulate across scans and reset after each report, so the
	// report's stats cover exactly the runs since the previous one.
	pending := digest.Stats{StartTime: time.Now()}

	for {
		select {
		case <-ctx.Done():
			log.Println("daemon stopped")
			return nil
		case <-scanTicker.C:
			stats := mon.Scan(ctx)
			pending.Viewed += stats.Viewed
			pending.Added += stats.Added
		case <-reportTimer.C:
			if err := mon.Report(ctx, pending); err != nil {
				log.Printf("WARN: report: %v", err)
			}
			pending = digest.Stats{StartTime: time.Now()}
			reportTimer.Reset(nextReportIn(time.Now(), cfg.Scheduler.ReportTime))
		}
	}
}

// nextReportIn returns how long until the next occurrence of the "15:04"
// clock time. reportTime is validated at config load.
func nextReportIn(now time.Time, reportTime string) time.Duration {
	t, err := time.Parse("15:04", reportTime)
	if err != nil {
		return 24 * time.Hour
	}

	next := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(now)
}
