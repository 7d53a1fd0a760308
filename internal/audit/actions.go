package audit

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/purrify/siteaudit/models"
	"github.com/purrify/siteaudit/pkg/audit"
	"github.com/purrify/siteaudit/pkg/detector"
	"github.com/purrify/siteaudit/pkg/history"
	"github.com/purrify/siteaudit/pkg/report"
)

// AuditAction scans the content inventory, scores every page, and
// writes the audit artifacts.
func AuditAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}
	if c.IsSet("output-dir") {
		cfg.ReportDir = c.String("output-dir")
	}
	if c.IsSet("content-root") {
		cfg.ContentRoot = c.String("content-root")
	}
	if c.IsSet("history-db") {
		cfg.HistoryDB = c.String("history-db")
	}

	var locales []string
	if c.IsSet("locale") {
		for _, loc := range strings.Split(c.String("locale"), ",") {
			if loc = strings.TrimSpace(loc); loc != "" {
				locales = append(locales, loc)
			}
		}
	}

	auditor := audit.New(cfg, detector.New(cfg.Locales), logger)
	r, err := auditor.Run(audit.Options{
		Locales:      locales,
		ContentClass: models.ContentClass(c.String("class")),
		Limit:        c.Int("limit"),
		GscCSVPath:   c.String("gsc"),
		Workers:      c.Int("workers"),
	})
	if err != nil {
		logger.Error("audit failed", "error", err)
		os.Exit(2)
	}

	paths, err := report.WriteAudit(cfg.ReportDir, r)
	if err != nil {
		logger.Error("failed to write report", "error", err)
		os.Exit(2)
	}

	if cfg.HistoryDB != "" {
		db, err := history.OpenAt(cfg.HistoryDB)
		if err != nil {
			logger.Warn("failed to open history database", "error", err, "path", cfg.HistoryDB)
		} else {
			defer db.Close()
			if runID, err := db.RecordRun(r); err != nil {
				logger.Warn("failed to record run", "error", err)
			} else {
				logger.Info("recorded audit run", "run_id", runID)
			}
		}
	}

	fmt.Printf("Audit complete: %d pages (P0 %d, P1 %d, P2 %d)\n",
		r.Summary.TotalPages, r.Summary.P0, r.Summary.P1, r.Summary.P2)
	if len(r.Summary.Errors) > 0 {
		fmt.Printf("Skipped with errors: %d\n", len(r.Summary.Errors))
	}
	fmt.Printf("Report: %s\n", paths.Markdown)

	fmt.Printf("\nCommands:\n")
	fmt.Printf("  siteaudit propose --limit 10       # Shortlist remediation candidates\n")
	fmt.Printf("  siteaudit apply --tier P0          # Preview fixes (dry-run)\n")
	fmt.Printf("  siteaudit history                  # Compare with earlier runs\n")
	return nil
}
