package history

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/purrify/siteaudit/models"
	"github.com/purrify/siteaudit/pkg/history"
)

// HistoryAction lists recorded audit runs, or one page's score trend
// when --page is set.
func HistoryAction(c *cli.Context) error {
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
	dbPath := cfg.HistoryDB
	if c.IsSet("history-db") {
		dbPath = c.String("history-db")
	}

	db, err := history.OpenAt(dbPath)
	if err != nil {
		logger.Error("failed to open history database", "error", err, "path", dbPath)
		os.Exit(2)
	}
	defer db.Close()

	if page := c.String("page"); page != "" {
		samples, err := db.PageHistory(page, c.Int("limit"))
		if err != nil {
			return fmt.Errorf("failed to read page history: %w", err)
		}
		if len(samples) == 0 {
			fmt.Printf("No recorded runs include %s\n", page)
			return nil
		}
		fmt.Printf("Score history for %s (newest first):\n", page)
		for _, s := range samples {
			fmt.Printf("  %s  score %3d  priority %3d (%s)  %d words\n",
				s.ScannedAt, s.Overall, s.PriorityScore, s.PriorityTier, s.Words)
		}
		return nil
	}

	runs, err := db.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No audit runs recorded yet. Run `siteaudit audit` first.")
		return nil
	}
	fmt.Printf("Recorded audit runs (newest first):\n")
	for _, r := range runs {
		fmt.Printf("  #%d  %s  %d pages (P0 %d, P1 %d, P2 %d, errors %d)\n",
			r.RunID, r.ScannedAt, r.TotalPages, r.P0, r.P1, r.P2, r.Errors)
	}
	fmt.Printf("\nCommands:\n")
	fmt.Printf("  siteaudit history --page /blog/some-post/   # One page's trend\n")
	return nil
}
