package content

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/purrify/siteaudit/models"
	"github.com/purrify/siteaudit/pkg/apply"
	"github.com/purrify/siteaudit/pkg/clusters"
	"github.com/purrify/siteaudit/pkg/propose"
	"github.com/purrify/siteaudit/pkg/report"
)

func newLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func loadConfig(c *cli.Context, logger *slog.Logger) *models.Config {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}
	return cfg
}

// SuggestAction prints topic-cluster link suggestions grouped by the
// page that should add the link.
func SuggestAction(c *cli.Context) error {
	logger := newLogger(c)
	cfg := loadConfig(c, logger)

	clustersPath := cfg.ClustersPath
	if c.IsSet("clusters") {
		clustersPath = c.String("clusters")
	}
	topicClusters, err := clusters.Load(clustersPath)
	if err != nil {
		logger.Error("failed to load clusters", "error", err, "path", clustersPath)
		os.Exit(2)
	}
	for _, warning := range clusters.Validate(topicClusters) {
		logger.Warn("cluster definition issue", "warning", warning)
	}

	gen := &clusters.Generator{
		Clusters:       topicClusters,
		ConversionPage: cfg.ConversionPage,
		BlogIndex:      cfg.BlogIndex,
		LearnIndex:     cfg.LearnIndex,
	}
	suggestions := clusters.Prioritize(gen.Generate())
	grouped := clusters.GroupByPage(suggestions)

	pages := make([]string, 0, len(grouped))
	for page := range grouped {
		pages = append(pages, page)
	}
	sort.Strings(pages)

	fmt.Printf("%d link suggestions across %d pages\n\n", len(suggestions), len(pages))
	for _, page := range pages {
		fmt.Printf("%s\n", page)
		for _, s := range grouped[page] {
			fmt.Printf("  -> %s [%s] %s (anchor: %q)\n", s.ToPage, s.Priority, s.Reason, s.AnchorText)
		}
	}

	outputDir := cfg.ReportDir
	if c.IsSet("output-dir") {
		outputDir = c.String("output-dir")
	}
	scannedAt := time.Now().UTC().Format(time.RFC3339)
	jsonData, err := json.MarshalIndent(suggestions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode suggestions: %w", err)
	}
	paths, err := report.WriteArtifacts(outputDir, "suggestions", scannedAt, jsonData,
		[]byte(renderSuggestionsMarkdown(pages, grouped, scannedAt)))
	if err != nil {
		logger.Error("failed to write suggestions report", "error", err)
		os.Exit(2)
	}
	fmt.Printf("\nReport: %s\n", paths.Markdown)
	return nil
}

func renderSuggestionsMarkdown(pages []string, grouped map[string][]models.LinkSuggestion, scannedAt string) string {
	var b strings.Builder
	b.WriteString("# Topic Cluster Link Suggestions\n\n")
	fmt.Fprintf(&b, "Generated: %s\n", scannedAt)
	for _, page := range pages {
		fmt.Fprintf(&b, "\n## %s\n\n", page)
		for _, s := range grouped[page] {
			fmt.Fprintf(&b, "- [%s] link to %s (anchor %q): %s\n", s.Priority, s.ToPage, s.AnchorText, s.Reason)
		}
	}
	return b.String()
}

// ProposeAction ranks remediation candidates from the latest audit.
func ProposeAction(c *cli.Context) error {
	logger := newLogger(c)
	cfg := loadConfig(c, logger)
	if c.IsSet("output-dir") {
		cfg.ReportDir = c.String("output-dir")
	}

	r, err := loadAudit(c, cfg)
	if err != nil {
		logger.Error("no audit to propose from", "error", err)
		os.Exit(2)
	}

	p := propose.Build(r, c.Int("limit"))
	paths, err := propose.Write(cfg.ReportDir, p)
	if err != nil {
		logger.Error("failed to write proposal", "error", err)
		os.Exit(2)
	}

	fmt.Printf("Proposed %d remediation candidates\n", len(p.Candidates))
	for i, cand := range p.Candidates {
		fmt.Printf("  %d. %s (%s, priority %d, score %d)\n",
			i+1, cand.URL, cand.PriorityTier, cand.PriorityScore, cand.Overall)
	}
	fmt.Printf("Report: %s\n", paths.Markdown)
	return nil
}

// ApplyAction runs the mechanical remediation pass. Dry-run unless
// --write is set.
func ApplyAction(c *cli.Context) error {
	logger := newLogger(c)
	cfg := loadConfig(c, logger)
	if c.IsSet("output-dir") {
		cfg.ReportDir = c.String("output-dir")
	}

	r, err := loadAudit(c, cfg)
	if err != nil {
		logger.Error("no audit to apply from", "error", err)
		os.Exit(2)
	}

	var tiers []string
	if c.IsSet("tier") {
		tiers = []string{c.String("tier")}
	} else if c.IsSet("tiers") {
		for _, tier := range strings.Split(c.String("tiers"), ",") {
			if tier = strings.TrimSpace(tier); tier != "" {
				tiers = append(tiers, tier)
			}
		}
	}

	auditPath := c.String("report")
	if auditPath == "" {
		auditPath = cfg.ReportDir + "/" + report.LatestAuditFile
	}
	res, err := apply.Run(r, auditPath, apply.Options{
		Write:              c.Bool("write"),
		ApplyContentBlocks: c.Bool("apply-content-blocks"),
		Limit:              c.Int("limit"),
		Tiers:              tiers,
		Domain:             cfg.Domain,
	})
	if err != nil {
		logger.Error("apply pass failed", "error", err)
		os.Exit(2)
	}

	paths, err := apply.WriteReport(cfg.ReportDir, res)
	if err != nil {
		logger.Error("failed to write apply report", "error", err)
		os.Exit(2)
	}

	fmt.Printf("Content apply complete (%s)\n", res.Mode)
	fmt.Printf("Candidates scanned: %d\n", res.Scanned)
	fmt.Printf("Files changed: %d\n", res.Changed)
	fmt.Printf("Report: %s\n", paths.Markdown)
	if res.Mode == "dry-run" && res.Changed > 0 {
		fmt.Printf("\nRe-run with --write to persist these changes\n")
	}
	return nil
}

func loadAudit(c *cli.Context, cfg *models.Config) (*models.AuditReport, error) {
	if c.IsSet("report") {
		data, err := os.ReadFile(c.String("report"))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", c.String("report"), err)
		}
		return report.ParseAudit(data)
	}
	return report.LoadLatestAudit(cfg.ReportDir)
}
