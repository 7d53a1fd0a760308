package links

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/purrify/siteaudit/models"
	"github.com/purrify/siteaudit/pkg/linkgraph"
	"github.com/purrify/siteaudit/pkg/report"
)

// LinksAction builds the internal link graph from route files and
// prints its health summary, or targeted suggestions when --target is
// set.
func LinksAction(c *cli.Context) error {
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
	pagesDir := cfg.PagesDir
	if c.IsSet("pages-dir") {
		pagesDir = c.String("pages-dir")
	}

	workers := cfg.WorkerCount
	if c.IsSet("workers") {
		workers = c.Int("workers")
	}
	graph, err := linkgraph.Build(pagesDir, cfg.Domain, workers)
	if err != nil {
		logger.Error("failed to build link graph", "error", err, "pages_dir", pagesDir)
		os.Exit(2)
	}
	logger.Info("link graph built", "pages", len(graph.Order))

	if target := c.String("target"); target != "" {
		candidates := graph.GetLinkSuggestions(target, c.Int("max"))
		if candidates == nil {
			return fmt.Errorf("page %s not found in link graph", target)
		}
		fmt.Printf("Pages that should link to %s:\n", target)
		for i, node := range candidates {
			fmt.Printf("  %d. %s (%s, %d outgoing)\n", i+1, node.URL, node.PageType, len(node.OutgoingLinks))
		}
		return nil
	}

	if c.IsSet("min-incoming") {
		needy := graph.FindPagesNeedingLinks(c.Int("min-incoming"))
		fmt.Printf("Pages with fewer than %d incoming links:\n", c.Int("min-incoming"))
		for i, node := range needy {
			fmt.Printf("  %d. %s (%s, %d incoming)\n", i+1, node.URL, node.PageType, len(node.IncomingLinks))
		}
		fmt.Println()
	}

	analysis := graph.Analyze()
	fmt.Printf("Link graph: %d pages, avg %.1f incoming / %.1f outgoing\n",
		analysis.TotalPages, analysis.AverageIncoming, analysis.AverageOutgoing)
	fmt.Printf("Orphans: %d, weakly linked: %d, strongly linked: %d\n",
		len(analysis.Orphans), len(analysis.Weak), len(analysis.Strong))
	for _, node := range analysis.Orphans {
		fmt.Printf("  orphan: %s (%s)\n", node.URL, node.PageType)
	}
	for _, node := range analysis.Weak {
		fmt.Printf("  weak:   %s (%d incoming)\n", node.URL, len(node.IncomingLinks))
	}

	outputDir := cfg.ReportDir
	if c.IsSet("output-dir") {
		outputDir = c.String("output-dir")
	}
	scannedAt := time.Now().UTC().Format(time.RFC3339)
	jsonData, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode link analysis: %w", err)
	}
	paths, err := report.WriteArtifacts(outputDir, "links", scannedAt, jsonData,
		[]byte(renderLinksMarkdown(analysis, scannedAt)))
	if err != nil {
		logger.Error("failed to write link report", "error", err)
		os.Exit(2)
	}
	fmt.Printf("Report: %s\n", paths.Markdown)

	fmt.Printf("\nCommands:\n")
	fmt.Printf("  siteaudit links --target /blog/some-post/   # Who should link here\n")
	fmt.Printf("  siteaudit links --min-incoming 3            # Pages under a link floor\n")
	fmt.Printf("  siteaudit suggest                           # Cluster-driven suggestions\n")
	return nil
}

func renderLinksMarkdown(a *linkgraph.Analysis, scannedAt string) string {
	var b strings.Builder
	b.WriteString("# Internal Link Structure\n\n")
	fmt.Fprintf(&b, "Scanned: %s\n\n", scannedAt)
	fmt.Fprintf(&b, "- Pages: %d\n", a.TotalPages)
	fmt.Fprintf(&b, "- Average incoming: %.1f, average outgoing: %.1f\n", a.AverageIncoming, a.AverageOutgoing)
	fmt.Fprintf(&b, "- Orphans: %d, weak: %d, strong: %d\n", len(a.Orphans), len(a.Weak), len(a.Strong))

	section := func(title string, nodes []*models.LinkNode) {
		if len(nodes) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n## %s\n\n", title)
		b.WriteString("| Page | Type | Incoming | Outgoing | Score |\n")
		b.WriteString("|------|------|----------|----------|-------|\n")
		for _, n := range nodes {
			fmt.Fprintf(&b, "| %s | %s | %d | %d | %d |\n",
				n.URL, n.PageType, len(n.IncomingLinks), len(n.OutgoingLinks), n.LinkScore)
		}
	}
	section("Orphan pages", a.Orphans)
	section("Weakly linked pages", a.Weak)
	section("Strongly linked pages", a.Strong)
	return b.String()
}
