package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	auditcmd "github.com/purrify/siteaudit/internal/audit"
	"github.com/purrify/siteaudit/internal/content"
	historycmd "github.com/purrify/siteaudit/internal/history"
	"github.com/purrify/siteaudit/internal/links"
	"github.com/purrify/siteaudit/models"
)

func main() {
	app := &cli.App{
		Name:  "siteaudit",
		Usage: "Content quality scoring and internal link analysis for the marketing site",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: models.DefaultConfigFile, Usage: "Path to the YAML config file"},
		},
		Commands: []*cli.Command{
			{
				Name:   "audit",
				Usage:  "Score every published page and write the audit report",
				Action: auditcmd.AuditAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "locale", Usage: "Comma-separated locales to audit (default: all configured)"},
					&cli.StringFlag{Name: "class", Usage: "Only include one content class (pillar_guide|comparison|how_to|quick_answer)"},
					&cli.IntFlag{Name: "limit", Usage: "Cap the number of entries in the report"},
					&cli.StringFlag{Name: "gsc", Usage: "Path to a Search Console CSV export"},
					&cli.StringFlag{Name: "content-root", Usage: "Override the blog content directory"},
					&cli.StringFlag{Name: "output-dir", Usage: "Override the report output directory"},
					&cli.StringFlag{Name: "history-db", Usage: "Override the run-history database path"},
					&cli.IntFlag{Name: "workers", Usage: "Number of concurrent page workers"},
					&cli.BoolFlag{Name: "quiet", Usage: "Only log errors"},
				},
			},
			{
				Name:   "links",
				Usage:  "Build the internal link graph and report orphan and weak pages",
				Action: links.LinksAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "pages-dir", Usage: "Override the route files directory"},
					&cli.StringFlag{Name: "target", Usage: "Suggest pages that should link to this URL"},
					&cli.IntFlag{Name: "max", Value: 5, Usage: "Maximum suggestions for --target"},
					&cli.IntFlag{Name: "min-incoming", Usage: "List pages below this incoming-link floor"},
					&cli.StringFlag{Name: "output-dir", Usage: "Override the report output directory"},
					&cli.IntFlag{Name: "workers", Usage: "Number of concurrent file workers"},
					&cli.BoolFlag{Name: "quiet", Usage: "Only log errors"},
				},
			},
			{
				Name:   "suggest",
				Usage:  "Generate topic-cluster link suggestions",
				Action: content.SuggestAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "clusters", Usage: "Override the clusters YAML path"},
					&cli.StringFlag{Name: "output-dir", Usage: "Override the report output directory"},
					&cli.BoolFlag{Name: "quiet", Usage: "Only log errors"},
				},
			},
			{
				Name:   "propose",
				Usage:  "Shortlist remediation candidates from the latest audit",
				Action: content.ProposeAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "report", Usage: "Audit report JSON to read (default: latest)"},
					&cli.IntFlag{Name: "limit", Value: 10, Usage: "Number of candidates to propose"},
					&cli.StringFlag{Name: "output-dir", Usage: "Override the report output directory"},
					&cli.BoolFlag{Name: "quiet", Usage: "Only log errors"},
				},
			},
			{
				Name:   "apply",
				Usage:  "Mechanically fix SEO metadata and insert remediation blocks",
				Action: content.ApplyAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "report", Usage: "Audit report JSON to read (default: latest)"},
					&cli.BoolFlag{Name: "write", Usage: "Persist changes (default: dry-run)"},
					&cli.BoolFlag{Name: "apply-content-blocks", Usage: "Also insert link, citation, and depth blocks"},
					&cli.IntFlag{Name: "limit", Value: 10, Usage: "Maximum files to touch"},
					&cli.StringFlag{Name: "tier", Usage: "Only one priority tier (P0|P1|P2)"},
					&cli.StringFlag{Name: "tiers", Usage: "Comma-separated priority tiers (default: P0,P1)"},
					&cli.StringFlag{Name: "output-dir", Usage: "Override the report output directory"},
					&cli.BoolFlag{Name: "quiet", Usage: "Only log errors"},
				},
			},
			{
				Name:   "history",
				Usage:  "List recorded audit runs and per-page score trends",
				Action: historycmd.HistoryAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "history-db", Usage: "Override the run-history database path"},
					&cli.StringFlag{Name: "page", Usage: "Show one page's score history"},
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "Maximum rows to show"},
					&cli.BoolFlag{Name: "quiet", Usage: "Only log errors"},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
