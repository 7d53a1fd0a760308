// Package report persists audit artifacts: timestamped JSON and
// Markdown files plus "latest" convenience copies. Reports are the
// only persisted output of a run; entries are never authoritative
// state.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/purrify/siteaudit/models"
)

// Markdown reports cap the prioritized page list.
const markdownTopPages = 40

// Paths lists the files one write produced.
type Paths struct {
	JSON           string
	Markdown       string
	LatestJSON     string
	LatestMarkdown string
}

// LatestAuditFile is the stable pointer the proposal and apply tools
// read.
const LatestAuditFile = "latest-audit.json"

// WriteAudit writes the four audit artifacts under dir, creating it
// if needed. The timestamped names embed the scan time.
func WriteAudit(dir string, r *models.AuditReport) (*Paths, error) {
	jsonData, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return WriteArtifacts(dir, "audit", r.Summary.ScannedAt, jsonData, []byte(RenderAuditMarkdown(r)))
}

// LoadLatestAudit reads the latest-audit pointer file. The error is
// the caller's signal that no prior audit exists.
func LoadLatestAudit(dir string) (*models.AuditReport, error) {
	path := filepath.Join(dir, LatestAuditFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("no audit report at %s (run an audit first): %w", path, err)
	}
	r, err := ParseAudit(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return r, nil
}

// ParseAudit decodes a serialized audit report.
func ParseAudit(data []byte) (*models.AuditReport, error) {
	var r models.AuditReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// RenderAuditMarkdown formats the human summary: overview counts,
// per-locale breakdown, and the top prioritized pages with their
// first recommended action.
func RenderAuditMarkdown(r *models.AuditReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Content Quality Audit\n\n")
	fmt.Fprintf(&b, "Scanned: %s\n\n", r.Summary.ScannedAt)
	fmt.Fprintf(&b, "- Pages: %d\n", r.Summary.TotalPages)
	fmt.Fprintf(&b, "- P0: %d, P1: %d, P2: %d\n", r.Summary.P0, r.Summary.P1, r.Summary.P2)
	if len(r.Summary.Errors) > 0 {
		fmt.Fprintf(&b, "- Skipped with errors: %d\n", len(r.Summary.Errors))
	}
	b.WriteString("\n## Locales\n\n")
	b.WriteString("| Locale | Pages | P0 | P1 | P2 | Below words | Below images | Below links |\n")
	b.WriteString("|--------|-------|----|----|----|-------------|--------------|-------------|\n")
	for _, ls := range r.Summary.LocaleSummary {
		fmt.Fprintf(&b, "| %s | %d | %d | %d | %d | %d | %d | %d |\n",
			ls.Locale, ls.Pages, ls.P0, ls.P1, ls.P2,
			ls.BelowWordTarget, ls.MissingImageTarget, ls.MissingLinkTarget)
	}

	b.WriteString("\n## Top pages\n\n")
	b.WriteString("| # | Page | Tier | Priority | Score | Words | Next action |\n")
	b.WriteString("|---|------|------|----------|-------|-------|-------------|\n")
	limit := len(r.Entries)
	if limit > markdownTopPages {
		limit = markdownTopPages
	}
	for i := 0; i < limit; i++ {
		e := r.Entries[i]
		action := "-"
		if len(e.Recommendations) > 0 {
			action = e.Recommendations[0].Message
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %d | %d | %d | %s |\n",
			i+1, e.URL, e.PriorityTier, e.PriorityScore, e.Score.Overall, e.Metrics.Words, action)
	}

	if len(r.Summary.Errors) > 0 {
		b.WriteString("\n## Errors\n\n")
		for _, skipped := range r.Summary.Errors {
			fmt.Fprintf(&b, "- `%s`: %s\n", skipped.Path, skipped.Reason)
		}
	}
	return b.String()
}

// WriteArtifacts writes a timestamped JSON/Markdown pair plus latest
// pointers for an arbitrary report kind ("audit", "proposal", ...).
func WriteArtifacts(dir, kind, scannedAt string, jsonData, markdown []byte) (*Paths, error) {
	stamp := fileStamp(scannedAt)
	paths := &Paths{
		JSON:           filepath.Join(dir, fmt.Sprintf("%s-%s.json", kind, stamp)),
		Markdown:       filepath.Join(dir, fmt.Sprintf("%s-%s.md", kind, stamp)),
		LatestJSON:     filepath.Join(dir, fmt.Sprintf("latest-%s.json", kind)),
		LatestMarkdown: filepath.Join(dir, fmt.Sprintf("latest-%s.md", kind)),
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report dir: %w", err)
	}
	for path, data := range map[string][]byte{
		paths.JSON:           jsonData,
		paths.LatestJSON:     jsonData,
		paths.Markdown:       markdown,
		paths.LatestMarkdown: markdown,
	} {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return paths, nil
}

// fileStamp converts an RFC3339 timestamp into a filesystem-safe
// fragment.
func fileStamp(scannedAt string) string {
	replacer := strings.NewReplacer(":", "", "-", "", "T", "-", "Z", "", "+", "p")
	stamp := replacer.Replace(scannedAt)
	if stamp == "" {
		return "unknown"
	}
	return stamp
}
