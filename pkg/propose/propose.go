// Package propose re-projects a prior audit report into a remediation
// shortlist. It never recomputes scores; a proposal is a filtered view
// of the audit it came from.
package propose

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/purrify/siteaudit/models"
	"github.com/purrify/siteaudit/pkg/report"
)

const topRecommendations = 3

// Candidate is one page picked for remediation.
type Candidate struct {
	URL             string                  `json:"url"`
	Locale          string                  `json:"locale"`
	ContentClass    models.ContentClass     `json:"contentClass"`
	PriorityScore   int                     `json:"priorityScore"`
	PriorityTier    string                  `json:"priorityTier"`
	Overall         int                     `json:"overall"`
	Metrics         models.PageMetrics      `json:"metrics"`
	Recommendations []models.Recommendation `json:"recommendations"`
}

// Proposal is the persisted artifact.
type Proposal struct {
	BasedOn    string      `json:"basedOn"`
	Candidates []Candidate `json:"candidates"`
}

// Build picks the top limit entries from an audit report. Entries are
// already sorted by priority score, so selection is a prefix.
func Build(r *models.AuditReport, limit int) *Proposal {
	entries := r.Entries
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	p := &Proposal{BasedOn: r.Summary.ScannedAt}
	for _, e := range entries {
		recs := e.Recommendations
		if len(recs) > topRecommendations {
			recs = recs[:topRecommendations]
		}
		p.Candidates = append(p.Candidates, Candidate{
			URL:             e.URL,
			Locale:          e.Locale,
			ContentClass:    e.ContentClass,
			PriorityScore:   e.PriorityScore,
			PriorityTier:    e.PriorityTier,
			Overall:         e.Score.Overall,
			Metrics:         e.Metrics,
			Recommendations: recs,
		})
	}
	return p
}

// Write persists the proposal next to the audit artifacts.
func Write(dir string, p *Proposal) (*report.Paths, error) {
	jsonData, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode proposal: %w", err)
	}
	return report.WriteArtifacts(dir, "proposal", p.BasedOn, jsonData, []byte(RenderMarkdown(p)))
}

// RenderMarkdown formats the shortlist for review.
func RenderMarkdown(p *Proposal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Remediation Proposal\n\nBased on audit scanned %s\n\n", p.BasedOn)
	for i, c := range p.Candidates {
		fmt.Fprintf(&b, "## %d. %s (%s, priority %d)\n\n", i+1, c.URL, c.PriorityTier, c.PriorityScore)
		fmt.Fprintf(&b, "Class %s, overall score %d, %d words, %d internal links, %d inline images.\n\n",
			c.ContentClass, c.Overall, c.Metrics.Words, c.Metrics.InternalLinks, c.Metrics.InlineImages)
		for _, rec := range c.Recommendations {
			fmt.Fprintf(&b, "- [%s] %s\n", rec.Priority, rec.Message)
		}
		b.WriteString("\n")
	}
	return b.String()
}
