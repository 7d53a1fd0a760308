package propose

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/purrify/siteaudit/models"
)

func sampleReport() *models.AuditReport {
	return &models.AuditReport{
		Summary: models.AuditSummary{ScannedAt: "2026-08-31T10:00:00Z", TotalPages: 3},
		Entries: []models.AuditEntry{
			{
				URL: "/blog/thin-post/", Locale: "en", ContentClass: models.ClassQuickAnswer,
				PriorityScore: 55, PriorityTier: "P0",
				Score:   models.ScoreBreakdown{Overall: 35},
				Metrics: models.PageMetrics{Words: 90, InternalLinks: 0, InlineImages: 0},
				Recommendations: []models.Recommendation{
					{Category: "content_depth", Priority: "high", Message: "Expand to at least 900 words (current 90)."},
					{Category: "headings", Priority: "high", Message: "Add more H2 sections."},
					{Category: "image_layout", Priority: "medium", Message: "Add inline images."},
					{Category: "linking", Priority: "low", Message: "Add internal links."},
				},
			},
			{
				URL: "/blog/mid-post/", Locale: "en", ContentClass: models.ClassHowTo,
				PriorityScore: 32, PriorityTier: "P1",
				Score: models.ScoreBreakdown{Overall: 58}, Metrics: models.PageMetrics{Words: 700},
			},
			{
				URL: "/blog/good-post/", Locale: "en", ContentClass: models.ClassHowTo,
				PriorityScore: 10, PriorityTier: "P2",
				Score: models.ScoreBreakdown{Overall: 90}, Metrics: models.PageMetrics{Words: 1500},
			},
		},
	}
}

func TestBuildLimitsCandidatesAndRecommendations(t *testing.T) {
	p := Build(sampleReport(), 2)
	if p.BasedOn != "2026-08-31T10:00:00Z" {
		t.Errorf("basedOn = %q, want audit timestamp", p.BasedOn)
	}
	if len(p.Candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(p.Candidates))
	}
	if p.Candidates[0].URL != "/blog/thin-post/" {
		t.Errorf("first candidate = %q, want /blog/thin-post/", p.Candidates[0].URL)
	}
	if got := len(p.Candidates[0].Recommendations); got != 3 {
		t.Errorf("got %d recommendations, want 3", got)
	}
	if p.Candidates[0].Recommendations[2].Category != "image_layout" {
		t.Errorf("third recommendation = %q, want image_layout", p.Candidates[0].Recommendations[2].Category)
	}
}

func TestBuildZeroLimitKeepsAll(t *testing.T) {
	p := Build(sampleReport(), 0)
	if len(p.Candidates) != 3 {
		t.Errorf("got %d candidates, want 3", len(p.Candidates))
	}
}

func TestWriteProducesArtifacts(t *testing.T) {
	dir := t.TempDir()
	p := Build(sampleReport(), 2)
	paths, err := Write(dir, p)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	for _, f := range []string{paths.JSON, paths.Markdown, paths.LatestJSON, paths.LatestMarkdown} {
		if _, err := os.Stat(f); err != nil {
			t.Errorf("missing artifact %s: %v", f, err)
		}
	}
	if filepath.Base(paths.LatestJSON) != "latest-proposal.json" {
		t.Errorf("latest json = %s", paths.LatestJSON)
	}
	data, err := os.ReadFile(paths.LatestJSON)
	if err != nil {
		t.Fatalf("read latest: %v", err)
	}
	var loaded Proposal
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("decode latest: %v", err)
	}
	if len(loaded.Candidates) != 2 || loaded.Candidates[0].PriorityTier != "P0" {
		t.Errorf("round trip mismatch: %+v", loaded.Candidates)
	}
}

func TestRenderMarkdown(t *testing.T) {
	md := RenderMarkdown(Build(sampleReport(), 1))
	for _, want := range []string{
		"# Remediation Proposal",
		"2026-08-31T10:00:00Z",
		"## 1. /blog/thin-post/ (P0, priority 55)",
		"Class quick_answer, overall score 35, 90 words",
		"- [high] Expand to at least 900 words (current 90).",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
	if strings.Contains(md, "/blog/mid-post/") {
		t.Errorf("markdown includes candidate past the limit")
	}
}
