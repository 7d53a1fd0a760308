package apply

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/purrify/siteaudit/models"
)

func fixedNow() time.Time {
	return time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
}

func writeThinPost(t *testing.T, dir string) string {
	t.Helper()
	post := models.BlogPost{
		Slug:    "thin-post",
		Title:   "A Very Thin Post About Litter Boxes",
		Status:  models.StatusPublished,
		Tags:    []string{"odor control"},
		Content: "<h2>Intro</h2><p>" + strings.Repeat("litter odor tips ", 20) + "</p>",
	}
	data, err := json.MarshalIndent(&post, "", "  ")
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	path := filepath.Join(dir, "thin-post.json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func fixtureReport(sourcePath string) *models.AuditReport {
	return &models.AuditReport{
		Summary: models.AuditSummary{ScannedAt: "2026-08-31T09:00:00Z"},
		Entries: []models.AuditEntry{
			{
				ID: "en:blog:thin-post", URL: "/blog/thin-post/", Locale: "en",
				SourceType: models.SourceBlog, SourcePath: sourcePath,
				ContentClass: models.ClassQuickAnswer,
				Thresholds: models.ContentThresholds{
					MinWords: 900, MinH2: 4, MinH3: 3,
					MinInternalLinks: 5, MinExternalLinks: 2,
				},
				PriorityScore: 55, PriorityTier: models.TierP0,
			},
		},
	}
}

func testOptions() Options {
	return Options{Domain: "purrify.ca", Now: fixedNow}
}

func TestDryRunLeavesFileUntouched(t *testing.T) {
	dir := t.TempDir()
	path := writeThinPost(t, dir)
	before, _ := os.ReadFile(path)

	res, err := Run(fixtureReport(path), "latest-audit.json", testOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Mode != "dry-run" {
		t.Errorf("mode = %q, want dry-run", res.Mode)
	}
	if res.Scanned != 1 || res.Changed != 1 {
		t.Errorf("scanned %d changed %d, want 1 and 1", res.Scanned, res.Changed)
	}
	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Error("dry-run modified the source file")
	}
	if len(res.Details) != 1 || !strings.Contains(res.Details[0], "seo.title") {
		t.Errorf("details = %v, want seo.title change", res.Details)
	}
}

func TestWriteFillsSeoAndContentBlocks(t *testing.T) {
	dir := t.TempDir()
	path := writeThinPost(t, dir)
	opts := testOptions()
	opts.Write = true
	opts.ApplyContentBlocks = true

	res, err := Run(fixtureReport(path), "latest-audit.json", opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Changed != 1 {
		t.Fatalf("changed = %d, want 1", res.Changed)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read patched post: %v", err)
	}
	var post models.BlogPost
	if err := json.Unmarshal(data, &post); err != nil {
		t.Fatalf("decode patched post: %v", err)
	}
	if post.Seo == nil {
		t.Fatal("seo block not created")
	}
	if post.Seo.Title != "A Very Thin Post About Litter Boxes" {
		t.Errorf("seo.title = %q", post.Seo.Title)
	}
	if len(post.Seo.Description) < minSeoDescLen {
		t.Errorf("seo.description too short: %q", post.Seo.Description)
	}
	if len(post.Seo.Keywords) < minSeoKeywords {
		t.Errorf("seo.keywords = %v", post.Seo.Keywords)
	}
	if want := "https://www.purrify.ca/blog/thin-post"; post.Seo.Canonical != want {
		t.Errorf("seo.canonical = %q, want %q", post.Seo.Canonical, want)
	}
	for _, marker := range []string{markerLinks, markerCitations, markerDepth + "-1", markerDepth + "-4"} {
		if !strings.Contains(post.Content, marker) {
			t.Errorf("content missing marker %s", marker)
		}
	}
	if strings.Contains(post.Content, markerDepth+"-0") {
		t.Error("structure block inserted although depth blocks supplied enough h3s")
	}
}

func TestSecondRunIsNoOp(t *testing.T) {
	dir := t.TempDir()
	path := writeThinPost(t, dir)
	opts := testOptions()
	opts.Write = true
	opts.ApplyContentBlocks = true

	if _, err := Run(fixtureReport(path), "latest-audit.json", opts); err != nil {
		t.Fatalf("first run: %v", err)
	}
	before, _ := os.ReadFile(path)

	res, err := Run(fixtureReport(path), "latest-audit.json", opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if res.Changed != 0 {
		t.Errorf("second run changed %d files, want 0", res.Changed)
	}
	if len(res.Details) != 1 || !strings.HasSuffix(res.Details[0], "no-op") {
		t.Errorf("details = %v, want no-op", res.Details)
	}
	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Error("second run rewrote the file")
	}
}

func TestTierFilterExcludesP2ByDefault(t *testing.T) {
	dir := t.TempDir()
	path := writeThinPost(t, dir)
	r := fixtureReport(path)
	r.Entries[0].PriorityTier = models.TierP2

	res, err := Run(r, "latest-audit.json", testOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Scanned != 0 {
		t.Errorf("scanned = %d, want 0", res.Scanned)
	}

	opts := testOptions()
	opts.Tiers = []string{"p2"}
	res, err = Run(r, "latest-audit.json", opts)
	if err != nil {
		t.Fatalf("Run with tier p2: %v", err)
	}
	if res.Scanned != 1 {
		t.Errorf("scanned = %d, want 1 with explicit tier", res.Scanned)
	}
}

func TestMissingSourceFile(t *testing.T) {
	r := fixtureReport(filepath.Join(t.TempDir(), "gone.json"))
	res, err := Run(r, "latest-audit.json", testOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Changed != 0 || len(res.Details) != 1 || !strings.Contains(res.Details[0], "missing source file") {
		t.Errorf("got changed=%d details=%v", res.Changed, res.Details)
	}
}

func TestInsertBeforeFaq(t *testing.T) {
	content := "<p>body</p><h2>Frequently Asked Questions</h2><p>q</p>"
	got := insertBeforeFaqOrEnd(content, "[BLOCK]")
	if !strings.HasSuffix(got, "[BLOCK]<h2>Frequently Asked Questions</h2><p>q</p>") {
		t.Errorf("block not placed before FAQ: %q", got)
	}

	content = "<article><p>body</p></article>"
	got = insertBeforeFaqOrEnd(content, "[BLOCK]")
	if got != "<article><p>body</p>[BLOCK]</article>" {
		t.Errorf("block not placed before article close: %q", got)
	}

	got = insertBeforeFaqOrEnd("<p>body</p>", "[BLOCK]")
	if got != "<p>body</p>[BLOCK]" {
		t.Errorf("block not appended: %q", got)
	}
}

func TestTrimToLength(t *testing.T) {
	if got := trimToLength("short title.", 70); got != "short title" {
		t.Errorf("got %q", got)
	}
	long := strings.Repeat("litter odor ", 10)
	got := trimToLength(long, 40)
	if len([]rune(got)) > 41 {
		t.Errorf("trimmed string too long: %q", got)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("missing ellipsis: %q", got)
	}
}

func TestWriteReportArtifacts(t *testing.T) {
	dir := t.TempDir()
	res := &Result{
		GeneratedAt: "2026-08-31T10:00:00Z", Mode: "dry-run",
		SourceAudit: "latest-audit.json", Tiers: []string{"P0", "P1"},
		Scanned: 1, Changed: 1, Details: []string{"en:blog:thin-post: seo.title"},
	}
	paths, err := WriteReport(dir, res)
	if err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	if filepath.Base(paths.LatestMarkdown) != "latest-apply.md" {
		t.Errorf("latest markdown = %s", paths.LatestMarkdown)
	}
	data, err := os.ReadFile(paths.LatestMarkdown)
	if err != nil {
		t.Fatalf("read markdown: %v", err)
	}
	for _, want := range []string{"# Content Apply Report", "- Mode: dry-run", "- en:blog:thin-post: seo.title"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}
