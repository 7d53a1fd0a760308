package audit

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/purrify/siteaudit/models"
	"github.com/purrify/siteaudit/pkg/detector"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testConfig(contentRoot string) *models.Config {
	cfg := models.DefaultConfig()
	cfg.Locales = []string{"en", "fr"}
	cfg.ContentRoot = contentRoot
	cfg.CoreGuideRoutes = nil
	return cfg
}

// disabled detector: single locale means every check passes.
func testAuditor(contentRoot string) *Auditor {
	return New(testConfig(contentRoot), detector.New([]string{"en"}), testLogger())
}

func postJSON(t *testing.T, dir, name string, post map[string]any) {
	t.Helper()
	data, err := json.Marshal(post)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func htmlBody(words int) string {
	return "<h2>Section</h2><p>" + strings.Repeat("carbon litter odor ", words/3) + "</p>"
}

func writeFixtures(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	enDir := filepath.Join(root, "en")
	frDir := filepath.Join(root, "fr")
	for _, d := range []string{enDir, frDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	postJSON(t, enDir, "thin-post.json", map[string]any{
		"slug":    "thin-post",
		"title":   "Thin post",
		"status":  "published",
		"content": htmlBody(90),
	})
	postJSON(t, enDir, "how-to-long.json", map[string]any{
		"slug":   "how-to-long",
		"title":  "A reasonably long how-to about litter odor control at home",
		"status": "published",
		"seo": map[string]any{
			"title":       "How to control litter odor at home with carbon",
			"description": strings.Repeat("d", 140),
			"keywords":    []string{"carbon", "absent keyword"},
			"canonical":   "https://www.purrify.ca/blog/how-to-long/",
		},
		"content": htmlBody(1600),
	})
	postJSON(t, enDir, "draft-post.json", map[string]any{
		"slug":    "draft-post",
		"status":  "draft",
		"content": htmlBody(600),
	})
	if err := os.WriteFile(filepath.Join(enDir, "broken.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	postJSON(t, frDir, "article-mince.json", map[string]any{
		"slug":    "article-mince",
		"status":  "published",
		"content": htmlBody(120),
	})
	return root
}

func TestRunSkipsDraftsAndRecordsErrors(t *testing.T) {
	root := writeFixtures(t)
	report, err := testAuditor(root).Run(Options{Workers: 4})
	if err != nil {
		t.Fatal(err)
	}

	ids := map[string]bool{}
	for _, e := range report.Entries {
		ids[e.ID] = true
	}
	if !ids["en:blog:thin-post"] || !ids["en:blog:how-to-long"] || !ids["fr:blog:article-mince"] {
		t.Fatalf("missing expected entries, got %v", ids)
	}
	if ids["en:blog:draft-post"] {
		t.Error("draft post must be skipped")
	}
	if report.Summary.TotalPages != 3 {
		t.Errorf("total pages = %d, want 3", report.Summary.TotalPages)
	}
	if len(report.Summary.Errors) != 1 {
		t.Fatalf("errors = %+v, want one for broken.json", report.Summary.Errors)
	}
	if !strings.HasSuffix(report.Summary.Errors[0].Path, "broken.json") {
		t.Errorf("error path = %s", report.Summary.Errors[0].Path)
	}
}

func TestRunEntriesSortedAndLocaleURLs(t *testing.T) {
	root := writeFixtures(t)
	report, err := testAuditor(root).Run(Options{Workers: 2})
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i < len(report.Entries); i++ {
		if report.Entries[i-1].PriorityScore < report.Entries[i].PriorityScore {
			t.Fatal("entries not sorted by priority score descending")
		}
	}
	for _, e := range report.Entries {
		if e.Locale == "fr" && !strings.HasPrefix(e.URL, "/fr/blog/") {
			t.Errorf("fr URL = %s", e.URL)
		}
		if e.Locale == "en" && !strings.HasPrefix(e.URL, "/blog/") {
			t.Errorf("en URL = %s", e.URL)
		}
		if e.ContentClass == "" || e.Thresholds.MinWords == 0 {
			t.Errorf("entry %s missing classification", e.ID)
		}
	}
}

func TestRunLimitCapsEntriesNotSummary(t *testing.T) {
	root := writeFixtures(t)
	report, err := testAuditor(root).Run(Options{Workers: 2, Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(report.Entries))
	}
	if report.Summary.TotalPages != 3 {
		t.Errorf("summary must count pre-limit population, got %d", report.Summary.TotalPages)
	}
}

func TestRunClassFilterAffectsSummary(t *testing.T) {
	root := writeFixtures(t)
	report, err := testAuditor(root).Run(Options{Workers: 2, ContentClass: models.ClassHowTo})
	if err != nil {
		t.Fatal(err)
	}
	if report.Summary.TotalPages != 1 {
		t.Fatalf("post-filter population = %d, want 1", report.Summary.TotalPages)
	}
	for _, e := range report.Entries {
		if e.ContentClass != models.ClassHowTo {
			t.Errorf("entry %s has class %s", e.ID, e.ContentClass)
		}
	}
}

func TestRunDeterministicAcrossWorkerCounts(t *testing.T) {
	root := writeFixtures(t)
	auditor := testAuditor(root)
	fixed := func() time.Time { return time.Unix(1700000000, 0) }

	base, err := auditor.Run(Options{Workers: 1, Now: fixed})
	if err != nil {
		t.Fatal(err)
	}
	for _, workers := range []int{2, 8} {
		got, err := auditor.Run(Options{Workers: workers, Now: fixed})
		if err != nil {
			t.Fatal(err)
		}
		if len(got.Entries) != len(base.Entries) {
			t.Fatalf("workers=%d: entry count %d, want %d", workers, len(got.Entries), len(base.Entries))
		}
		for i := range got.Entries {
			if got.Entries[i].ID != base.Entries[i].ID {
				t.Fatalf("workers=%d: order differs at %d: %s vs %s",
					workers, i, got.Entries[i].ID, base.Entries[i].ID)
			}
		}
	}
}

func TestRunGscFeedsRanking(t *testing.T) {
	root := writeFixtures(t)
	csv := "url,clicks,impressions,ctr,position\n" +
		"https://www.purrify.ca/blog/thin-post/,2,5000,2.5%,12\n"
	csvPath := filepath.Join(t.TempDir(), "gsc.csv")
	if err := os.WriteFile(csvPath, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := testAuditor(root).Run(Options{Workers: 2, GscCSVPath: csvPath})
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range report.Entries {
		if e.ID == "en:blog:thin-post" {
			if e.Gsc == nil {
				t.Fatal("thin-post should carry gsc metrics")
			}
			if e.Gsc.Impressions != 5000 || e.Gsc.CTR != 0.025 {
				t.Errorf("gsc = %+v", *e.Gsc)
			}
			return
		}
	}
	t.Fatal("thin-post entry missing")
}

func TestRunIncludesGuideRoutes(t *testing.T) {
	root := writeFixtures(t)
	guideDir := t.TempDir()
	copyPath := filepath.Join(guideDir, "guide.json")
	copyDoc := map[string]any{
		"hero":          map[string]any{"title": "Cat litter guide", "body": strings.Repeat("carbon odor litter ", 200)},
		"litterTypes":   []any{map[string]any{"name": "Clay"}},
		"relatedGuides": []any{map[string]any{"url": "/learn/how-it-works/"}},
	}
	data, _ := json.Marshal(copyDoc)
	if err := os.WriteFile(copyPath, data, 0o644); err != nil {
		t.Fatal(err)
	}
	componentPath := filepath.Join(guideDir, "Hero.tsx")
	if err := os.WriteFile(componentPath, []byte(`<h2>t</h2><img src="/i.webp">`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig(root)
	cfg.CoreGuideRoutes = []models.GuideRoute{{
		ID:             "cat-litter-guide",
		Locale:         "en",
		URL:            "/learn/cat-litter-guide/",
		CopyPath:       copyPath,
		ComponentPaths: []string{componentPath},
	}}
	auditor := New(cfg, detector.New([]string{"en"}), testLogger())

	report, err := auditor.Run(Options{Workers: 2})
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range report.Entries {
		if e.ID == "en:learn:cat-litter-guide" {
			if e.SourceType != models.SourceLearn || e.ContentClass != models.ClassPillarGuide {
				t.Errorf("guide entry = %+v", e)
			}
			if e.Score.SeoMetadata != 70 {
				t.Errorf("guide seo score = %d, want the 70 baseline", e.Score.SeoMetadata)
			}
			return
		}
	}
	t.Fatal("guide entry missing")
}
