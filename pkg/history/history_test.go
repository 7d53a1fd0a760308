package history

import (
	"path/filepath"
	"testing"

	"github.com/purrify/siteaudit/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenAt(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("OpenAt() failed: %v", err)
	}
	return db
}

func reportAt(scannedAt string, overall int) *models.AuditReport {
	return &models.AuditReport{
		Summary: models.AuditSummary{
			ScannedAt:  scannedAt,
			TotalPages: 2,
			P0:         1,
			P2:         1,
			Errors:     []models.AuditError{{Path: "broken.json", Reason: "invalid JSON"}},
		},
		Entries: []models.AuditEntry{
			{
				URL: "/blog/thin-post/", Locale: "en", ContentClass: models.ClassQuickAnswer,
				Score:         models.ScoreBreakdown{Overall: overall},
				PriorityScore: 55, PriorityTier: models.TierP0,
				Metrics: models.PageMetrics{Words: 90, InternalLinks: 1},
			},
			{
				URL: "/blog/good-post/", Locale: "en", ContentClass: models.ClassHowTo,
				Score:         models.ScoreBreakdown{Overall: 90},
				PriorityScore: 10, PriorityTier: models.TierP2,
				Metrics: models.PageMetrics{Words: 1500, InternalLinks: 6},
			},
		},
	}
}

func TestRecordRunAndListRuns(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.RecordRun(reportAt("2026-08-30T10:00:00Z", 35))
	if err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}
	if runID == 0 {
		t.Error("RecordRun() returned 0 ID")
	}
	if _, err := db.RecordRun(reportAt("2026-08-31T10:00:00Z", 42)); err != nil {
		t.Fatalf("RecordRun() second run failed: %v", err)
	}

	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].ScannedAt != "2026-08-31T10:00:00Z" {
		t.Errorf("newest run scanned_at = %q, want the later timestamp", runs[0].ScannedAt)
	}
	if runs[0].TotalPages != 2 || runs[0].P0 != 1 || runs[0].P2 != 1 || runs[0].Errors != 1 {
		t.Errorf("run summary = %+v", runs[0])
	}
}

func TestListRunsLimit(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for i := 0; i < 3; i++ {
		if _, err := db.RecordRun(reportAt("2026-08-31T10:00:00Z", 40)); err != nil {
			t.Fatalf("RecordRun() failed: %v", err)
		}
	}
	runs, err := db.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("got %d runs, want 2", len(runs))
	}
}

func TestPageHistory(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.RecordRun(reportAt("2026-08-30T10:00:00Z", 35)); err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}
	if _, err := db.RecordRun(reportAt("2026-08-31T10:00:00Z", 48)); err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}

	samples, err := db.PageHistory("/blog/thin-post/", 10)
	if err != nil {
		t.Fatalf("PageHistory() failed: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("got %d samples, want 2", len(samples))
	}
	if samples[0].Overall != 48 || samples[1].Overall != 35 {
		t.Errorf("overall scores = %d, %d; want newest first 48, 35", samples[0].Overall, samples[1].Overall)
	}
	if samples[0].PriorityTier != models.TierP0 || samples[0].Words != 90 {
		t.Errorf("sample = %+v", samples[0])
	}

	none, err := db.PageHistory("/blog/unknown/", 10)
	if err != nil {
		t.Fatalf("PageHistory() for unknown url failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("got %d samples for unknown url, want 0", len(none))
	}
}

func TestSchemaIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		t.Fatalf("InitSchema() on existing schema failed: %v", err)
	}
}
