// Package audit orchestrates a content-quality run: it enumerates
// every in-scope page, extracts metrics, scores them, ranks them
// against search signals, and assembles the final report.
package audit

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/purrify/siteaudit/models"
	"github.com/purrify/siteaudit/pkg/analytics"
	"github.com/purrify/siteaudit/pkg/detector"
	"github.com/purrify/siteaudit/pkg/gsc"
	"github.com/purrify/siteaudit/pkg/metrics"
	"github.com/purrify/siteaudit/pkg/ranker"
	"github.com/purrify/siteaudit/pkg/scoring"
)

const topKeywordCount = 10

// Options selects and caps what one run audits. Locale and
// ContentClass filter the population; Limit only caps the report's
// entries list, never the summary counts.
type Options struct {
	Locales      []string
	ContentClass models.ContentClass
	Limit        int
	GscCSVPath   string
	Workers      int
	ContentRoot  string
	Now          func() time.Time
}

// Auditor runs content-quality audits against a site layout.
type Auditor struct {
	cfg    *models.Config
	det    *detector.Detector
	logger *slog.Logger
}

func New(cfg *models.Config, det *detector.Detector, logger *slog.Logger) *Auditor {
	return &Auditor{cfg: cfg, det: det, logger: logger}
}

// job is one page to audit. Blog jobs carry a content file path,
// learn jobs a guide route.
type job struct {
	locale string
	path   string
	route  *models.GuideRoute
}

// result is a processed job: exactly one of entry, failure, or a
// silent skip (unpublished post).
type result struct {
	entry   *models.AuditEntry
	failure *models.AuditError
}

// Run executes a full audit. Per-page failures are accumulated in the
// summary, never abort the batch.
func (a *Auditor) Run(opts Options) (*models.AuditReport, error) {
	locales := opts.Locales
	if len(locales) == 0 {
		locales = a.cfg.Locales
	}
	contentRoot := opts.ContentRoot
	if contentRoot == "" {
		contentRoot = a.cfg.ContentRoot
	}
	workers := opts.Workers
	if workers < 1 {
		workers = a.cfg.WorkerCount
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	gscMap := gsc.Load(opts.GscCSVPath)
	if len(gscMap) > 0 {
		a.logger.Info("Loaded search performance data", "urls", len(gscMap), "path", opts.GscCSVPath)
	}

	jobs, enumErrors := a.enumerate(locales, contentRoot)
	a.logger.Info("Starting audit", "pages", len(jobs), "locales", strings.Join(locales, ","), "workers", workers)

	// Jobs land at their own index so the fold below is independent
	// of worker scheduling.
	results := make([]result, len(jobs))
	jobCh := make(chan int)
	var wg sync.WaitGroup
	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := range jobCh {
				results[i] = a.process(id, jobs[i], gscMap)
			}
		}(w)
	}
	for i := range jobs {
		jobCh <- i
	}
	close(jobCh)
	wg.Wait()

	var entries []models.AuditEntry
	auditErrors := enumErrors
	for _, r := range results {
		if r.failure != nil {
			auditErrors = append(auditErrors, *r.failure)
			continue
		}
		if r.entry != nil {
			entries = append(entries, *r.entry)
		}
	}

	if opts.ContentClass != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if e.ContentClass == opts.ContentClass {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].PriorityScore > entries[j].PriorityScore
	})

	// Summary reflects the post-filter, pre-limit population; the
	// limit is purely a report-size cap.
	summary := buildSummary(entries, locales, now().UTC().Format(time.RFC3339), auditErrors)

	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[:opts.Limit]
	}

	a.logger.Info("Audit complete", "entries", len(entries), "p0", summary.P0, "p1", summary.P1, "p2", summary.P2, "errors", len(auditErrors))
	return &models.AuditReport{Summary: summary, Entries: entries}, nil
}

// enumerate lists every page job in deterministic order: locales as
// given, blog slugs sorted, then that locale's core guide routes.
func (a *Auditor) enumerate(locales []string, contentRoot string) ([]job, []models.AuditError) {
	var jobs []job
	var errors []models.AuditError
	for _, locale := range locales {
		localeDir := filepath.Join(contentRoot, locale)
		names, err := os.ReadDir(localeDir)
		if err != nil {
			if !os.IsNotExist(err) {
				errors = append(errors, models.AuditError{Path: localeDir, Reason: err.Error()})
			}
		} else {
			var files []string
			for _, entry := range names {
				if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
					files = append(files, entry.Name())
				}
			}
			sort.Strings(files)
			for _, name := range files {
				jobs = append(jobs, job{locale: locale, path: filepath.Join(localeDir, name)})
			}
		}

		for i := range a.cfg.CoreGuideRoutes {
			route := a.cfg.CoreGuideRoutes[i]
			if route.Locale == locale {
				jobs = append(jobs, job{locale: locale, route: &route})
			}
		}
	}
	return jobs, errors
}

func (a *Auditor) process(workerID int, j job, gscMap gsc.Map) result {
	if j.route != nil {
		return a.processGuide(workerID, j, gscMap)
	}
	return a.processBlogPost(workerID, j, gscMap)
}

func (a *Auditor) processBlogPost(workerID int, j job, gscMap gsc.Map) result {
	raw, err := os.ReadFile(j.path)
	if err != nil {
		a.logger.Error("Failed to read post", "worker_id", workerID, "path", j.path, "error", err)
		return result{failure: &models.AuditError{Path: j.path, Reason: err.Error()}}
	}
	var post models.BlogPost
	if err := json.Unmarshal(raw, &post); err != nil {
		a.logger.Error("Failed to parse post", "worker_id", workerID, "path", j.path, "error", err)
		return result{failure: &models.AuditError{Path: j.path, Reason: fmt.Sprintf("invalid JSON: %v", err)}}
	}
	if post.Status != models.StatusPublished {
		return result{}
	}

	slug := post.Slug
	if slug == "" {
		slug = strings.TrimSuffix(filepath.Base(j.path), ".json")
	}
	url := "/blog/" + slug + "/"
	if j.locale != "en" {
		url = "/" + j.locale + url
	}

	featured := ""
	if post.FeaturedImage != nil {
		featured = post.FeaturedImage.URL
	}
	source := &metrics.HTMLSource{
		HTML:          post.Content,
		FeaturedImage: featured,
		Domain:        a.cfg.Domain,
		Locale:        j.locale,
	}
	pageMetrics, err := source.Extract()
	if err != nil {
		return result{failure: &models.AuditError{Path: j.path, Reason: err.Error()}}
	}

	if post.Excerpt == "" {
		post.Excerpt = detector.RecoverExcerpt(post.Content, "https://www."+a.cfg.Domain+url)
	}

	class := scoring.InferContentClass(slug)
	score := scoring.BuildScoreBreakdown(pageMetrics, class, scoring.ScoreSeoMetadata(&post))
	gscMetrics := lookupGsc(gscMap, url)
	priorityScore, tier := ranker.Rank(score, gscMetrics)

	bodyText := metrics.StripHTML(post.Content)
	detected, mismatch := a.det.CheckLocale(bodyText, j.locale)

	var declaredKeywords []string
	if post.Seo != nil {
		declaredKeywords = post.Seo.Keywords
	}

	entry := &models.AuditEntry{
		ID:               j.locale + ":blog:" + slug,
		URL:              url,
		Locale:           j.locale,
		SourceType:       models.SourceBlog,
		SourcePath:       j.path,
		Status:           models.StatusPublished,
		ContentClass:     class,
		Thresholds:       scoring.ThresholdsFor(class),
		Metrics:          pageMetrics,
		Score:            score,
		Gsc:              gscMetrics,
		PriorityScore:    priorityScore,
		PriorityTier:     tier,
		Recommendations:  scoring.BuildRecommendations(pageMetrics, class, score),
		DetectedLanguage: detected,
		LanguageMismatch: mismatch,
		TopKeywords:      analytics.TopKeywords(bodyText, topKeywordCount),
		MissingKeywords:  analytics.MissingKeywords(bodyText, declaredKeywords),
	}
	return result{entry: entry}
}

func (a *Auditor) processGuide(workerID int, j job, gscMap gsc.Map) result {
	route := j.route
	source := &metrics.CopySource{
		CopyPath:       route.CopyPath,
		ComponentPaths: route.ComponentPaths,
		Domain:         a.cfg.Domain,
		Locale:         j.locale,
	}
	pageMetrics, err := source.Extract()
	if err != nil {
		a.logger.Error("Failed to extract guide metrics", "worker_id", workerID, "route", route.ID, "error", err)
		return result{failure: &models.AuditError{Path: route.CopyPath, Reason: err.Error()}}
	}

	class := models.ClassPillarGuide
	// Guide metadata lives in route components outside the audited
	// files; score it at the neutral baseline.
	score := scoring.BuildScoreBreakdown(pageMetrics, class, scoring.SeoBaselineScore)
	gscMetrics := lookupGsc(gscMap, route.URL)
	priorityScore, tier := ranker.Rank(score, gscMetrics)

	entry := &models.AuditEntry{
		ID:              j.locale + ":learn:" + route.ID,
		URL:             route.URL,
		Locale:          j.locale,
		SourceType:      models.SourceLearn,
		SourcePath:      route.CopyPath,
		Status:          models.StatusPublished,
		ContentClass:    class,
		Thresholds:      scoring.ThresholdsFor(class),
		Metrics:         pageMetrics,
		Score:           score,
		Gsc:             gscMetrics,
		PriorityScore:   priorityScore,
		PriorityTier:    tier,
		Recommendations: scoring.BuildRecommendations(pageMetrics, class, score),
	}
	return result{entry: entry}
}

func lookupGsc(gscMap gsc.Map, url string) *models.GscMetrics {
	if m, ok := gscMap[gsc.NormalizePathURL(url)]; ok {
		copied := m
		return &copied
	}
	return nil
}

func buildSummary(entries []models.AuditEntry, locales []string, scannedAt string, errors []models.AuditError) models.AuditSummary {
	summary := models.AuditSummary{
		ScannedAt:  scannedAt,
		TotalPages: len(entries),
		Errors:     errors,
	}
	for _, locale := range locales {
		ls := models.LocaleSummary{Locale: locale}
		for _, e := range entries {
			if e.Locale != locale {
				continue
			}
			ls.Pages++
			switch e.PriorityTier {
			case models.TierP0:
				ls.P0++
			case models.TierP1:
				ls.P1++
			case models.TierP2:
				ls.P2++
			}
			if e.Metrics.Words < e.Thresholds.MinWords {
				ls.BelowWordTarget++
			}
			if e.Metrics.InlineImages < e.Thresholds.MinInlineImages {
				ls.MissingImageTarget++
			}
			if e.Metrics.InternalLinks < e.Thresholds.MinInternalLinks ||
				e.Metrics.ExternalLinks < e.Thresholds.MinExternalLinks {
				ls.MissingLinkTarget++
			}
			if e.LanguageMismatch {
				ls.LanguageMismatch++
			}
		}
		summary.LocaleSummary = append(summary.LocaleSummary, ls)
	}
	for _, e := range entries {
		switch e.PriorityTier {
		case models.TierP0:
			summary.P0++
		case models.TierP1:
			summary.P1++
		case models.TierP2:
			summary.P2++
		}
	}
	return summary
}
