// Package apply mechanically remediates audited blog posts: it
// normalizes missing SEO metadata and, when asked, inserts templated
// link, citation, and depth blocks into under-threshold content.
// Dry-run is the default; nothing touches disk without Write.
package apply

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/purrify/siteaudit/models"
	"github.com/purrify/siteaudit/pkg/metrics"
	"github.com/purrify/siteaudit/pkg/report"
)

const (
	defaultLimit   = 10
	maxSeoTitleLen = 70
	maxSeoDescLen  = 170
	minSeoDescLen  = 120
	minSeoKeywords = 3
	maxSeoKeywords = 10
)

// Options controls one remediation pass.
type Options struct {
	Write              bool
	ApplyContentBlocks bool
	Limit              int
	Tiers              []string
	Domain             string
	Now                func() time.Time
}

// Result summarizes what a pass did (or would do, in dry-run).
type Result struct {
	GeneratedAt   string   `json:"generatedAt"`
	Mode          string   `json:"mode"`
	ContentBlocks bool     `json:"contentBlocks"`
	SourceAudit   string   `json:"sourceAudit"`
	Tiers         []string `json:"tiers"`
	Scanned       int      `json:"candidatesScanned"`
	Changed       int      `json:"filesChanged"`
	Details       []string `json:"details"`
}

var (
	hrefRe  = regexp.MustCompile(`(?i)href=["']([^"']+)["']`)
	h3Re    = regexp.MustCompile(`(?i)<h3\b`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// Run remediates the top audit candidates. Entries are filtered to
// blog sources in the requested tiers, taken in priority order, and
// patched file by file. A file whose fixes are all already present
// reports as a no-op.
func Run(r *models.AuditReport, auditPath string, opts Options) (*Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}
	if len(opts.Tiers) == 0 {
		opts.Tiers = []string{models.TierP0, models.TierP1}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	wanted := make(map[string]bool, len(opts.Tiers))
	for _, tier := range opts.Tiers {
		wanted[strings.ToUpper(strings.TrimSpace(tier))] = true
	}

	var candidates []*models.AuditEntry
	for i := range r.Entries {
		entry := &r.Entries[i]
		if entry.SourceType == models.SourceBlog && wanted[entry.PriorityTier] {
			candidates = append(candidates, entry)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].PriorityScore > candidates[j].PriorityScore
	})
	if len(candidates) > opts.Limit {
		candidates = candidates[:opts.Limit]
	}

	res := &Result{
		GeneratedAt:   now().UTC().Format(time.RFC3339),
		Mode:          "dry-run",
		ContentBlocks: opts.ApplyContentBlocks,
		SourceAudit:   auditPath,
		Tiers:         opts.Tiers,
	}
	if opts.Write {
		res.Mode = "write"
	}

	for _, entry := range candidates {
		res.Scanned++
		original, err := os.ReadFile(entry.SourcePath)
		if err != nil {
			res.Details = append(res.Details, fmt.Sprintf("%s: missing source file", entry.ID))
			continue
		}
		var post models.BlogPost
		if err := json.Unmarshal(original, &post); err != nil {
			res.Details = append(res.Details, fmt.Sprintf("%s: unreadable post: %v", entry.ID, err))
			continue
		}
		slug := post.Slug
		if slug == "" {
			slug = strings.TrimSuffix(filepath.Base(entry.SourcePath), ".json")
		}

		changes := ensureSeo(&post, entry.Locale, slug, opts.Domain)
		if opts.ApplyContentBlocks {
			patched, blockChanges := contentFixes(post.Content, entry.Thresholds, entry.Locale, slug, opts.Domain)
			if patched != post.Content {
				post.Content = patched
				changes = append(changes, blockChanges...)
			}
		}

		if len(changes) == 0 {
			res.Details = append(res.Details, fmt.Sprintf("%s: no-op", entry.ID))
			continue
		}
		res.Changed++
		if opts.Write {
			next, err := json.MarshalIndent(&post, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to encode %s: %w", entry.SourcePath, err)
			}
			if err := os.WriteFile(entry.SourcePath, append(next, '\n'), 0o644); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", entry.SourcePath, err)
			}
		}
		res.Details = append(res.Details, fmt.Sprintf("%s: %s", entry.ID, strings.Join(changes, ", ")))
	}
	return res, nil
}

// WriteReport persists the apply artifacts next to the audit output.
func WriteReport(dir string, res *Result) (*report.Paths, error) {
	jsonData, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode apply report: %w", err)
	}
	return report.WriteArtifacts(dir, "apply", res.GeneratedAt, jsonData, []byte(RenderMarkdown(res)))
}

func RenderMarkdown(res *Result) string {
	var b strings.Builder
	b.WriteString("# Content Apply Report\n\n")
	fmt.Fprintf(&b, "- Generated: %s\n", res.GeneratedAt)
	fmt.Fprintf(&b, "- Mode: %s\n", res.Mode)
	blocks := "disabled (default)"
	if res.ContentBlocks {
		blocks = "enabled"
	}
	fmt.Fprintf(&b, "- Content blocks: %s\n", blocks)
	fmt.Fprintf(&b, "- Source audit: %s\n", res.SourceAudit)
	fmt.Fprintf(&b, "- Tiers: %s\n", strings.Join(res.Tiers, ", "))
	fmt.Fprintf(&b, "- Candidates scanned: %d\n", res.Scanned)
	fmt.Fprintf(&b, "- Files changed: %d\n", res.Changed)
	b.WriteString("\n## Details\n\n")
	for _, line := range res.Details {
		fmt.Fprintf(&b, "- %s\n", line)
	}
	return b.String()
}

// ensureSeo fills the missing SEO fields of a post in place and
// reports which fields it set. Existing values are never overwritten.
func ensureSeo(post *models.BlogPost, locale, slug, domain string) []string {
	var changes []string
	if post.Seo == nil {
		post.Seo = &models.BlogSeo{}
	}

	titleBase := post.Title
	if titleBase == "" {
		titleBase = post.Seo.Title
	}
	if titleBase == "" {
		titleBase = strings.ReplaceAll(slug, "-", " ")
	}
	if title := trimToLength(titleBase, maxSeoTitleLen); post.Seo.Title == "" && title != "" {
		post.Seo.Title = title
		changes = append(changes, "seo.title")
	}

	descBase := post.Seo.Description
	if descBase == "" {
		descBase = post.Excerpt
	}
	if descBase == "" {
		descBase = metrics.StripHTML(post.Content)
	}
	descBase = strings.TrimSpace(spaceRe.ReplaceAllString(descBase, " "))
	if len(descBase) < minSeoDescLen {
		suffix := "Use a repeatable routine to keep litter odor under control."
		if locale == "fr" {
			suffix = "Appliquez une routine claire pour garder la litiere plus fraiche."
		}
		descBase = strings.TrimSpace(descBase + " " + suffix)
	}
	if desc := trimToLength(descBase, maxSeoDescLen); post.Seo.Description == "" && desc != "" {
		post.Seo.Description = desc
		changes = append(changes, "seo.description")
	}

	if len(post.Seo.Keywords) == 0 {
		candidates := append(append([]string{}, post.Tags...), strings.ReplaceAll(slug, "-", " "))
		seen := make(map[string]bool)
		var deduped []string
		for _, kw := range candidates {
			key := strings.ToLower(strings.TrimSpace(kw))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			deduped = append(deduped, strings.TrimSpace(kw))
		}
		filler := "cat litter odor control"
		if locale == "fr" {
			filler = "controle odeur litiere chat"
		}
		for len(deduped) < minSeoKeywords {
			deduped = append(deduped, filler)
		}
		if len(deduped) > maxSeoKeywords {
			deduped = deduped[:maxSeoKeywords]
		}
		post.Seo.Keywords = deduped
		changes = append(changes, "seo.keywords")
	}

	if post.Seo.Canonical == "" {
		prefix := ""
		if locale != "en" {
			prefix = "/" + locale
		}
		post.Seo.Canonical = fmt.Sprintf("https://www.%s%s/blog/%s", domain, prefix, slug)
		changes = append(changes, "seo.canonical")
	}
	return changes
}

// contentFixes inserts the templated blocks a post needs to clear its
// thresholds. Each block type carries a marker comment; a block whose
// marker is already present is skipped, which makes the pass
// idempotent.
func contentFixes(content string, t models.ContentThresholds, locale, slug, domain string) (string, []string) {
	var changes []string

	if internal := countLinks(content, domain, metrics.LinkInternal); internal < t.MinInternalLinks &&
		!strings.Contains(content, markerLinks) {
		needed := t.MinInternalLinks - internal
		content = insertBeforeFaqOrEnd(content, buildInternalLinksBlock(locale, slug, needed))
		changes = append(changes, "content.internal-links-block")
	}

	if external := countLinks(content, domain, metrics.LinkExternal); external < t.MinExternalLinks &&
		!strings.Contains(content, markerCitations) {
		content = insertBeforeFaqOrEnd(content, buildExternalSourcesBlock(locale))
		changes = append(changes, "content.external-sources-block")
	}

	words := metrics.CountWords(metrics.StripHTML(content), locale)
	for iteration := 1; words < t.MinWords && iteration <= maxDepthBlocks; iteration++ {
		marker := fmt.Sprintf("%s-%d", markerDepth, iteration)
		if !strings.Contains(content, marker) {
			content = insertBeforeFaqOrEnd(content, buildDepthBlock(locale, iteration))
			changes = append(changes, fmt.Sprintf("content.depth-block-%d", iteration))
		}
		words = metrics.CountWords(metrics.StripHTML(content), locale)
	}

	if len(h3Re.FindAllStringIndex(content, -1)) < t.MinH3 &&
		!strings.Contains(content, markerDepth+"-0") {
		content = insertBeforeFaqOrEnd(content, buildStructureBlock(locale))
		changes = append(changes, "content.h3-structure-block")
	}
	return content, changes
}

func countLinks(content, domain string, class metrics.LinkClass) int {
	count := 0
	for _, m := range hrefRe.FindAllStringSubmatch(content, -1) {
		if metrics.ClassifyHref(m[1], domain) == class {
			count++
		}
	}
	return count
}

// trimToLength collapses whitespace and cuts at a word boundary,
// appending an ellipsis when the input was truncated.
func trimToLength(input string, max int) string {
	clean := strings.TrimSpace(spaceRe.ReplaceAllString(input, " "))
	clean = strings.TrimSpace(strings.TrimRight(clean, ".…"))
	runes := []rune(clean)
	if len(runes) <= max {
		return clean
	}
	sliced := string(runes[:max-1])
	if boundary := strings.LastIndex(sliced, " "); boundary > max*6/10 {
		sliced = sliced[:boundary]
	}
	return strings.TrimSpace(sliced) + "…"
}
