package scoring

import (
	"strings"

	"github.com/purrify/siteaudit/models"
)

// Metadata scored without any post object is unknown, not bad.
const seoUnknownScore = 60

// SeoBaselineScore is used for the hand-coded guide pages, whose
// metadata lives in route components outside the audited files.
const SeoBaselineScore = 70

// Ideal metadata ranges. Outside the window the component degrades
// via ratioScore against the lower bound.
const (
	seoTitleMin = 45
	seoTitleMax = 70
	seoDescMin  = 120
	seoDescMax  = 175
	seoKeyMin   = 3
	seoKeyMax   = 10
)

// ScoreSeoMetadata scores a post's SEO block on title length,
// description length, keyword-set size, and canonical presence,
// blended 0.3/0.3/0.25/0.15. SEO fields fall back to the post's own
// title and excerpt when absent.
func ScoreSeoMetadata(post *models.BlogPost) int {
	if post == nil {
		return seoUnknownScore
	}

	var title, description, canonical string
	var keywords []string
	if post.Seo != nil {
		title = post.Seo.Title
		description = post.Seo.Description
		keywords = post.Seo.Keywords
		canonical = post.Seo.Canonical
	}
	if title == "" {
		title = post.Title
	}
	if description == "" {
		description = post.Excerpt
	}
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	canonical = strings.TrimSpace(canonical)

	titleScore := ratioScore(len(title), seoTitleMin)
	if len(title) >= seoTitleMin && len(title) <= seoTitleMax {
		titleScore = 100
	}
	descScore := ratioScore(len(description), seoDescMin)
	if len(description) >= seoDescMin && len(description) <= seoDescMax {
		descScore = 100
	}
	keywordScore := ratioScore(len(keywords), seoKeyMin)
	if len(keywords) >= seoKeyMin && len(keywords) <= seoKeyMax {
		keywordScore = 100
	}
	canonicalScore := 40
	if canonical != "" {
		canonicalScore = 100
	}

	return round(float64(titleScore)*0.3 + float64(descScore)*0.3 +
		float64(keywordScore)*0.25 + float64(canonicalScore)*0.15)
}
