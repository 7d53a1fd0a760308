package scoring

import (
	"math"

	"github.com/purrify/siteaudit/models"
)

// Overall weights. Asserted policy constants carried over from the
// editorial team, not derived from measurement.
const (
	weightWordCount = 0.30
	weightHeadings  = 0.18
	weightMedia     = 0.18
	weightLinks     = 0.14
	weightLayout    = 0.10
	weightSeo       = 0.10
)

func round(v float64) int {
	return int(math.Round(v))
}

// ratioScore maps actual/target onto 0..100, capped at 100. Exceeding
// the target earns no bonus. A non-positive target always scores 100.
func ratioScore(actual, target int) int {
	if target <= 0 {
		return 100
	}
	score := round(float64(actual) / float64(target) * 100)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// scoreWordCount scores length against the class window. Under-length
// is penalized proportionally down to zero. Over-length degrades
// gently up to 1.2x the maximum, steeply up to 1.5x, then flatlines
// at 30.
func scoreWordCount(words int, t models.ContentThresholds) int {
	if words >= t.MinWords && words <= t.MaxWords {
		return 100
	}
	if words < t.MinWords {
		s := round(float64(words) / float64(t.MinWords) * 100)
		if s < 0 {
			return 0
		}
		return s
	}
	r := float64(words) / float64(t.MaxWords)
	if r <= 1.2 {
		s := round(100 - (r-1)*150)
		if s < 70 {
			return 70
		}
		return s
	}
	if r <= 1.5 {
		s := round(70 - (r-1.2)*83)
		if s < 45 {
			return 45
		}
		return s
	}
	return 30
}

func scoreHeadings(m models.PageMetrics, t models.ContentThresholds) int {
	h2 := ratioScore(m.H2, t.MinH2)
	h3 := ratioScore(m.H3, t.MinH3)
	return round(float64(h2)*0.7 + float64(h3)*0.3)
}

func scoreMediaDistribution(m models.PageMetrics, t models.ContentThresholds) int {
	imageScore := ratioScore(m.InlineImages, t.MinInlineImages)
	spacingScore := 100
	if m.MaxWordsBetweenImages > t.MaxWordsBetweenImages {
		gap := m.MaxWordsBetweenImages
		if gap < 1 {
			gap = 1
		}
		spacingScore = round(float64(t.MaxWordsBetweenImages) / float64(gap) * 100)
		if spacingScore < 20 {
			spacingScore = 20
		}
	}
	return round(float64(imageScore)*0.7 + float64(spacingScore)*0.3)
}

func scoreLinks(m models.PageMetrics, t models.ContentThresholds) int {
	internal := ratioScore(m.InternalLinks, t.MinInternalLinks)
	external := ratioScore(m.ExternalLinks, t.MinExternalLinks)
	return round(float64(internal)*0.7 + float64(external)*0.3)
}

// scoreLayoutReadability uses class-independent targets: 8 paragraphs,
// 3 list-or-table elements, at least one callout.
func scoreLayoutReadability(m models.PageMetrics) int {
	paragraphScore := ratioScore(m.Paragraphs, 8)
	listTableScore := ratioScore(m.ListCount+m.TableCount, 3)
	calloutScore := 50
	if m.CalloutCount > 0 {
		calloutScore = 100
	}
	return round(float64(paragraphScore)*0.5 + float64(listTableScore)*0.35 + float64(calloutScore)*0.15)
}

// BuildScoreBreakdown computes the six sub-scores and their weighted
// overall. The seo sub-score is computed separately by ScoreSeoMetadata
// since it reads page metadata, not PageMetrics.
func BuildScoreBreakdown(m models.PageMetrics, class models.ContentClass, seoScore int) models.ScoreBreakdown {
	t := ThresholdsFor(class)
	wordCount := scoreWordCount(m.Words, t)
	headings := scoreHeadings(m, t)
	media := scoreMediaDistribution(m, t)
	links := scoreLinks(m, t)
	layout := scoreLayoutReadability(m)

	overall := round(
		float64(wordCount)*weightWordCount +
			float64(headings)*weightHeadings +
			float64(media)*weightMedia +
			float64(links)*weightLinks +
			float64(layout)*weightLayout +
			float64(seoScore)*weightSeo)

	return models.ScoreBreakdown{
		Overall:           overall,
		WordCount:         wordCount,
		Headings:          headings,
		MediaDistribution: media,
		Links:             links,
		LayoutReadability: layout,
		SeoMetadata:       seoScore,
	}
}
