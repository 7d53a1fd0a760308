// Package scoring turns extracted page metrics into composite quality
// scores and remediation recommendations. All formulas are pure and
// deterministic given (PageMetrics, ContentClass, seo score).
package scoring

import (
	"strings"

	"github.com/purrify/siteaudit/models"
)

// Depth targets per content class. Hand-tuned policy values, not
// derived from data.
var contentThresholds = map[models.ContentClass]models.ContentThresholds{
	models.ClassPillarGuide: {
		MinWords:              3000,
		MaxWords:              6000,
		MinH2:                 8,
		MinH3:                 10,
		MinInlineImages:       6,
		MaxWordsBetweenImages: 450,
		MinInternalLinks:      12,
		MinExternalLinks:      5,
	},
	models.ClassComparison: {
		MinWords:              1800,
		MaxWords:              3500,
		MinH2:                 6,
		MinH3:                 6,
		MinInlineImages:       4,
		MaxWordsBetweenImages: 400,
		MinInternalLinks:      8,
		MinExternalLinks:      4,
	},
	models.ClassHowTo: {
		MinWords:              1500,
		MaxWords:              3000,
		MinH2:                 5,
		MinH3:                 6,
		MinInlineImages:       4,
		MaxWordsBetweenImages: 350,
		MinInternalLinks:      6,
		MinExternalLinks:      3,
	},
	models.ClassQuickAnswer: {
		MinWords:              900,
		MaxWords:              2000,
		MinH2:                 4,
		MinH3:                 4,
		MinInlineImages:       3,
		MaxWordsBetweenImages: 300,
		MinInternalLinks:      5,
		MinExternalLinks:      2,
	},
}

// ThresholdsFor returns the depth targets for a content class.
// Unknown classes fall back to quick_answer, the least demanding set.
func ThresholdsFor(class models.ContentClass) models.ContentThresholds {
	if t, ok := contentThresholds[class]; ok {
		return t
	}
	return contentThresholds[models.ClassQuickAnswer]
}

// InferContentClass assigns a structural archetype from the slug
// alone. Comparison markers win over how-to markers; anything
// unmatched is a quick answer.
func InferContentClass(slug string) models.ContentClass {
	lowered := strings.ToLower(slug)
	if strings.Contains(lowered, "-vs-") || strings.Contains(lowered, "comparison") {
		return models.ClassComparison
	}
	if strings.HasPrefix(lowered, "how-") ||
		strings.Contains(lowered, "guide") ||
		strings.Contains(lowered, "how-to") ||
		strings.Contains(lowered, "how-often") {
		return models.ClassHowTo
	}
	return models.ClassQuickAnswer
}
