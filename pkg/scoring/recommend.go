package scoring

import (
	"fmt"
	"sort"

	"github.com/purrify/siteaudit/models"
)

// RecommendationPriority maps a sub-score to an urgency label.
func RecommendationPriority(score int) string {
	if score < 55 {
		return models.PriorityHigh
	}
	if score < 75 {
		return models.PriorityMedium
	}
	return models.PriorityLow
}

var priorityRank = map[string]int{
	models.PriorityHigh:   0,
	models.PriorityMedium: 1,
	models.PriorityLow:    2,
}

// BuildRecommendations emits one recommendation per unmet threshold,
// sorted high priority first with ties kept in emission order. Only
// image_layout, linking, and seo_meta are safe for mechanical fixes;
// the rest need editorial judgment.
func BuildRecommendations(m models.PageMetrics, class models.ContentClass, score models.ScoreBreakdown) []models.Recommendation {
	t := ThresholdsFor(class)
	var recs []models.Recommendation

	if m.Words < t.MinWords {
		recs = append(recs, models.Recommendation{
			Category:         models.CategoryContentDepth,
			Priority:         RecommendationPriority(score.WordCount),
			Message:          fmt.Sprintf("Expand to at least %d words (current %d).", t.MinWords, m.Words),
			AutoFixCandidate: false,
		})
	}
	if m.H2 < t.MinH2 || m.H3 < t.MinH3 {
		recs = append(recs, models.Recommendation{
			Category:         models.CategoryStructure,
			Priority:         RecommendationPriority(score.Headings),
			Message:          fmt.Sprintf("Increase heading depth to at least %d H2 and %d H3.", t.MinH2, t.MinH3),
			AutoFixCandidate: false,
		})
	}
	if m.InlineImages < t.MinInlineImages {
		recs = append(recs, models.Recommendation{
			Category:         models.CategoryImageLayout,
			Priority:         RecommendationPriority(score.MediaDistribution),
			Message:          fmt.Sprintf("Add inline visuals to reach %d+ inline images.", t.MinInlineImages),
			AutoFixCandidate: true,
		})
	}
	if m.MaxWordsBetweenImages > t.MaxWordsBetweenImages {
		recs = append(recs, models.Recommendation{
			Category:         models.CategoryLayout,
			Priority:         RecommendationPriority(score.MediaDistribution),
			Message:          fmt.Sprintf("Reduce text walls: keep image spacing under %d words (current max %d).", t.MaxWordsBetweenImages, m.MaxWordsBetweenImages),
			AutoFixCandidate: false,
		})
	}
	if m.InternalLinks < t.MinInternalLinks || m.ExternalLinks < t.MinExternalLinks {
		recs = append(recs, models.Recommendation{
			Category:         models.CategoryLinking,
			Priority:         RecommendationPriority(score.Links),
			Message:          fmt.Sprintf("Raise linking depth to %d+ internal and %d+ external links.", t.MinInternalLinks, t.MinExternalLinks),
			AutoFixCandidate: true,
		})
	}
	if score.SeoMetadata < 75 {
		recs = append(recs, models.Recommendation{
			Category:         models.CategorySeoMeta,
			Priority:         RecommendationPriority(score.SeoMetadata),
			Message:          "Normalize SEO title, description, keyword set, and canonical field quality.",
			AutoFixCandidate: true,
		})
	}
	if score.LayoutReadability < 70 {
		recs = append(recs, models.Recommendation{
			Category:         models.CategoryLayout,
			Priority:         RecommendationPriority(score.LayoutReadability),
			Message:          "Improve readability cadence using lists, tables/callouts, and shorter paragraph blocks.",
			AutoFixCandidate: false,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return priorityRank[recs[i].Priority] < priorityRank[recs[j].Priority]
	})
	return recs
}
