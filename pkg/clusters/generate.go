package clusters

import (
	"sort"
	"strings"

	"github.com/purrify/siteaudit/models"
	"github.com/purrify/siteaudit/pkg/linkgraph"
)

// Generator derives link suggestions from a cluster table. The
// conversion page and index pages are injected so the rules carry no
// hidden site knowledge.
type Generator struct {
	Clusters       []models.TopicCluster
	ConversionPage string
	BlogIndex      string
	LearnIndex     string
}

// Siblings suggested per spoke; linking every sibling would flood
// large clusters.
const maxSiblingSuggestions = 3

// Generate produces the full suggestion set:
// hub to every spoke and back, each spoke to its first few siblings,
// blog spokes to the conversion page, and the blog/learn index pages
// to their section's spokes.
func (g *Generator) Generate() []models.LinkSuggestion {
	var suggestions []models.LinkSuggestion

	for _, cluster := range g.Clusters {
		for _, spoke := range cluster.Spokes {
			suggestions = append(suggestions, models.LinkSuggestion{
				FromPage:   cluster.HubPage,
				ToPage:     spoke,
				Reason:     "hub should link to spoke",
				Priority:   models.PriorityHigh,
				AnchorText: anchorFor(spoke),
				Context:    cluster.Name,
			})
			suggestions = append(suggestions, models.LinkSuggestion{
				FromPage:   spoke,
				ToPage:     cluster.HubPage,
				Reason:     "spoke should link to hub",
				Priority:   models.PriorityHigh,
				AnchorText: anchorFor(cluster.HubPage),
				Context:    cluster.Name,
			})
		}

		for i, spoke := range cluster.Spokes {
			siblings := 0
			for j, sibling := range cluster.Spokes {
				if i == j {
					continue
				}
				if siblings >= maxSiblingSuggestions {
					break
				}
				suggestions = append(suggestions, models.LinkSuggestion{
					FromPage:   spoke,
					ToPage:     sibling,
					Reason:     "related content within cluster",
					Priority:   models.PriorityMedium,
					AnchorText: anchorFor(sibling),
					Context:    cluster.Name,
				})
				siblings++
			}
		}

		if g.ConversionPage != "" {
			for _, spoke := range cluster.Spokes {
				if !strings.Contains(spoke, "/blog/") {
					continue
				}
				suggestions = append(suggestions, models.LinkSuggestion{
					FromPage:   spoke,
					ToPage:     g.ConversionPage,
					Reason:     "blog post should link to trial product",
					Priority:   models.PriorityHigh,
					AnchorText: anchorFor(g.ConversionPage),
					Context:    cluster.Name,
				})
			}
		}
	}

	suggestions = append(suggestions, g.indexSuggestions(g.BlogIndex, "/blog/", "blog index should link to posts")...)
	suggestions = append(suggestions, g.indexSuggestions(g.LearnIndex, "/learn/", "learn index should link to guides")...)
	return suggestions
}

// indexSuggestions links a section index to every spoke in that
// section across all clusters, each spoke once.
func (g *Generator) indexSuggestions(indexPage, sectionPrefix, reason string) []models.LinkSuggestion {
	if indexPage == "" {
		return nil
	}
	seen := map[string]bool{}
	var out []models.LinkSuggestion
	for _, cluster := range g.Clusters {
		for _, spoke := range cluster.Spokes {
			if !strings.Contains(spoke, sectionPrefix) || seen[spoke] {
				continue
			}
			seen[spoke] = true
			out = append(out, models.LinkSuggestion{
				FromPage:   indexPage,
				ToPage:     spoke,
				Reason:     reason,
				Priority:   models.PriorityMedium,
				AnchorText: anchorFor(spoke),
				Context:    cluster.Name,
			})
		}
	}
	return out
}

var suggestionPriorityRank = map[string]int{
	models.PriorityHigh:   0,
	models.PriorityMedium: 1,
	models.PriorityLow:    2,
}

var targetTypeRank = map[models.PageType]int{
	models.PageProduct: 0,
	models.PageBlog:    1,
	models.PageLearn:   2,
}

func targetRank(url string) int {
	if rank, ok := targetTypeRank[linkgraph.ClassifyPageType(url)]; ok {
		return rank
	}
	return 3
}

// Prioritize sorts suggestions by priority, then by target page-type
// importance. The sort is stable so generation order breaks ties.
func Prioritize(suggestions []models.LinkSuggestion) []models.LinkSuggestion {
	sorted := make([]models.LinkSuggestion, len(suggestions))
	copy(sorted, suggestions)
	sort.SliceStable(sorted, func(i, j int) bool {
		if suggestionPriorityRank[sorted[i].Priority] != suggestionPriorityRank[sorted[j].Priority] {
			return suggestionPriorityRank[sorted[i].Priority] < suggestionPriorityRank[sorted[j].Priority]
		}
		return targetRank(sorted[i].ToPage) < targetRank(sorted[j].ToPage)
	})
	return sorted
}

// GroupByPage buckets suggestions by source page, keeping each
// bucket's suggestions in input order.
func GroupByPage(suggestions []models.LinkSuggestion) map[string][]models.LinkSuggestion {
	grouped := map[string][]models.LinkSuggestion{}
	for _, s := range suggestions {
		grouped[s.FromPage] = append(grouped[s.FromPage], s)
	}
	return grouped
}

// anchorFor turns a URL slug into readable anchor text.
func anchorFor(url string) string {
	parts := strings.Split(strings.Trim(url, "/"), "/")
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return url
	}
	words := strings.Split(parts[len(parts)-1], "-")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
