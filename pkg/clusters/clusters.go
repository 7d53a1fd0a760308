// Package clusters holds the curated topic-cluster model and derives
// internal-link suggestions from it. The model describes the intended
// hub-and-spoke topology and is independent of the crawled graph.
package clusters

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/purrify/siteaudit/models"
)

// Load reads a cluster file. A missing file falls back to the
// built-in cluster table.
func Load(path string) ([]models.TopicCluster, error) {
	if path == "" {
		return Defaults(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return nil, fmt.Errorf("failed to read clusters %s: %w", path, err)
	}
	var doc struct {
		Clusters []models.TopicCluster `yaml:"clusters"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse clusters %s: %w", path, err)
	}
	if len(doc.Clusters) == 0 {
		return nil, fmt.Errorf("clusters %s: no clusters defined", path)
	}
	return doc.Clusters, nil
}

// Validate reports structural problems in a cluster table as warning
// strings. Warnings never block a run.
func Validate(clusters []models.TopicCluster) []string {
	var warnings []string
	seenIDs := map[string]bool{}
	for _, c := range clusters {
		if c.ID == "" {
			warnings = append(warnings, fmt.Sprintf("cluster %q has no id", c.Name))
		} else if seenIDs[c.ID] {
			warnings = append(warnings, fmt.Sprintf("duplicate cluster id %q", c.ID))
		}
		seenIDs[c.ID] = true

		if c.HubPage == "" {
			warnings = append(warnings, fmt.Sprintf("cluster %q has no hub page", c.ID))
		} else if !strings.HasPrefix(c.HubPage, "/") {
			warnings = append(warnings, fmt.Sprintf("cluster %q hub %q is not a rooted path", c.ID, c.HubPage))
		}
		if len(c.Spokes) == 0 {
			warnings = append(warnings, fmt.Sprintf("cluster %q has no spokes", c.ID))
		}
		seenSpokes := map[string]bool{}
		for _, spoke := range c.Spokes {
			if !strings.HasPrefix(spoke, "/") {
				warnings = append(warnings, fmt.Sprintf("cluster %q spoke %q is not a rooted path", c.ID, spoke))
			}
			if seenSpokes[spoke] {
				warnings = append(warnings, fmt.Sprintf("cluster %q lists spoke %q twice", c.ID, spoke))
			}
			seenSpokes[spoke] = true
			if spoke == c.HubPage {
				warnings = append(warnings, fmt.Sprintf("cluster %q lists its hub as a spoke", c.ID))
			}
		}
	}
	return warnings
}

// Defaults returns the curated cluster table for the site.
func Defaults() []models.TopicCluster {
	return []models.TopicCluster{
		{
			ID:          "odor-control",
			Name:        "Cat Litter Odor Control",
			HubPage:     "/learn/cat-litter-guide",
			Description: "Complete guide to eliminating cat litter smell and odor control",
			Spokes: []string{
				"/blog/most-powerful-odor-absorber",
				"/blog/best-litter-odor-remover-small-apartments",
				"/blog/cat-litter-smell-worse-summer",
				"/blog/cat-litter-smell-worse-winter",
				"/blog/house-smells-like-cat-litter-solutions",
				"/blog/strong-cat-urine-smell-litter-box",
				"/blog/embarrassed-guests-visit-cat-litter-smell",
				"/blog/tried-everything-cat-litter-smell-solutions",
				"/learn/how-it-works",
				"/learn/activated-carbon-vs-baking-soda-deodorizers",
				"/learn/ammonia-science",
				"/learn/cat-litter-ammonia-health-risks",
				"/learn/solutions/litter-box-smell-elimination",
				"/learn/solutions/ammonia-smell-cat-litter",
				"/learn/solutions/how-to-neutralize-ammonia-cat-litter",
				"/products/trial-size",
				"/products/standard",
				"/products/family-pack",
			},
			Keywords: []string{"odor control", "smell elimination", "litter box smell", "cat litter odor"},
		},
		{
			ID:          "activated-carbon",
			Name:        "Activated Carbon Science",
			HubPage:     "/learn/activated-carbon-benefits",
			Description: "How activated carbon eliminates pet odors and why it works",
			Spokes: []string{
				"/blog/activated-carbon-litter-additive-benefits",
				"/blog/activated-carbon-vs-baking-soda-comparison",
				"/blog/most-powerful-odor-absorber",
				"/learn/activated-carbon-vs-baking-soda-deodorizers",
				"/learn/how-it-works",
				"/learn/science",
				"/learn/ammonia-science",
				"/learn/glossary",
				"/learn/solutions/natural-cat-litter-additive",
				"/products/trial-size",
				"/products/standard",
				"/products/family-pack",
			},
			Keywords: []string{"activated carbon", "charcoal", "natural deodorizer", "carbon benefits"},
		},
		{
			ID:          "small-apartments",
			Name:        "Small Apartment Cat Care",
			HubPage:     "/learn/solutions/apartment-cat-smell-solution",
			Description: "Cat litter solutions for apartments and small spaces",
			Spokes: []string{
				"/blog/best-litter-odor-remover-small-apartments",
				"/blog/house-smells-like-cat-litter-solutions",
				"/blog/embarrassed-guests-visit-cat-litter-smell",
				"/learn/solutions/litter-box-smell-elimination",
				"/products/trial-size",
				"/products/standard",
			},
			Keywords: []string{"apartment", "small space", "condo", "studio", "compact"},
		},
		{
			ID:          "multi-cat",
			Name:        "Multi-Cat Household Solutions",
			HubPage:     "/learn/solutions/multiple-cats-odor-control",
			Description: "Odor control for homes with multiple cats",
			Spokes: []string{
				"/blog/multi-cat-litter-deodorizer-guide",
				"/blog/strong-cat-urine-smell-litter-box",
				"/blog/tried-everything-cat-litter-smell-solutions",
				"/products/family-pack",
				"/products/standard",
			},
			Keywords: []string{"multiple cats", "multi-cat", "several cats", "many cats"},
		},
		{
			ID:          "product-comparison",
			Name:        "Deodorizer Types & Comparisons",
			HubPage:     "/learn/how-to-use-deodorizer",
			Description: "Understanding different cat litter deodorizer types",
			Spokes: []string{
				"/blog/powder-vs-spray-litter-deodorizer",
				"/blog/activated-carbon-vs-baking-soda-comparison",
				"/blog/tried-every-litter-deodorizer-90-days-results",
				"/blog/how-to-use-cat-litter-deodorizer",
				"/learn/activated-carbon-vs-baking-soda-deodorizers",
				"/products",
			},
			Keywords: []string{"granules", "spray", "comparison", "best deodorizer", "deodorizer types"},
		},
		{
			ID:          "kittens-seniors",
			Name:        "Special Needs Cats",
			HubPage:     "/learn/using-deodorizers-with-kittens",
			Description: "Safe deodorizer use for kittens and senior cats",
			Spokes: []string{
				"/blog/using-deodorizers-with-kittens",
				"/learn/solutions/senior-cat-litter-solutions",
				"/learn/safety",
				"/products/trial-size",
			},
			Keywords: []string{"kittens", "senior cats", "elderly cats", "young cats", "safety"},
		},
	}
}
