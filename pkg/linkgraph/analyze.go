package linkgraph

import (
	"sort"
	"strings"

	"github.com/purrify/siteaudit/models"
)

// Incoming-link cutoffs for node classification. Nodes with 3 or 4
// incoming links are adequate and not reported.
const (
	weakMaxIncoming   = 2
	strongMinIncoming = 5
)

// Analysis is the graph-wide health report.
type Analysis struct {
	Orphans         []*models.LinkNode `json:"orphans"`
	Weak            []*models.LinkNode `json:"weak"`
	Strong          []*models.LinkNode `json:"strong"`
	AverageIncoming float64            `json:"averageIncoming"`
	AverageOutgoing float64            `json:"averageOutgoing"`
	TotalPages      int                `json:"totalPages"`
}

// Analyze classifies every node into orphan, weak, or strong tiers.
// The homepage receives links from outside the page inventory and is
// never reported as an orphan. Orphans and weak nodes sort worst
// first, strong nodes best first.
func (g *Graph) Analyze() *Analysis {
	a := &Analysis{TotalPages: len(g.Nodes)}

	var totalIn, totalOut int
	for _, url := range g.Order {
		node := g.Nodes[url]
		totalIn += len(node.IncomingLinks)
		totalOut += len(node.OutgoingLinks)

		incoming := len(node.IncomingLinks)
		switch {
		case incoming == 0 && node.PageType != models.PageHomepage:
			a.Orphans = append(a.Orphans, node)
		case incoming >= 1 && incoming <= weakMaxIncoming:
			a.Weak = append(a.Weak, node)
		case incoming >= strongMinIncoming:
			a.Strong = append(a.Strong, node)
		}
	}

	if len(g.Nodes) > 0 {
		a.AverageIncoming = float64(totalIn) / float64(len(g.Nodes))
		a.AverageOutgoing = float64(totalOut) / float64(len(g.Nodes))
	}

	sort.SliceStable(a.Orphans, func(i, j int) bool {
		return a.Orphans[i].LinkScore < a.Orphans[j].LinkScore
	})
	sort.SliceStable(a.Weak, func(i, j int) bool {
		return a.Weak[i].LinkScore < a.Weak[j].LinkScore
	})
	sort.SliceStable(a.Strong, func(i, j int) bool {
		return a.Strong[i].LinkScore > a.Strong[j].LinkScore
	})
	return a
}

// GetLinkSuggestions returns up to maxSuggestions candidate source
// pages that could link to targetURL, most relevant first. Relevance
// rewards same-section pages, pages that already link out actively,
// and shared URL path segments.
func (g *Graph) GetLinkSuggestions(targetURL string, maxSuggestions int) []*models.LinkNode {
	target, ok := g.Nodes[targetURL]
	if !ok {
		return nil
	}

	alreadyLinking := map[string]bool{}
	for _, from := range target.IncomingLinks {
		alreadyLinking[from] = true
	}

	type candidate struct {
		node      *models.LinkNode
		relevance int
	}
	var candidates []candidate
	for _, url := range g.Order {
		node := g.Nodes[url]
		if url == targetURL || alreadyLinking[url] {
			continue
		}
		relevance := 0
		if node.PageType == target.PageType {
			relevance += 3
		}
		if len(node.OutgoingLinks) >= 3 {
			relevance += 2
		}
		relevance += sharedPathSegments(url, targetURL)
		candidates = append(candidates, candidate{node: node, relevance: relevance})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].relevance > candidates[j].relevance
	})
	if maxSuggestions > 0 && len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}
	out := make([]*models.LinkNode, len(candidates))
	for i, c := range candidates {
		out[i] = c.node
	}
	return out
}

// pageTypeImportance orders page types by remediation value.
var pageTypeImportance = map[models.PageType]int{
	models.PageProduct:  0,
	models.PageBlog:     1,
	models.PageLearn:    2,
	models.PageLocation: 3,
	models.PageOther:    4,
	models.PageHomepage: 5,
}

// FindPagesNeedingLinks returns all non-homepage nodes below the
// incoming-link floor: orphans first, then by page-type importance,
// then fewest incoming links first.
func (g *Graph) FindPagesNeedingLinks(minIncomingLinks int) []*models.LinkNode {
	var needy []*models.LinkNode
	for _, url := range g.Order {
		node := g.Nodes[url]
		if node.PageType == models.PageHomepage {
			continue
		}
		if len(node.IncomingLinks) < minIncomingLinks {
			needy = append(needy, node)
		}
	}

	sort.SliceStable(needy, func(i, j int) bool {
		iOrphan := len(needy[i].IncomingLinks) == 0
		jOrphan := len(needy[j].IncomingLinks) == 0
		if iOrphan != jOrphan {
			return iOrphan
		}
		if pageTypeImportance[needy[i].PageType] != pageTypeImportance[needy[j].PageType] {
			return pageTypeImportance[needy[i].PageType] < pageTypeImportance[needy[j].PageType]
		}
		return len(needy[i].IncomingLinks) < len(needy[j].IncomingLinks)
	})
	return needy
}

func sharedPathSegments(a, b string) int {
	segA := strings.Split(strings.Trim(a, "/"), "/")
	segB := map[string]bool{}
	for _, s := range strings.Split(strings.Trim(b, "/"), "/") {
		if s != "" {
			segB[s] = true
		}
	}
	shared := 0
	for _, s := range segA {
		if s != "" && segB[s] {
			shared++
		}
	}
	return shared
}
