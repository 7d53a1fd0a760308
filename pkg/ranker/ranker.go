// Package ranker blends a page's quality deficit with its search
// opportunity into a single priority score and tier.
package ranker

import (
	"math"

	"github.com/purrify/siteaudit/models"
)

// Blend weights between on-page quality deficit and external search
// opportunity. Asserted policy constants.
const (
	weightDeficit     = 0.60
	weightOpportunity = 0.40
)

// Tier cutoffs on the blended score.
const (
	tierP0Cutoff = 45
	tierP1Cutoff = 30
)

const ctrBaseline = 0.05

// Rank computes the priority score and tier for one page. Without
// search data the score is the bare quality deficit. With search data
// the opportunity side rewards high impressions, CTR well below the
// baseline, and positions just outside the top 5.
func Rank(score models.ScoreBreakdown, gsc *models.GscMetrics) (int, string) {
	deficit := 100 - score.Overall
	priorityScore := deficit

	if gsc != nil {
		impressionsScore := math.Min(100, math.Log10(gsc.Impressions+1)*25)
		ctrGap := (ctrBaseline - gsc.CTR) / ctrBaseline * 100
		ctrGap = math.Max(0, math.Min(100, ctrGap))
		positionOpportunity := 0.0
		if gsc.Position > 5 {
			positionOpportunity = math.Min(100, (gsc.Position-5)*8)
		}
		opportunity := impressionsScore*0.45 + ctrGap*0.35 + positionOpportunity*0.20
		priorityScore = int(math.Round(float64(deficit)*weightDeficit + opportunity*weightOpportunity))
	}

	switch {
	case priorityScore >= tierP0Cutoff:
		return priorityScore, models.TierP0
	case priorityScore >= tierP1Cutoff:
		return priorityScore, models.TierP1
	default:
		return priorityScore, models.TierP2
	}
}
