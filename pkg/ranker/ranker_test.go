package ranker

import (
	"testing"

	"github.com/purrify/siteaudit/models"
)

func TestRankWithoutSearchData(t *testing.T) {
	cases := []struct {
		overall  int
		want     int
		wantTier string
	}{
		{40, 60, models.TierP0},
		{55, 45, models.TierP0},
		{60, 40, models.TierP1},
		{70, 30, models.TierP1},
		{85, 15, models.TierP2},
		{100, 0, models.TierP2},
	}
	for _, tc := range cases {
		score, tier := Rank(models.ScoreBreakdown{Overall: tc.overall}, nil)
		if score != tc.want || tier != tc.wantTier {
			t.Errorf("Rank(overall=%d) = (%d, %s), want (%d, %s)",
				tc.overall, score, tier, tc.want, tc.wantTier)
		}
	}
}

func TestRankBlendsOpportunity(t *testing.T) {
	// impressions 999 -> log10(1000)*25 = 75; ctr 0 -> gap 100;
	// position 10 -> (10-5)*8 = 40.
	// opportunity = 75*0.45 + 100*0.35 + 40*0.20 = 76.75
	// score = round(50*0.60 + 76.75*0.40) = round(60.7) = 61
	gsc := &models.GscMetrics{Impressions: 999, CTR: 0, Position: 10}
	score, tier := Rank(models.ScoreBreakdown{Overall: 50}, gsc)
	if score != 61 {
		t.Errorf("got %d, want 61", score)
	}
	if tier != models.TierP0 {
		t.Errorf("got tier %s, want P0", tier)
	}
}

func TestRankOpportunityClamps(t *testing.T) {
	// Healthy CTR above baseline and a top-5 position contribute no
	// opportunity; huge impressions cap at 100.
	gsc := &models.GscMetrics{Impressions: 1e9, CTR: 0.2, Position: 2}
	// opportunity = 100*0.45 = 45; score = round(10*0.6 + 45*0.4) = 24
	score, tier := Rank(models.ScoreBreakdown{Overall: 90}, gsc)
	if score != 24 {
		t.Errorf("got %d, want 24", score)
	}
	if tier != models.TierP2 {
		t.Errorf("got tier %s, want P2", tier)
	}
}
