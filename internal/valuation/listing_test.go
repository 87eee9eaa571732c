package valuation

import (
	"math"
	"testing"

	"cratepricer/internal/model"
)

func TestSuggestListingPriceBaseline(t *testing.T) {
	// estimatedValue 44, purchase 20, recent acquisition, no signals:
	// breakEven 23.2, minProfit 6, floor max(29.2, 37.4) = 37.4 → 37.
	got := SuggestListingPrice(44, 20, 30, Signals{})
	if got != 37 {
		t.Errorf("SuggestListingPrice = %d, want 37", got)
	}
}

func TestSuggestListingPriceMinimumProfitFloor(t *testing.T) {
	// Cheap purchase: the 3-unit minimum profit wins over the 30% margin.
	// purchase 2: breakEven 2.32, minProfit 3, floor max(5.32, est×0.85).
	got := SuggestListingPrice(6, 2, 0, Signals{})
	// floor = max(5.32, 5.1) = 5.32 → capped at 6×1.25 = 7.5 → 5.
	if got != 5 {
		t.Errorf("SuggestListingPrice = %d, want 5", got)
	}
}

func TestSuggestListingPriceAggressiveAction(t *testing.T) {
	base := SuggestListingPrice(100, 20, 0, Signals{})
	aggressive := SuggestListingPrice(100, 20, 0, Signals{RecommendedAction: model.ActionAggressive})
	if aggressive >= base {
		t.Errorf("aggressive pricing %d should undercut baseline %d", aggressive, base)
	}
}

func TestSuggestListingPriceHoldAction(t *testing.T) {
	got := SuggestListingPrice(100, 20, 0, Signals{RecommendedAction: model.ActionHold})
	// hold raises the floor to est×1.15 = 115, under the 125 cap.
	if got != 115 {
		t.Errorf("SuggestListingPrice = %d, want 115", got)
	}
}

func TestSuggestListingPriceUrgencyDiscount(t *testing.T) {
	fresh := SuggestListingPrice(100, 20, 100, Signals{})
	aging := SuggestListingPrice(100, 20, 200, Signals{})
	stale := SuggestListingPrice(100, 20, 400, Signals{})
	if !(stale < aging && aging < fresh) {
		t.Errorf("urgency discount not monotone: fresh=%d aging=%d stale=%d", fresh, aging, stale)
	}
}

func TestSuggestListingPriceDemandBoost(t *testing.T) {
	score := 3.0
	boosted := SuggestListingPrice(100, 20, 0, Signals{DemandScore: &score})
	rare := SuggestListingPrice(100, 20, 0, Signals{RarityScore: "very rare"})
	base := SuggestListingPrice(100, 20, 0, Signals{})
	if boosted <= base || rare <= base {
		t.Errorf("demand boost missing: base=%d score=%d rare=%d", base, boosted, rare)
	}
	if boosted != rare {
		t.Errorf("demand-score and rarity boosts should match: %d vs %d", boosted, rare)
	}
}

func TestSuggestListingPriceTrendMultiplier(t *testing.T) {
	rising := SuggestListingPrice(100, 20, 0, Signals{DemandTrend: model.TrendRising})
	falling := SuggestListingPrice(100, 20, 0, Signals{DemandTrend: model.TrendFalling})
	stable := SuggestListingPrice(100, 20, 0, Signals{DemandTrend: model.TrendStable})
	if !(falling < stable && stable < rising) {
		t.Errorf("trend multiplier not ordered: falling=%d stable=%d rising=%d", falling, stable, rising)
	}
}

func TestSuggestListingPriceCeiling(t *testing.T) {
	// The hard cap holds under every multiplier stacking.
	score := 10.0
	sigs := []Signals{
		{},
		{RecommendedAction: model.ActionHold, DemandScore: &score, RarityScore: "ultra rare", DemandTrend: model.TrendRising},
		{RecommendedAction: model.ActionAggressive, DemandTrend: model.TrendFalling},
	}

	for _, est := range []int{0, 5, 15, 44, 100, 5000} {
		for _, purchase := range []float64{0, 1, 20, 400} {
			for _, days := range []int{0, 181, 366} {
				for _, sig := range sigs {
					got := SuggestListingPrice(est, purchase, days, sig)
					cap := int(math.Round(float64(est) * 1.25))
					if got > cap {
						t.Fatalf("price %d exceeds cap %d (est=%d purchase=%v days=%d sig=%+v)",
							got, cap, est, purchase, days, sig)
					}
				}
			}
		}
	}
}
