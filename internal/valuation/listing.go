package valuation

import (
	"math"
	"strings"

	"cratepricer/internal/model"
)

// Signals are the optional AI-derived demand inputs to the listing price.
type Signals struct {
	RecommendedAction model.Action
	DemandScore       *float64
	RarityScore       string
	DemandTrend       model.Trend
}

// SignalsFrom pulls the pricing signals out of a market record.
func SignalsFrom(md *model.MarketData) Signals {
	if md == nil {
		return Signals{}
	}
	return Signals{
		RecommendedAction: md.RecommendedAction,
		DemandScore:       md.DemandScore,
		RarityScore:       md.RarityScore,
		DemandTrend:       md.DemandTrend,
	}
}

// SuggestListingPrice converts estimated value, purchase cost and holding
// duration into a recommended ask. The result is capped at 125% of the
// estimated value so stacked multipliers cannot produce an unrealistic
// price.
func SuggestListingPrice(estimatedValue int, purchasePrice float64, daysOwned int, sig Signals) int {
	est := float64(estimatedValue)

	minProfit := math.Max(purchasePrice*0.3, 3)
	breakEven := purchasePrice * 1.16
	floor := math.Max(breakEven+minProfit, est*0.85)

	switch sig.RecommendedAction {
	case model.ActionAggressive:
		floor *= 0.92
	case model.ActionHold:
		floor = math.Max(floor, est*1.15)
	}

	// Long-held stock is discounted to encourage turnover.
	urgency := 1.0
	switch {
	case daysOwned > 365:
		urgency = 0.9
	case daysOwned > 180:
		urgency = 0.95
	}

	boost := 1.0
	if (sig.DemandScore != nil && *sig.DemandScore > 2) ||
		strings.Contains(strings.ToLower(sig.RarityScore), "rare") {
		boost = 1.2
	}

	trend := 1.0
	switch sig.DemandTrend {
	case model.TrendRising:
		trend = 1.1
	case model.TrendFalling:
		trend = 0.9
	}

	return int(math.Round(math.Min(floor*urgency*boost*trend, est*1.25)))
}
