package valuation

import (
	"math"
	"sort"

	"cratepricer/internal/model"
)

// Flat condition multipliers, used when the market source supplied no
// per-grade adjustment table. Vinyl playability dominates the blend; sleeve
// is cosmetic.
var conditionMultipliers = map[model.Grade]float64{
	model.GradeMint:     1.5,
	model.GradeNearMint: 1.3,
	model.GradeVGPlus:   1.0,
	model.GradeVG:       0.7,
	model.GradeGPlus:    0.5,
	model.GradeGood:     0.35,
	model.GradeFair:     0.2,
	model.GradePoor:     0.1,
}

const unknownConditionMultiplier = 0.7

// fallbackValue is the hardcoded base when a record has no price signal at
// all.
const fallbackValue = 15.0

func conditionMultiplier(g model.Grade) float64 {
	if m, ok := conditionMultipliers[g]; ok {
		return m
	}
	return unknownConditionMultiplier
}

// EstimateValue converts a unified market record plus condition grades into
// a single estimated resale value in whole currency units.
//
// The base figure comes from the first applicable source: sold comps, then
// medianSold, then asking prices, then the hardcoded fallback. When the
// source supplied its own gradeAdjustment table the flat vinyl/sleeve blend
// is skipped, but sleeve condition always contributes an independent ±20%
// swing: playability and sleeve cosmetics are priced somewhat independently.
func EstimateValue(md *model.MarketData, vinyl, sleeve model.Grade) int {
	if md == nil {
		md = &model.MarketData{}
	}

	adjust := func(g model.Grade) float64 {
		if v, ok := md.GradeAdjustment[g]; ok {
			return v
		}
		return 1.0
	}

	var base float64
	switch {
	case len(md.LastSold) > 0:
		adjusted := make([]float64, 0, len(md.LastSold))
		for _, sale := range md.LastSold {
			adjusted = append(adjusted, sale.Price*adjust(vinyl))
		}
		sort.Float64s(adjusted)
		base = adjusted[len(adjusted)/2]
	case md.MedianSold != nil:
		base = *md.MedianSold * adjust(vinyl)
	case md.MedianPrice != nil:
		base = *md.MedianPrice
	case md.LowPrice != nil:
		base = *md.LowPrice
	default:
		base = fallbackValue
	}

	if md.GradeAdjustment == nil {
		base *= conditionMultiplier(vinyl)*0.7 + conditionMultiplier(sleeve)*0.3
	}

	base *= 0.8 + conditionMultiplier(sleeve)*0.2

	v := int(math.Round(base))
	if v < 0 {
		v = 0
	}
	return v
}
