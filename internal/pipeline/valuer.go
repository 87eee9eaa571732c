// Package pipeline runs the valuation pass: for each item it synthesizes
// market data, estimates value, prices a listing, and derives a selling
// strategy, writing all derived fields in one go.
package pipeline

import (
	"context"
	"time"

	"cratepricer/internal/ebay"
	"cratepricer/internal/marketdata"
	"cratepricer/internal/model"
	"cratepricer/internal/progress"
	"cratepricer/internal/valuation"
)

// Valuer recomputes the derived fields of items. Derived fields are only
// ever written as a set, so a half-finished pass never leaves an item with
// a fresh estimate against a stale strategy.
type Valuer struct {
	Synth *marketdata.Synthesizer
	Now   func() time.Time
}

func NewValuer(synth *marketdata.Synthesizer) *Valuer {
	return &Valuer{Synth: synth, Now: time.Now}
}

// Revalue runs the full chain for one item and replaces every derived field.
func (v *Valuer) Revalue(ctx context.Context, item *model.Item) {
	now := v.Now()
	md := v.Synth.Synthesize(ctx, item)

	est := valuation.EstimateValue(md, item.ConditionVinyl, item.ConditionSleeve)
	daysOwned := item.DaysOwnedAt(now)
	price := valuation.SuggestListingPrice(est, item.PurchasePrice, daysOwned, valuation.SignalsFrom(md))

	profit := float64(price) - item.PurchasePrice
	roi := returnOnInvestment(profit, item.PurchasePrice)
	strategy := ebay.BuildStrategy(price, item.PurchasePrice, roi, daysOwned)

	item.MarketData = md
	item.EstimatedValue = &est
	item.SuggestedListingPrice = &price
	item.ProfitPotential = &profit
	item.ROI = &roi
	item.EbayStrategy = &strategy
	item.DaysOwned = daysOwned
	if md.HasLiveSource() {
		item.EnrichmentStatus = model.EnrichmentComplete
		item.NeedsEnrichment = false
	} else {
		item.EnrichmentStatus = model.EnrichmentPartial
		item.NeedsEnrichment = true
	}
}

// RevalueAll processes items one at a time. The external sources behind the
// synthesizer are rate limited, so there is nothing to gain from fan-out.
func (v *Valuer) RevalueAll(ctx context.Context, items []model.Item) {
	ind := progress.New("valuing collection", len(items))
	ind.Start()
	for i := range items {
		v.Revalue(ctx, &items[i])
		ind.Step(items[i].DisplayTitle())
	}
	ind.Finish()
}

// returnOnInvestment reports profit as a percentage of the purchase price.
// Items acquired for nothing are measured against a nominal 1.00 basis so a
// freebie with upside still registers as a high-return hold.
func returnOnInvestment(profit, purchase float64) float64 {
	if purchase <= 0 {
		purchase = 1
	}
	return profit / purchase * 100
}
