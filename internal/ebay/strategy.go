package ebay

import (
	"math"

	"cratepricer/internal/model"
)

// Listing defaults.
const (
	FormatFixedPrice = "fixed price"
	FormatAuction    = "auction"

	DurationGTC       = "good-till-cancelled"
	DurationWeek      = "7 days"
	ListingStandard   = "standard"
	ListingPremium    = "premium"
)

// BuildStrategy converts a suggested listing price, cost basis and holding
// duration into concrete marketplace settings. Overrides apply in order and
// later overrides may adjust fields an earlier one set.
func BuildStrategy(price int, purchasePrice float64, roi float64, daysOwned int) model.Strategy {
	p := float64(price)

	s := model.Strategy{
		Format:      FormatFixedPrice,
		BestOffer:   true,
		AutoAccept:  round(p * 0.88),
		AutoDecline: round(purchasePrice * 1.05),
		Duration:    DurationGTC,
		Promoted:    false,
		ListingType: ListingStandard,
	}

	// High-margin items are not discounted.
	if roi > 100 {
		s.BestOffer = false
		s.ListingType = ListingPremium
	}

	// Stale inventory is pushed harder, even when margin is high.
	if daysOwned > 365 {
		s.BestOffer = true
		s.AutoAccept = round(p * 0.82)
		s.Promoted = true
	}

	// Low-margin items are flipped via auction rather than held at a fixed
	// low price.
	if p-purchasePrice < 5 {
		s.Format = FormatAuction
		s.StartPrice = round(purchasePrice * 1.2)
		s.Duration = DurationWeek
	}

	return s
}

func round(v float64) int {
	return int(math.Round(v))
}
