package marketdata

import (
	"math"
	"strings"
	"time"

	"cratepricer/internal/model"
)

// genreBase holds the low/mid/high asking-price triple for a genre, in
// whole currency units.
type genreBase struct {
	low, mid, high float64
}

var genreBases = map[string]genreBase{
	"rock":       {10, 20, 40},
	"jazz":       {15, 30, 60},
	"electronic": {12, 25, 50},
	"hip hop":    {15, 30, 55},
	"classical":  {5, 10, 20},
}

var defaultBase = genreBase{8, 15, 30}

// HeuristicEstimate synthesizes a market record from static genre, year and
// format rules. It is the fallback of last resort and always succeeds.
func HeuristicEstimate(genre string, year int, format string, now time.Time) *model.MarketData {
	base, ok := genreBases[normalizeGenre(genre)]
	if !ok {
		base = defaultBase
	}

	mult := eraMultiplier(year) * formatMultiplier(format)

	low := scale(base.low, mult)
	mid := scale(base.mid, mult)
	high := scale(base.high, mult)

	return &model.MarketData{
		Source:      model.SourceEstimated,
		FetchedAt:   now,
		LowPrice:    &low,
		MedianPrice: &mid,
		HighPrice:   &high,
		Confidence:  model.ConfidenceLow,
	}
}

// scale applies a multiplier and rounds to whole units. Rounding to cents
// first keeps exact halves like 15 × 0.9 = 13.5 from drifting below the
// half on the composed float multiplier.
func scale(v, mult float64) float64 {
	cents := math.Round(v * mult * 100)
	return math.Round(cents / 100)
}

func normalizeGenre(genre string) string {
	g := strings.ToLower(strings.TrimSpace(genre))
	g = strings.ReplaceAll(g, "-", " ")
	return g
}

// eraMultiplier rewards older pressings.
func eraMultiplier(year int) float64 {
	switch {
	case year <= 0:
		return 1.0
	case year < 1980:
		return 1.5
	case year < 1990:
		return 1.2
	default:
		return 1.0
	}
}

// formatMultiplier discounts smaller formats: singles sell for less than LPs.
func formatMultiplier(format string) float64 {
	f := strings.ToLower(format)
	switch {
	case strings.Contains(f, `7"`), strings.Contains(f, "7-inch"), strings.Contains(f, "7 inch"):
		return 0.6
	case strings.Contains(f, `12"`), strings.Contains(f, "12-inch"), strings.Contains(f, "12 inch"), strings.Contains(f, "single"):
		return 0.8
	default:
		return 1.0
	}
}
