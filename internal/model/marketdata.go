package model

import "time"

// Source tags for MarketData. Two merged sources produce a compound tag,
// e.g. "catalogue+ai_analysis" or "estimated+csv".
const (
	SourceCatalogue  = "catalogue"
	SourceAIAnalysis = "ai_analysis"
	SourceCSVImport  = "csv_import"
	SourceEstimated  = "estimated"
)

// Trend describes the short-term direction of demand for a release.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendStable  Trend = "stable"
	TrendFalling Trend = "falling"
)

// Action is the AI analyzer's selling recommendation.
type Action string

const (
	ActionHold       Action = "hold"
	ActionListQuick  Action = "list quickly"
	ActionAggressive Action = "price aggressively"
)

// Confidence grades how much the unified record can be trusted.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Sale is one sold comp: an actually-completed transaction for the same or
// a comparable pressing.
type Sale struct {
	Condition Grade   `json:"condition"`
	Price     float64 `json:"price"`
	Date      string  `json:"date,omitempty"`
	Notes     string  `json:"notes,omitempty"`
}

// ListingStats summarizes current asking prices, as opposed to sold history.
type ListingStats struct {
	Lowest  *float64 `json:"lowest,omitempty"`
	Median  *float64 `json:"median,omitempty"`
	Highest *float64 `json:"highest,omitempty"`
}

// MarketData is the unified market record for one item, merged from up to
// three sources by the synthesizer. Optional fields stay nil when a source
// didn't supply them.
type MarketData struct {
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetchedAt"`

	// Sold history, most-recent-first, at most five entries.
	LastSold   []Sale   `json:"lastSold,omitempty"`
	MedianSold *float64 `json:"medianSold,omitempty"`

	// Asking-price figures from the catalogue or heuristic fallback.
	LowPrice    *float64 `json:"lowPrice,omitempty"`
	MedianPrice *float64 `json:"medianPrice,omitempty"`
	HighPrice   *float64 `json:"highPrice,omitempty"`

	CurrentListings *ListingStats `json:"currentListings,omitempty"`

	// Per-grade price multipliers, supplied only by the AI source.
	GradeAdjustment map[Grade]float64 `json:"gradeAdjustment,omitempty"`

	DemandScore       *float64   `json:"demandScore,omitempty"`
	DemandTrend       Trend      `json:"demandTrend,omitempty"`
	RarityScore       string     `json:"rarityScore,omitempty"`
	RecommendedAction Action     `json:"recommendedAction,omitempty"`
	Confidence        Confidence `json:"confidence,omitempty"`

	HaveCount    int    `json:"haveCount,omitempty"`
	WantCount    int    `json:"wantCount,omitempty"`
	CatalogueURL string `json:"catalogueUrl,omitempty"`
}

// HasLiveSource reports whether a live lookup (catalogue or AI) contributed
// to this record, as opposed to an import snapshot or heuristic estimate.
func (m *MarketData) HasLiveSource() bool {
	if m == nil {
		return false
	}
	for _, part := range splitSource(m.Source) {
		if part == SourceCatalogue || part == SourceAIAnalysis {
			return true
		}
	}
	return false
}

func splitSource(tag string) []string {
	var parts []string
	start := 0
	for i := 0; i <= len(tag); i++ {
		if i == len(tag) || tag[i] == '+' {
			if i > start {
				parts = append(parts, tag[start:i])
			}
			start = i + 1
		}
	}
	return parts
}
