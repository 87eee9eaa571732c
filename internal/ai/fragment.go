package ai

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"cratepricer/internal/model"
)

// fragment is the JSON shape the model is asked to produce. Every field is
// optional; nothing here is trusted until validated.
type fragment struct {
	LastSold []struct {
		Condition string   `json:"condition"`
		Price     *float64 `json:"price"`
		Date      string   `json:"date"`
		Notes     string   `json:"notes"`
	} `json:"lastSold"`
	MedianSold      *float64 `json:"medianSold"`
	CurrentListings *struct {
		Lowest  *float64 `json:"lowest"`
		Median  *float64 `json:"median"`
		Highest *float64 `json:"highest"`
	} `json:"currentListings"`
	GradeAdjustment   map[string]float64 `json:"gradeAdjustment"`
	DemandScore       *float64           `json:"demandScore"`
	DemandTrend       string             `json:"demandTrend"`
	RarityScore       string             `json:"rarityScore"`
	RecommendedAction string             `json:"recommendedAction"`
	Confidence        string             `json:"confidence"`
}

// parseFragment extracts and validates the sold-comp JSON from the model's
// text output. Returns nil for anything unusable: no JSON, bad JSON, or a
// record with no validated field at all.
func parseFragment(text string) *model.MarketData {
	text = stripFences(strings.TrimSpace(text))

	var frag fragment
	if err := json.Unmarshal([]byte(text), &frag); err != nil {
		return nil
	}
	return frag.toMarketData()
}

func stripFences(text string) string {
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
	}
	return text
}

func (f *fragment) toMarketData() *model.MarketData {
	md := &model.MarketData{
		Source:    model.SourceAIAnalysis,
		FetchedAt: time.Now(),
	}
	populated := false

	for _, s := range f.LastSold {
		if len(md.LastSold) == 5 {
			break
		}
		if s.Price == nil || !validPrice(*s.Price) || *s.Price <= 0 {
			continue
		}
		md.LastSold = append(md.LastSold, model.Sale{
			Condition: model.ParseGrade(s.Condition),
			Price:     *s.Price,
			Date:      s.Date,
			Notes:     s.Notes,
		})
		populated = true
	}

	if f.MedianSold != nil && validPrice(*f.MedianSold) && *f.MedianSold > 0 {
		v := *f.MedianSold
		md.MedianSold = &v
		populated = true
	}

	if f.CurrentListings != nil {
		stats := &model.ListingStats{}
		if copyPrice(&stats.Lowest, f.CurrentListings.Lowest) {
			populated = true
		}
		if copyPrice(&stats.Median, f.CurrentListings.Median) {
			populated = true
		}
		if copyPrice(&stats.Highest, f.CurrentListings.Highest) {
			populated = true
		}
		if stats.Lowest != nil || stats.Median != nil || stats.Highest != nil {
			md.CurrentListings = stats
		}
	}

	if len(f.GradeAdjustment) > 0 {
		adj := make(map[model.Grade]float64)
		for k, v := range f.GradeAdjustment {
			g := model.ParseGrade(k)
			if g == "" || !validPrice(v) || v <= 0 {
				continue
			}
			adj[g] = v
		}
		if len(adj) > 0 {
			md.GradeAdjustment = adj
			populated = true
		}
	}

	if f.DemandScore != nil && validPrice(*f.DemandScore) && *f.DemandScore >= 0 {
		v := *f.DemandScore
		md.DemandScore = &v
		populated = true
	}

	switch model.Trend(f.DemandTrend) {
	case model.TrendRising, model.TrendStable, model.TrendFalling:
		md.DemandTrend = model.Trend(f.DemandTrend)
		populated = true
	}

	switch model.Action(f.RecommendedAction) {
	case model.ActionHold, model.ActionListQuick, model.ActionAggressive:
		md.RecommendedAction = model.Action(f.RecommendedAction)
		populated = true
	}

	switch model.Confidence(f.Confidence) {
	case model.ConfidenceHigh, model.ConfidenceMedium, model.ConfidenceLow:
		md.Confidence = model.Confidence(f.Confidence)
	}

	if f.RarityScore != "" {
		md.RarityScore = f.RarityScore
	}

	if !populated {
		return nil
	}
	return md
}

func copyPrice(dst **float64, src *float64) bool {
	if src == nil || !validPrice(*src) || *src <= 0 {
		return false
	}
	v := *src
	*dst = &v
	return true
}

func validPrice(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
