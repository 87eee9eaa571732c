package ai

import (
	"testing"

	"cratepricer/internal/model"
)

func TestParseFragmentFullResponse(t *testing.T) {
	text := "```json\n" + `{
		"lastSold": [
			{"condition": "VG+", "price": 40.0, "date": "2026-08"},
			{"condition": "VG+", "price": 44.0, "date": "2026-07"}
		],
		"medianSold": 42.0,
		"currentListings": {"lowest": 35.0, "median": 45.0, "highest": 60.0},
		"gradeAdjustment": {"VG+": 1.0, "NM": 1.3},
		"demandScore": 2.4,
		"demandTrend": "rising",
		"rarityScore": "moderately rare",
		"recommendedAction": "hold",
		"confidence": "medium"
	}` + "\n```"

	md := parseFragment(text)
	if md == nil {
		t.Fatal("expected a fragment")
	}
	if md.Source != model.SourceAIAnalysis {
		t.Errorf("source = %q", md.Source)
	}
	if len(md.LastSold) != 2 || md.LastSold[0].Price != 40 {
		t.Errorf("lastSold = %+v", md.LastSold)
	}
	if md.LastSold[0].Condition != model.GradeVGPlus {
		t.Errorf("condition = %q", md.LastSold[0].Condition)
	}
	if md.MedianSold == nil || *md.MedianSold != 42 {
		t.Errorf("medianSold = %v", md.MedianSold)
	}
	if md.CurrentListings == nil || md.CurrentListings.Median == nil || *md.CurrentListings.Median != 45 {
		t.Errorf("currentListings = %+v", md.CurrentListings)
	}
	if md.GradeAdjustment[model.GradeNearMint] != 1.3 {
		t.Errorf("gradeAdjustment = %+v", md.GradeAdjustment)
	}
	if md.DemandTrend != model.TrendRising {
		t.Errorf("trend = %q", md.DemandTrend)
	}
	if md.RecommendedAction != model.ActionHold {
		t.Errorf("action = %q", md.RecommendedAction)
	}
	if md.Confidence != model.ConfidenceMedium {
		t.Errorf("confidence = %q", md.Confidence)
	}
}

func TestParseFragmentMalformed(t *testing.T) {
	cases := []string{
		"",
		"no json here",
		"```json\nnot valid\n```",
		`{"lastSold": "wrong type"}`,
	}
	for _, c := range cases {
		if md := parseFragment(c); md != nil {
			t.Errorf("parseFragment(%q) = %+v, want nil", c, md)
		}
	}
}

func TestParseFragmentRejectsInvalidFields(t *testing.T) {
	// Negative prices, unknown trend values and bogus grade keys must not
	// survive validation.
	text := `{
		"lastSold": [{"condition": "VG+", "price": -5.0}],
		"medianSold": -1.0,
		"demandTrend": "mooning",
		"recommendedAction": "yolo",
		"gradeAdjustment": {"ZZ": 1.1, "NM": -2.0}
	}`
	if md := parseFragment(text); md != nil {
		t.Errorf("nothing validated, want nil fragment; got %+v", md)
	}
}

func TestParseFragmentTrimsSoldHistory(t *testing.T) {
	text := `{"lastSold": [
		{"condition":"NM","price":10},{"condition":"NM","price":11},
		{"condition":"NM","price":12},{"condition":"NM","price":13},
		{"condition":"NM","price":14},{"condition":"NM","price":15},
		{"condition":"NM","price":16}
	]}`
	md := parseFragment(text)
	if md == nil {
		t.Fatal("expected a fragment")
	}
	if len(md.LastSold) != 5 {
		t.Errorf("lastSold length = %d, want 5", len(md.LastSold))
	}
}

func TestParseFragmentPartial(t *testing.T) {
	// A fragment with only a median is still usable.
	md := parseFragment(`{"medianSold": 18.5}`)
	if md == nil {
		t.Fatal("expected a fragment")
	}
	if md.MedianSold == nil || *md.MedianSold != 18.5 {
		t.Errorf("medianSold = %v", md.MedianSold)
	}
	if len(md.LastSold) != 0 {
		t.Errorf("lastSold should be empty, got %+v", md.LastSold)
	}
}

func TestAnalyzerUnavailableWithoutKey(t *testing.T) {
	a := NewGeminiAnalyzer("")
	if a.Available() {
		t.Error("analyzer without key should be unavailable")
	}
}
