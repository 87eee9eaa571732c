package marketdata

import (
	"context"
	"testing"
	"time"

	"cratepricer/internal/ai"
	"cratepricer/internal/catalogue"
	"cratepricer/internal/listings"
	"cratepricer/internal/model"
)

func fixedNow() time.Time {
	return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
}

func fptr(v float64) *float64 { return &v }

func testItem() *model.Item {
	return &model.Item{
		Artist: "Nirvana",
		Title:  "Nevermind",
		CatNo:  "DGC-24425",
		Genre:  "Rock",
		Year:   1991,
		Format: "LP",
	}
}

func newSynth(cat catalogue.Provider, an ai.Analyzer, lst listings.Provider) *Synthesizer {
	s := NewSynthesizer(cat, an, lst)
	s.Now = fixedNow
	return s
}

func TestSynthesizeCatalogueOnly(t *testing.T) {
	cat := catalogue.NewMockProvider()
	cat.SearchID = "367084"
	cat.Releases["367084"] = &catalogue.Details{
		LowestPrice: fptr(12),
		MedianPrice: fptr(24),
		Have:        100,
		Want:        250,
		URI:         "/release/367084",
	}

	md := newSynth(cat, nil, nil).Synthesize(context.Background(), testItem())

	if md.Source != model.SourceCatalogue {
		t.Errorf("source = %q, want catalogue", md.Source)
	}
	if md.MedianPrice == nil || *md.MedianPrice != 24 {
		t.Errorf("median = %v", md.MedianPrice)
	}
	if md.DemandScore == nil || *md.DemandScore != 2.5 {
		t.Errorf("demandScore = %v, want 2.5", md.DemandScore)
	}
	if md.Confidence != model.ConfidenceMedium {
		t.Errorf("confidence = %q, want medium for live source without comps", md.Confidence)
	}
}

func TestDemandScoreGuardsZeroHave(t *testing.T) {
	cat := catalogue.NewMockProvider()
	cat.SearchID = "1"
	cat.Releases["1"] = &catalogue.Details{Have: 0, Want: 7}

	md := newSynth(cat, nil, nil).Synthesize(context.Background(), testItem())
	if md.DemandScore == nil || *md.DemandScore != 7 {
		t.Errorf("demandScore = %v, want 7 (want/max(have,1))", md.DemandScore)
	}
}

func TestDemandScoreZeroCommunityCounts(t *testing.T) {
	cat := catalogue.NewMockProvider()
	cat.SearchID = "1"
	cat.Releases["1"] = &catalogue.Details{Have: 0, Want: 0}

	// A catalogue hit always carries a score, even a zero one.
	md := newSynth(cat, nil, nil).Synthesize(context.Background(), testItem())
	if md.DemandScore == nil || *md.DemandScore != 0 {
		t.Errorf("demandScore = %v, want 0", md.DemandScore)
	}
}

func TestSynthesizeMergesAIOverCatalogue(t *testing.T) {
	cat := catalogue.NewMockProvider()
	cat.SearchID = "367084"
	cat.Releases["367084"] = &catalogue.Details{
		LowestPrice: fptr(12),
		MedianPrice: fptr(24),
		Have:        100,
		Want:        50,
	}

	aiScore := 3.1
	an := &ai.MockAnalyzer{
		Enabled: true,
		Fragment: &model.MarketData{
			Source: model.SourceAIAnalysis,
			LastSold: []model.Sale{
				{Condition: model.GradeVGPlus, Price: 40},
				{Condition: model.GradeVGPlus, Price: 44},
			},
			MedianSold:  fptr(42),
			DemandScore: &aiScore,
			DemandTrend: model.TrendRising,
		},
	}

	md := newSynth(cat, an, nil).Synthesize(context.Background(), testItem())

	if md.Source != "catalogue+ai_analysis" {
		t.Errorf("source = %q, want catalogue+ai_analysis", md.Source)
	}
	// AI fields win on conflict.
	if md.DemandScore == nil || *md.DemandScore != 3.1 {
		t.Errorf("demandScore = %v, want AI's 3.1", md.DemandScore)
	}
	// Catalogue-only fields survive the merge.
	if md.MedianPrice == nil || *md.MedianPrice != 24 {
		t.Errorf("catalogue median lost: %v", md.MedianPrice)
	}
	if len(md.LastSold) != 2 {
		t.Errorf("lastSold = %+v", md.LastSold)
	}
}

func TestSynthesizeConsultsAIWhenCompsMissing(t *testing.T) {
	cat := catalogue.NewMockProvider()
	cat.SearchID = "1"
	cat.Releases["1"] = &catalogue.Details{MedianPrice: fptr(20)}

	an := &ai.MockAnalyzer{Enabled: true, Fragment: &model.MarketData{MedianSold: fptr(99)}}

	// Catalogue data never carries sold comps, so the analyzer is always
	// consulted when configured.
	newSynth(cat, an, nil).Synthesize(context.Background(), testItem())
	if an.Calls != 1 {
		t.Errorf("analyzer calls = %d, want 1", an.Calls)
	}
}

func TestSynthesizeAIOnly(t *testing.T) {
	cat := catalogue.NewMockProvider()
	cat.NotFound = true

	an := &ai.MockAnalyzer{
		Enabled: true,
		Fragment: &model.MarketData{
			Source:     model.SourceAIAnalysis,
			MedianSold: fptr(30),
		},
	}

	md := newSynth(cat, an, nil).Synthesize(context.Background(), testItem())
	if md.Source != model.SourceAIAnalysis {
		t.Errorf("source = %q, want ai_analysis", md.Source)
	}
	if md.MedianSold == nil || *md.MedianSold != 30 {
		t.Errorf("medianSold = %v", md.MedianSold)
	}
}

func TestSynthesizeCSVFallback(t *testing.T) {
	cat := catalogue.NewMockProvider()
	cat.Fail = true

	item := testItem()
	item.CSVMarketData = &model.CSVMarketData{
		Median: fptr(22), Low: fptr(15), High: fptr(35), LastSold: fptr(21),
	}

	md := newSynth(cat, nil, nil).Synthesize(context.Background(), item)
	if md.Source != model.SourceCSVImport {
		t.Errorf("source = %q, want csv_import", md.Source)
	}
	if md.MedianPrice == nil || *md.MedianPrice != 22 {
		t.Errorf("median = %v", md.MedianPrice)
	}
	if md.MedianSold == nil || *md.MedianSold != 21 {
		t.Errorf("medianSold = %v", md.MedianSold)
	}
}

func TestSynthesizeHeuristicFallback(t *testing.T) {
	// Catalogue fails, no analyzer, no snapshot: the heuristic table must
	// still produce a valid record.
	cat := catalogue.NewMockProvider()
	cat.Fail = true

	item := &model.Item{Artist: "Somebody", Title: "Something", Genre: "Polka", Format: "LP"}

	md := newSynth(cat, nil, nil).Synthesize(context.Background(), item)
	if md.Source != model.SourceEstimated {
		t.Errorf("source = %q, want estimated", md.Source)
	}
	if *md.LowPrice != 8 || *md.MedianPrice != 15 || *md.HighPrice != 30 {
		t.Errorf("unknown genre/year/LP should hit the default base: %v/%v/%v",
			*md.LowPrice, *md.MedianPrice, *md.HighPrice)
	}
	if md.Confidence != model.ConfidenceLow {
		t.Errorf("confidence = %q, want low", md.Confidence)
	}
}

func TestReconcileCSVBackfillsLiveSource(t *testing.T) {
	// Catalogue succeeded but produced no median; the import snapshot fills
	// the gaps without overwriting live fields.
	cat := catalogue.NewMockProvider()
	cat.SearchID = "1"
	cat.Releases["1"] = &catalogue.Details{LowestPrice: fptr(9)}

	item := testItem()
	item.CSVMarketData = &model.CSVMarketData{Median: fptr(22), Low: fptr(5), High: fptr(40)}

	md := newSynth(cat, nil, nil).Synthesize(context.Background(), item)
	if md.Source != "catalogue+csv" {
		t.Errorf("source = %q, want catalogue+csv", md.Source)
	}
	if *md.MedianPrice != 22 || *md.HighPrice != 40 {
		t.Errorf("backfill missing: median=%v high=%v", md.MedianPrice, md.HighPrice)
	}
	if *md.LowPrice != 9 {
		t.Errorf("live lowest price overwritten: %v", *md.LowPrice)
	}
}

func TestReconcileCSVLeavesCompleteLiveSourceAlone(t *testing.T) {
	cat := catalogue.NewMockProvider()
	cat.SearchID = "1"
	cat.Releases["1"] = &catalogue.Details{LowestPrice: fptr(9), MedianPrice: fptr(20), HighestPrice: fptr(50)}

	item := testItem()
	item.CSVMarketData = &model.CSVMarketData{Median: fptr(99)}

	md := newSynth(cat, nil, nil).Synthesize(context.Background(), item)
	if md.Source != model.SourceCatalogue {
		t.Errorf("source = %q, want plain catalogue", md.Source)
	}
	if *md.MedianPrice != 20 {
		t.Errorf("csv overwrote a live median: %v", *md.MedianPrice)
	}
}

func TestSynthesizeIdempotent(t *testing.T) {
	cat := catalogue.NewMockProvider()
	cat.SearchID = "1"
	cat.Releases["1"] = &catalogue.Details{MedianPrice: fptr(24), Have: 10, Want: 30}

	an := &ai.MockAnalyzer{Enabled: true, Fragment: &model.MarketData{MedianSold: fptr(25)}}

	s := newSynth(cat, an, nil)
	item := testItem()

	a := s.Synthesize(context.Background(), item)
	b := s.Synthesize(context.Background(), item)

	if a.Source != b.Source || *a.MedianPrice != *b.MedianPrice || *a.MedianSold != *b.MedianSold ||
		*a.DemandScore != *b.DemandScore || a.Confidence != b.Confidence {
		t.Errorf("same inputs produced different records:\n%+v\n%+v", a, b)
	}
}

func TestEnrichCurrentListings(t *testing.T) {
	cat := catalogue.NewMockProvider()
	cat.SearchID = "1"
	cat.Releases["1"] = &catalogue.Details{MedianPrice: fptr(24)}

	lst := &listings.MockProvider{
		Enabled: true,
		Stats:   &model.ListingStats{Lowest: fptr(18), Median: fptr(26), Highest: fptr(44)},
	}

	md := newSynth(cat, nil, lst).Synthesize(context.Background(), testItem())
	if md.CurrentListings == nil || *md.CurrentListings.Median != 26 {
		t.Errorf("currentListings = %+v", md.CurrentListings)
	}
}

func TestListingsFailureIsTolerated(t *testing.T) {
	cat := catalogue.NewMockProvider()
	cat.SearchID = "1"
	cat.Releases["1"] = &catalogue.Details{MedianPrice: fptr(24)}

	lst := &listings.MockProvider{Enabled: true, Fail: true}

	md := newSynth(cat, nil, lst).Synthesize(context.Background(), testItem())
	if md == nil || md.CurrentListings != nil {
		t.Errorf("scraper failure should leave listings empty, got %+v", md)
	}
}
