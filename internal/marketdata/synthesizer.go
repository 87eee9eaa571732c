package marketdata

import (
	"context"
	"log"
	"strings"
	"time"

	"cratepricer/internal/ai"
	"cratepricer/internal/catalogue"
	"cratepricer/internal/listings"
	"cratepricer/internal/model"
)

// Synthesizer produces one unified market record per item by trying sources
// in priority order and merging. A cheaper source is never discarded once a
// better one partially succeeds, and every source failure falls through to
// the next source.
type Synthesizer struct {
	Catalogue catalogue.Provider
	Analyzer  ai.Analyzer
	Listings  listings.Provider
	Now       func() time.Time
}

func NewSynthesizer(cat catalogue.Provider, analyzer ai.Analyzer, lst listings.Provider) *Synthesizer {
	return &Synthesizer{
		Catalogue: cat,
		Analyzer:  analyzer,
		Listings:  lst,
		Now:       time.Now,
	}
}

// Synthesize always returns a market record: the heuristic fallback cannot
// fail.
func (s *Synthesizer) Synthesize(ctx context.Context, item *model.Item) *model.MarketData {
	md := s.fromCatalogue(ctx, item)

	// Catalogue APIs expose asking prices, not sold history. When fewer
	// than three comps are known, ask the AI analyzer for more.
	if md == nil || len(md.LastSold) < 3 {
		md = s.mergeAI(ctx, item, md)
	}

	if md == nil {
		if csv := fromCSVSnapshot(item.CSVMarketData, s.Now()); csv != nil {
			md = csv
		} else {
			md = HeuristicEstimate(item.Genre, item.Year, item.Format, s.Now())
		}
	}

	reconcileCSV(md, item.CSVMarketData)

	s.enrichListings(ctx, item, md)

	if md.Confidence == "" {
		md.Confidence = defaultConfidence(md)
	}
	return md
}

func (s *Synthesizer) fromCatalogue(ctx context.Context, item *model.Item) *model.MarketData {
	if s.Catalogue == nil || !s.Catalogue.Available() {
		return nil
	}

	releaseID, err := s.Catalogue.Search(ctx, item.DisplayArtist(), item.DisplayTitle(), item.CatNo)
	if err != nil {
		if err != catalogue.ErrNotFound {
			log.Printf("catalogue search unavailable for %s - %s: %v", item.DisplayArtist(), item.DisplayTitle(), err)
		}
		return nil
	}

	details, err := s.Catalogue.Details(ctx, releaseID)
	if err != nil {
		log.Printf("catalogue details unavailable for release %s: %v", releaseID, err)
		return nil
	}

	md := &model.MarketData{
		Source:       model.SourceCatalogue,
		FetchedAt:    s.Now(),
		LowPrice:     details.LowestPrice,
		MedianPrice:  details.MedianPrice,
		HighPrice:    details.HighestPrice,
		HaveCount:    details.Have,
		WantCount:    details.Want,
		CatalogueURL: details.URI,
	}

	have := details.Have
	if have < 1 {
		have = 1
	}
	score := float64(details.Want) / float64(have)
	md.DemandScore = &score
	return md
}

// mergeAI shallow-merges the analyzer's fragment over the catalogue record.
// AI fields win on conflict; catalogue-only fields survive.
func (s *Synthesizer) mergeAI(ctx context.Context, item *model.Item, md *model.MarketData) *model.MarketData {
	if s.Analyzer == nil || !s.Analyzer.Available() {
		return md
	}

	catURL := ""
	if md != nil {
		catURL = md.CatalogueURL
	}
	frag, err := s.Analyzer.Analyze(ctx, ai.Request{
		Artist:          item.DisplayArtist(),
		Title:           item.DisplayTitle(),
		Label:           item.Label,
		CatNo:           item.CatNo,
		Format:          item.Format,
		Year:            item.Year,
		ConditionVinyl:  item.ConditionVinyl,
		ConditionSleeve: item.ConditionSleeve,
		PurchasePrice:   item.PurchasePrice,
		CatalogueURL:    catURL,
	})
	if err != nil {
		log.Printf("AI analysis unavailable for %s - %s: %v", item.DisplayArtist(), item.DisplayTitle(), err)
		return md
	}
	if frag == nil {
		return md
	}

	if md == nil {
		return frag
	}

	md.Source = joinSource(md.Source, model.SourceAIAnalysis)
	if len(frag.LastSold) > 0 {
		md.LastSold = frag.LastSold
	}
	if frag.MedianSold != nil {
		md.MedianSold = frag.MedianSold
	}
	if frag.CurrentListings != nil {
		md.CurrentListings = frag.CurrentListings
	}
	if frag.GradeAdjustment != nil {
		md.GradeAdjustment = frag.GradeAdjustment
	}
	if frag.DemandScore != nil {
		md.DemandScore = frag.DemandScore
	}
	if frag.DemandTrend != "" {
		md.DemandTrend = frag.DemandTrend
	}
	if frag.RarityScore != "" {
		md.RarityScore = frag.RarityScore
	}
	if frag.RecommendedAction != "" {
		md.RecommendedAction = frag.RecommendedAction
	}
	if frag.Confidence != "" {
		md.Confidence = frag.Confidence
	}
	return md
}

func fromCSVSnapshot(csv *model.CSVMarketData, now time.Time) *model.MarketData {
	if csv == nil {
		return nil
	}
	if csv.Median == nil && csv.Low == nil && csv.High == nil && csv.LastSold == nil {
		return nil
	}
	return &model.MarketData{
		Source:      model.SourceCSVImport,
		FetchedAt:   now,
		LowPrice:    csv.Low,
		MedianPrice: csv.Median,
		HighPrice:   csv.High,
		MedianSold:  csv.LastSold,
	}
}

// reconcileCSV guarantees an imported snapshot is never silently lost to a
// weaker heuristic fallback, without ever overwriting a stronger live
// source.
func reconcileCSV(md *model.MarketData, csv *model.CSVMarketData) {
	if csv == nil {
		return
	}
	if strings.Contains(md.Source, "csv") {
		return
	}
	if csv.Low == nil && csv.Median == nil && csv.High == nil {
		return
	}
	estimated := strings.Contains(md.Source, model.SourceEstimated)
	if md.MedianPrice != nil && !estimated {
		return
	}

	if estimated {
		// The snapshot outranks the heuristic table outright.
		if csv.Low != nil {
			md.LowPrice = csv.Low
		}
		if csv.Median != nil {
			md.MedianPrice = csv.Median
		}
		if csv.High != nil {
			md.HighPrice = csv.High
		}
	} else {
		// A live source is stronger: only fill the gaps it left.
		if md.LowPrice == nil {
			md.LowPrice = csv.Low
		}
		if md.MedianPrice == nil {
			md.MedianPrice = csv.Median
		}
		if md.HighPrice == nil {
			md.HighPrice = csv.High
		}
	}
	md.Source = md.Source + "+csv"
}

func defaultConfidence(md *model.MarketData) model.Confidence {
	switch {
	case len(md.LastSold) >= 3:
		return model.ConfidenceHigh
	case md.HasLiveSource():
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

func (s *Synthesizer) enrichListings(ctx context.Context, item *model.Item, md *model.MarketData) {
	if s.Listings == nil || !s.Listings.Available() || md.CurrentListings != nil {
		return
	}
	stats, err := s.Listings.CurrentListings(ctx, item.DisplayArtist(), item.DisplayTitle())
	if err != nil {
		log.Printf("current listings unavailable for %s - %s: %v", item.DisplayArtist(), item.DisplayTitle(), err)
		return
	}
	md.CurrentListings = stats
}

func joinSource(base, extra string) string {
	if base == "" {
		return extra
	}
	if strings.Contains(base, extra) {
		return base
	}
	return base + "+" + extra
}
