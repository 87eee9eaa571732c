package model

import "time"

// Status is an item's lifecycle state.
type Status string

const (
	StatusOwned  Status = "owned"
	StatusListed Status = "listed"
	StatusSold   Status = "sold"
)

// EnrichmentStatus tracks how far the valuation chain got for an item.
type EnrichmentStatus string

const (
	EnrichmentPending  EnrichmentStatus = "pending"
	EnrichmentPartial  EnrichmentStatus = "partial"
	EnrichmentComplete EnrichmentStatus = "complete"
)

// Placeholders used when an import row or scan carries no identity.
const (
	UnknownArtist = "Unknown Artist"
	UnknownTitle  = "Untitled"
)

// Photo is one item image: either hosted {URL, Thumbnail, DeleteRef} or an
// inline base64 payload when no hosting service is configured.
type Photo struct {
	URL       string `json:"url,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	DeleteRef string `json:"deleteRef,omitempty"`
	Inline    string `json:"inline,omitempty"`
}

// CSVMarketData is a market snapshot captured at import time from a
// spreadsheet source. It is a durable fallback: later enrichment never
// overwrites it.
type CSVMarketData struct {
	Median   *float64 `json:"median,omitempty"`
	Low      *float64 `json:"low,omitempty"`
	High     *float64 `json:"high,omitempty"`
	LastSold *float64 `json:"lastSold,omitempty"`
}

// Strategy holds the marketplace settings derived for a listing.
type Strategy struct {
	Format      string `json:"format"` // "fixed price" or "auction"
	BestOffer   bool   `json:"bestOffer"`
	AutoAccept  int    `json:"autoAccept,omitempty"`
	AutoDecline int    `json:"autoDecline,omitempty"`
	StartPrice  int    `json:"startPrice,omitempty"` // auction format only
	Duration    string `json:"duration"`
	Promoted    bool   `json:"promoted"`
	ListingType string `json:"listingType"` // "standard" or "premium"
}

// Item is one record in the collection.
type Item struct {
	ID string `json:"id"`

	// Identity
	Artist    string `json:"artist"`
	Title     string `json:"title"`
	Label     string `json:"label,omitempty"`
	CatNo     string `json:"catNo,omitempty"`
	Format    string `json:"format,omitempty"`
	Year      int    `json:"year,omitempty"`
	Genre     string `json:"genre,omitempty"`
	Style     string `json:"style,omitempty"`

	// Acquisition
	PurchasePrice  float64    `json:"purchasePrice"`
	PurchaseDate   *time.Time `json:"purchaseDate,omitempty"`
	PurchaseSource string     `json:"purchaseSource,omitempty"`

	// Condition
	ConditionVinyl  Grade `json:"conditionVinyl,omitempty"`
	ConditionSleeve Grade `json:"conditionSleeve,omitempty"`

	// Lifecycle
	Status       Status     `json:"status"`
	ListedDate   *time.Time `json:"listedDate,omitempty"`
	SoldPrice    *float64   `json:"soldPrice,omitempty"`
	SoldDate     *time.Time `json:"soldDate,omitempty"`
	Fees         float64    `json:"fees,omitempty"`
	ActualProfit *float64   `json:"actualProfit,omitempty"`

	Photos        []Photo        `json:"photos,omitempty"`
	CSVMarketData *CSVMarketData `json:"csvMarketData,omitempty"`

	// Derived valuation fields. Always recomputed together by a valuation
	// pass, never patched individually.
	MarketData            *MarketData      `json:"marketData,omitempty"`
	EstimatedValue        *int             `json:"estimatedValue,omitempty"`
	SuggestedListingPrice *int             `json:"suggestedListingPrice,omitempty"`
	ProfitPotential       *float64         `json:"profitPotential,omitempty"`
	ROI                   *float64         `json:"roi,omitempty"`
	EbayStrategy          *Strategy        `json:"ebayStrategy,omitempty"`
	DaysOwned             int              `json:"daysOwned,omitempty"`
	EnrichmentStatus      EnrichmentStatus `json:"enrichmentStatus,omitempty"`
	NeedsEnrichment       bool             `json:"needsEnrichment,omitempty"`
}

// DisplayArtist returns the artist, or the placeholder when absent.
func (it *Item) DisplayArtist() string {
	if it.Artist == "" {
		return UnknownArtist
	}
	return it.Artist
}

// DisplayTitle returns the title, or the placeholder when absent.
func (it *Item) DisplayTitle() string {
	if it.Title == "" {
		return UnknownTitle
	}
	return it.Title
}

// DaysOwnedAt computes the holding duration at a given instant. Zero when
// the purchase date is unknown or in the future.
func (it *Item) DaysOwnedAt(now time.Time) int {
	if it.PurchaseDate == nil {
		return 0
	}
	days := int(now.Sub(*it.PurchaseDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
