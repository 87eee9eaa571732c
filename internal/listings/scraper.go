package listings

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"

	"cratepricer/internal/cache"
	"cratepricer/internal/currency"
	"cratepricer/internal/model"
	"cratepricer/internal/ratelimit"
)

// Provider summarizes current asking prices for a release. It only ever
// enriches a market record; every failure is tolerated upstream.
type Provider interface {
	Available() bool
	CurrentListings(ctx context.Context, artist, title string) (*model.ListingStats, error)
}

// Scraper pulls current listings off an eBay search results page. No API
// credentials involved, so it is best-effort by nature: markup drift or a
// bot wall simply mean no data.
type Scraper struct {
	baseURL    string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	cache      *cache.Cache
	enabled    bool
}

// NewScraper builds the scraper. Disabled scrapers report unavailable and
// the synthesizer skips them.
func NewScraper(enabled bool, c *cache.Cache) *Scraper {
	return &Scraper{
		baseURL:    "https://www.ebay.co.uk/sch/i.html",
		httpClient: &http.Client{Timeout: 20 * time.Second},
		limiter:    ratelimit.NewLimiter(5, 3*time.Second),
		cache:      c,
		enabled:    enabled,
	}
}

func (s *Scraper) Available() bool {
	return s.enabled
}

// CurrentListings scrapes asking prices for the release and reduces them to
// lowest/median/highest.
func (s *Scraper) CurrentListings(ctx context.Context, artist, title string) (*model.ListingStats, error) {
	if !s.enabled {
		return nil, fmt.Errorf("listings scraper disabled")
	}

	key := cache.ListingsKey(artist, title)
	if s.cache != nil {
		var stats model.ListingStats
		if found, _ := s.cache.Get(key, &stats); found {
			return &stats, nil
		}
	}

	s.limiter.Wait()

	prices, err := s.fetchPrices(ctx, artist, title)
	if err != nil {
		return nil, err
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("no priced listings found")
	}

	sort.Float64s(prices)
	lowest := prices[0]
	median := prices[len(prices)/2]
	highest := prices[len(prices)-1]
	stats := &model.ListingStats{Lowest: &lowest, Median: &median, Highest: &highest}

	if s.cache != nil {
		s.cache.Put(key, stats, 6*time.Hour)
	}
	return stats, nil
}

func (s *Scraper) fetchPrices(ctx context.Context, artist, title string) ([]float64, error) {
	params := url.Values{}
	params.Set("_nkw", strings.TrimSpace(artist+" "+title+" vinyl"))
	params.Set("_sacat", "176985") // Records category
	params.Set("_ipg", "60")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	setBrowserHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listings request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listings status %d", resp.StatusCode)
	}

	reader, err := decodeBody(resp)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("parse listings page: %w", err)
	}

	var prices []float64
	doc.Find(".s-item .s-item__price").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		// Ranges like "£10.00 to £15.00" use the low end.
		if i := strings.Index(text, " to "); i > 0 {
			text = text[:i]
		}
		if v, ok := currency.ParseString(text); ok && v > 0 {
			prices = append(prices, v)
		}
	})
	return prices, nil
}

func setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip, br")
	req.Header.Set("Connection", "keep-alive")
}

func decodeBody(resp *http.Response) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "br":
		return brotli.NewReader(resp.Body), nil
	default:
		return resp.Body, nil
	}
}
