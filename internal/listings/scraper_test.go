package listings

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const resultsPage = `<html><body>
<ul>
<li class="s-item"><span class="s-item__price">£10.00</span></li>
<li class="s-item"><span class="s-item__price">£25.50</span></li>
<li class="s-item"><span class="s-item__price">£18.00 to £22.00</span></li>
<li class="s-item"><span class="s-item__price">Tap to see price</span></li>
</ul>
</body></html>`

func newTestScraper(t *testing.T, handler http.HandlerFunc) *Scraper {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	s := NewScraper(true, nil)
	s.baseURL = server.URL
	return s
}

func TestCurrentListings(t *testing.T) {
	s := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("_nkw"); got != "Nirvana Nevermind vinyl" {
			t.Errorf("query = %q", got)
		}
		w.Write([]byte(resultsPage))
	})

	stats, err := s.CurrentListings(context.Background(), "Nirvana", "Nevermind")
	if err != nil {
		t.Fatalf("CurrentListings failed: %v", err)
	}
	// Unpriced entries are skipped; ranges use the low end: [10, 18, 25.5].
	if *stats.Lowest != 10 {
		t.Errorf("lowest = %v", *stats.Lowest)
	}
	if *stats.Median != 18 {
		t.Errorf("median = %v", *stats.Median)
	}
	if *stats.Highest != 25.5 {
		t.Errorf("highest = %v", *stats.Highest)
	}
}

func TestCurrentListingsGzip(t *testing.T) {
	s := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		gz.Write([]byte(resultsPage))
		gz.Close()
	})

	stats, err := s.CurrentListings(context.Background(), "a", "b")
	if err != nil {
		t.Fatalf("CurrentListings failed: %v", err)
	}
	if *stats.Lowest != 10 {
		t.Errorf("lowest = %v", *stats.Lowest)
	}
}

func TestCurrentListingsNoResults(t *testing.T) {
	s := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>no results</body></html>`))
	})

	if _, err := s.CurrentListings(context.Background(), "a", "b"); err == nil {
		t.Error("expected error when page has no priced listings")
	}
}

func TestScraperDisabled(t *testing.T) {
	s := NewScraper(false, nil)
	if s.Available() {
		t.Error("disabled scraper should be unavailable")
	}
	if _, err := s.CurrentListings(context.Background(), "a", "b"); err == nil {
		t.Error("disabled scraper should error")
	}
}
