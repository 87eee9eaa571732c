package catalogue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"cratepricer/internal/cache"
)

// ErrNotFound means the catalogue has no release matching the query.
// Callers treat it as non-fatal and fall through to the next source.
var ErrNotFound = errors.New("catalogue: release not found")

// Details is the pricing summary the catalogue exposes for one release.
type Details struct {
	LowestPrice  *float64 `json:"lowestPrice,omitempty"`
	MedianPrice  *float64 `json:"medianPrice,omitempty"`
	HighestPrice *float64 `json:"highestPrice,omitempty"`
	Have         int      `json:"have"`
	Want         int      `json:"want"`
	URI          string   `json:"uri,omitempty"`
}

// Provider is the catalogue lookup contract.
type Provider interface {
	Available() bool
	Search(ctx context.Context, artist, title, catNo string) (string, error)
	Details(ctx context.Context, releaseID string) (*Details, error)
}

// Client talks to the Discogs database API.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *cache.Cache
}

// NewClient builds a Discogs client. The cache may be nil. Discogs allows
// 60 authenticated requests per minute; the limiter stays under that.
func NewClient(token string, c *cache.Cache) *Client {
	return &Client{
		token:      token,
		baseURL:    "https://api.discogs.com",
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(1200*time.Millisecond), 3),
		cache:      c,
	}
}

func (c *Client) Available() bool {
	return c.token != ""
}

// Search finds a release ID by artist, title and catalogue number. Returns
// ErrNotFound when no result matches.
func (c *Client) Search(ctx context.Context, artist, title, catNo string) (string, error) {
	if !c.Available() {
		return "", fmt.Errorf("catalogue token not configured")
	}

	key := cache.ReleaseKey(artist, title, catNo)
	if c.cache != nil {
		var id string
		if found, _ := c.cache.Get(key, &id); found {
			if id == "" {
				return "", ErrNotFound
			}
			return id, nil
		}
	}

	params := url.Values{}
	params.Set("type", "release")
	params.Set("format", "Vinyl")
	if artist != "" {
		params.Set("artist", artist)
	}
	if title != "" {
		params.Set("release_title", title)
	}
	if catNo != "" {
		params.Set("catno", catNo)
	}

	var resp struct {
		Results []struct {
			ID int `json:"id"`
		} `json:"results"`
	}
	if err := c.get(ctx, "/database/search?"+params.Encode(), &resp); err != nil {
		return "", err
	}
	if len(resp.Results) == 0 {
		// A miss is worth caching too; repeat lookups for obscure pressings
		// are common during bulk enrichment.
		if c.cache != nil {
			c.cache.Put(key, "", 6*time.Hour)
		}
		return "", ErrNotFound
	}

	id := strconv.Itoa(resp.Results[0].ID)
	if c.cache != nil {
		c.cache.Put(key, id, 24*time.Hour)
	}
	return id, nil
}

// Details fetches the release pricing summary. Median and high come from the
// per-condition price suggestions endpoint when the token has access to it;
// that call failing only leaves those fields nil.
func (c *Client) Details(ctx context.Context, releaseID string) (*Details, error) {
	if !c.Available() {
		return nil, fmt.Errorf("catalogue token not configured")
	}

	key := cache.DetailsKey(releaseID)
	if c.cache != nil {
		var d Details
		if found, _ := c.cache.Get(key, &d); found {
			return &d, nil
		}
	}

	var rel struct {
		LowestPrice *float64 `json:"lowest_price"`
		URI         string   `json:"uri"`
		Community   struct {
			Have int `json:"have"`
			Want int `json:"want"`
		} `json:"community"`
	}
	if err := c.get(ctx, "/releases/"+url.PathEscape(releaseID), &rel); err != nil {
		return nil, err
	}

	d := &Details{
		LowestPrice: rel.LowestPrice,
		Have:        rel.Community.Have,
		Want:        rel.Community.Want,
		URI:         rel.URI,
	}

	var sugg map[string]struct {
		Value float64 `json:"value"`
	}
	if err := c.get(ctx, "/marketplace/price_suggestions/"+url.PathEscape(releaseID), &sugg); err == nil {
		if s, ok := sugg["Very Good Plus (VG+)"]; ok && s.Value > 0 {
			v := s.Value
			d.MedianPrice = &v
		}
		if s, ok := sugg["Mint (M)"]; ok && s.Value > 0 {
			v := s.Value
			d.HighestPrice = &v
		}
	}

	if c.cache != nil {
		c.cache.Put(key, d, 24*time.Hour)
	}
	return d, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Discogs token="+c.token)
	req.Header.Set("User-Agent", "cratepricer/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalogue request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("catalogue status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode catalogue response: %w", err)
	}
	return nil
}
