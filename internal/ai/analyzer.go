package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"cratepricer/internal/model"
	"cratepricer/internal/ratelimit"
)

const (
	geminiModel  = "gemini-2.0-flash"
	geminiAPIURL = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"
	callTimeout  = 60 * time.Second
)

// Request carries everything the analyzer needs to find sold comps for one
// item.
type Request struct {
	Artist          string
	Title           string
	Label           string
	CatNo           string
	Format          string
	Year            int
	ConditionVinyl  model.Grade
	ConditionSleeve model.Grade
	PurchasePrice   float64
	CatalogueURL    string
}

// Analyzer is the AI sold-comp contract. Analyze returns a market data
// fragment, or nil when the model produced nothing usable. Malformed
// responses are nil, not errors.
type Analyzer interface {
	Available() bool
	Analyze(ctx context.Context, req Request) (*model.MarketData, error)
}

// GeminiAnalyzer asks a Gemini text model for recent sold comps and demand
// signals, returned as JSON.
type GeminiAnalyzer struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	respCache  *lru.Cache[string, *model.MarketData]
}

// NewGeminiAnalyzer builds the analyzer. An empty key leaves it disabled;
// callers check Available before use.
func NewGeminiAnalyzer(apiKey string) *GeminiAnalyzer {
	// Small LRU so re-valuing the same items in one session doesn't burn quota.
	respCache, err := lru.New[string, *model.MarketData](100)
	if err != nil {
		log.Printf("Failed to create AI response cache: %v", err)
	}

	a := &GeminiAnalyzer{
		apiKey:     apiKey,
		baseURL:    fmt.Sprintf(geminiAPIURL, geminiModel),
		httpClient: &http.Client{Timeout: callTimeout},
		limiter:    ratelimit.NewLimiter(10, 6*time.Second),
		respCache:  respCache,
	}

	if a.Available() {
		log.Printf("AI analyzer: enabled (model=%s)", geminiModel)
	} else {
		log.Printf("AI analyzer: disabled (no API key)")
	}
	return a
}

func (a *GeminiAnalyzer) Available() bool {
	return a.apiKey != ""
}

// Analyze requests sold-comp JSON for the item. Network failures return an
// error; responses the model mangles return (nil, nil) so callers fall
// through to the next source either way.
func (a *GeminiAnalyzer) Analyze(ctx context.Context, req Request) (*model.MarketData, error) {
	if !a.Available() {
		return nil, fmt.Errorf("AI analyzer not configured")
	}

	key := cacheKey(req)
	if a.respCache != nil {
		if cached, ok := a.respCache.Get(key); ok {
			return cached, nil
		}
	}

	a.limiter.Wait()

	text, err := a.generate(ctx, buildPrompt(req))
	if err != nil {
		return nil, err
	}

	frag := parseFragment(text)
	if frag == nil {
		log.Printf("AI analyzer: unusable response for %s - %s", req.Artist, req.Title)
		return nil, nil
	}

	if a.respCache != nil {
		a.respCache.Add(key, frag)
	}
	return frag, nil
}

func cacheKey(req Request) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s", req.Artist, req.Title, req.CatNo,
		req.ConditionVinyl, req.ConditionSleeve)
}

func buildPrompt(req Request) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "You are a vinyl record market analyst. Find recent sold prices for this record and respond with JSON only.\n\n")
	fmt.Fprintf(&b, "Record: %s - %s\n", req.Artist, req.Title)
	if req.Label != "" {
		fmt.Fprintf(&b, "Label: %s", req.Label)
		if req.CatNo != "" {
			fmt.Fprintf(&b, " (%s)", req.CatNo)
		}
		b.WriteString("\n")
	}
	if req.Format != "" {
		fmt.Fprintf(&b, "Format: %s\n", req.Format)
	}
	if req.Year > 0 {
		fmt.Fprintf(&b, "Year: %d\n", req.Year)
	}
	fmt.Fprintf(&b, "Condition: vinyl %s, sleeve %s\n", req.ConditionVinyl, req.ConditionSleeve)
	if req.PurchasePrice > 0 {
		fmt.Fprintf(&b, "Paid: %.2f\n", req.PurchasePrice)
	}
	if req.CatalogueURL != "" {
		fmt.Fprintf(&b, "Catalogue page: %s\n", req.CatalogueURL)
	}
	b.WriteString(`
Respond with this JSON shape and nothing else:
{
  "lastSold": [{"condition": "VG+", "price": 25.0, "date": "2026-07", "notes": ""}],
  "medianSold": 25.0,
  "currentListings": {"lowest": 20.0, "median": 28.0, "highest": 40.0},
  "gradeAdjustment": {"M": 1.5, "NM": 1.3, "VG+": 1.0, "VG": 0.7},
  "demandScore": 1.5,
  "demandTrend": "stable",
  "rarityScore": "common",
  "recommendedAction": "hold",
  "confidence": "medium"
}
lastSold must list real sold transactions, most recent first, at most 5.
demandTrend is rising, stable or falling. recommendedAction is hold,
"list quickly" or "price aggressively". confidence is high, medium or low.
Omit any field you cannot support with evidence.`)
	return b.String()
}

func (a *GeminiAnalyzer) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenConfig{
			Temperature:     0.1,
			MaxOutputTokens: 2048,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"?key="+a.apiKey, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("AI request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read AI response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var apiResp geminiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("decode AI response: %w", err)
	}
	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("AI response has no candidates")
	}
	return apiResp.Candidates[0].Content.Parts[0].Text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}
