package data

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"portfolio-sim/internal/model"
)

// UnknownCompany is the placeholder name used when a ticker's company name
// cannot be resolved.
const UnknownCompany = "Unknown Company"

// QuoteClient fetches daily close prices, company names, and ticker search
// results from a quotes API. Like the FRED client it layers an in-memory TTL
// cache over a JSON folder cache.
type QuoteClient struct {
	BaseURL string
	Client  *http.Client

	Mem         *Cache // series + company names
	SearchCache *Cache // ticker search results, longer TTL
	Disk        *DiskCache

	limiter *rate.Limiter
}

// NewQuoteClient creates a quotes API client for the given base URL.
func NewQuoteClient(baseURL string) *QuoteClient {
	return &QuoteClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(4), 1),
	}
}

type quoteBar struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

type quoteDailyResponse struct {
	Ticker      string     `json:"ticker"`
	CompanyName string     `json:"company_name"`
	Data        []quoteBar `json:"data"`
}

type quoteProfileResponse struct {
	Name string `json:"name"`
}

// TickerMatch is one ticker search hit.
type TickerMatch struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

type quoteSearchResponse struct {
	Results []TickerMatch `json:"results"`
}

// DailyCloses returns the close-price series for the ticker over [start, end].
// Non-trading days are absent; the simulators pad or look up by exact date as
// they need. An unknown ticker is a data-unavailable error.
func (c *QuoteClient) DailyCloses(ticker string, start, end time.Time) ([]model.SeriesPoint, error) {
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}
	startDate := start.Format(model.DateLayout)
	endDate := end.Format(model.DateLayout)

	memKey := CacheKey("quotes", ticker, startDate, endDate)
	if cached, ok := c.Mem.Get(memKey); ok {
		if points, ok := cached.([]model.SeriesPoint); ok {
			log.Printf("[Quotes] Cache hit (memory) for %s %s..%s", ticker, startDate, endDate)
			return points, nil
		}
	}

	diskName := fmt.Sprintf("%s_%s_%s", ticker, startDate, endDate)
	var cached model.SeriesResponse
	if c.Disk.Load(diskName, &cached) {
		log.Printf("[Quotes] Cache hit (disk) for %s %s..%s", ticker, startDate, endDate)
		c.Mem.Set(memKey, cached.Data)
		return cached.Data, nil
	}

	resp, err := c.fetchDaily(ticker, startDate, endDate)
	if err != nil {
		return nil, err
	}

	points := make([]model.SeriesPoint, 0, len(resp.Data))
	for _, bar := range resp.Data {
		points = append(points, model.SeriesPoint{Date: bar.Date, Value: bar.Close})
	}

	if resp.CompanyName != "" {
		c.Mem.Set(CacheKey("company", ticker), resp.CompanyName)
	}
	if err := c.Disk.Store(diskName, model.SeriesResponse{ID: ticker, Data: points}); err != nil {
		log.Printf("[Quotes] Failed to write disk cache: %v", err)
	}
	c.Mem.Set(memKey, points)

	return points, nil
}

func (c *QuoteClient) fetchDaily(ticker, startDate, endDate string) (*quoteDailyResponse, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v1/quotes/%s/daily", c.BaseURL, url.PathEscape(ticker)))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("start_date", startDate)
	q.Set("end_date", endDate)
	u.RawQuery = q.Encode()

	if c.limiter != nil {
		if err := c.limiter.Wait(context.Background()); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	log.Printf("[Quotes] Request: GET %s (ticker=%s, start=%s, end=%s)", u.Path, ticker, startDate, endDate)

	httpResp, err := c.Client.Get(u.String())
	if err != nil {
		return nil, &FetchError{
			Code:    "DATA_UNAVAILABLE",
			Message: fmt.Sprintf("quote request for %s failed: %v", ticker, err),
		}
	}
	defer httpResp.Body.Close()

	switch httpResp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, &FetchError{
			StatusCode: httpResp.StatusCode,
			Code:       "DATA_UNAVAILABLE",
			Message:    fmt.Sprintf("unknown ticker %q", ticker),
		}
	case http.StatusTooManyRequests:
		retryAfter := httpResp.Header.Get("Retry-After")
		return nil, &FetchError{
			StatusCode: httpResp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("quote API rate limit exceeded. Retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	default:
		return nil, &FetchError{
			StatusCode: httpResp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("quote API returned status %d: %s", httpResp.StatusCode, httpResp.Status),
		}
	}

	var decoded quoteDailyResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode quote response: %w", err)
	}
	log.Printf("[Quotes] Success: %d bars (ticker=%s)", len(decoded.Data), ticker)
	return &decoded, nil
}

// ResolveName returns the company name for a ticker, defaulting to
// UnknownCompany on any failure. It never propagates an error to the caller.
func (c *QuoteClient) ResolveName(ticker string) string {
	key := CacheKey("company", ticker)
	if cached, ok := c.Mem.Get(key); ok {
		if name, ok := cached.(string); ok {
			return name
		}
	}

	u := fmt.Sprintf("%s/v1/quotes/%s/profile", c.BaseURL, url.PathEscape(ticker))
	httpResp, err := c.Client.Get(u)
	if err != nil {
		log.Printf("[Quotes] Failed to resolve name for %s: %v", ticker, err)
		return UnknownCompany
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return UnknownCompany
	}

	var decoded quoteProfileResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&decoded); err != nil || decoded.Name == "" {
		return UnknownCompany
	}

	c.Mem.Set(key, decoded.Name)
	return decoded.Name
}

// Search looks up tickers matching the query, caching results separately from
// the price data (search results age out more slowly).
func (c *QuoteClient) Search(query string) ([]TickerMatch, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	key := CacheKey("search", query)
	if cached, ok := c.SearchCache.Get(key); ok {
		if matches, ok := cached.([]TickerMatch); ok {
			return matches, nil
		}
	}

	u, err := url.Parse(c.BaseURL + "/v1/search")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("query", query)
	u.RawQuery = q.Encode()

	httpResp, err := c.Client.Get(u.String())
	if err != nil {
		return nil, &FetchError{
			Code:    "DATA_UNAVAILABLE",
			Message: fmt.Sprintf("ticker search failed: %v", err),
		}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			StatusCode: httpResp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("ticker search returned status %d", httpResp.StatusCode),
		}
	}

	var decoded quoteSearchResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	c.SearchCache.Set(key, decoded.Results)
	return decoded.Results, nil
}
