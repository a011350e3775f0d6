package data

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"portfolio-sim/internal/model"
)

// DefaultRateSeriesID is the FRED series used when none is configured: the
// 10-year constant-maturity Treasury rate.
const DefaultRateSeriesID = "DGS10"

// FetchError represents an error from an upstream data API.
type FetchError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // for rate limit errors
}

func (e *FetchError) Error() string {
	return e.Message
}

// FREDClient fetches daily interest-rate observations from the FRED API.
// Responses pass through a two-level cache: an in-memory TTL cache and a JSON
// folder cache that survives restarts.
type FREDClient struct {
	APIKey   string
	BaseURL  string
	SeriesID string
	Client   *http.Client

	Mem  *Cache     // optional
	Disk *DiskCache // optional

	limiter *rate.Limiter
}

// NewFREDClient creates a FRED API client. If baseURL is empty, defaults to
// "https://api.stlouisfed.org". Requests are throttled to stay within FRED's
// published limits.
func NewFREDClient(apiKey, baseURL string) *FREDClient {
	if baseURL == "" {
		baseURL = "https://api.stlouisfed.org"
	}
	return &FREDClient{
		APIKey:   apiKey,
		BaseURL:  baseURL,
		SeriesID: DefaultRateSeriesID,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(4), 1),
	}
}

type fredObservation struct {
	Date  string `json:"date"`
	Value string `json:"value"` // FRED sends "." for missing observations
}

type fredObservationsResponse struct {
	Observations []fredObservation `json:"observations"`
}

// DailyRates returns the rate series for [start, end], possibly with gaps on
// non-business days. The series is chronologically ordered.
func (c *FREDClient) DailyRates(start, end time.Time) ([]model.SeriesPoint, error) {
	if c.APIKey == "" {
		return nil, &FetchError{
			Code:    "MISSING_API_KEY",
			Message: "FRED API key is required (set FRED_API_KEY in secrets.env)",
		}
	}
	seriesID := c.SeriesID
	if seriesID == "" {
		seriesID = DefaultRateSeriesID
	}
	startDate := start.Format(model.DateLayout)
	endDate := end.Format(model.DateLayout)

	memKey := CacheKey("fred", seriesID, startDate, endDate)
	if cached, ok := c.Mem.Get(memKey); ok {
		if points, ok := cached.([]model.SeriesPoint); ok {
			log.Printf("[FRED] Cache hit (memory) for %s %s..%s", seriesID, startDate, endDate)
			return points, nil
		}
	}

	diskName := fmt.Sprintf("%s_%s_%s", seriesID, startDate, endDate)
	var resp model.SeriesResponse
	if c.Disk.Load(diskName, &resp) {
		log.Printf("[FRED] Cache hit (disk) for %s %s..%s", seriesID, startDate, endDate)
		c.Mem.Set(memKey, resp.Data)
		return resp.Data, nil
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(context.Background()); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	u, err := url.Parse(c.BaseURL + "/fred/series/observations")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("series_id", seriesID)
	q.Set("api_key", c.APIKey)
	q.Set("file_type", "json")
	q.Set("observation_start", startDate)
	q.Set("observation_end", endDate)
	u.RawQuery = q.Encode()

	log.Printf("[FRED] Request: GET %s (series=%s, start=%s, end=%s)", u.Path, seriesID, startDate, endDate)

	httpResp, err := c.Client.Get(u.String())
	if err != nil {
		return nil, &FetchError{
			Code:    "DATA_UNAVAILABLE",
			Message: fmt.Sprintf("FRED request failed: %v", err),
		}
	}
	defer httpResp.Body.Close()

	switch httpResp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest, http.StatusForbidden, http.StatusUnauthorized:
		log.Printf("[FRED] Error: %d %s (series=%s)", httpResp.StatusCode, httpResp.Status, seriesID)
		return nil, &FetchError{
			StatusCode: httpResp.StatusCode,
			Code:       "INVALID_API_KEY",
			Message:    "FRED rejected the request: invalid API key or series id",
		}
	case http.StatusTooManyRequests:
		retryAfter := httpResp.Header.Get("Retry-After")
		return nil, &FetchError{
			StatusCode: httpResp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("FRED rate limit exceeded. Retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	default:
		return nil, &FetchError{
			StatusCode: httpResp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("FRED returned status %d: %s", httpResp.StatusCode, httpResp.Status),
		}
	}

	var decoded fredObservationsResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode FRED response: %w", err)
	}

	points := make([]model.SeriesPoint, 0, len(decoded.Observations))
	for _, obs := range decoded.Observations {
		if obs.Value == "." {
			continue // missing observation, left as a gap for padding
		}
		v, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			continue
		}
		points = append(points, model.SeriesPoint{Date: obs.Date, Value: v})
	}
	log.Printf("[FRED] Success: %d observations (series=%s)", len(points), seriesID)

	if err := c.Disk.Store(diskName, model.SeriesResponse{ID: seriesID, Data: points}); err != nil {
		log.Printf("[FRED] Failed to write disk cache: %v", err)
	}
	c.Mem.Set(memKey, points)

	return points, nil
}
