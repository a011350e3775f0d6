package data

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-sim/internal/model"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestFREDClient_MissingKey(t *testing.T) {
	c := NewFREDClient("", "")
	_, err := c.DailyRates(time.Now().AddDate(0, -1, 0), time.Now())

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "MISSING_API_KEY", fe.Code)
}

func TestFREDClient_ParsesObservations(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fred/series/observations", r.URL.Path)
		gotQuery = map[string]string{
			"series_id":         r.URL.Query().Get("series_id"),
			"api_key":           r.URL.Query().Get("api_key"),
			"file_type":         r.URL.Query().Get("file_type"),
			"observation_start": r.URL.Query().Get("observation_start"),
		}
		fmt.Fprint(w, `{"observations":[
			{"date":"2024-01-02","value":"4.10"},
			{"date":"2024-01-03","value":"."},
			{"date":"2024-01-04","value":"4.15"}
		]}`)
	}))
	defer srv.Close()

	c := NewFREDClient("test-key", srv.URL)
	points, err := c.DailyRates(mustDate(t, "2024-01-01"), mustDate(t, "2024-01-31"))
	require.NoError(t, err)

	// The "." observation is a gap, not a zero sample.
	assert.Equal(t, []model.SeriesPoint{
		{Date: "2024-01-02", Value: 4.10},
		{Date: "2024-01-04", Value: 4.15},
	}, points)

	assert.Equal(t, "DGS10", gotQuery["series_id"])
	assert.Equal(t, "test-key", gotQuery["api_key"])
	assert.Equal(t, "json", gotQuery["file_type"])
	assert.Equal(t, "2024-01-01", gotQuery["observation_start"])
}

func TestFREDClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		status   int
		wantCode string
	}{
		{http.StatusBadRequest, "INVALID_API_KEY"},
		{http.StatusForbidden, "INVALID_API_KEY"},
		{http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{http.StatusInternalServerError, "API_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status == http.StatusTooManyRequests {
					w.Header().Set("Retry-After", "60")
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewFREDClient("test-key", srv.URL)
			_, err := c.DailyRates(mustDate(t, "2024-01-01"), mustDate(t, "2024-01-31"))

			var fe *FetchError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.wantCode, fe.Code)
			assert.Equal(t, tt.status, fe.StatusCode)
			if tt.status == http.StatusTooManyRequests {
				assert.Equal(t, "60", fe.RetryAfter)
			}
		})
	}
}

func TestFREDClient_CachesFetches(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"observations":[{"date":"2024-01-02","value":"4.10"}]}`)
	}))
	defer srv.Close()

	c := NewFREDClient("test-key", srv.URL)
	c.Mem = NewCache(time.Minute)
	c.Disk = NewDiskCache(t.TempDir())

	start, end := mustDate(t, "2024-01-01"), mustDate(t, "2024-01-31")
	first, err := c.DailyRates(start, end)
	require.NoError(t, err)
	second, err := c.DailyRates(start, end)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, hits, "second call is served from cache")

	// A fresh client sharing the disk cache never hits the network.
	c2 := NewFREDClient("test-key", srv.URL)
	c2.Disk = c.Disk
	third, err := c2.DailyRates(start, end)
	require.NoError(t, err)
	assert.Equal(t, first, third)
	assert.Equal(t, 1, hits)
}
