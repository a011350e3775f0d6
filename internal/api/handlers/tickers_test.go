package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-sim/internal/api/models"
	"portfolio-sim/internal/data"
)

func TestSearchTickers_EmptyQueryReturnsPopular(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewTickerHandler(data.NewQuoteClient("http://unused"))

	r := gin.New()
	r.GET("/api/v1/search_tickers", h.SearchTickers)

	w := doGET(r, "/api/v1/search_tickers")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, data.PopularTickers(), resp.Results)
}

func TestSearchTickers_ProxiesQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[{"symbol":"AAPL","name":"Apple Inc."}]}`)
	}))
	defer srv.Close()

	quotes := data.NewQuoteClient(srv.URL)
	quotes.SearchCache = data.NewCache(time.Minute)
	h := NewTickerHandler(quotes)

	r := gin.New()
	r.GET("/api/v1/search_tickers", h.SearchTickers)

	w := doGET(r, "/api/v1/search_tickers?query=app")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "AAPL", resp.Results[0].Symbol)
}

func TestListRateSeries(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewTickerHandler(nil)

	r := gin.New()
	r.GET("/api/v1/rates/series", h.ListRateSeries)

	w := doGET(r, "/api/v1/rates/series")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "DGS10")
}

func TestCacheHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mem := data.NewCache(time.Minute)
	mem.Set("k", "v")
	disk := data.NewDiskCache(filepath.Join(t.TempDir(), "data_cache"))
	require.NoError(t, disk.Store("x", map[string]string{"a": "b"}))

	h := NewCacheHandler(disk, mem)
	r := gin.New()
	r.POST("/api/v1/cache/clear", h.ClearCaches)
	r.POST("/api/v1/cache/purge-disk", h.PurgeDisk)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/cache/clear", nil))
	require.Equal(t, http.StatusOK, w.Code)
	_, ok := mem.Get("k")
	assert.False(t, ok)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/cache/purge-disk", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var out map[string]string
	assert.False(t, disk.Load("x", &out), "disk cache is gone after the purge")
}
