package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-sim/internal/api/models"
	"portfolio-sim/internal/data"
)

// TickerHandler serves ticker search and the static rate-series catalog.
type TickerHandler struct {
	quotes *data.QuoteClient
}

func NewTickerHandler(quotes *data.QuoteClient) *TickerHandler {
	return &TickerHandler{quotes: quotes}
}

// SearchTickers handles GET /api/v1/search_tickers. An empty query returns
// the popular-tickers list so pickers have something to show before typing.
func (h *TickerHandler) SearchTickers(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusOK, models.SearchResponse{Results: data.PopularTickers()})
		return
	}

	results, err := h.quotes.Search(query)
	if err != nil {
		status, fe := fetchErrorStatus(err)
		detail := models.ErrorDetail{Code: "SEARCH_ERROR", Message: err.Error()}
		if fe != nil {
			detail.Code = fe.Code
		}
		c.JSON(status, models.ErrorResponse{Error: detail})
		return
	}
	c.JSON(http.StatusOK, models.SearchResponse{Results: results})
}

// ListRateSeries handles GET /api/v1/rates/series
func (h *TickerHandler) ListRateSeries(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"series": data.KnownRateSeries()})
}
