package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-sim/internal/api/models"
	"portfolio-sim/internal/data"
)

// CacheHandler exposes the cache maintenance endpoints.
type CacheHandler struct {
	caches []*data.Cache
	disk   *data.DiskCache
}

func NewCacheHandler(disk *data.DiskCache, caches ...*data.Cache) *CacheHandler {
	return &CacheHandler{caches: caches, disk: disk}
}

// ClearCaches handles POST /api/v1/cache/clear: drops every in-memory cache.
func (h *CacheHandler) ClearCaches(c *gin.Context) {
	for _, cache := range h.caches {
		cache.Clear()
	}
	c.JSON(http.StatusOK, gin.H{"message": "Caches cleared successfully."})
}

// PurgeDisk handles POST /api/v1/cache/purge-disk: deletes the on-disk data
// cache folder entirely. Subsequent simulations refetch from the upstream
// APIs.
func (h *CacheHandler) PurgeDisk(c *gin.Context) {
	if err := h.disk.Purge(); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "CACHE_PURGE_ERROR",
				Message: err.Error(),
			},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Data cache deleted successfully."})
}
