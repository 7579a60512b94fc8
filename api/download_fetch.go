package api

import (
	"errors"
	"net/http"
	"strconv"

	"bitwise74/media-api/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// recordID parses the :id path param, replying with a 400 on garbage input
func recordID(c *gin.Context, requestID string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "ID is not a valid integer",
			"requestID": requestID,
		})
		return 0, false
	}

	return uint(id), true
}

// DownloadFetch returns a single history record
func (a *API) DownloadFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	id, ok := recordID(c, requestID)
	if !ok {
		return
	}

	rec, err := a.Downloader.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Record not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch download record", zap.Uint("id", id), zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, rec)
}
