package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// DownloadList returns the download history, most recent first
func (a *API) DownloadList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	limitStr := c.DefaultQuery("limit", "50")
	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Limit is not a valid integer",
			"requestID": requestID,
		})
		return
	}

	if limit <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Limit must be bigger than 0",
			"requestID": requestID,
		})
		return
	}

	if max := viper.GetInt("downloads.max_history"); limit > max {
		limit = max
	}

	recs, err := a.Downloader.List(limit)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list downloads", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, recs)
}
