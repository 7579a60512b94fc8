package api

import (
	"errors"
	"net/http"
	"strings"

	"bitwise74/media-api/internal/fetcher"
	"bitwise74/media-api/internal/model"
	"bitwise74/media-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type downloadRequest struct {
	URL            string `json:"url" binding:"required"`
	Mode           string `json:"mode"`
	AutoCleanHours int    `json:"auto_clean_hours"`
}

// DownloadCreate fetches a URL through the extraction backend and returns
// the new history record. The file itself is served separately so the
// browser can pick it up from the record id.
func (a *API) DownloadCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var req downloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Missing or invalid request body",
			"requestID": requestID,
		})
		return
	}

	mode := model.ModeVideo
	if req.Mode != "" {
		mode = model.Mode(strings.ToLower(req.Mode))
	}

	if !mode.Valid() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Mode must be video or audio",
			"requestID": requestID,
		})
		return
	}

	if req.AutoCleanHours < 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Auto clean hours can't be negative",
			"requestID": requestID,
		})
		return
	}

	rec, err := a.Downloader.Submit(c.Request.Context(), req.URL, mode, req.AutoCleanHours)
	if err != nil {
		a.downloadError(c, requestID, err)
		return
	}

	c.JSON(http.StatusCreated, rec)
}

// downloadError translates the orchestrator's error kinds into responses
func (a *API) downloadError(c *gin.Context, requestID string, err error) {
	switch {
	case errors.Is(err, service.ErrHostNotAllowed):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "Host not allowed",
			"requestID": requestID,
		})
	case errors.Is(err, fetcher.ErrTooLarge):
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":     "File too large",
			"requestID": requestID,
		})
	default:
		var fe *fetcher.Error
		if errors.As(err, &fe) {
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
				"error":     "Download failed",
				"requestID": requestID,
			})

			zap.L().Warn("Fetch failed", zap.String("url", fe.URL), zap.Error(err))
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to process download", zap.Error(err))
	}
}
