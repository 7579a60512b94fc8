package api

import (
	"errors"
	"net/http"

	"bitwise74/media-api/internal/store"

	"github.com/gin-gonic/gin"
)

// DownloadRedownload fetches fresh bytes for an old record's URL and returns
// the brand-new record that was logged for it
func (a *API) DownloadRedownload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	id, ok := recordID(c, requestID)
	if !ok {
		return
	}

	rec, err := a.Downloader.Redownload(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Record not found",
				"requestID": requestID,
			})
			return
		}

		a.downloadError(c, requestID, err)
		return
	}

	c.JSON(http.StatusCreated, rec)
}
