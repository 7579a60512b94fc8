package api

import (
	"errors"
	"net/http"

	"bitwise74/media-api/internal/model"
	"bitwise74/media-api/internal/store"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DownloadServe pushes the backing file of a ready record to the browser as
// an attachment. Records whose file already expired or whose fetch failed
// behave like they don't exist.
func (a *API) DownloadServe(c *gin.Context) {
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

	if rec.Status != model.StatusReady {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "File is no longer available",
			"requestID": requestID,
		})
		return
	}

	// The cleaner may have raced us here, a ready record whose file is gone
	// is treated the same as an expired one
	mime, err := mimetype.DetectFile(rec.Filepath)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "File is no longer available",
			"requestID": requestID,
		})

		zap.L().Warn("Backing file unreadable", zap.Uint("id", id), zap.String("path", rec.Filepath), zap.Error(err))
		return
	}

	c.Header("Content-Type", mime.String())
	c.FileAttachment(rec.Filepath, rec.Filename)
}
