package service

import (
	"os"
	"time"

	"bitwise74/media-api/internal/model"
	"bitwise74/media-api/internal/store"

	"go.uber.org/zap"
)

// ExpiryCleanup periodically deletes the files of expired downloads and
// flips their records to deleted. Rows themselves are never removed. Any
// failure inside a cycle is logged and retried on the next tick, the loop
// itself only stops when Stop is called.
type ExpiryCleanup struct {
	store    *store.Downloads
	interval time.Duration

	// Swapped out in tests
	remove func(string) error

	ticker *time.Ticker
	done   chan struct{}
}

// NewExpiryCleanup creates a cleanup task over s ticking every interval
func NewExpiryCleanup(s *store.Downloads, interval time.Duration) *ExpiryCleanup {
	return &ExpiryCleanup{
		store:    s,
		interval: interval,
		remove:   os.Remove,
		done:     make(chan struct{}),
	}
}

// Start attaches the background loop
func (c *ExpiryCleanup) Start() {
	c.ticker = time.NewTicker(c.interval)

	zap.L().Debug("Expiry cleanup attached", zap.Duration("tick_every", c.interval))

	go func() {
		for {
			select {
			case <-c.done:
				return
			case <-c.ticker.C:
				c.runCycle(time.Now().UTC())
			}
		}
	}()
}

// Stop ends the loop. In-flight cycles run to completion.
func (c *ExpiryCleanup) Stop() {
	if c.ticker != nil {
		c.ticker.Stop()
	}

	close(c.done)
}

func (c *ExpiryCleanup) runCycle(now time.Time) {
	expired, err := c.store.FindExpired(now)
	if err != nil {
		zap.L().Error("Failed to query db for expired downloads", zap.Error(err))
		return
	}

	for _, rec := range expired {
		// The file may already be gone from an earlier cycle or an external
		// delete, that still counts as cleaned up
		if err := c.remove(rec.Filepath); err != nil && !os.IsNotExist(err) {
			zap.L().Error("Failed to remove expired file",
				zap.Uint("id", rec.ID),
				zap.String("path", rec.Filepath),
				zap.Error(err))
			continue
		}

		if err := c.store.UpdateStatus(rec.ID, model.StatusDeleted, ""); err != nil {
			zap.L().Error("Failed to mark download as deleted", zap.Uint("id", rec.ID), zap.Error(err))
			continue
		}

		zap.L().Info("Auto-deleted expired file",
			zap.Uint("id", rec.ID),
			zap.String("path", rec.Filepath))
	}
}
