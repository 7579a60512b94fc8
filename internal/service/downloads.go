// Package service holds the download orchestration and background jobs
package service

import (
	"context"
	"errors"
	"fmt"

	"bitwise74/media-api/internal/fetcher"
	"bitwise74/media-api/internal/model"
	"bitwise74/media-api/internal/store"
	"bitwise74/media-api/validators"

	"go.uber.org/zap"
)

// ErrHostNotAllowed is returned for URLs whose host isn't on the allow-list.
// Rejected submissions leave no trace in the history.
var ErrHostNotAllowed = errors.New("host is not allowed")

// Downloader coordinates the extraction backend and the record store for a
// single request. Every fetch attempt ends up as exactly one history row,
// successful or not.
type Downloader struct {
	Store   *store.Downloads
	Fetcher fetcher.Fetcher
}

// NewDownloader wires a Downloader from its two collaborators
func NewDownloader(s *store.Downloads, f fetcher.Fetcher) *Downloader {
	return &Downloader{Store: s, Fetcher: f}
}

// Submit validates the URL, fetches it and records the outcome. On success
// the returned record is ready and points at the downloaded file.
func (d *Downloader) Submit(ctx context.Context, url string, mode model.Mode, autoCleanHours int) (*model.Download, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("invalid mode %q", mode)
	}

	if autoCleanHours < 0 {
		autoCleanHours = 0
	}

	if !validators.AllowedHost(url) {
		return nil, ErrHostNotAllowed
	}

	return d.fetch(ctx, url, mode, autoCleanHours)
}

// Redownload fetches fresh bytes for the URL stored under id and appends a
// brand-new record. The source record is read for its url and mode only, so
// a concurrently expiring file doesn't affect the result. The new record
// starts without an expiry.
func (d *Downloader) Redownload(ctx context.Context, id uint) (*model.Download, error) {
	src, err := d.Store.Get(id)
	if err != nil {
		return nil, err
	}

	return d.fetch(ctx, src.URL, src.Mode, 0)
}

// List returns the download history, most recent first
func (d *Downloader) List(limit int) ([]model.Download, error) {
	return d.Store.List(limit)
}

// Get returns a single record by id
func (d *Downloader) Get(id uint) (*model.Download, error) {
	return d.Store.Get(id)
}

func (d *Downloader) fetch(ctx context.Context, url string, mode model.Mode, autoCleanHours int) (*model.Download, error) {
	res, err := d.Fetcher.Fetch(ctx, url, mode)
	if err != nil {
		rec := &model.Download{
			URL:            url,
			Mode:           mode,
			Status:         model.StatusError,
			Error:          err.Error(),
			AutoCleanHours: autoCleanHours,
		}

		if ierr := d.Store.Insert(rec); ierr != nil {
			zap.L().Error("Failed to record failed download", zap.String("url", url), zap.Error(ierr))
		}

		return nil, err
	}

	rec := &model.Download{
		URL:            url,
		Filename:       res.Filename,
		Filepath:       res.Filepath,
		Mode:           mode,
		Status:         model.StatusReady,
		AutoCleanHours: autoCleanHours,
	}

	if err := d.Store.Insert(rec); err != nil {
		return nil, err
	}

	return rec, nil
}
