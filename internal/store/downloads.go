// Package store persists download records
package store

import (
	"errors"
	"fmt"
	"time"

	"bitwise74/media-api/internal/model"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a record id doesn't exist
var ErrNotFound = errors.New("download record not found")

// Downloads handles download record persistence
type Downloads struct {
	db *gorm.DB
}

// NewDownloads creates a new record store on top of db
func NewDownloads(db *gorm.DB) *Downloads {
	return &Downloads{db: db}
}

// Insert persists a new record and assigns its id. Existing rows are never
// touched. CreatedAt defaults to now and ExpiresAt is derived from
// AutoCleanHours, so a record expires exactly when AutoCleanHours says it
// should and never expires when it's 0.
func (s *Downloads) Insert(d *model.Download) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	if d.AutoCleanHours > 0 {
		exp := d.CreatedAt.Add(time.Duration(d.AutoCleanHours) * time.Hour)
		d.ExpiresAt = &exp
	} else {
		d.ExpiresAt = nil
	}

	err := s.db.Create(d).Error
	if err != nil {
		return fmt.Errorf("failed to insert download record, %w", err)
	}

	return nil
}

// Get returns a single record by its id
func (s *Downloads) Get(id uint) (*model.Download, error) {
	var d model.Download

	err := s.db.
		Where("id = ?", id).
		First(&d).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to fetch download record, %w", err)
	}

	return &d, nil
}

// List returns up to limit records, most recent first
func (s *Downloads) List(limit int) ([]model.Download, error) {
	var out []model.Download

	err := s.db.
		Order("id DESC").
		Limit(limit).
		Find(&out).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to list download records, %w", err)
	}

	return out, nil
}

// UpdateStatus moves a record to status. Setting the same status twice is a
// no-op, and a deleted record never changes again no matter what the caller
// asks for. errMsg is only stored alongside StatusError.
func (s *Downloads) UpdateStatus(id uint, status model.Status, errMsg string) error {
	cur, err := s.Get(id)
	if err != nil {
		return err
	}

	if cur.Status == model.StatusDeleted || cur.Status == status {
		return nil
	}

	if status != model.StatusError {
		errMsg = ""
	}

	err = s.db.
		Model(model.Download{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status": status,
			"error":  errMsg,
		}).
		Error
	if err != nil {
		return fmt.Errorf("failed to update download status, %w", err)
	}

	return nil
}

// FindExpired returns every record whose expiry has passed and whose file is
// still around. Error and already-deleted rows are never returned.
func (s *Downloads) FindExpired(now time.Time) ([]model.Download, error) {
	var out []model.Download

	err := s.db.
		Where("expires_at IS NOT NULL AND expires_at <= ? AND status = ?", now, model.StatusReady).
		Find(&out).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to query expired downloads, %w", err)
	}

	return out, nil
}
