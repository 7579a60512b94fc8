package store_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"bitwise74/media-api/internal/model"
	"bitwise74/media-api/internal/store"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestStore(t *testing.T) *store.Downloads {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(model.Download{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return store.NewDownloads(db)
}

func TestDownloads_Insert(t *testing.T) {
	s := setupTestStore(t)

	d := &model.Download{
		URL:      "https://youtu.be/abc123",
		Filename: "clip.mp4",
		Filepath: "/tmp/clip.mp4",
		Mode:     model.ModeVideo,
		Status:   model.StatusReady,
	}

	if err := s.Insert(d); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if d.ID == 0 {
		t.Error("Insert() did not assign an id")
	}
	if d.ExpiresAt != nil {
		t.Error("record without auto clean hours should never expire")
	}
	if d.CreatedAt.IsZero() {
		t.Error("Insert() did not set created_at")
	}
}

func TestDownloads_InsertExpiry(t *testing.T) {
	s := setupTestStore(t)

	d := &model.Download{
		URL:            "https://youtu.be/abc123",
		Mode:           model.ModeVideo,
		Status:         model.StatusReady,
		AutoCleanHours: 2,
	}

	if err := s.Insert(d); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if d.ExpiresAt == nil {
		t.Fatal("record with auto clean hours should have an expiry")
	}

	want := d.CreatedAt.Add(2 * time.Hour)
	if !d.ExpiresAt.Equal(want) {
		t.Errorf("expires_at = %v, want %v", d.ExpiresAt, want)
	}
}

func TestDownloads_Get(t *testing.T) {
	s := setupTestStore(t)

	d := &model.Download{URL: "https://vimeo.com/1", Mode: model.ModeAudio, Status: model.StatusReady}
	if err := s.Insert(d); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, err := s.Get(d.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.URL != d.URL || got.Mode != model.ModeAudio {
		t.Errorf("Get() returned wrong record: %+v", got)
	}

	if _, err := s.Get(9999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestDownloads_List(t *testing.T) {
	s := setupTestStore(t)

	for i := 0; i < 5; i++ {
		d := &model.Download{URL: "https://youtu.be/v", Mode: model.ModeVideo, Status: model.StatusReady}
		if err := s.Insert(d); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	got, err := s.List(3)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("List(3) returned %d records", len(got))
	}

	// Most recent first
	for i := 1; i < len(got); i++ {
		if got[i].ID > got[i-1].ID {
			t.Errorf("List() not ordered newest first: %d before %d", got[i-1].ID, got[i].ID)
		}
	}
}

func TestDownloads_UpdateStatus(t *testing.T) {
	s := setupTestStore(t)

	d := &model.Download{URL: "https://youtu.be/v", Mode: model.ModeVideo, Status: model.StatusReady}
	if err := s.Insert(d); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if err := s.UpdateStatus(d.ID, model.StatusDeleted, ""); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	got, _ := s.Get(d.ID)
	if got.Status != model.StatusDeleted {
		t.Fatalf("status = %s, want deleted", got.Status)
	}

	// Repeating the same transition must be a silent no-op
	if err := s.UpdateStatus(d.ID, model.StatusDeleted, ""); err != nil {
		t.Errorf("repeated UpdateStatus() error = %v", err)
	}

	// Deleted is terminal
	if err := s.UpdateStatus(d.ID, model.StatusReady, ""); err != nil {
		t.Errorf("UpdateStatus() out of deleted error = %v", err)
	}

	got, _ = s.Get(d.ID)
	if got.Status != model.StatusDeleted {
		t.Errorf("deleted record changed status to %s", got.Status)
	}

	if err := s.UpdateStatus(9999, model.StatusDeleted, ""); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdateStatus(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestDownloads_FindExpired(t *testing.T) {
	s := setupTestStore(t)

	past := time.Now().UTC().Add(-2 * time.Hour)

	expired := &model.Download{URL: "https://youtu.be/a", Mode: model.ModeVideo, Status: model.StatusReady, AutoCleanHours: 1, CreatedAt: past}
	fresh := &model.Download{URL: "https://youtu.be/b", Mode: model.ModeVideo, Status: model.StatusReady, AutoCleanHours: 48, CreatedAt: past}
	forever := &model.Download{URL: "https://youtu.be/c", Mode: model.ModeVideo, Status: model.StatusReady, CreatedAt: past}
	failed := &model.Download{URL: "https://youtu.be/d", Mode: model.ModeVideo, Status: model.StatusError, Error: "boom", AutoCleanHours: 1, CreatedAt: past}

	for _, d := range []*model.Download{expired, fresh, forever, failed} {
		if err := s.Insert(d); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	gone := &model.Download{URL: "https://youtu.be/e", Mode: model.ModeVideo, Status: model.StatusReady, AutoCleanHours: 1, CreatedAt: past}
	if err := s.Insert(gone); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := s.UpdateStatus(gone.ID, model.StatusDeleted, ""); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	got, err := s.FindExpired(time.Now().UTC())
	if err != nil {
		t.Fatalf("FindExpired() error = %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("FindExpired() returned %d records, want 1", len(got))
	}
	if got[0].ID != expired.ID {
		t.Errorf("FindExpired() returned record %d, want %d", got[0].ID, expired.ID)
	}
}
