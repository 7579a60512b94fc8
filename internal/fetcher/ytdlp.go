package fetcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bitwise74/media-api/internal/model"

	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"
)

const retryBackoff = 2 * time.Second

// YTDLP fetches media through the yt-dlp wrapper. Transient backend failures
// are retried a fixed number of times before giving up, the size policy is
// only applied once the file is fully on disk.
type YTDLP struct {
	OutputDir   string
	MaxFileSize int64 // bytes, 0 disables the check
	Attempts    int

	// Swapped out in tests
	run func(ctx context.Context, url string, mode model.Mode) (rawPath, title string, err error)
}

// NewYTDLP creates a fetcher writing into outputDir
func NewYTDLP(outputDir string, maxFileSize int64, attempts int) *YTDLP {
	if attempts < 1 {
		attempts = 1
	}

	y := &YTDLP{
		OutputDir:   outputDir,
		MaxFileSize: maxFileSize,
		Attempts:    attempts,
	}
	y.run = y.runYTDLP

	return y
}

// Fetch downloads url into the output directory and returns the final file
// location. The destination name is derived from the media title and
// sanitized, an existing file with the same name gets overwritten.
func (y *YTDLP) Fetch(ctx context.Context, url string, mode model.Mode) (*Result, error) {
	if err := os.MkdirAll(y.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory, %w", err)
	}

	var lastErr error

	for attempt := 0; attempt < y.Attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(retryBackoff):
			case <-ctx.Done():
				return nil, &Error{URL: url, Cause: ctx.Err()}
			}

			zap.L().Debug("Retrying download",
				zap.String("url", url),
				zap.Int("attempt", attempt+1))
		}

		rawPath, title, err := y.run(ctx, url, mode)
		if err == nil {
			return y.finalize(url, rawPath, title, mode)
		}

		lastErr = err
		zap.L().Warn("Download attempt failed",
			zap.String("url", url),
			zap.Int("attempt", attempt+1),
			zap.Error(err))

		if ctx.Err() != nil {
			break
		}
	}

	return nil, &Error{URL: url, Cause: lastErr}
}

func (y *YTDLP) runYTDLP(ctx context.Context, url string, mode model.Mode) (string, string, error) {
	dl := ytdlp.New().
		ForceOverwrites().
		NoPlaylist().
		Output(filepath.Join(y.OutputDir, "%(title)s.%(ext)s"))

	if mode == model.ModeAudio {
		dl = dl.Format("bestaudio")
	} else {
		dl = dl.Format("best")
	}

	res, err := dl.Run(ctx, url)
	if err != nil {
		return "", "", err
	}

	info, err := res.GetExtractedInfo()
	if err != nil {
		return "", "", fmt.Errorf("failed to read download metadata, %w", err)
	}

	if len(info) == 0 || info[0].Filename == nil || *info[0].Filename == "" {
		return "", "", errors.New("backend did not report an output file")
	}

	var title string
	if info[0].Title != nil {
		title = *info[0].Title
	}

	return *info[0].Filename, title, nil
}

// finalize renames the raw download to its sanitized title-based name and
// enforces the size limit
func (y *YTDLP) finalize(url, rawPath, title string, mode model.Mode) (*Result, error) {
	ext := strings.TrimPrefix(filepath.Ext(rawPath), ".")
	if ext == "" {
		if mode == model.ModeAudio {
			ext = "mp3"
		} else {
			ext = "mp4"
		}
	}

	if title == "" {
		title = strings.TrimSuffix(filepath.Base(rawPath), filepath.Ext(rawPath))
	}

	safeName := sanitizeFilename(title + "." + ext)
	finalPath := filepath.Join(y.OutputDir, safeName)

	if finalPath != rawPath {
		if err := os.Rename(rawPath, finalPath); err != nil {
			// Keep serving the raw path rather than failing a finished download
			zap.L().Warn("Failed to rename download", zap.String("path", rawPath), zap.Error(err))
			finalPath = rawPath
			safeName = filepath.Base(rawPath)
		}
	}

	stat, err := os.Stat(finalPath)
	if err != nil {
		return nil, &Error{URL: url, Cause: fmt.Errorf("failed to stat downloaded file, %w", err)}
	}

	if y.MaxFileSize > 0 && stat.Size() > y.MaxFileSize {
		if err := os.Remove(finalPath); err != nil && !os.IsNotExist(err) {
			zap.L().Error("Failed to remove oversized file", zap.String("path", finalPath), zap.Error(err))
		}

		return nil, fmt.Errorf("%w: %d bytes over a %d byte limit", ErrTooLarge, stat.Size(), y.MaxFileSize)
	}

	abs, err := filepath.Abs(finalPath)
	if err == nil {
		finalPath = abs
	}

	return &Result{
		Filepath: finalPath,
		Filename: safeName,
		Title:    title,
		Mode:     mode,
	}, nil
}
