// Package fetcher wraps the external extraction backend that turns a media
// URL into a local file
package fetcher

import (
	"context"
	"errors"
	"fmt"

	"bitwise74/media-api/internal/model"
)

// ErrTooLarge is returned when a fetched file exceeds the configured size
// limit. The oversized file is already gone by the time the caller sees this.
var ErrTooLarge = errors.New("downloaded file exceeds the size limit")

// Error wraps any failure coming out of the extraction backend. Callers
// don't get to tell network errors from unsupported URLs apart, they all
// look the same from here.
type Error struct {
	URL   string
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("download failed for %s: %v", e.URL, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Result describes a successfully fetched file
type Result struct {
	Filepath string
	Filename string
	Title    string
	Mode     model.Mode
}

// Fetcher downloads a URL into a local file
type Fetcher interface {
	Fetch(ctx context.Context, url string, mode model.Mode) (*Result, error)
}
