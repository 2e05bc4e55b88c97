// Package staging manages the local directory multipart uploads are written
// to before they are handed to the object store.
package staging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vidtube/internal/ids"
)

type Area struct {
	dir string
	now func() time.Time
}

func NewArea(dir string) (*Area, error) {
	if dir == "" {
		return nil, errors.New("staging dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	return &Area{dir: dir, now: time.Now}, nil
}

func (a *Area) Dir() string {
	return a.dir
}

// Path returns a fresh file path inside the area for an uploaded file name.
// Only the extension of the client-supplied name is kept.
func (a *Area) Path(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) > 8 || strings.ContainsAny(ext, `/\`) {
		ext = ""
	}
	return filepath.Join(a.dir, ids.New()+ext)
}

// Remove deletes a staged file. A file that is already gone is not an error.
func (a *Area) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Sweep removes regular files whose modification time is older than
// olderThan and reports how many were removed.
func (a *Area) Sweep(olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return 0, fmt.Errorf("read staging dir: %w", err)
	}

	cutoff := a.now().Add(-olderThan)
	removed := 0
	var errs []error
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, err)
			}
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := a.Remove(filepath.Join(a.dir, entry.Name())); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
