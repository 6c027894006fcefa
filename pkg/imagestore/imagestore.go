// Package imagestore persists uploaded listing images in a local directory
// so a static file server can serve them back by filename.
package imagestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store writes uploaded images into a single directory keyed by their
// client-supplied filename. Two uploads with the same name silently
// overwrite one another; readers get whatever was written last.
type Store struct {
	dir string
}

// Config holds the image store settings.
type Config struct {
	Dir string
}

// New creates the backing directory if needed and returns a Store.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory %s: %w", cfg.Dir, err)
	}
	return &Store{dir: cfg.Dir}, nil
}

// Dir returns the directory the store writes into.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the image bytes under the given filename and returns the name
// it was stored as. The name is reduced to its base component so an upload
// cannot escape the store directory.
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	name := filepath.Base(filename)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid image filename %q", filename)
	}

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create image file %s: %w", name, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("failed to write image file %s: %w", name, err)
	}
	return name, nil
}
