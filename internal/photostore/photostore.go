// Package photostore keeps uploaded photos on the local filesystem and
// hands back durable paths. Entities store only the path string.
package photostore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store writes photos under a base directory.
type Store struct {
	dir string
}

// New creates the base directory when missing.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create photo dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// Save writes the image bytes under a fresh name derived from the original
// filename's extension and returns the durable path.
func (s *Store) Save(data []byte, originalName string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty image")
	}
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExt[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}
	path := filepath.Join(s.dir, uuid.NewString()+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}
	return path, nil
}

// Delete removes a stored photo. A missing file is not an error.
func (s *Store) Delete(path string) error {
	if path == "" {
		return nil
	}
	// Refuse paths outside the photo dir.
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	base, err := filepath.Abs(s.dir)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(abs, base+string(os.PathSeparator)) {
		return errors.New("path outside photo dir")
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Exists reports whether a stored photo is still on disk.
func (s *Store) Exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
