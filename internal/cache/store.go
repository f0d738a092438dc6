// Package cache persists the last-synchronized plain-text content of each
// remote word-list document under a deterministic local path. The file mtime
// doubles as the "last synced through" marker for the sync engine, so nothing
// else should touch these files between runs.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Ext is the extension appended to every cache file.
const Ext = ".rus"

// ErrNotFound is returned by Read and Mtime when no cache entry exists for
// the document.
var ErrNotFound = errors.New("no cached copy")

// Store manages the local mirror directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the mirror directory root.
func (s *Store) Dir() string {
	return s.dir
}

// PathFor maps a remote document display name to its local cache path.
// Spaces become underscores and the cache extension is appended, so the same
// remote name always resolves to the same local file.
func (s *Store) PathFor(remoteName string) string {
	return filepath.Join(s.dir, strings.ReplaceAll(remoteName, " ", "_")+Ext)
}

// Read returns the cached content for the named document, or ErrNotFound.
func (s *Store) Read(remoteName string) (string, error) {
	data, err := os.ReadFile(s.PathFor(remoteName))
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read cache file: %w", err)
	}
	return string(data), nil
}

// Mtime returns the modification time of the cached copy in UTC, or
// ErrNotFound if no entry exists.
func (s *Store) Mtime(remoteName string) (time.Time, error) {
	info, err := os.Stat(s.PathFor(remoteName))
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to stat cache file: %w", err)
	}
	if info.IsDir() {
		return time.Time{}, ErrNotFound
	}
	return info.ModTime().UTC(), nil
}

// Write replaces the cached content for the named document. The content is
// written to a temporary file in the same directory and renamed into place,
// so a concurrent reader never observes a half-written file.
func (s *Store) Write(remoteName, content string) error {
	path := s.PathFor(remoteName)

	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close cache file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	return nil
}
