package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// Store persists cache entries as msgpack files under a base directory, one
// file per artifact kind.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(kind string) string {
	return filepath.Join(s.dir, kind+".cache")
}

// Load reads the entry for a kind. A missing file returns (nil, nil): absence
// is a normal cache miss, not an error.
func (s *Store) Load(kind string) (*Entry, error) {
	data, err := os.ReadFile(s.path(kind))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache %s: %w", kind, err)
	}

	var entry Entry
	if err := msgpack.Unmarshal(data, &entry); err != nil {
		// A corrupt cache file is equivalent to a miss; the caller rebuilds.
		return nil, nil
	}
	return &entry, nil
}

// Save writes the entry atomically: temp file then rename, so a concurrent
// reader never observes a partial artifact.
func (s *Store) Save(entry *Entry) error {
	data, err := msgpack.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cache %s: %w", entry.Kind, err)
	}

	tmp := s.path(entry.Kind) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache %s: %w", entry.Kind, err)
	}
	if err := os.Rename(tmp, s.path(entry.Kind)); err != nil {
		return fmt.Errorf("failed to swap cache %s: %w", entry.Kind, err)
	}
	return nil
}

// Clear removes the entry for a kind, forcing a rebuild on next access.
func (s *Store) Clear(kind string) error {
	if err := os.Remove(s.path(kind)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache %s: %w", kind, err)
	}
	return nil
}
