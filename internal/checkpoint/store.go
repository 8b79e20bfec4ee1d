package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nepcorpus/nepcrawl/internal/model"
)

// Store reads and writes the crawl checkpoint at a fixed path.
//
// Design decision: the checkpoint is a single slot, not a history.
// Every save replaces the previous snapshot, and the replacement is
// atomic (temp file, fsync, rename) so that a crash or kill during a
// save leaves either the old snapshot or the new one on disk, never a
// truncated file.
type Store struct {
	path string
}

// NewStore returns a store for the checkpoint file at path. The file
// and its parent directory are created on the first Save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the checkpoint file location.
func (s *Store) Path() string {
	return s.path
}

// Save atomically replaces the checkpoint with snap.
func (s *Store) Save(snap *model.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("create checkpoint directory: %w", err)
	}

	// The temp file lives in the target directory so the final rename
	// stays on one filesystem.
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temporary checkpoint: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write checkpoint: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temporary checkpoint: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace checkpoint: %w", err)
	}
	return nil
}

// Load reads and validates the checkpoint. A missing file is not an
// error: Load returns (nil, nil) and the caller starts a fresh crawl.
// An unreadable, malformed, or inconsistent file is reported as an
// error so the caller can decide whether to fall back or abort.
func (s *Store) Load() (*model.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}

	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse checkpoint %s: %w", s.path, err)
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("checkpoint %s: %w", s.path, err)
	}
	return &snap, nil
}
