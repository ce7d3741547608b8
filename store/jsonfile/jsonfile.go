/*
Package jsonfile persists the engine snapshot to a single JSON file.

PURPOSE:
  The simplest durable store: the whole snapshot is marshaled and written
  on every save. The write goes to a temporary file in the same directory
  which is then renamed over the target, so the previous state is replaced
  only on a fully successful write. A crash mid-save leaves the old file
  intact.

LOAD SEMANTICS:
  A missing file is not an error: Load returns (nil, nil) and the engine
  starts empty. A present-but-corrupt file returns an error; the caller
  logs it and starts empty as well.

USAGE:
  st := jsonfile.New("./hotel.json")
  repo := booking.NewRepository(ctx, st)

SEE ALSO:
  - booking/snapshot.go: Store interface and snapshot layout
  - store/sqlite: The SQLite-backed alternative
*/
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/warp/lodging-engine/booking"
)

// Store implements booking.Store on a single JSON file.
type Store struct {
	path string
}

// New creates a store writing to the given path. The file is created on
// first save.
func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the snapshot. Returns (nil, nil) when the file does not
// exist yet.
func (s *Store) Load(_ context.Context) (*booking.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	var snap booking.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}
	return &snap, nil
}

// Save writes the snapshot via temp-file + rename so the previous state
// is only replaced on success.
func (s *Store) Save(_ context.Context, snap booking.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}
