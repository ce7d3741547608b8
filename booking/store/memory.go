// Package store provides Store implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/lodging-engine/booking"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps the latest snapshot in memory. Save replaces it wholesale,
// matching the whole-state overwrite discipline of the file stores.
type Memory struct {
	mu      sync.RWMutex
	snap    *booking.Snapshot
	saves   int
	saveErr error
}

func NewMemory() *Memory {
	return &Memory{}
}

// Load returns a copy of the last saved snapshot, or (nil, nil) when
// nothing has been saved.
func (m *Memory) Load(_ context.Context) (*booking.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snap == nil {
		return nil, nil
	}
	snap := m.snap.Clone()
	return &snap, nil
}

// Save replaces the stored snapshot.
func (m *Memory) Save(_ context.Context, snap booking.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	clone := snap.Clone()
	m.snap = &clone
	m.saves++
	return nil
}

// Saves returns how many times Save succeeded. Tests use it to assert
// sweep idempotence (a no-op sweep must not persist).
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// FailSaves makes every subsequent Save return err (nil restores normal
// behavior). Tests use it to exercise the reported-outcome path.
func (m *Memory) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Seed sets the snapshot a subsequent Load returns, without counting as
// a save.
func (m *Memory) Seed(snap booking.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := snap.Clone()
	m.snap = &clone
}
