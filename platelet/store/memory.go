// Package store provides Store implementations.
package store

import (
	"context"
	"sync"

	"github.com/platelink/network-engine/platelet"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu    sync.RWMutex
	units []platelet.InventoryUnit // newest first
	ids   map[string]bool
}

func NewMemory() *Memory {
	return &Memory{ids: make(map[string]bool)}
}

var _ platelet.Store = (*Memory)(nil)

func (m *Memory) List(_ context.Context) ([]platelet.InventoryUnit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]platelet.InventoryUnit, len(m.units))
	copy(result, m.units)
	return result, nil
}

func (m *Memory) Get(_ context.Context, id string) (*platelet.InventoryUnit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.units {
		if u.ID == id {
			unit := u
			return &unit, nil
		}
	}
	return nil, nil
}

// Prepend adds a unit at the head of the collection.
func (m *Memory) Prepend(_ context.Context, unit platelet.InventoryUnit) error {
	if err := unit.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ids[unit.ID] {
		return platelet.ErrDuplicateID
	}

	// Shift right by one: O(n) copy, no reallocation when capacity allows
	m.units = append(m.units, platelet.InventoryUnit{})
	copy(m.units[1:], m.units[:len(m.units)-1])
	m.units[0] = unit
	m.ids[unit.ID] = true
	return nil
}

// Replace swaps the collection. Invalid units or duplicate ids are rejected
// and the previous collection is kept.
func (m *Memory) Replace(_ context.Context, units []platelet.InventoryUnit) error {
	ids := make(map[string]bool, len(units))
	for _, u := range units {
		if err := u.Validate(); err != nil {
			return err
		}
		if ids[u.ID] {
			return platelet.ErrDuplicateID
		}
		ids[u.ID] = true
	}

	next := make([]platelet.InventoryUnit, len(units))
	copy(next, units)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.units = next
	m.ids = ids
	return nil
}
