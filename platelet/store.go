/*
store.go - Persistence interface for the inventory collection

PURPOSE:
  Defines the boundary between the engine and wherever the collection lives.
  The collection exists only for the process lifetime: the in-memory store
  or SQLite opened at ":memory:" by default.

ORDERING CONTRACT:
  List() returns units newest first. Prepend() puts a unit at the head.
  Replace() swaps the whole collection, keeping the given order.

NO UPDATE, NO DELETE:
  Units are never modified once stored. Only a scenario load (Replace)
  discards them, and it does so as a whole.

IMPLEMENTATIONS:
  - platelet/store/memory.go: In-memory slice
  - store/sqlite/sqlite.go: SQLite

SEE ALSO:
  - inventory.go: Service layer using Store
*/
package platelet

import "context"

// Store holds the inventory collection.
type Store interface {
	// List returns a copy of the collection, newest first.
	List(ctx context.Context) ([]InventoryUnit, error)

	// Get returns the unit with the given id, or nil if absent.
	Get(ctx context.Context, id string) (*InventoryUnit, error)

	// Prepend adds a unit at the head. Returns ErrDuplicateID if the id exists.
	Prepend(ctx context.Context, unit InventoryUnit) error

	// Replace atomically swaps the collection for units, order preserved.
	Replace(ctx context.Context, units []InventoryUnit) error
}
