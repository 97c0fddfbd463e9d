package platelet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// =============================================================================
// INVENTORY SERVICE - Store-backed wrapper around the pure functions
// =============================================================================

// Inventory owns the collection through a Store. Every read goes back to the
// store and re-derives the view; nothing is cached between calls.
type Inventory struct {
	Store  Store
	Home   Facility // default facility for new batches and "my_location"
	NewID  IDFunc
	Logger *slog.Logger
}

// NewInventory creates an inventory service with random unit ids.
func NewInventory(store Store, home Facility, logger *slog.Logger) *Inventory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Inventory{Store: store, Home: home, NewID: NewUnitID, Logger: logger}
}

// Units returns the raw collection, newest first.
func (inv *Inventory) Units(ctx context.Context) ([]InventoryUnit, error) {
	units, err := inv.Store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return units, nil
}

// Query returns the annotated, filtered, sorted view.
func (inv *Inventory) Query(ctx context.Context, search string, filter FilterMode, today time.Time) ([]AnnotatedUnit, error) {
	units, err := inv.Units(ctx)
	if err != nil {
		return nil, err
	}
	return Query(units, QueryParams{Search: search, Filter: filter, HomeFacility: inv.Home.Name}, today), nil
}

// Summary returns the aggregate counts as of today.
func (inv *Inventory) Summary(ctx context.Context, today time.Time) (Summary, error) {
	units, err := inv.Units(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(units, today), nil
}

// Get returns one annotated unit or ErrUnitNotFound.
func (inv *Inventory) Get(ctx context.Context, id string, today time.Time) (AnnotatedUnit, error) {
	unit, err := inv.Store.Get(ctx, id)
	if err != nil {
		return AnnotatedUnit{}, fmt.Errorf("get unit %s: %w", id, err)
	}
	if unit == nil {
		return AnnotatedUnit{}, fmt.Errorf("unit %s: %w", id, ErrUnitNotFound)
	}
	return Annotate(*unit, today), nil
}

// AddBatch runs the pure AddBatch over a fresh read of the collection and
// stores the created unit. A validation failure leaves the store untouched.
// If a concurrent add takes the chosen id first, the store reports
// ErrDuplicateID and the whole step is retried.
func (inv *Inventory) AddBatch(ctx context.Context, in BatchInput) (InventoryUnit, error) {
	for i := 0; i < maxIDAttempts; i++ {
		units, err := inv.Units(ctx)
		if err != nil {
			return InventoryUnit{}, err
		}

		_, unit, err := AddBatch(units, in, inv.Home, inv.NewID)
		if err != nil {
			return InventoryUnit{}, err
		}

		err = inv.Store.Prepend(ctx, unit)
		if errors.Is(err, ErrDuplicateID) {
			inv.Logger.Debug("Unit id taken concurrently, retrying", slog.String("id", unit.ID))
			continue
		}
		if err != nil {
			return InventoryUnit{}, fmt.Errorf("store batch: %w", err)
		}

		inv.Logger.Info("Batch added",
			slog.String("id", unit.ID),
			slog.String("blood_type", unit.BloodType.String()),
			slog.Int("quantity", unit.Quantity),
			slog.String("expiry", FormatDate(unit.Expiry)))
		return unit, nil
	}
	return InventoryUnit{}, fmt.Errorf("no free id after %d attempts: %w", maxIDAttempts, ErrDuplicateID)
}

// Load replaces the whole collection, e.g. when a scenario is selected.
// Every unit is validated first; one bad unit rejects the whole load and
// the previous collection stays in place.
func (inv *Inventory) Load(ctx context.Context, units []InventoryUnit) error {
	for _, u := range units {
		if err := u.Validate(); err != nil {
			return err
		}
	}
	if err := inv.Store.Replace(ctx, units); err != nil {
		return fmt.Errorf("load inventory: %w", err)
	}
	inv.Logger.Info("Inventory loaded", slog.Int("units", len(units)))
	return nil
}
