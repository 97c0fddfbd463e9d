/*
inventory_test.go - Tests for the store-backed inventory service

Tests for:
- Reads re-derive from the store on every call
- AddBatch prepends and retries id collisions, including ones raised by the store
- Load rejects malformed units and keeps the previous collection
- Get maps a missing unit to ErrUnitNotFound
*/
package platelet_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/platelink/network-engine/platelet"
	"github.com/platelink/network-engine/platelet/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInventory(t *testing.T) (*platelet.Inventory, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	require.NoError(t, mem.Replace(context.Background(), seedUnits()))
	return platelet.NewInventory(mem, cityGeneral, nil), mem
}

func TestInventory_QueryUsesHomeFacility(t *testing.T) {
	inv, _ := newTestInventory(t)
	today := platelet.NewDate(2025, time.November, 6)

	got, err := inv.Query(context.Background(), "", platelet.FilterMyLocation, today)

	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, ids(got))
}

func TestInventory_AddBatchIsVisibleToNextRead(t *testing.T) {
	// GIVEN: An inventory with two units
	inv, _ := newTestInventory(t)
	ctx := context.Background()
	today := platelet.NewDate(2025, time.November, 6)

	before, err := inv.Summary(ctx, today)
	require.NoError(t, err)

	// WHEN: Adding a batch
	unit, err := inv.AddBatch(ctx, platelet.BatchInput{BloodType: "O-", Quantity: 3, Expiry: "2030-01-01"})
	require.NoError(t, err)

	// THEN: The collection starts with it and the analytics include it
	units, err := inv.Units(ctx)
	require.NoError(t, err)
	require.Len(t, units, 3)
	assert.Equal(t, unit.ID, units[0].ID)
	assert.Equal(t, "City General", units[0].Hospital)

	after, err := inv.Summary(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, before.TotalUnits+3, after.TotalUnits)
	assert.Equal(t, before.DistinctLocations, after.DistinctLocations)
}

func TestInventory_AddBatchRejectionLeavesStoreUnchanged(t *testing.T) {
	inv, mem := newTestInventory(t)
	ctx := context.Background()

	_, err := inv.AddBatch(ctx, platelet.BatchInput{BloodType: "A+", Quantity: 0, Expiry: "2030-01-01"})

	require.Error(t, err)
	assert.ErrorIs(t, err, platelet.ErrInvalidQuantity)
	units, _ := mem.List(ctx)
	assert.Equal(t, seedUnits(), units)
}

func TestInventory_AddBatchRetriesDuplicateIDs(t *testing.T) {
	inv, _ := newTestInventory(t)
	inv.NewID = fixedIDs("p1", "p2", "p9")

	unit, err := inv.AddBatch(context.Background(), platelet.BatchInput{BloodType: "B-", Quantity: 1, Expiry: "2030-01-01"})

	require.NoError(t, err)
	assert.Equal(t, "p9", unit.ID)
}

func TestInventory_AddBatchGivesUp(t *testing.T) {
	inv, _ := newTestInventory(t)
	inv.NewID = fixedIDs("p1")

	_, err := inv.AddBatch(context.Background(), platelet.BatchInput{BloodType: "B-", Quantity: 1, Expiry: "2030-01-01"})

	assert.True(t, platelet.IsConflict(err))
}

// racingStore lets another writer take the id of the first unit prepended
// through it, as a concurrent request would.
type racingStore struct {
	*store.Memory
	raced bool
}

func (r *racingStore) Prepend(ctx context.Context, unit platelet.InventoryUnit) error {
	if !r.raced {
		r.raced = true
		other := unit
		other.Quantity = 1
		if err := r.Memory.Prepend(ctx, other); err != nil {
			return err
		}
	}
	return r.Memory.Prepend(ctx, unit)
}

func TestInventory_AddBatchRetriesStoreConflict(t *testing.T) {
	// GIVEN: A store where a concurrent add takes the first chosen id
	mem := store.NewMemory()
	require.NoError(t, mem.Replace(context.Background(), seedUnits()))
	inv := platelet.NewInventory(&racingStore{Memory: mem}, cityGeneral, nil)
	inv.NewID = fixedIDs("p-a", "p-b")

	// WHEN: Adding a batch
	unit, err := inv.AddBatch(context.Background(), platelet.BatchInput{BloodType: "AB+", Quantity: 2, Expiry: "2030-01-01"})

	// THEN: The next free id is chosen from a fresh read
	require.NoError(t, err)
	assert.Equal(t, "p-b", unit.ID)
	units, _ := mem.List(context.Background())
	require.Len(t, units, 4)
	assert.Equal(t, "p-b", units[0].ID)
	assert.Equal(t, "p-a", units[1].ID)
}

func TestInventory_Get(t *testing.T) {
	inv, _ := newTestInventory(t)
	today := platelet.NewDate(2025, time.November, 6)

	unit, err := inv.Get(context.Background(), "p2", today)
	require.NoError(t, err)
	assert.Equal(t, 3, unit.DaysToExpiry)
	assert.Equal(t, platelet.StatusWarning, unit.Status())

	_, err = inv.Get(context.Background(), "nope", today)
	assert.True(t, platelet.IsNotFound(err))
}

func TestInventory_LoadReplacesCollection(t *testing.T) {
	inv, _ := newTestInventory(t)
	ctx := context.Background()

	require.NoError(t, inv.Load(ctx, []platelet.InventoryUnit{}))

	units, err := inv.Units(ctx)
	require.NoError(t, err)
	assert.Empty(t, units)
}

func TestInventory_LoadRejectsMalformedUnits(t *testing.T) {
	tests := []struct {
		name     string
		unit     platelet.InventoryUnit
		sentinel error
	}{
		{"zero quantity", platelet.InventoryUnit{ID: "x", Hospital: "City General", BloodType: platelet.BloodAPos, Quantity: 0, Expiry: platelet.NewDate(2030, time.January, 1)}, platelet.ErrInvalidQuantity},
		{"unknown blood type", platelet.InventoryUnit{ID: "x", Hospital: "City General", BloodType: "ZZ", Quantity: 1, Expiry: platelet.NewDate(2030, time.January, 1)}, platelet.ErrInvalidBloodType},
		{"no expiry", platelet.InventoryUnit{ID: "x", Hospital: "City General", BloodType: platelet.BloodAPos, Quantity: 1}, platelet.ErrInvalidExpiry},
		{"no id", platelet.InventoryUnit{Hospital: "City General", BloodType: platelet.BloodAPos, Quantity: 1, Expiry: platelet.NewDate(2030, time.January, 1)}, platelet.ErrMissingUnitID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN: An inventory with two valid units
			inv, _ := newTestInventory(t)
			ctx := context.Background()
			today := platelet.NewDate(2025, time.November, 6)

			// WHEN: Loading a collection with one malformed unit
			err := inv.Load(ctx, []platelet.InventoryUnit{tt.unit})

			// THEN: The load is rejected and the collection is unchanged
			var vErr *platelet.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.True(t, platelet.IsClientError(err))

			s, err := inv.Summary(ctx, today)
			require.NoError(t, err)
			assert.Equal(t, 15, s.TotalUnits)
			assert.Equal(t, 2, s.DistinctLocations)
		})
	}
}

type failingStore struct{ platelet.Store }

var errStoreDown = errors.New("store down")

func (failingStore) List(context.Context) ([]platelet.InventoryUnit, error) {
	return nil, errStoreDown
}

func TestInventory_StoreErrorsPropagate(t *testing.T) {
	inv := platelet.NewInventory(failingStore{}, cityGeneral, nil)

	_, err := inv.Query(context.Background(), "", platelet.FilterAll, platelet.Today())
	assert.ErrorIs(t, err, errStoreDown)
	assert.False(t, platelet.IsClientError(err))
}
