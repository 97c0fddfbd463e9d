package network

import (
	"context"
	"testing"
	"time"

	"github.com/platelink/network-engine/platelet"
	"github.com/platelink/network-engine/platelet/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// SEED INVENTORIES
// =============================================================================

func TestDemoInventory_MatchesDashboardFigures(t *testing.T) {
	// GIVEN: The fixed demo network viewed on its reference date
	units := DemoInventory()
	require.Len(t, units, 6)

	// WHEN: Summarizing
	s := platelet.Summarize(units, DemoReferenceDate)

	// THEN: 47 units across 3 hospitals, 12 of them due within a day (p1 + p4)
	assert.Equal(t, 47, s.TotalUnits)
	assert.Equal(t, 12, s.ExpiringToday)
	assert.Equal(t, 3, s.DistinctLocations)
}

func TestDemoInventory_SortedView(t *testing.T) {
	view := platelet.Query(DemoInventory(), platelet.QueryParams{}, DemoReferenceDate)

	got := make([]string, len(view))
	for i, u := range view {
		got[i] = u.ID
	}
	assert.Equal(t, []string{"p4", "p1", "p6", "p2", "p5", "p3"}, got)
	assert.Equal(t, platelet.StatusCritical, view[0].Status())
	assert.Equal(t, platelet.StatusStable, view[5].Status())
}

func TestRollingInventory_IsRelativeToToday(t *testing.T) {
	today := platelet.NewDate(2026, time.March, 10)

	rolling := platelet.Summarize(RollingInventory(today), today)
	fixed := platelet.Summarize(DemoInventory(), DemoReferenceDate)

	assert.Equal(t, fixed, rolling)
}

func TestCrisisInventory_MostlyCritical(t *testing.T) {
	today := platelet.NewDate(2026, time.March, 10)

	s := platelet.Summarize(CrisisInventory(today), today)

	assert.Greater(t, s.ByStatus[platelet.StatusCritical], s.ByStatus[platelet.StatusStable])
	assert.Equal(t, 3, s.DistinctLocations)
}

func TestSeedIDsAreUnique(t *testing.T) {
	for name, units := range map[string][]platelet.InventoryUnit{
		"demo":   DemoInventory(),
		"crisis": CrisisInventory(DemoReferenceDate),
	} {
		seen := make(map[string]bool)
		for _, u := range units {
			assert.False(t, seen[u.ID], "%s: duplicate id %s", name, u.ID)
			seen[u.ID] = true
			assert.GreaterOrEqual(t, u.Quantity, 1)
			assert.True(t, u.BloodType.Valid())
		}
	}
}

func TestFacilityByName(t *testing.T) {
	f, ok := FacilityByName("St. Mary's Medical")
	require.True(t, ok)
	assert.Equal(t, StMarys, f)

	_, ok = FacilityByName("Nowhere")
	assert.False(t, ok)
}

// =============================================================================
// DASHBOARD SERIES
// =============================================================================

func TestLastWeekUsage(t *testing.T) {
	u := LastWeekUsage()

	assert.Len(t, u.Labels, 7)
	assert.Equal(t, "Today", u.Labels[6])
	assert.Equal(t, 30, u.Max())
	// (15+20+18+25+22+30+28) / 7 = 22.57
	assert.True(t, u.Avg().Equal(decimal.NewFromInt(23)), u.Avg().String())

	shares := u.Share()
	require.Len(t, shares, 7)
	assert.True(t, shares[5].Equal(decimal.NewFromInt(100)))
	assert.True(t, shares[0].Equal(decimal.NewFromInt(50)))
}

func TestUsageTrend_Empty(t *testing.T) {
	var u UsageTrend

	assert.Equal(t, 0, u.Max())
	assert.True(t, u.Avg().IsZero())
	assert.Empty(t, u.Share())
}

func TestDemandHotspotsAndShipments(t *testing.T) {
	regions := DemandHotspots()
	require.Len(t, regions, 4)
	assert.Equal(t, DemandRegion{Name: "West", Level: DemandCritical}, regions[3])

	shipments := ActiveShipments()
	require.Len(t, shipments, 2)
	assert.Equal(t, "T-1024", shipments[0].ID)
	require.NotNil(t, shipments[0].TemperatureF)
	assert.Equal(t, 37, *shipments[0].TemperatureF)
	assert.Nil(t, shipments[1].TemperatureF)
}

// =============================================================================
// REQUEST DESK
// =============================================================================

func newTestDesk(t *testing.T) *Desk {
	t.Helper()
	mem := store.NewMemory()
	require.NoError(t, mem.Replace(context.Background(), DemoInventory()))
	d := NewDesk(platelet.NewInventory(mem, CityGeneral, nil), nil)
	d.Now = func() time.Time { return time.Date(2025, time.November, 6, 9, 30, 0, 0, time.UTC) }
	return d
}

func TestDesk_TransferPromptAndReceipt(t *testing.T) {
	// GIVEN: The demo network
	d := newTestDesk(t)
	ctx := context.Background()

	// WHEN: Preparing and confirming a transfer of p6
	prompt, err := d.PrepareTransfer(ctx, "p6", DemoReferenceDate)
	require.NoError(t, err)
	receipt, err := d.ConfirmTransfer(ctx, "p6", DemoReferenceDate)
	require.NoError(t, err)

	// THEN: The messages name the unit and the inventory is unchanged
	assert.Equal(t, "Request 15 units of O+ from St. Mary's Medical?", prompt.Message)
	assert.Equal(t, KindTransfer, receipt.Kind)
	assert.Equal(t, "Transfer request for O+ sent!", receipt.Message)
	assert.NotEmpty(t, receipt.ID)

	units, err := d.Inventory.Units(ctx)
	require.NoError(t, err)
	assert.Equal(t, DemoInventory(), units)
}

func TestDesk_TransferUnknownUnit(t *testing.T) {
	d := newTestDesk(t)

	_, err := d.PrepareTransfer(context.Background(), "ghost", DemoReferenceDate)
	assert.True(t, platelet.IsNotFound(err))

	_, err = d.ConfirmTransfer(context.Background(), "ghost", DemoReferenceDate)
	assert.True(t, platelet.IsNotFound(err))
}

func TestDesk_EmergencyAndDonorAlert(t *testing.T) {
	d := newTestDesk(t)
	ctx := context.Background()

	r := d.ConfirmEmergency(ctx)
	assert.Equal(t, "Emergency request sent!", r.Message)
	assert.Equal(t, time.Date(2025, time.November, 6, 9, 30, 0, 0, time.UTC), r.SentAt)

	r, err := d.ConfirmDonorAlert(ctx, platelet.BloodAPos)
	require.NoError(t, err)
	assert.Equal(t, "Donor alert sent!", r.Message)

	_, err = d.ConfirmDonorAlert(ctx, platelet.BloodType("Z"))
	assert.ErrorIs(t, err, platelet.ErrInvalidBloodType)
	assert.True(t, platelet.IsClientError(err))
}

func TestPrompts(t *testing.T) {
	assert.Contains(t, DonorAlertPrompt(platelet.BloodONeg).Message, "low O- platelet supply")
	assert.Equal(t, KindEmergency, EmergencyPrompt().Kind)
}
