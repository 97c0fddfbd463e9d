package network

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// DASHBOARD SERIES - Mock figures for the analytics panels
// =============================================================================

// WastageReduction is the mock percentage shown on the dashboard.
var WastageReduction = decimal.NewFromInt(15)

// UsageTrend is units used per day over the last week, oldest first.
type UsageTrend struct {
	Labels []string
	Values []int
}

// LastWeekUsage returns the 7-day usage series.
func LastWeekUsage() UsageTrend {
	return UsageTrend{
		Labels: []string{"D1", "D2", "D3", "D4", "D5", "D6", "Today"},
		Values: []int{15, 20, 18, 25, 22, 30, 28},
	}
}

// Max returns the largest daily value, zero for an empty series.
func (u UsageTrend) Max() int {
	m := 0
	for _, v := range u.Values {
		if v > m {
			m = v
		}
	}
	return m
}

// Avg returns the mean daily value rounded to a whole unit.
func (u UsageTrend) Avg() decimal.Decimal {
	if len(u.Values) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, v := range u.Values {
		sum = sum.Add(decimal.NewFromInt(int64(v)))
	}
	return sum.Div(decimal.NewFromInt(int64(len(u.Values)))).Round(0)
}

// Share returns each value as a percentage of the maximum, for bar heights.
func (u UsageTrend) Share() []decimal.Decimal {
	shares := make([]decimal.Decimal, len(u.Values))
	max := u.Max()
	if max == 0 {
		for i := range shares {
			shares[i] = decimal.Zero
		}
		return shares
	}
	hundred := decimal.NewFromInt(100)
	for i, v := range u.Values {
		shares[i] = decimal.NewFromInt(int64(v)).Mul(hundred).Div(decimal.NewFromInt(int64(max))).Round(1)
	}
	return shares
}

// =============================================================================
// DEMAND HOTSPOTS
// =============================================================================

type DemandLevel string

const (
	DemandCritical DemandLevel = "critical"
	DemandHigh     DemandLevel = "high"
	DemandMedium   DemandLevel = "medium"
	DemandLow      DemandLevel = "low"
)

type DemandRegion struct {
	Name  string
	Level DemandLevel
}

func DemandHotspots() []DemandRegion {
	return []DemandRegion{
		{Name: "North", Level: DemandHigh},
		{Name: "East", Level: DemandMedium},
		{Name: "South", Level: DemandLow},
		{Name: "West", Level: DemandCritical},
	}
}

// =============================================================================
// LOGISTICS
// =============================================================================

type ShipmentStatus string

const (
	ShipmentInTransit ShipmentStatus = "in_transit"
	ShipmentDelivered ShipmentStatus = "delivered"
)

// Shipment is a transfer between two facilities as shown on the logistics
// panel. TemperatureF is only reported while in transit.
type Shipment struct {
	ID           string
	BloodType    string
	From         string
	To           string
	Status       ShipmentStatus
	TemperatureF *int
}

func ActiveShipments() []Shipment {
	temp := 37
	return []Shipment{
		{ID: "T-1024", BloodType: "O-", From: "St. Mary's", To: "Suburban Clinic", Status: ShipmentInTransit, TemperatureF: &temp},
		{ID: "T-1023", BloodType: "B+", From: "City General", To: "St. Mary's", Status: ShipmentDelivered},
	}
}
