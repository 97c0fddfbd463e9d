// Package network holds the mock hospital network: facilities, seed
// inventories, dashboard series and the confirmation-only request flows.
package network

import (
	"time"

	"github.com/platelink/network-engine/platelet"
)

// =============================================================================
// FACILITIES
// =============================================================================

var (
	CityGeneral = platelet.Facility{Name: "City General Hospital", Lat: 34.0522, Lon: -118.2437}
	StMarys     = platelet.Facility{Name: "St. Mary's Medical", Lat: 34.0612, Lon: -118.2545}
	Suburban    = platelet.Facility{Name: "Suburban Clinic", Lat: 34.1520, Lon: -118.3430}
)

// Facilities lists the partner hospitals of the mock network.
var Facilities = []platelet.Facility{CityGeneral, StMarys, Suburban}

// FacilityByName looks up a facility of the mock network.
func FacilityByName(name string) (platelet.Facility, bool) {
	for _, f := range Facilities {
		if f.Name == name {
			return f, true
		}
	}
	return platelet.Facility{}, false
}

// =============================================================================
// SEED INVENTORIES
// =============================================================================

type seedUnit struct {
	id        string
	facility  platelet.Facility
	bloodType platelet.BloodType
	quantity  int
	offset    int // days from the reference date
}

func (s seedUnit) at(ref time.Time) platelet.InventoryUnit {
	return platelet.InventoryUnit{
		ID:        s.id,
		Hospital:  s.facility.Name,
		BloodType: s.bloodType,
		Quantity:  s.quantity,
		Expiry:    platelet.TruncateToDay(ref).AddDate(0, 0, s.offset),
		Lat:       s.facility.Lat,
		Lon:       s.facility.Lon,
	}
}

// demoUnits is the six-batch network the dashboard was first shown with,
// expressed as offsets from 2025-11-06.
var demoUnits = []seedUnit{
	{"p1", CityGeneral, platelet.BloodAPos, 10, 1},
	{"p2", CityGeneral, platelet.BloodONeg, 5, 3},
	{"p3", StMarys, platelet.BloodBPos, 8, 6},
	{"p4", Suburban, platelet.BloodABNeg, 2, 0},
	{"p5", CityGeneral, platelet.BloodANeg, 7, 4},
	{"p6", StMarys, platelet.BloodOPos, 15, 2},
}

// DemoReferenceDate anchors DemoInventory's fixed dates.
var DemoReferenceDate = platelet.NewDate(2025, time.November, 6)

// DemoInventory returns the original fixed-date mock network.
func DemoInventory() []platelet.InventoryUnit {
	return buildUnits(demoUnits, DemoReferenceDate)
}

// RollingInventory returns the demo network shifted so that its expiry
// spread is relative to today. Tiers stay meaningful whatever the date.
func RollingInventory(today time.Time) []platelet.InventoryUnit {
	return buildUnits(demoUnits, today)
}

var crisisUnits = []seedUnit{
	{"c1", CityGeneral, platelet.BloodONeg, 4, -1},
	{"c2", CityGeneral, platelet.BloodAPos, 6, 0},
	{"c3", StMarys, platelet.BloodONeg, 3, 0},
	{"c4", StMarys, platelet.BloodBNeg, 2, 1},
	{"c5", Suburban, platelet.BloodABPos, 1, -2},
	{"c6", Suburban, platelet.BloodOPos, 9, 1},
	{"c7", CityGeneral, platelet.BloodABNeg, 2, 5},
}

// CrisisInventory returns a network where most stock needs action today.
func CrisisInventory(today time.Time) []platelet.InventoryUnit {
	return buildUnits(crisisUnits, today)
}

func buildUnits(seeds []seedUnit, ref time.Time) []platelet.InventoryUnit {
	units := make([]platelet.InventoryUnit, len(seeds))
	for i, s := range seeds {
		units[i] = s.at(ref)
	}
	return units
}
