/*
Package platelet provides the inventory engine for the platelet network.

PURPOSE:
  Domain types and pure transformations over an in-memory collection of
  platelet batches. Every view the dashboard shows (annotated list, analytics,
  tiers) is re-derived from the collection on demand. Nothing is cached.

KEY CONCEPTS IN THIS FILE (types.go):
  - BloodType: One of the 8 ABO/Rh categories
  - InventoryUnit: One stored batch at one facility
  - AnnotatedUnit: A unit plus its computed days-to-expiry
  - Facility: A holding location with coordinates

DESIGN PRINCIPLES:
  1. Immutability: Units are never updated in place
  2. Purity: Query, Summarize and AddBatch never mutate their input
  3. Injectable time: Every derivation takes "today" as a parameter

SEE ALSO:
  - expiry.go: Days-until-expiry and tier classification
  - query.go: Search, filter and sort pipeline
  - analytics.go: Summary counts
  - batch.go: Add-batch validation and id assignment
*/
package platelet

import "time"

// =============================================================================
// BLOOD TYPE
// =============================================================================

type BloodType string

const (
	BloodAPos  BloodType = "A+"
	BloodANeg  BloodType = "A-"
	BloodBPos  BloodType = "B+"
	BloodBNeg  BloodType = "B-"
	BloodABPos BloodType = "AB+"
	BloodABNeg BloodType = "AB-"
	BloodOPos  BloodType = "O+"
	BloodONeg  BloodType = "O-"
)

// BloodTypes lists the accepted categories in display order.
var BloodTypes = []BloodType{
	BloodAPos, BloodANeg, BloodBPos, BloodBNeg,
	BloodABPos, BloodABNeg, BloodOPos, BloodONeg,
}

func (b BloodType) Valid() bool {
	for _, t := range BloodTypes {
		if t == b {
			return true
		}
	}
	return false
}

func (b BloodType) String() string { return string(b) }

// =============================================================================
// FACILITY
// =============================================================================

// Facility is a hospital or clinic holding stock.
type Facility struct {
	Name string
	Lat  float64
	Lon  float64
}

// =============================================================================
// INVENTORY UNIT
// =============================================================================

// InventoryUnit is one batch of platelets held at a location.
// Quantity is always >= 1 and Expiry carries no time-of-day.
type InventoryUnit struct {
	ID        string
	Hospital  string
	BloodType BloodType
	Quantity  int
	Expiry    time.Time
	Lat       float64
	Lon       float64
}

// Validate checks the stored-unit invariants. Stores and Load call it so no
// malformed record ever reaches a query.
func (u InventoryUnit) Validate() error {
	switch {
	case u.ID == "":
		return newValidationError("id", ErrMissingUnitID, "unit id is required")
	case u.Quantity < 1:
		return newValidationError("quantity", ErrInvalidQuantity, "unit %s: got %d, need at least 1", u.ID, u.Quantity)
	case !u.BloodType.Valid():
		return newValidationError("blood_type", ErrInvalidBloodType, "unit %s: %q is not an ABO/Rh type", u.ID, u.BloodType)
	case u.Expiry.IsZero():
		return newValidationError("expiry", ErrInvalidExpiry, "unit %s: expiry date is required", u.ID)
	}
	return nil
}

// AnnotatedUnit is a unit with its derived expiry data attached.
// It is recomputed on every query and never stored.
type AnnotatedUnit struct {
	InventoryUnit
	DaysToExpiry int
}

func (a AnnotatedUnit) Status() ExpiryStatus { return StatusFor(a.DaysToExpiry) }
func (a AnnotatedUnit) Label() string        { return ExpiryLabel(a.DaysToExpiry) }
