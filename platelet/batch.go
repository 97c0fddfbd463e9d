package platelet

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// =============================================================================
// ADD BATCH - The only mutation of the collection
// =============================================================================

// BatchInput carries the user-supplied form fields for a new batch.
type BatchInput struct {
	BloodType string
	Quantity  int
	Expiry    string // YYYY-MM-DD
}

// IDFunc produces candidate unit ids.
type IDFunc func() string

// NewUnitID returns a random id of the form "p-<uuid>".
func NewUnitID() string {
	return "p-" + uuid.NewString()
}

// maxIDAttempts bounds retries when an IDFunc keeps colliding.
const maxIDAttempts = 16

// Validate checks the form fields and builds the unit they describe,
// without an id. Facility fills hospital and coordinates.
func (in BatchInput) Validate(facility Facility) (InventoryUnit, error) {
	if in.Quantity < 1 {
		return InventoryUnit{}, newValidationError("quantity", ErrInvalidQuantity, "got %d, need at least 1", in.Quantity)
	}
	if strings.TrimSpace(in.Expiry) == "" {
		return InventoryUnit{}, newValidationError("expiry", ErrInvalidExpiry, "expiry date is required")
	}
	expiry, err := ParseDate(in.Expiry)
	if err != nil {
		return InventoryUnit{}, newValidationError("expiry", ErrInvalidExpiry, "%q is not a YYYY-MM-DD date", in.Expiry)
	}
	bt := BloodType(strings.ToUpper(strings.TrimSpace(in.BloodType)))
	if !bt.Valid() {
		return InventoryUnit{}, newValidationError("blood_type", ErrInvalidBloodType, "%q is not an ABO/Rh type", in.BloodType)
	}

	return InventoryUnit{
		Hospital:  facility.Name,
		BloodType: bt,
		Quantity:  in.Quantity,
		Expiry:    expiry,
		Lat:       facility.Lat,
		Lon:       facility.Lon,
	}, nil
}

// AddBatch validates in and returns a new collection with the created unit
// first. On failure units is returned unchanged alongside the error.
func AddBatch(units []InventoryUnit, in BatchInput, facility Facility, newID IDFunc) ([]InventoryUnit, InventoryUnit, error) {
	unit, err := in.Validate(facility)
	if err != nil {
		return units, InventoryUnit{}, err
	}

	taken := make(map[string]struct{}, len(units))
	for _, u := range units {
		taken[u.ID] = struct{}{}
	}
	id, err := uniqueID(newID, func(id string) bool {
		_, ok := taken[id]
		return ok
	})
	if err != nil {
		return units, InventoryUnit{}, err
	}
	unit.ID = id

	next := make([]InventoryUnit, 0, len(units)+1)
	next = append(next, unit)
	next = append(next, units...)
	return next, unit, nil
}

func uniqueID(newID IDFunc, exists func(string) bool) (string, error) {
	if newID == nil {
		newID = NewUnitID
	}
	for i := 0; i < maxIDAttempts; i++ {
		id := newID()
		if id != "" && !exists(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("no free id after %d attempts: %w", maxIDAttempts, ErrDuplicateID)
}
