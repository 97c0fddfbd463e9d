package platelet

import "time"

// =============================================================================
// SUMMARY - Dashboard headline numbers
// =============================================================================

// Summary holds aggregate counts over the whole collection.
type Summary struct {
	TotalUnits        int
	ExpiringToday     int // quantity with days-to-expiry <= UrgentThresholdDays
	DistinctLocations int
	ByStatus          map[ExpiryStatus]int
}

// Summarize computes the headline counts. Empty input yields zeros.
func Summarize(units []InventoryUnit, today time.Time) Summary {
	s := Summary{ByStatus: make(map[ExpiryStatus]int, len(ExpiryStatuses))}
	for _, st := range ExpiryStatuses {
		s.ByStatus[st] = 0
	}

	hospitals := make(map[string]struct{})
	for _, u := range units {
		days := DaysUntilExpiry(today, u.Expiry)
		s.TotalUnits += u.Quantity
		if days <= UrgentThresholdDays {
			s.ExpiringToday += u.Quantity
		}
		s.ByStatus[StatusFor(days)] += u.Quantity
		hospitals[u.Hospital] = struct{}{}
	}
	s.DistinctLocations = len(hospitals)
	return s
}
