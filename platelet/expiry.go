package platelet

import "fmt"

// =============================================================================
// EXPIRY TIERS
// =============================================================================

type ExpiryStatus string

const (
	StatusCritical ExpiryStatus = "critical" // expired or expiring at the end of today
	StatusWarning  ExpiryStatus = "warning"
	StatusStable   ExpiryStatus = "stable"
)

// ExpiryStatuses lists tiers from most to least urgent.
var ExpiryStatuses = []ExpiryStatus{StatusCritical, StatusWarning, StatusStable}

const (
	// WarningThresholdDays is the last day count still shown as near-expiry.
	// The "expiring" filter uses the same cutoff.
	WarningThresholdDays = 3

	// UrgentThresholdDays marks stock that needs action within 24h.
	// Kept separate from WarningThresholdDays; the two are tuned independently.
	UrgentThresholdDays = 1
)

// StatusFor maps a days-to-expiry count to its tier. Zero is critical.
func StatusFor(days int) ExpiryStatus {
	switch {
	case days <= 0:
		return StatusCritical
	case days <= WarningThresholdDays:
		return StatusWarning
	default:
		return StatusStable
	}
}

// ExpiryLabel is the human-readable expiry line shown next to a unit.
func ExpiryLabel(days int) string {
	switch {
	case days < 0:
		return "Expired"
	case days == 0:
		return "Expires Today"
	case days == 1:
		return "Expires Tomorrow"
	default:
		return fmt.Sprintf("Expires in %d days", days)
	}
}
