package platelet

import (
	"sort"
	"strings"
	"time"
)

// =============================================================================
// FILTER MODES
// =============================================================================

type FilterMode string

const (
	FilterAll        FilterMode = "all"
	FilterExpiring   FilterMode = "expiring"
	FilterMyLocation FilterMode = "my_location"
)

// ParseFilterMode accepts the API values plus the legacy "my_hospital" alias.
// An empty string means FilterAll.
func ParseFilterMode(s string) (FilterMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FilterAll):
		return FilterAll, nil
	case string(FilterExpiring):
		return FilterExpiring, nil
	case string(FilterMyLocation), "my_hospital":
		return FilterMyLocation, nil
	default:
		return "", newValidationError("filter", ErrInvalidFilter, "%q is not one of all, expiring, my_location", s)
	}
}

// =============================================================================
// QUERY ENGINE
// =============================================================================

// QueryParams selects a view over the collection.
type QueryParams struct {
	Search       string
	Filter       FilterMode
	HomeFacility string // used by FilterMyLocation
}

// Query annotates, searches, filters and sorts units, soonest expiry first.
// Ties keep their input order. The input is never modified; the result is
// never nil, so an empty view is distinguishable from no query at all.
func Query(units []InventoryUnit, q QueryParams, today time.Time) []AnnotatedUnit {
	needle := strings.ToLower(q.Search)

	result := make([]AnnotatedUnit, 0, len(units))
	for _, u := range units {
		a := Annotate(u, today)
		if !matchesSearch(a, needle) || !matchesFilter(a, q) {
			continue
		}
		result = append(result, a)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DaysToExpiry < result[j].DaysToExpiry
	})
	return result
}

func matchesSearch(a AnnotatedUnit, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(a.Hospital), needle) ||
		strings.Contains(strings.ToLower(string(a.BloodType)), needle)
}

func matchesFilter(a AnnotatedUnit, q QueryParams) bool {
	switch q.Filter {
	case FilterExpiring:
		return a.DaysToExpiry <= WarningThresholdDays
	case FilterMyLocation:
		return a.Hospital == q.HomeFacility
	default:
		return true
	}
}

// Annotate attaches the days-to-expiry of u as of today.
func Annotate(u InventoryUnit, today time.Time) AnnotatedUnit {
	return AnnotatedUnit{InventoryUnit: u, DaysToExpiry: DaysUntilExpiry(today, u.Expiry)}
}
