package platelet

import (
	"math"
	"strings"
	"time"
)

// =============================================================================
// CALENDAR DATES - Expiry is a date, not an instant
// =============================================================================

// DateLayout is the wire format for expiry dates.
const DateLayout = "2006-01-02"

// NewDate returns midnight UTC of the given calendar day.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date.
func Today() time.Time {
	return TruncateToDay(time.Now())
}

// TruncateToDay strips the time-of-day, keeping the calendar date as seen in
// t's own location.
func TruncateToDay(t time.Time) time.Time {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD date. Surrounding whitespace is ignored.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return TruncateToDay(t), nil
}

func FormatDate(t time.Time) string { return t.Format(DateLayout) }

// DaysUntilExpiry returns the whole days from reference to expiry, rounded up.
// Negative means the expiry date is already past.
func DaysUntilExpiry(reference, expiry time.Time) int {
	diff := TruncateToDay(expiry).Sub(TruncateToDay(reference))
	return int(math.Ceil(diff.Hours() / 24))
}
