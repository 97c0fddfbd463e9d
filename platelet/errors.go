/*
errors.go - Centralized error types for the inventory engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers classify errors with errors.Is / errors.As or the helpers below.

ERROR CATEGORIES:
  1. Validation errors - Rejected add-batch input, malformed loaded units,
     unknown filter mode
  2. Store errors - Duplicate ids, missing units

Query, Summarize and the expiry classifier are total and never fail.

SEE ALSO:
  - batch.go: Produces ValidationError
  - store.go: Produces ErrDuplicateID / ErrUnitNotFound
*/
package platelet

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the parent of every input validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidQuantity is returned when a batch quantity is below 1.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrInvalidExpiry is returned when the expiry date is missing or malformed.
	ErrInvalidExpiry = errors.New("expiry must be a valid YYYY-MM-DD date")

	// ErrInvalidBloodType is returned for a blood type outside the 8 ABO/Rh values.
	ErrInvalidBloodType = errors.New("unknown blood type")

	// ErrMissingUnitID is returned when a unit is stored without an id.
	ErrMissingUnitID = errors.New("unit id is required")

	// ErrInvalidFilter is returned for an unrecognised filter mode.
	ErrInvalidFilter = errors.New("unknown filter mode")

	// ErrDuplicateID is returned when a store already holds a unit with the same id.
	ErrDuplicateID = errors.New("duplicate unit id")

	// ErrUnitNotFound is returned when a referenced unit doesn't exist.
	ErrUnitNotFound = errors.New("unit not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports which field was rejected and why.
type ValidationError struct {
	Field   string
	Message string
	Err     error // one of the field-specific sentinels
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Unwrap exposes both ErrValidation and the field-specific sentinel.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}

func newValidationError(field string, sentinel error, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Err: sentinel}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound returns true if the error indicates a missing unit.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUnitNotFound)
}

// IsConflict returns true if the error indicates an id collision.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateID)
}
