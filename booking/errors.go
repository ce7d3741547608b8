/*
errors.go - Centralized error types for the booking engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Two classes exist:
  1. Validation errors - malformed input fields, raised at the point of
     input with a human-readable reason, never partially applied
  2. Operation-not-possible outcomes - room unavailable, overlap, missing
     reference, wrong status; sentinel errors callers branch on

USAGE:
  if errors.Is(err, booking.ErrOverlappingReservation) { ... }
  if booking.IsNotFound(err) { ... }

SEE ALSO:
  - availability.go, lifecycle.go: Produce these errors
  - api/handlers.go: Maps them to HTTP status codes
*/
package booking

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrRoomNotFound is returned when a room reference does not resolve.
	ErrRoomNotFound = errors.New("room not found")

	// ErrGuestNotFound is returned when a guest reference does not resolve.
	ErrGuestNotFound = errors.New("guest not found")

	// ErrReservationNotFound is returned when a reservation reference does
	// not resolve.
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrRoomUnavailable is returned when a reservation is attempted on a
	// room whose current status is not vacant.
	ErrRoomUnavailable = errors.New("room not vacant")

	// ErrOverlappingReservation is returned when a requested date range
	// intersects an existing active reservation on the same room.
	ErrOverlappingReservation = errors.New("overlapping reservation")

	// ErrReservationNotActive is returned when a lifecycle operation is
	// attempted on a reservation in a terminal state.
	ErrReservationNotActive = errors.New("reservation not active")

	// ErrBeforeCheckIn is returned when check-in or check-out is attempted
	// before the reservation's check-in date.
	ErrBeforeCheckIn = errors.New("before check-in date")

	// ErrInvalidDate is returned when a date string fails to parse as a
	// YYYY-MM-DD calendar date.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidDateRange is returned when a check-in date is in the past
	// or a check-out date is not strictly after the check-in date.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrActiveReservationExists is returned when deleting a guest or room
	// that an active reservation still references.
	ErrActiveReservationExists = errors.New("active reservation references this entity")
)

// =============================================================================
// VALIDATION ERROR - Carries field and human-readable reason
// =============================================================================

// ValidationError reports a malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, ErrGuestNotFound) ||
		errors.Is(err, ErrReservationNotFound)
}

// IsClientError returns true if the error is due to invalid client input
// or a state that makes the operation not possible.
func IsClientError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) ||
		errors.Is(err, ErrRoomUnavailable) ||
		errors.Is(err, ErrOverlappingReservation) ||
		errors.Is(err, ErrReservationNotActive) ||
		errors.Is(err, ErrBeforeCheckIn) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidDateRange) ||
		errors.Is(err, ErrActiveReservationExists)
}
