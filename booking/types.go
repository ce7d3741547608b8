/*
Package booking provides the core reservation and room-availability engine.

PURPOSE:
  This package contains the domain types and algorithms for managing hotel
  rooms, guests, and time-bounded reservations: deciding whether a room may
  be reserved for a date range, keeping room occupancy consistent with the
  passage of time, and computing billed cost across check-in/check-out.

KEY CONCEPTS IN THIS FILE (types.go):
  - Room: A bookable unit with a nightly price and a status state machine
  - Guest: An identity-validated person who can hold reservations
  - Reservation: A half-open [check-in, check-out) claim on a room
  - Status enums: Closed sets of states with explicit allowed transitions

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for prices and costs, never float64
  2. Type Safety: Strong typing for IDs prevents mixing room/guest/reservation
  3. Explicit Transitions: Status changes consult an allowed-edge table;
     anything not named there is rejected
  4. Raw Dates: Reservation dates are carried as YYYY-MM-DD strings so that
     malformed persisted data can be surfaced instead of silently dropped

USAGE:
  repo := booking.NewRepository(ctx, store)
  engine := booking.NewEngine(repo)
  res, err := engine.Reserve(ctx, guestID, roomID, "2026-09-01", "2026-09-04", booking.Today())

SEE ALSO:
  - repository.go: Entity store with monotonic identifier counters
  - availability.go: Reservation creation and overlap arbitration
  - lifecycle.go: Housekeeping sweep, check-in, check-out, cancellation
*/
package booking

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type RoomID string
type GuestID string
type ReservationID string

// =============================================================================
// ROOM - Bookable unit with a status state machine
// =============================================================================

type RoomStatus string

const (
	RoomVacant   RoomStatus = "vacant"
	RoomReserved RoomStatus = "reserved"
	RoomOccupied RoomStatus = "occupied"
)

// roomTransitions names every allowed room status edge. Same-state
// transitions are always permitted (idempotent operations).
var roomTransitions = map[RoomStatus][]RoomStatus{
	RoomVacant:   {RoomReserved},
	RoomReserved: {RoomOccupied, RoomVacant},
	RoomOccupied: {RoomVacant},
}

// CanTransitionTo reports whether the edge from s to next is allowed.
func (s RoomStatus) CanTransitionTo(next RoomStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range roomTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a member of the closed status set.
func (s RoomStatus) Valid() bool {
	switch s {
	case RoomVacant, RoomReserved, RoomOccupied:
		return true
	}
	return false
}

// Room is a bookable unit. CurrentGuestID is non-nil if and only if
// Status is RoomOccupied.
type Room struct {
	ID             RoomID          `json:"id"`
	Type           string          `json:"type"`
	Price          decimal.Decimal `json:"price"`
	Status         RoomStatus      `json:"status"`
	CurrentGuestID *GuestID        `json:"current_guest_id,omitempty"`
}

// =============================================================================
// GUEST
// =============================================================================

// Guest is a registered person. Identity fields are validated on
// registration and on every edit (see validation.go).
type Guest struct {
	ID         GuestID `json:"id"`
	Name       string  `json:"name"`
	Family     string  `json:"family"`
	NationalID string  `json:"national_id"`
	Phone      string  `json:"phone"`
	Address    string  `json:"address,omitempty"`
}

// =============================================================================
// RESERVATION - A half-open [check-in, check-out) claim on a room
// =============================================================================

type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "active"
	ReservationExpired   ReservationStatus = "expired"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationSettled   ReservationStatus = "settled"
)

// reservationTransitions: Active is the only non-terminal state. A
// reservation leaves it exactly once, along one of three paths.
var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationActive: {ReservationExpired, ReservationCancelled, ReservationSettled},
}

// CanTransitionTo reports whether the edge from s to next is allowed.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether s is a terminal state.
func (s ReservationStatus) Terminal() bool {
	return s != ReservationActive
}

// Reservation claims a room for the half-open range
// [CheckInDate, CheckOutDate): the check-out day itself is not occupied,
// so back-to-back bookings may share a boundary day.
//
// Dates are held in their raw YYYY-MM-DD form. Parsing happens at the
// point of use so that a malformed date loaded from persistence can be
// surfaced as a warning rather than dropped on load.
type Reservation struct {
	ID           ReservationID     `json:"id"`
	GuestID      GuestID           `json:"guest_id"`
	RoomID       RoomID            `json:"room_id"`
	CheckInDate  string            `json:"check_in_date"`
	CheckOutDate string            `json:"check_out_date"`
	Status       ReservationStatus `json:"status"`
	TotalCost    decimal.Decimal   `json:"total_cost"`
}

// Nights returns the booked night count, or an error if either date is
// malformed. The count is DaysBetween(in, out); validity (out strictly
// after in) is enforced at reservation time.
func (r Reservation) Nights() (int, error) {
	in, err := ParseDate(r.CheckInDate)
	if err != nil {
		return 0, err
	}
	out, err := ParseDate(r.CheckOutDate)
	if err != nil {
		return 0, err
	}
	return DaysBetween(in, out), nil
}
