/*
availability.go - Reservation creation and overlap arbitration

PURPOSE:
  Decides whether a new reservation may be created and computes its cost.
  This is the only place a reservation comes into existence.

REJECTION RULES (no mutation on any rejection path):
  - Guest or room reference does not resolve
  - Room's current status is not vacant
  - Either date fails to parse as a calendar date
  - Check-in is strictly before the current date
  - Check-out is not strictly after check-in
  - The range intersects an existing active reservation on the room

OVERLAP RULE:
  Ranges are half-open [check-in, check-out): the new range is accepted
  against an existing one only when
      newOut <= existingIn  OR  newIn >= existingOut
  so back-to-back bookings may share the boundary day.

COST:
  nights = whole days between check-in and check-out (always positive
  after range validation); cost = nights x nightly price.

SEE ALSO:
  - lifecycle.go: The housekeeping sweep that runs before reservation
  - repository.go: Entity resolution and persistence
*/
package booking

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine arbitrates availability and drives the reservation lifecycle.
// All operations take the current date explicitly so behavior is
// deterministic under test.
type Engine struct {
	repo *Repository
}

// NewEngine wraps a repository.
func NewEngine(repo *Repository) *Engine {
	return &Engine{repo: repo}
}

// Repository exposes the underlying entity store.
func (e *Engine) Repository() *Repository {
	return e.repo
}

// =============================================================================
// RESERVE
// =============================================================================

// Reserve creates a reservation for [checkIn, checkOut) after running the
// housekeeping sweep. On success the reservation is active with its cost
// computed and the room becomes reserved; on any rejection no state
// changes (beyond the sweep's own reconciliation).
func (e *Engine) Reserve(ctx context.Context, guestID GuestID, roomID RoomID, checkIn, checkOut string, today Date) (Reservation, error) {
	if _, err := e.Sweep(ctx, today); err != nil {
		return Reservation{}, err
	}

	guest := e.repo.guestAt(guestID)
	if guest == nil {
		return Reservation{}, ErrGuestNotFound
	}
	room := e.repo.roomAt(roomID)
	if room == nil {
		return Reservation{}, ErrRoomNotFound
	}
	if room.Status != RoomVacant {
		return Reservation{}, ErrRoomUnavailable
	}

	in, err := ParseDate(checkIn)
	if err != nil {
		return Reservation{}, err
	}
	out, err := ParseDate(checkOut)
	if err != nil {
		return Reservation{}, err
	}
	if in.Before(today) {
		return Reservation{}, fmt.Errorf("%w: check-in %s is in the past", ErrInvalidDateRange, checkIn)
	}
	if !out.After(in) {
		return Reservation{}, fmt.Errorf("%w: check-out %s is not after check-in %s", ErrInvalidDateRange, checkOut, checkIn)
	}

	if err := e.checkOverlap(roomID, in, out); err != nil {
		return Reservation{}, err
	}

	nights := DaysBetween(in, out)
	cost := room.Price.Mul(decimal.NewFromInt(int64(nights)))

	res := Reservation{
		ID:           e.repo.nextReservationID(),
		GuestID:      guestID,
		RoomID:       roomID,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		Status:       ReservationActive,
		TotalCost:    cost,
	}
	e.repo.reservations = append(e.repo.reservations, res)
	room.Status = RoomReserved

	if err := e.repo.save(ctx); err != nil {
		return res, err
	}
	return res, nil
}

// checkOverlap rejects the range [newIn, newOut) if it intersects any
// active reservation on the room. An active reservation with unparsable
// dates also rejects: availability cannot be proven against it.
func (e *Engine) checkOverlap(roomID RoomID, newIn, newOut Date) error {
	for _, existing := range e.repo.reservationsForRoom(roomID) {
		if existing.Status != ReservationActive {
			continue
		}
		exIn, err := ParseDate(existing.CheckInDate)
		if err != nil {
			return fmt.Errorf("%w: reservation %s", err, existing.ID)
		}
		exOut, err := ParseDate(existing.CheckOutDate)
		if err != nil {
			return fmt.Errorf("%w: reservation %s", err, existing.ID)
		}
		if newOut.BeforeOrEqual(exIn) || newIn.AfterOrEqual(exOut) {
			continue
		}
		return fmt.Errorf("%w: room %s is booked %s to %s",
			ErrOverlappingReservation, roomID, existing.CheckInDate, existing.CheckOutDate)
	}
	return nil
}
