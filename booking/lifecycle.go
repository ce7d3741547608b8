/*
lifecycle.go - Housekeeping sweep, check-in, check-out, cancellation

PURPOSE:
  State transitions for rooms (vacant -> reserved -> occupied -> vacant)
  and reservations (active -> expired | cancelled | settled).

THE SWEEP:
  An idempotent reconciliation of room status against real time. For each
  reserved or occupied room: if no active reservation has a check-out on
  or after today, the room is released and each of its active reservations
  becomes expired. A reservation with an unparsable date is skipped with a
  surfaced warning and treated as non-expiring; its room is left untouched
  so no data is silently lost. The sweep never creates reservations, never
  changes cost, and never touches terminal reservations.

  Every operation that depends on current availability runs the sweep
  first, so callers always observe reconciled state.

BILLING ON CHECK-OUT:
  actual nights = max(1, today - check-in in days); a same-day check-out
  is billed as one night. The final cost overwrites the booked cost and
  the reservation's check-out date is rewritten to today.

SEE ALSO:
  - availability.go: Reserve, the entry into the active state
  - types.go: Allowed-edge transition tables
*/
package booking

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// HOUSEKEEPING SWEEP
// =============================================================================

// SweepReport records what a sweep changed and any malformed data it
// encountered. Warnings are non-fatal.
type SweepReport struct {
	ReleasedRooms       []RoomID
	ExpiredReservations []ReservationID
	Warnings            []string
}

// Changed reports whether the sweep mutated any state.
func (r SweepReport) Changed() bool {
	return len(r.ReleasedRooms) > 0 || len(r.ExpiredReservations) > 0
}

// Sweep reconciles room status with the current date. It is idempotent:
// a second sweep with the same date changes nothing and does not persist.
func (e *Engine) Sweep(ctx context.Context, today Date) (SweepReport, error) {
	var report SweepReport

	for i := range e.repo.rooms {
		room := &e.repo.rooms[i]
		if room.Status != RoomReserved && room.Status != RoomOccupied {
			continue
		}

		stillHeld := false
		for _, res := range e.repo.reservationsForRoom(room.ID) {
			if res.Status != ReservationActive {
				continue
			}
			checkOut, err := ParseDate(res.CheckOutDate)
			if err != nil {
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("reservation %s has unparsable check-out date %q", res.ID, res.CheckOutDate))
				// Non-expiring: a malformed date never forces a release.
				stillHeld = true
				continue
			}
			if checkOut.AfterOrEqual(today) {
				stillHeld = true
			}
		}
		if stillHeld {
			continue
		}

		room.Status = RoomVacant
		room.CurrentGuestID = nil
		report.ReleasedRooms = append(report.ReleasedRooms, room.ID)
		for _, res := range e.repo.reservationsForRoom(room.ID) {
			if res.Status == ReservationActive {
				res.Status = ReservationExpired
				report.ExpiredReservations = append(report.ExpiredReservations, res.ID)
			}
		}
	}

	if !report.Changed() {
		return report, nil
	}
	if err := e.repo.save(ctx); err != nil {
		return report, err
	}
	return report, nil
}

// =============================================================================
// CHECK-IN - Room-state transition; the reservation stays active
// =============================================================================

// CheckIn moves the reservation's room to occupied and records the guest
// as occupant. The reservation itself remains active: check-in is a
// room-state transition, not a reservation-state transition.
func (e *Engine) CheckIn(ctx context.Context, id ReservationID, today Date) error {
	if _, err := e.Sweep(ctx, today); err != nil {
		return err
	}

	res := e.repo.reservationAt(id)
	if res == nil {
		return ErrReservationNotFound
	}
	if res.Status != ReservationActive {
		return ErrReservationNotActive
	}
	room := e.repo.roomAt(res.RoomID)
	if room == nil {
		return ErrRoomNotFound
	}
	guest := e.repo.guestAt(res.GuestID)
	if guest == nil {
		return ErrGuestNotFound
	}

	checkIn, err := ParseDate(res.CheckInDate)
	if err != nil {
		return err
	}
	if today.Before(checkIn) {
		return ErrBeforeCheckIn
	}

	if !room.Status.CanTransitionTo(RoomOccupied) {
		return ErrRoomUnavailable
	}
	room.Status = RoomOccupied
	guestID := res.GuestID
	room.CurrentGuestID = &guestID

	return e.repo.save(ctx)
}

// =============================================================================
// CHECK-OUT (SETTLEMENT)
// =============================================================================

// CheckOut settles an active reservation: the final cost is recomputed
// against actual duration (minimum one night), the check-out date is
// rewritten to today, the reservation becomes settled and the room is
// released. Returns the final cost.
func (e *Engine) CheckOut(ctx context.Context, id ReservationID, today Date) (decimal.Decimal, error) {
	if _, err := e.Sweep(ctx, today); err != nil {
		return decimal.Zero, err
	}

	res := e.repo.reservationAt(id)
	if res == nil {
		return decimal.Zero, ErrReservationNotFound
	}
	if res.Status != ReservationActive {
		return decimal.Zero, ErrReservationNotActive
	}
	room := e.repo.roomAt(res.RoomID)
	if room == nil {
		return decimal.Zero, ErrRoomNotFound
	}

	checkIn, err := ParseDate(res.CheckInDate)
	if err != nil {
		return decimal.Zero, err
	}
	if today.Before(checkIn) {
		return decimal.Zero, ErrBeforeCheckIn
	}

	nights := DaysBetween(checkIn, today)
	if nights < 1 {
		nights = 1 // same-day check-out is billed as one night
	}
	finalCost := room.Price.Mul(decimal.NewFromInt(int64(nights)))

	res.TotalCost = finalCost
	res.CheckOutDate = today.String()
	res.Status = ReservationSettled
	room.Status = RoomVacant
	room.CurrentGuestID = nil

	if err := e.repo.save(ctx); err != nil {
		return finalCost, err
	}
	return finalCost, nil
}

// =============================================================================
// CANCELLATION
// =============================================================================

// Cancel voids an active reservation and releases its room. No cost
// recomputation occurs.
func (e *Engine) Cancel(ctx context.Context, id ReservationID, today Date) error {
	if _, err := e.Sweep(ctx, today); err != nil {
		return err
	}

	res := e.repo.reservationAt(id)
	if res == nil {
		return ErrReservationNotFound
	}
	if res.Status != ReservationActive {
		return ErrReservationNotActive
	}
	room := e.repo.roomAt(res.RoomID)
	if room == nil {
		return ErrRoomNotFound
	}

	res.Status = ReservationCancelled
	room.Status = RoomVacant
	room.CurrentGuestID = nil

	return e.repo.save(ctx)
}

// =============================================================================
// SWEPT READS - Listings that depend on current availability
// =============================================================================

// Rooms returns all rooms after reconciliation.
func (e *Engine) Rooms(ctx context.Context, today Date) ([]Room, error) {
	if _, err := e.Sweep(ctx, today); err != nil {
		return nil, err
	}
	return e.repo.Rooms(), nil
}

// AvailableRooms returns the rooms currently vacant.
func (e *Engine) AvailableRooms(ctx context.Context, today Date) ([]Room, error) {
	rooms, err := e.Rooms(ctx, today)
	if err != nil {
		return nil, err
	}
	var available []Room
	for _, room := range rooms {
		if room.Status == RoomVacant {
			available = append(available, room)
		}
	}
	return available, nil
}

// Reservations returns all reservations after reconciliation.
func (e *Engine) Reservations(ctx context.Context, today Date) ([]Reservation, error) {
	if _, err := e.Sweep(ctx, today); err != nil {
		return nil, err
	}
	return e.repo.Reservations(), nil
}

// ActiveReservations returns the reservations still holding a room.
func (e *Engine) ActiveReservations(ctx context.Context, today Date) ([]Reservation, error) {
	all, err := e.Reservations(ctx, today)
	if err != nil {
		return nil, err
	}
	var active []Reservation
	for _, res := range all {
		if res.Status == ReservationActive {
			active = append(active, res)
		}
	}
	return active, nil
}

// GuestReservations returns a guest's reservations after reconciliation.
func (e *Engine) GuestReservations(ctx context.Context, id GuestID, today Date) ([]Reservation, error) {
	if _, err := e.Sweep(ctx, today); err != nil {
		return nil, err
	}
	return e.repo.GuestReservations(id), nil
}
