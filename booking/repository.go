/*
repository.go - Entity store with monotonic identifier counters

PURPOSE:
  Owns the three entity collections (rooms, guests, reservations) and
  their identifier counters. Every mutating method applies the change
  in memory and then persists the whole snapshot through the Store
  collaborator before returning (save-after-write).

LOAD SEMANTICS:
  A failed or missing load is non-fatal: the repository starts with empty
  collections and counters at 1, and logs a warning. No operation is
  retried automatically.

SAVE SEMANTICS:
  Save failures are reported to the caller but the in-memory mutation
  stays applied; the next successful save persists it. This matches the
  single-actor model: there is exactly one logical writer.

IDENTIFIERS:
  String-valued, assigned from an incrementing per-entity counter that is
  persisted alongside the data. Counters never decrease and identifiers
  are never reused after deletion.

SEE ALSO:
  - availability.go, lifecycle.go: The Engine mutates entities through
    the package-internal pointer accessors defined here
  - snapshot.go: Store interface
*/
package booking

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// REPOSITORY
// =============================================================================

// Repository owns all entity state. It is not safe for concurrent use:
// the engine serves exactly one logical actor.
type Repository struct {
	store Store

	rooms        []Room
	guests       []Guest
	reservations []Reservation
	counters     Counters
}

// NewRepository loads prior state from the store. Missing or corrupt
// state starts the repository empty with a logged warning.
func NewRepository(ctx context.Context, store Store) *Repository {
	r := &Repository{
		store: store,
		counters: Counters{
			NextRoomID:        1,
			NextGuestID:       1,
			NextReservationID: 1,
		},
	}

	snap, err := store.Load(ctx)
	if err != nil {
		log.Printf("[Repository] Failed to load state, starting empty: %v", err)
		return r
	}
	if snap == nil {
		return r
	}

	r.rooms = snap.Rooms
	r.guests = snap.Guests
	r.reservations = snap.Reservations
	if snap.Counters != (Counters{}) {
		r.counters = snap.Counters
	}
	return r
}

// save persists the full snapshot. The repository's collections are
// cloned so the store never aliases live state.
func (r *Repository) save(ctx context.Context) error {
	snap := Snapshot{
		Rooms:        r.rooms,
		Guests:       r.guests,
		Reservations: r.reservations,
		Counters:     r.counters,
	}.Clone()
	if err := r.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("failed to persist state: %w", err)
	}
	return nil
}

// =============================================================================
// IDENTIFIER ALLOCATION
// =============================================================================

func (r *Repository) nextRoomID() RoomID {
	id := RoomID(strconv.FormatInt(r.counters.NextRoomID, 10))
	r.counters.NextRoomID++
	return id
}

func (r *Repository) nextGuestID() GuestID {
	id := GuestID(strconv.FormatInt(r.counters.NextGuestID, 10))
	r.counters.NextGuestID++
	return id
}

func (r *Repository) nextReservationID() ReservationID {
	id := ReservationID(strconv.FormatInt(r.counters.NextReservationID, 10))
	r.counters.NextReservationID++
	return id
}

// =============================================================================
// INTERNAL POINTER ACCESSORS - Used by the engine for in-place mutation
// =============================================================================

func (r *Repository) roomAt(id RoomID) *Room {
	for i := range r.rooms {
		if r.rooms[i].ID == id {
			return &r.rooms[i]
		}
	}
	return nil
}

func (r *Repository) guestAt(id GuestID) *Guest {
	for i := range r.guests {
		if r.guests[i].ID == id {
			return &r.guests[i]
		}
	}
	return nil
}

func (r *Repository) reservationAt(id ReservationID) *Reservation {
	for i := range r.reservations {
		if r.reservations[i].ID == id {
			return &r.reservations[i]
		}
	}
	return nil
}

// reservationsForRoom returns pointers to every reservation on a room,
// any status.
func (r *Repository) reservationsForRoom(id RoomID) []*Reservation {
	var result []*Reservation
	for i := range r.reservations {
		if r.reservations[i].RoomID == id {
			result = append(result, &r.reservations[i])
		}
	}
	return result
}

func (r *Repository) hasActiveReservationForRoom(id RoomID) bool {
	for i := range r.reservations {
		if r.reservations[i].RoomID == id && r.reservations[i].Status == ReservationActive {
			return true
		}
	}
	return false
}

func (r *Repository) hasActiveReservationForGuest(id GuestID) bool {
	for i := range r.reservations {
		if r.reservations[i].GuestID == id && r.reservations[i].Status == ReservationActive {
			return true
		}
	}
	return false
}

// =============================================================================
// ROOM OPERATIONS
// =============================================================================

// RoomEdit carries optional replacement fields for a room edit.
// A status edit may not set RoomOccupied: occupancy is owned by the
// check-in lifecycle so the occupant invariant cannot be violated by a
// manual edit.
type RoomEdit struct {
	Type   *string
	Price  *decimal.Decimal
	Status *RoomStatus
}

// AddRoom registers a room. The price must be non-negative.
func (r *Repository) AddRoom(ctx context.Context, roomType string, price decimal.Decimal) (Room, error) {
	if price.IsNegative() {
		return Room{}, &ValidationError{Field: "price", Reason: "nightly price must be non-negative"}
	}

	room := Room{
		ID:     r.nextRoomID(),
		Type:   strings.TrimSpace(roomType),
		Price:  price,
		Status: RoomVacant,
	}
	r.rooms = append(r.rooms, room)

	if err := r.save(ctx); err != nil {
		return room, err
	}
	return room, nil
}

// EditRoom applies the supplied fields to a room. All fields are
// validated before any is applied.
func (r *Repository) EditRoom(ctx context.Context, id RoomID, edit RoomEdit) error {
	room := r.roomAt(id)
	if room == nil {
		return ErrRoomNotFound
	}

	if edit.Price != nil && edit.Price.IsNegative() {
		return &ValidationError{Field: "price", Reason: "nightly price must be non-negative"}
	}
	if edit.Status != nil {
		if !edit.Status.Valid() {
			return &ValidationError{Field: "status", Reason: "unknown room status"}
		}
		if *edit.Status == RoomOccupied {
			return &ValidationError{Field: "status", Reason: "occupied status is set by check-in, not by edit"}
		}
	}

	if edit.Type != nil {
		room.Type = strings.TrimSpace(*edit.Type)
	}
	if edit.Price != nil {
		room.Price = *edit.Price
	}
	if edit.Status != nil {
		room.Status = *edit.Status
		room.CurrentGuestID = nil
	}

	return r.save(ctx)
}

// DeleteRoom removes a room. Forbidden while any active reservation
// references it. The room's identifier is never reused.
func (r *Repository) DeleteRoom(ctx context.Context, id RoomID) error {
	if r.hasActiveReservationForRoom(id) {
		return ErrActiveReservationExists
	}
	for i := range r.rooms {
		if r.rooms[i].ID == id {
			r.rooms = append(r.rooms[:i], r.rooms[i+1:]...)
			return r.save(ctx)
		}
	}
	return ErrRoomNotFound
}

// Room returns a room by identifier.
func (r *Repository) Room(id RoomID) (Room, error) {
	room := r.roomAt(id)
	if room == nil {
		return Room{}, ErrRoomNotFound
	}
	return *room, nil
}

// Rooms returns all rooms in registration order.
func (r *Repository) Rooms() []Room {
	return append([]Room(nil), r.rooms...)
}

// =============================================================================
// GUEST OPERATIONS
// =============================================================================

// AddGuest registers a guest after validating all identity fields.
func (r *Repository) AddGuest(ctx context.Context, in GuestInput) (Guest, error) {
	in = in.normalized()
	if err := in.Validate(); err != nil {
		return Guest{}, err
	}

	guest := Guest{
		ID:         r.nextGuestID(),
		Name:       in.Name,
		Family:     in.Family,
		NationalID: in.NationalID,
		Phone:      in.Phone,
		Address:    in.Address,
	}
	r.guests = append(r.guests, guest)

	if err := r.save(ctx); err != nil {
		return guest, err
	}
	return guest, nil
}

// EditGuest applies the supplied fields to a guest. Each supplied field
// is validated; nothing is applied if any fails.
func (r *Repository) EditGuest(ctx context.Context, id GuestID, edit GuestEdit) error {
	guest := r.guestAt(id)
	if guest == nil {
		return ErrGuestNotFound
	}

	type change struct {
		field string
		value string
		apply func(string)
	}
	var changes []change
	if edit.Name != nil {
		changes = append(changes, change{"Name", strings.TrimSpace(*edit.Name), func(v string) { guest.Name = v }})
	}
	if edit.Family != nil {
		changes = append(changes, change{"Family", strings.TrimSpace(*edit.Family), func(v string) { guest.Family = v }})
	}
	if edit.NationalID != nil {
		changes = append(changes, change{"NationalID", *edit.NationalID, func(v string) { guest.NationalID = v }})
	}
	if edit.Phone != nil {
		changes = append(changes, change{"Phone", *edit.Phone, func(v string) { guest.Phone = v }})
	}

	for _, c := range changes {
		if err := validateGuestField(c.field, c.value); err != nil {
			return err
		}
	}
	for _, c := range changes {
		c.apply(c.value)
	}
	if edit.Address != nil {
		guest.Address = strings.TrimSpace(*edit.Address)
	}

	return r.save(ctx)
}

// DeleteGuest removes a guest. Forbidden while any active reservation
// references them.
func (r *Repository) DeleteGuest(ctx context.Context, id GuestID) error {
	if r.hasActiveReservationForGuest(id) {
		return ErrActiveReservationExists
	}
	for i := range r.guests {
		if r.guests[i].ID == id {
			r.guests = append(r.guests[:i], r.guests[i+1:]...)
			return r.save(ctx)
		}
	}
	return ErrGuestNotFound
}

// Guest returns a guest by identifier.
func (r *Repository) Guest(id GuestID) (Guest, error) {
	guest := r.guestAt(id)
	if guest == nil {
		return Guest{}, ErrGuestNotFound
	}
	return *guest, nil
}

// Guests returns all guests in registration order.
func (r *Repository) Guests() []Guest {
	return append([]Guest(nil), r.guests...)
}

// SearchGuests matches the query against guest names (case-insensitive)
// and national identifiers.
func (r *Repository) SearchGuests(query string) []Guest {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var result []Guest
	for _, g := range r.guests {
		if strings.Contains(strings.ToLower(g.Name), query) ||
			strings.Contains(g.NationalID, query) {
			result = append(result, g)
		}
	}
	return result
}

// =============================================================================
// RESERVATION ACCESSORS
// =============================================================================
// Reservation creation and state transitions live on the Engine; the
// repository only resolves and lists.

// Reservation returns a reservation by identifier.
func (r *Repository) Reservation(id ReservationID) (Reservation, error) {
	res := r.reservationAt(id)
	if res == nil {
		return Reservation{}, ErrReservationNotFound
	}
	return *res, nil
}

// Reservations returns all reservations in creation order.
func (r *Repository) Reservations() []Reservation {
	return append([]Reservation(nil), r.reservations...)
}

// GuestReservations returns every reservation held by a guest.
func (r *Repository) GuestReservations(id GuestID) []Reservation {
	var result []Reservation
	for _, res := range r.reservations {
		if res.GuestID == id {
			result = append(result, res)
		}
	}
	return result
}

// RoomReservations returns every reservation on a room.
func (r *Repository) RoomReservations(id RoomID) []Reservation {
	var result []Reservation
	for _, res := range r.reservations {
		if res.RoomID == id {
			result = append(result, res)
		}
	}
	return result
}
