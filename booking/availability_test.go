package booking_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/lodging-engine/booking"
	"github.com/warp/lodging-engine/booking/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestEngine(t *testing.T) (*booking.Engine, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	repo := booking.NewRepository(context.Background(), mem)
	return booking.NewEngine(repo), mem
}

func date(year int, month time.Month, day int) booking.Date {
	return booking.NewDate(year, month, day)
}

func addRoom(t *testing.T, e *booking.Engine, roomType string, price int64) booking.Room {
	t.Helper()
	room, err := e.Repository().AddRoom(context.Background(), roomType, decimal.NewFromInt(price))
	require.NoError(t, err)
	return room
}

func addGuest(t *testing.T, e *booking.Engine, name string) booking.Guest {
	t.Helper()
	guest, err := e.Repository().AddGuest(context.Background(), booking.GuestInput{
		Name:       name,
		Family:     "Tester",
		NationalID: "1234567890",
		Phone:      "09123456789",
	})
	require.NoError(t, err)
	return guest
}

// =============================================================================
// RESERVE - SUCCESS PATHS
// =============================================================================

func TestReserve_ThreeNights_CostAndStateCorrect(t *testing.T) {
	// GIVEN: A vacant room priced 1,000,000 per night and a registered guest
	// WHEN: Reserving Sep 1 to Sep 4 (three nights)
	// THEN: Reservation is active with cost 3,000,000 and the room is reserved

	engine, _ := newTestEngine(t)
	ctx := context.Background()
	today := date(2026, time.September, 1)

	room := addRoom(t, engine, "double", 1_000_000)
	guest := addGuest(t, engine, "Sara")

	res, err := engine.Reserve(ctx, guest.ID, room.ID, "2026-09-01", "2026-09-04", today)
	require.NoError(t, err)

	assert.Equal(t, booking.ReservationActive, res.Status)
	assert.True(t, decimal.NewFromInt(3_000_000).Equal(res.TotalCost),
		"expected 3,000,000, got %s", res.TotalCost)
	assert.Equal(t, "2026-09-01", res.CheckInDate)
	assert.Equal(t, "2026-09-04", res.CheckOutDate)

	updated, err := engine.Repository().Room(room.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.RoomReserved, updated.Status)
	assert.Nil(t, updated.CurrentGuestID)
}

func TestReserve_CheckInToday_Allowed(t *testing.T) {
	// GIVEN: A vacant room
	// WHEN: Reserving with check-in equal to the current date
	// THEN: Reservation succeeds (only strictly-past check-ins are rejected)

	engine, _ := newTestEngine(t)
	ctx := context.Background()
	today := date(2026, time.September, 10)

	room := addRoom(t, engine, "single", 500_000)
	guest := addGuest(t, engine, "Omid")

	_, err := engine.Reserve(ctx, guest.ID, room.ID, "2026-09-10", "2026-09-11", today)
	assert.NoError(t, err)
}

func TestReserve_BackToBack_BoundaryDayShared(t *testing.T) {
	// GIVEN: An active reservation Sep 1 to Sep 4, then settled so the room
	//        is vacant again
	// WHEN: A second reservation starts exactly on Sep 4
	// THEN: It is accepted; the check-out day is not occupied

	engine, _ := newTestEngine(t)
	ctx := context.Background()
	today := date(2026, time.September, 1)

	room := addRoom(t, engine, "double", 1_000_000)
	guest := addGuest(t, engine, "Sara")

	first, err := engine.Reserve(ctx, guest.ID, room.ID, "2026-09-01", "2026-09-04", today)
	require.NoError(t, err)

	// Settle the first stay so the room returns to vacant.
	require.NoError(t, engine.CheckIn(ctx, first.ID, today))
	_, err = engine.CheckOut(ctx, first.ID, date(2026, time.September, 4))
	require.NoError(t, err)

	_, err = engine.Reserve(ctx, guest.ID, room.ID, "2026-09-04", "2026-09-06", date(2026, time.September, 4))
	assert.NoError(t, err, "back-to-back booking sharing the boundary day should be accepted")
}

// =============================================================================
// RESERVE - REJECTION PATHS
// =============================================================================

func TestReserve_RoomNotVacant_Rejected(t *testing.T) {
	// GIVEN: A room already reserved
	// WHEN: A second guest tries to reserve it for a disjoint future range
	// THEN: Rejected with ErrRoomUnavailable (status gate precedes overlap)

	engine, _ := newTestEngine(t)
	ctx := context.Background()
	today := date(2026, time.September, 1)

	room := addRoom(t, engine, "double", 1_000_000)
	guest := addGuest(t, engine, "Sara")

	_, err := engine.Reserve(ctx, guest.ID, room.ID, "2026-09-01", "2026-09-04", today)
	require.NoError(t, err)

	_, err = engine.Reserve(ctx, guest.ID, room.ID, "2026-10-01", "2026-10-03", today)
	assert.ErrorIs(t, err, booking.ErrRoomUnavailable)
}

func TestReserve_PastCheckIn_Rejected(t *testing.T) {
	// GIVEN: A vacant room
	// WHEN: Reserving with a check-in before the current date
	// THEN: Rejected with ErrInvalidDateRange

	engine, _ := newTestEngine(t)
	ctx := context.Background()

	room := addRoom(t, engine, "single", 500_000)
	guest := addGuest(t, engine, "Omid")

	_, err := engine.Reserve(ctx, guest.ID, room.ID, "2026-09-01", "2026-09-03", date(2026, time.September, 2))
	assert.ErrorIs(t, err, booking.ErrInvalidDateRange)
}

func TestReserve_CheckOutNotAfterCheckIn_Rejected(t *testing.T) {
	// GIVEN: A vacant room
	// WHEN: Reserving with check-out equal to, then before, check-in
	// THEN: Both rejected with ErrInvalidDateRange; zero-night stays do not exist

	engine, _ := newTestEngine(t)
	ctx := context.Background()
	today := date(2026, time.September, 1)

	room := addRoom(t, engine, "single", 500_000)
	guest := addGuest(t, engine, "Omid")

	_, err := engine.Reserve(ctx, guest.ID, room.ID, "2026-09-05", "2026-09-05", today)
	assert.ErrorIs(t, err, booking.ErrInvalidDateRange, "same-day range should be rejected")

	_, err = engine.Reserve(ctx, guest.ID, room.ID, "2026-09-05", "2026-09-03", today)
	assert.ErrorIs(t, err, booking.ErrInvalidDateRange, "inverted range should be rejected")
}

func TestReserve_MalformedDate_Rejected(t *testing.T) {
	// GIVEN: A vacant room
	// WHEN: Reserving with a date that is not a real calendar date
	// THEN: Rejected with ErrInvalidDate

	engine, _ := newTestEngine(t)
	ctx := context.Background()
	today := date(2026, time.September, 1)

	room := addRoom(t, engine, "single", 500_000)
	guest := addGuest(t, engine, "Omid")

	_, err := engine.Reserve(ctx, guest.ID, room.ID, "2026-02-30", "2026-03-02", today)
	assert.ErrorIs(t, err, booking.ErrInvalidDate)

	_, err = engine.Reserve(ctx, guest.ID, room.ID, "not-a-date", "2026-03-02", today)
	assert.ErrorIs(t, err, booking.ErrInvalidDate)
}

func TestReserve_UnknownReferences_Rejected(t *testing.T) {
	// GIVEN: An engine with one room and one guest
	// WHEN: Reserving with an unknown guest or room identifier
	// THEN: The matching not-found sentinel is returned

	engine, _ := newTestEngine(t)
	ctx := context.Background()
	today := date(2026, time.September, 1)

	room := addRoom(t, engine, "single", 500_000)
	guest := addGuest(t, engine, "Omid")

	_, err := engine.Reserve(ctx, "999", room.ID, "2026-09-01", "2026-09-02", today)
	assert.ErrorIs(t, err, booking.ErrGuestNotFound)

	_, err = engine.Reserve(ctx, guest.ID, "999", "2026-09-01", "2026-09-02", today)
	assert.ErrorIs(t, err, booking.ErrRoomNotFound)
}

func TestReserve_Rejection_LeavesNoSideEffects(t *testing.T) {
	// GIVEN: A vacant room and a guest
	// WHEN: A reservation attempt fails validation
	// THEN: No reservation exists, the room stays vacant, and the next
	//       successful reservation gets the first identifier

	engine, _ := newTestEngine(t)
	ctx := context.Background()
	today := date(2026, time.September, 1)

	room := addRoom(t, engine, "single", 500_000)
	guest := addGuest(t, engine, "Omid")

	_, err := engine.Reserve(ctx, guest.ID, room.ID, "2026-09-05", "2026-09-05", today)
	require.Error(t, err)

	assert.Empty(t, engine.Repository().Reservations())
	current, err := engine.Repository().Room(room.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.RoomVacant, current.Status)

	res, err := engine.Reserve(ctx, guest.ID, room.ID, "2026-09-05", "2026-09-07", today)
	require.NoError(t, err)
	assert.Equal(t, booking.ReservationID("1"), res.ID, "failed attempt should not consume an identifier")
}

func TestReserve_ExistingActiveWithMalformedDates_Rejected(t *testing.T) {
	// GIVEN: The room was reloaded with an active reservation whose stored
	//        check-out date is unparsable (the room still shows reserved)
	// WHEN: A new reservation is attempted on that room after the room was
	//       manually returned to vacant
	// THEN: The attempt is rejected; availability cannot be proven against
	//       the malformed record

	mem := store.NewMemory()
	mem.Seed(booking.Snapshot{
		Rooms: []booking.Room{
			{ID: "1", Type: "single", Price: decimal.NewFromInt(500_000), Status: booking.RoomVacant},
		},
		Guests: []booking.Guest{
			{ID: "1", Name: "Omid", Family: "Tester", NationalID: "1234567890", Phone: "09123456789"},
		},
		Reservations: []booking.Reservation{
			{ID: "1", GuestID: "1", RoomID: "1", CheckInDate: "garbage", CheckOutDate: "garbage",
				Status: booking.ReservationActive, TotalCost: decimal.NewFromInt(500_000)},
		},
		Counters: booking.Counters{NextRoomID: 2, NextGuestID: 2, NextReservationID: 2},
	})

	repo := booking.NewRepository(context.Background(), mem)
	engine := booking.NewEngine(repo)

	_, err := engine.Reserve(context.Background(), "1", "1", "2026-09-01", "2026-09-03", date(2026, time.September, 1))
	assert.ErrorIs(t, err, booking.ErrInvalidDate)
}
