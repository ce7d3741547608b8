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
// ROOM CRUD
// =============================================================================

func TestAddRoom_SequentialIdentifiers(t *testing.T) {
	// GIVEN: An empty repository
	// WHEN: Three rooms are registered
	// THEN: They receive identifiers 1, 2, 3 and start vacant

	engine, _ := newTestEngine(t)

	a := addRoom(t, engine, "single", 500_000)
	b := addRoom(t, engine, "double", 1_000_000)
	c := addRoom(t, engine, "suite", 2_000_000)

	assert.Equal(t, booking.RoomID("1"), a.ID)
	assert.Equal(t, booking.RoomID("2"), b.ID)
	assert.Equal(t, booking.RoomID("3"), c.ID)
	assert.Equal(t, booking.RoomVacant, a.Status)
}

func TestAddRoom_NegativePrice_Rejected(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.Repository().AddRoom(context.Background(), "single", decimal.NewFromInt(-1))

	var ve *booking.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "price", ve.Field)
}

func TestEditRoom_PartialEdit_OnlySuppliedFieldsChange(t *testing.T) {
	// GIVEN: A registered room
	// WHEN: Only the price is edited
	// THEN: Type and status are untouched

	engine, _ := newTestEngine(t)
	ctx := context.Background()
	room := addRoom(t, engine, "single", 500_000)

	newPrice := decimal.NewFromInt(750_000)
	require.NoError(t, engine.Repository().EditRoom(ctx, room.ID, booking.RoomEdit{Price: &newPrice}))

	updated, err := engine.Repository().Room(room.ID)
	require.NoError(t, err)
	assert.Equal(t, "single", updated.Type)
	assert.True(t, newPrice.Equal(updated.Price))
	assert.Equal(t, booking.RoomVacant, updated.Status)
}

func TestEditRoom_StatusToOccupied_Rejected(t *testing.T) {
	// GIVEN: A registered room
	// WHEN: An edit tries to set the status to occupied directly
	// THEN: Rejected; occupancy is owned by check-in

	engine, _ := newTestEngine(t)
	room := addRoom(t, engine, "single", 500_000)

	occupied := booking.RoomOccupied
	err := engine.Repository().EditRoom(context.Background(), room.ID, booking.RoomEdit{Status: &occupied})

	var ve *booking.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "status", ve.Field)
}

func TestEditRoom_InvalidField_NothingApplied(t *testing.T) {
	// GIVEN: A registered room
	// WHEN: An edit supplies a valid type alongside a negative price
	// THEN: The whole edit is rejected and the type is unchanged

	engine, _ := newTestEngine(t)
	room := addRoom(t, engine, "single", 500_000)

	newType := "suite"
	badPrice := decimal.NewFromInt(-10)
	err := engine.Repository().EditRoom(context.Background(), room.ID, booking.RoomEdit{
		Type:  &newType,
		Price: &badPrice,
	})
	require.Error(t, err)

	updated, err := engine.Repository().Room(room.ID)
	require.NoError(t, err)
	assert.Equal(t, "single", updated.Type, "rejected edit must not be partially applied")
}

func TestDeleteRoom_WithActiveReservation_Rejected(t *testing.T) {
	// GIVEN: A room held by an active reservation
	// WHEN: Deletion is attempted
	// THEN: Rejected; after the reservation is cancelled, deletion succeeds

	engine, _ := newTestEngine(t)
	ctx := context.Background()
	today := date(2026, time.September, 1)

	room := addRoom(t, engine, "double", 1_000_000)
	guest := addGuest(t, engine, "Sara")
	res, err := engine.Reserve(ctx, guest.ID, room.ID, "2026-09-01", "2026-09-04", today)
	require.NoError(t, err)

	err = engine.Repository().DeleteRoom(ctx, room.ID)
	assert.ErrorIs(t, err, booking.ErrActiveReservationExists)

	require.NoError(t, engine.Cancel(ctx, res.ID, today))
	assert.NoError(t, engine.Repository().DeleteRoom(ctx, room.ID))
}

func TestDeleteRoom_IdentifierNotReused(t *testing.T) {
	// GIVEN: Room 1 was deleted
	// WHEN: A new room is registered
	// THEN: It gets identifier 2, never 1

	engine, _ := newTestEngine(t)
	ctx := context.Background()

	first := addRoom(t, engine, "single", 500_000)
	require.NoError(t, engine.Repository().DeleteRoom(ctx, first.ID))

	second := addRoom(t, engine, "double", 1_000_000)
	assert.Equal(t, booking.RoomID("2"), second.ID)
}

// =============================================================================
// GUEST VALIDATION
// =============================================================================

func TestAddGuest_ValidInput_Registered(t *testing.T) {
	engine, _ := newTestEngine(t)

	guest, err := engine.Repository().AddGuest(context.Background(), booking.GuestInput{
		Name:       "  Sara ",
		Family:     "Ahmadi",
		NationalID: "0012345678",
		Phone:      "09351234567",
		Address:    " Tehran ",
	})
	require.NoError(t, err)

	assert.Equal(t, booking.GuestID("1"), guest.ID)
	assert.Equal(t, "Sara", guest.Name, "name should be trimmed")
	assert.Equal(t, "Tehran", guest.Address)
}

func TestAddGuest_InvalidFields_Rejected(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	valid := booking.GuestInput{
		Name:       "Sara",
		Family:     "Ahmadi",
		NationalID: "0012345678",
		Phone:      "09351234567",
	}

	cases := []struct {
		name   string
		mutate func(*booking.GuestInput)
		field  string
	}{
		{"empty name", func(in *booking.GuestInput) { in.Name = "   " }, "name"},
		{"empty family", func(in *booking.GuestInput) { in.Family = "" }, "family"},
		{"short national id", func(in *booking.GuestInput) { in.NationalID = "123456789" }, "national_id"},
		{"long national id", func(in *booking.GuestInput) { in.NationalID = "12345678901" }, "national_id"},
		{"non-digit national id", func(in *booking.GuestInput) { in.NationalID = "12345abcde" }, "national_id"},
		{"short phone", func(in *booking.GuestInput) { in.Phone = "0912345678" }, "phone"},
		{"wrong phone prefix", func(in *booking.GuestInput) { in.Phone = "08123456789" }, "phone"},
		{"non-digit phone", func(in *booking.GuestInput) { in.Phone = "09x23456789" }, "phone"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)

			_, err := engine.Repository().AddGuest(ctx, in)

			var ve *booking.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}

	assert.Empty(t, engine.Repository().Guests(), "no rejected guest should be registered")
}

func TestEditGuest_InvalidField_NothingApplied(t *testing.T) {
	// GIVEN: A registered guest
	// WHEN: An edit supplies a valid name alongside an invalid phone
	// THEN: The whole edit is rejected and the name is unchanged

	engine, _ := newTestEngine(t)
	ctx := context.Background()
	guest := addGuest(t, engine, "Sara")

	newName := "Soraya"
	badPhone := "12345"
	err := engine.Repository().EditGuest(ctx, guest.ID, booking.GuestEdit{
		Name:  &newName,
		Phone: &badPhone,
	})
	require.Error(t, err)

	current, err := engine.Repository().Guest(guest.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sara", current.Name)
	assert.Equal(t, "09123456789", current.Phone)
}

func TestEditGuest_ValidEdit_Applied(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()
	guest := addGuest(t, engine, "Sara")

	newPhone := "09987654321"
	require.NoError(t, engine.Repository().EditGuest(ctx, guest.ID, booking.GuestEdit{Phone: &newPhone}))

	current, err := engine.Repository().Guest(guest.ID)
	require.NoError(t, err)
	assert.Equal(t, newPhone, current.Phone)
	assert.Equal(t, "Sara", current.Name)
}

func TestDeleteGuest_WithActiveReservation_Rejected(t *testing.T) {
	// GIVEN: A guest holding an active reservation
	// WHEN: Deletion is attempted
	// THEN: Rejected; after the reservation is cancelled, deletion succeeds

	engine, _ := newTestEngine(t)
	ctx := context.Background()
	today := date(2026, time.September, 1)

	room := addRoom(t, engine, "double", 1_000_000)
	guest := addGuest(t, engine, "Sara")
	res, err := engine.Reserve(ctx, guest.ID, room.ID, "2026-09-01", "2026-09-04", today)
	require.NoError(t, err)

	err = engine.Repository().DeleteGuest(ctx, guest.ID)
	assert.ErrorIs(t, err, booking.ErrActiveReservationExists)

	require.NoError(t, engine.Cancel(ctx, res.ID, today))
	require.NoError(t, engine.Repository().DeleteGuest(ctx, guest.ID))

	_, err = engine.Repository().Guest(guest.ID)
	assert.ErrorIs(t, err, booking.ErrGuestNotFound)
}

func TestSearchGuests_MatchesNameAndNationalID(t *testing.T) {
	// GIVEN: Two guests
	// WHEN: Searching by partial name (case-insensitive) and by partial
	//       national identifier
	// THEN: The matching guest is returned

	engine, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Repository().AddGuest(ctx, booking.GuestInput{
		Name: "Sara", Family: "Ahmadi", NationalID: "0012345678", Phone: "09351234567",
	})
	require.NoError(t, err)
	_, err = engine.Repository().AddGuest(ctx, booking.GuestInput{
		Name: "Omid", Family: "Karimi", NationalID: "9987654321", Phone: "09121112233",
	})
	require.NoError(t, err)

	byName := engine.Repository().SearchGuests("SAR")
	require.Len(t, byName, 1)
	assert.Equal(t, "Sara", byName[0].Name)

	byNationalID := engine.Repository().SearchGuests("99876")
	require.Len(t, byNationalID, 1)
	assert.Equal(t, "Omid", byNationalID[0].Name)

	assert.Empty(t, engine.Repository().SearchGuests("   "))
	assert.Empty(t, engine.Repository().SearchGuests("nobody"))
}

// =============================================================================
// LOAD / PERSISTENCE ROUND TRIP
// =============================================================================

func TestRepository_ReloadsPersistedState(t *testing.T) {
	// GIVEN: A repository that registered entities and reserved a room
	// WHEN: A new repository loads from the same store
	// THEN: All entities, statuses and counters survive the reload

	mem := store.NewMemory()
	ctx := context.Background()

	first := booking.NewEngine(booking.NewRepository(ctx, mem))
	room, err := first.Repository().AddRoom(ctx, "double", decimal.NewFromInt(1_000_000))
	require.NoError(t, err)
	guest, err := first.Repository().AddGuest(ctx, booking.GuestInput{
		Name: "Sara", Family: "Ahmadi", NationalID: "0012345678", Phone: "09351234567",
	})
	require.NoError(t, err)
	res, err := first.Reserve(ctx, guest.ID, room.ID, "2026-09-01", "2026-09-04", date(2026, time.September, 1))
	require.NoError(t, err)

	second := booking.NewEngine(booking.NewRepository(ctx, mem))

	reloadedRoom, err := second.Repository().Room(room.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.RoomReserved, reloadedRoom.Status)

	reloadedRes, err := second.Repository().Reservation(res.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ReservationActive, reloadedRes.Status)
	assert.True(t, decimal.NewFromInt(3_000_000).Equal(reloadedRes.TotalCost))

	// Counters continue where they left off.
	next := addRoom(t, second, "single", 500_000)
	assert.Equal(t, booking.RoomID("2"), next.ID)
}

func TestRepository_EmptyStore_StartsEmpty(t *testing.T) {
	engine, _ := newTestEngine(t)

	assert.Empty(t, engine.Repository().Rooms())
	assert.Empty(t, engine.Repository().Guests())
	assert.Empty(t, engine.Repository().Reservations())
}
