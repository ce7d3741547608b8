/*
snapshot.go - Persistence collaborator interface

PURPOSE:
  Defines the boundary between the engine and storage. Persistence is a
  whole-state snapshot: every mutating operation saves the full snapshot
  after it has been applied (save-after-write discipline). A crash between
  mutation and save loses that single operation but never corrupts prior
  state, because implementations replace the previous state only on a
  fully successful write.

IMPLEMENTATIONS:
  - booking/store/memory.go: In-memory, for tests and dev
  - store/jsonfile:          Flat JSON file, temp-write + rename
  - store/sqlite:            SQLite, full rewrite in one transaction

SEE ALSO:
  - repository.go: The only caller of Save; NewRepository calls Load
*/
package booking

import "context"

// =============================================================================
// SNAPSHOT - Full engine state
// =============================================================================

// Counters holds the next identifier per entity type. Counters only
// increase; identifiers are never reused after deletion.
type Counters struct {
	NextRoomID        int64 `json:"next_room_id"`
	NextGuestID       int64 `json:"next_guest_id"`
	NextReservationID int64 `json:"next_reservation_id"`
}

// Snapshot is the complete persisted state.
type Snapshot struct {
	Rooms        []Room        `json:"rooms"`
	Guests       []Guest       `json:"guests"`
	Reservations []Reservation `json:"reservations"`
	Counters     Counters      `json:"counters"`
}

// Clone returns a deep copy. Entity structs contain no shared references
// except Room.CurrentGuestID, which is re-pointed.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Rooms:        make([]Room, len(s.Rooms)),
		Guests:       append([]Guest(nil), s.Guests...),
		Reservations: append([]Reservation(nil), s.Reservations...),
		Counters:     s.Counters,
	}
	for i, room := range s.Rooms {
		out.Rooms[i] = room
		if room.CurrentGuestID != nil {
			id := *room.CurrentGuestID
			out.Rooms[i].CurrentGuestID = &id
		}
	}
	return out
}

// =============================================================================
// STORE - Whole-snapshot persistence
// =============================================================================

// Store persists the full snapshot. Save replaces all previous state;
// Load returns (nil, nil) when no prior state exists.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}
