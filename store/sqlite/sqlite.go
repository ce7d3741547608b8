/*
Package sqlite provides a SQLite-backed implementation of booking.Store.

PURPOSE:
  Durable snapshot persistence in a single database file. The engine's
  persistence discipline is whole-state overwrite, so Save rewrites every
  table inside one transaction: either the new state lands completely or
  the previous state survives untouched.

KEY TABLES:
  rooms:        Room records (price stored as TEXT, decimal-exact)
  guests:       Guest records
  reservations: Reservation records with raw YYYY-MM-DD date strings
  counters:     Single-row table with the monotonic identifier counters

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better crash
  recovery; the engine itself is single-actor so reader/writer
  concurrency is not the concern here.

USAGE:
  st, err := sqlite.New("./hotel.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()
  repo := booking.NewRepository(ctx, st)

SEE ALSO:
  - booking/snapshot.go: Store interface
  - store/jsonfile: The flat-file alternative
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/lodging-engine/booking"
)

// Store implements booking.Store using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rooms (
		id TEXT PRIMARY KEY,
		room_type TEXT NOT NULL,
		price TEXT NOT NULL,
		status TEXT NOT NULL,
		current_guest_id TEXT
	);

	CREATE TABLE IF NOT EXISTS guests (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		family TEXT NOT NULL,
		national_id TEXT NOT NULL,
		phone TEXT NOT NULL,
		address TEXT
	);

	CREATE TABLE IF NOT EXISTS reservations (
		id TEXT PRIMARY KEY,
		guest_id TEXT NOT NULL,
		room_id TEXT NOT NULL,
		check_in_date TEXT NOT NULL,
		check_out_date TEXT NOT NULL,
		status TEXT NOT NULL,
		total_cost TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reservations_room
		ON reservations(room_id);
	CREATE INDEX IF NOT EXISTS idx_reservations_guest
		ON reservations(guest_id);
	CREATE INDEX IF NOT EXISTS idx_reservations_status
		ON reservations(status);

	-- Single-row counter table; the row id is always 1.
	CREATE TABLE IF NOT EXISTS counters (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_room_id INTEGER NOT NULL,
		next_guest_id INTEGER NOT NULL,
		next_reservation_id INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load reads the full snapshot. Returns (nil, nil) when the database has
// never been saved to.
func (s *Store) Load(ctx context.Context) (*booking.Snapshot, error) {
	var snap booking.Snapshot

	var hasCounters bool
	err := s.db.QueryRowContext(ctx,
		`SELECT next_room_id, next_guest_id, next_reservation_id FROM counters WHERE id = 1`,
	).Scan(&snap.Counters.NextRoomID, &snap.Counters.NextGuestID, &snap.Counters.NextReservationID)
	switch {
	case err == sql.ErrNoRows:
		// an empty counters table means no prior save
	case err != nil:
		return nil, fmt.Errorf("failed to load counters: %w", err)
	default:
		hasCounters = true
	}

	rooms, err := s.loadRooms(ctx)
	if err != nil {
		return nil, err
	}
	guests, err := s.loadGuests(ctx)
	if err != nil {
		return nil, err
	}
	reservations, err := s.loadReservations(ctx)
	if err != nil {
		return nil, err
	}

	if !hasCounters && len(rooms) == 0 && len(guests) == 0 && len(reservations) == 0 {
		return nil, nil
	}

	snap.Rooms = rooms
	snap.Guests = guests
	snap.Reservations = reservations
	return &snap, nil
}

func (s *Store) loadRooms(ctx context.Context) ([]booking.Room, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, room_type, price, status, current_guest_id FROM rooms ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to load rooms: %w", err)
	}
	defer rows.Close()

	var rooms []booking.Room
	for rows.Next() {
		var room booking.Room
		var price string
		var occupant sql.NullString
		if err := rows.Scan(&room.ID, &room.Type, &price, &room.Status, &occupant); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		room.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("room %s has invalid price %q: %w", room.ID, price, err)
		}
		if occupant.Valid {
			id := booking.GuestID(occupant.String)
			room.CurrentGuestID = &id
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (s *Store) loadGuests(ctx context.Context) ([]booking.Guest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, family, national_id, phone, COALESCE(address, '') FROM guests ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to load guests: %w", err)
	}
	defer rows.Close()

	var guests []booking.Guest
	for rows.Next() {
		var g booking.Guest
		if err := rows.Scan(&g.ID, &g.Name, &g.Family, &g.NationalID, &g.Phone, &g.Address); err != nil {
			return nil, fmt.Errorf("failed to scan guest: %w", err)
		}
		guests = append(guests, g)
	}
	return guests, rows.Err()
}

func (s *Store) loadReservations(ctx context.Context) ([]booking.Reservation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, guest_id, room_id, check_in_date, check_out_date, status, total_cost
		 FROM reservations ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to load reservations: %w", err)
	}
	defer rows.Close()

	var reservations []booking.Reservation
	for rows.Next() {
		var res booking.Reservation
		var cost string
		if err := rows.Scan(&res.ID, &res.GuestID, &res.RoomID,
			&res.CheckInDate, &res.CheckOutDate, &res.Status, &cost); err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		res.TotalCost, err = decimal.NewFromString(cost)
		if err != nil {
			return nil, fmt.Errorf("reservation %s has invalid cost %q: %w", res.ID, cost, err)
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

// Save rewrites all tables inside one transaction.
func (s *Store) Save(ctx context.Context, snap booking.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"rooms", "guests", "reservations"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, room := range snap.Rooms {
		var occupant sql.NullString
		if room.CurrentGuestID != nil {
			occupant = sql.NullString{String: string(*room.CurrentGuestID), Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rooms (id, room_type, price, status, current_guest_id) VALUES (?, ?, ?, ?, ?)`,
			room.ID, room.Type, room.Price.String(), room.Status, occupant); err != nil {
			return fmt.Errorf("failed to insert room %s: %w", room.ID, err)
		}
	}

	for _, g := range snap.Guests {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO guests (id, name, family, national_id, phone, address) VALUES (?, ?, ?, ?, ?, ?)`,
			g.ID, g.Name, g.Family, g.NationalID, g.Phone, g.Address); err != nil {
			return fmt.Errorf("failed to insert guest %s: %w", g.ID, err)
		}
	}

	for _, res := range snap.Reservations {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO reservations (id, guest_id, room_id, check_in_date, check_out_date, status, total_cost)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			res.ID, res.GuestID, res.RoomID, res.CheckInDate, res.CheckOutDate, res.Status,
			res.TotalCost.String()); err != nil {
			return fmt.Errorf("failed to insert reservation %s: %w", res.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO counters (id, next_room_id, next_guest_id, next_reservation_id)
		 VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   next_room_id = excluded.next_room_id,
		   next_guest_id = excluded.next_guest_id,
		   next_reservation_id = excluded.next_reservation_id`,
		snap.Counters.NextRoomID, snap.Counters.NextGuestID, snap.Counters.NextReservationID); err != nil {
		return fmt.Errorf("failed to save counters: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}
