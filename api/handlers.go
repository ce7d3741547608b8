/*
handlers.go - HTTP API handlers for the lodging engine

PURPOSE:
  Exposes the booking engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic. The core returns
  plain data; all human-facing presentation lives in clients.

ENDPOINTS:
  Rooms:
    GET    /api/rooms                   List all rooms (reconciled)
    POST   /api/rooms                   Register a room
    GET    /api/rooms/available         List vacant rooms
    GET    /api/rooms/{id}              Get a room
    PUT    /api/rooms/{id}              Edit a room
    DELETE /api/rooms/{id}              Delete a room
    GET    /api/rooms/{id}/reservations Reservations on a room

  Guests:
    GET    /api/guests                  List all guests
    POST   /api/guests                  Register a guest
    GET    /api/guests/search?q=        Search by name or national id
    GET    /api/guests/{id}             Get a guest
    PUT    /api/guests/{id}             Edit a guest
    DELETE /api/guests/{id}             Delete a guest
    GET    /api/guests/{id}/reservations Reservations held by a guest

  Reservations:
    GET    /api/reservations            List all reservations (reconciled)
    POST   /api/reservations            Reserve a room
    GET    /api/reservations/active     List active reservations
    GET    /api/reservations/{id}       Get a reservation
    POST   /api/reservations/{id}/checkin  Check in
    POST   /api/reservations/{id}/checkout Settle and release
    POST   /api/reservations/{id}/cancel   Cancel

  Reports:
    GET    /api/reports/status          Room status census
    GET    /api/reports/reservations?date= Active reservations on a date
    GET    /api/reports/income?start=&end= Settled income in a window
    GET    /api/reports/dashboard       Census + active count + today income

  Admin:
    POST   /api/admin/sweep             Run the housekeeping sweep now

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, malformed dates/ranges
  - 404: Entity not found
  - 409: Room unavailable, overlap, wrong reservation state
  - 500: Internal errors (persistence)

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/lodging-engine/booking"
)

// DefaultNightlyPrice applies when a room is registered without a price.
var DefaultNightlyPrice = decimal.NewFromInt(5000000)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine *booking.Engine

	// now supplies the current date; overridable in tests.
	now func() booking.Date
}

// NewHandler creates a new handler around the engine.
func NewHandler(engine *booking.Engine) *Handler {
	return &Handler{
		Engine: engine,
		now:    booking.Today,
	}
}

func (h *Handler) repo() *booking.Repository {
	return h.Engine.Repository()
}

// =============================================================================
// ROOM HANDLERS
// =============================================================================

// ListRooms returns all rooms after reconciliation.
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Engine.Rooms(r.Context(), h.now())
	if err != nil {
		writeDomainError(w, "Failed to list rooms", err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomDTOs(rooms))
}

// ListAvailableRooms returns the rooms currently vacant.
func (h *Handler) ListAvailableRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Engine.AvailableRooms(r.Context(), h.now())
	if err != nil {
		writeDomainError(w, "Failed to list available rooms", err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomDTOs(rooms))
}

// GetRoom returns a single room.
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.repo().Room(booking.RoomID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "Failed to get room", err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomDTO(room))
}

// CreateRoom registers a room.
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	price := DefaultNightlyPrice
	if req.Price != "" {
		var err error
		price, err = decimal.NewFromString(req.Price)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid price (use a decimal string)", err)
			return
		}
	}

	room, err := h.repo().AddRoom(r.Context(), req.Type, price)
	if err != nil {
		writeDomainError(w, "Failed to create room", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRoomDTO(room))
}

// UpdateRoom edits a room.
func (h *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	var req UpdateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var edit booking.RoomEdit
	edit.Type = req.Type
	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid price (use a decimal string)", err)
			return
		}
		edit.Price = &price
	}
	if req.Status != nil {
		status := booking.RoomStatus(*req.Status)
		edit.Status = &status
	}

	id := booking.RoomID(chi.URLParam(r, "id"))
	if err := h.repo().EditRoom(r.Context(), id, edit); err != nil {
		writeDomainError(w, "Failed to update room", err)
		return
	}
	room, err := h.repo().Room(id)
	if err != nil {
		writeDomainError(w, "Failed to get room", err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomDTO(room))
}

// DeleteRoom removes a room unless an active reservation references it.
func (h *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	id := booking.RoomID(chi.URLParam(r, "id"))
	if err := h.repo().DeleteRoom(r.Context(), id); err != nil {
		writeDomainError(w, "Failed to delete room", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListRoomReservations returns every reservation on a room.
func (h *Handler) ListRoomReservations(w http.ResponseWriter, r *http.Request) {
	id := booking.RoomID(chi.URLParam(r, "id"))
	if _, err := h.repo().Room(id); err != nil {
		writeDomainError(w, "Failed to get room", err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationDTOs(h.repo().RoomReservations(id)))
}

// =============================================================================
// GUEST HANDLERS
// =============================================================================

// ListGuests returns all guests.
func (h *Handler) ListGuests(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toGuestDTOs(h.repo().Guests()))
}

// SearchGuests matches name substrings and national id fragments.
func (h *Handler) SearchGuests(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	writeJSON(w, http.StatusOK, toGuestDTOs(h.repo().SearchGuests(query)))
}

// GetGuest returns a single guest.
func (h *Handler) GetGuest(w http.ResponseWriter, r *http.Request) {
	guest, err := h.repo().Guest(booking.GuestID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "Failed to get guest", err)
		return
	}
	writeJSON(w, http.StatusOK, toGuestDTO(guest))
}

// CreateGuest registers a guest after identity validation.
func (h *Handler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req CreateGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	guest, err := h.repo().AddGuest(r.Context(), booking.GuestInput{
		Name:       req.Name,
		Family:     req.Family,
		NationalID: req.NationalID,
		Phone:      req.Phone,
		Address:    req.Address,
	})
	if err != nil {
		writeDomainError(w, "Failed to create guest", err)
		return
	}
	writeJSON(w, http.StatusCreated, toGuestDTO(guest))
}

// UpdateGuest edits a guest; supplied fields are re-validated.
func (h *Handler) UpdateGuest(w http.ResponseWriter, r *http.Request) {
	var req UpdateGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	id := booking.GuestID(chi.URLParam(r, "id"))
	err := h.repo().EditGuest(r.Context(), id, booking.GuestEdit{
		Name:       req.Name,
		Family:     req.Family,
		NationalID: req.NationalID,
		Phone:      req.Phone,
		Address:    req.Address,
	})
	if err != nil {
		writeDomainError(w, "Failed to update guest", err)
		return
	}
	guest, err := h.repo().Guest(id)
	if err != nil {
		writeDomainError(w, "Failed to get guest", err)
		return
	}
	writeJSON(w, http.StatusOK, toGuestDTO(guest))
}

// DeleteGuest removes a guest unless an active reservation references them.
func (h *Handler) DeleteGuest(w http.ResponseWriter, r *http.Request) {
	id := booking.GuestID(chi.URLParam(r, "id"))
	if err := h.repo().DeleteGuest(r.Context(), id); err != nil {
		writeDomainError(w, "Failed to delete guest", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListGuestReservations returns every reservation held by a guest.
func (h *Handler) ListGuestReservations(w http.ResponseWriter, r *http.Request) {
	id := booking.GuestID(chi.URLParam(r, "id"))
	if _, err := h.repo().Guest(id); err != nil {
		writeDomainError(w, "Failed to get guest", err)
		return
	}
	reservations, err := h.Engine.GuestReservations(r.Context(), id, h.now())
	if err != nil {
		writeDomainError(w, "Failed to list reservations", err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationDTOs(reservations))
}

// =============================================================================
// RESERVATION HANDLERS
// =============================================================================

// ListReservations returns all reservations after reconciliation.
func (h *Handler) ListReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.Engine.Reservations(r.Context(), h.now())
	if err != nil {
		writeDomainError(w, "Failed to list reservations", err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationDTOs(reservations))
}

// ListActiveReservations returns the reservations still holding a room.
func (h *Handler) ListActiveReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.Engine.ActiveReservations(r.Context(), h.now())
	if err != nil {
		writeDomainError(w, "Failed to list active reservations", err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationDTOs(reservations))
}

// GetReservation returns a single reservation.
func (h *Handler) GetReservation(w http.ResponseWriter, r *http.Request) {
	res, err := h.repo().Reservation(booking.ReservationID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "Failed to get reservation", err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationDTO(res))
}

// CreateReservation books a room for a guest.
func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	res, err := h.Engine.Reserve(r.Context(),
		booking.GuestID(req.GuestID), booking.RoomID(req.RoomID),
		req.CheckInDate, req.CheckOutDate, h.now())
	if err != nil {
		writeDomainError(w, "Failed to create reservation", err)
		return
	}
	writeJSON(w, http.StatusCreated, toReservationDTO(res))
}

// CheckIn marks the reservation's room occupied.
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	id := booking.ReservationID(chi.URLParam(r, "id"))
	if err := h.Engine.CheckIn(r.Context(), id, h.now()); err != nil {
		writeDomainError(w, "Failed to check in", err)
		return
	}
	res, err := h.repo().Reservation(id)
	if err != nil {
		writeDomainError(w, "Failed to get reservation", err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationDTO(res))
}

// CheckOut settles the reservation and reports the final cost.
func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	id := booking.ReservationID(chi.URLParam(r, "id"))
	finalCost, err := h.Engine.CheckOut(r.Context(), id, h.now())
	if err != nil {
		writeDomainError(w, "Failed to check out", err)
		return
	}
	writeJSON(w, http.StatusOK, CheckOutResponse{
		ReservationID: string(id),
		FinalCost:     finalCost.String(),
	})
}

// CancelReservation voids an active reservation.
func (h *Handler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	id := booking.ReservationID(chi.URLParam(r, "id"))
	if err := h.Engine.Cancel(r.Context(), id, h.now()); err != nil {
		writeDomainError(w, "Failed to cancel reservation", err)
		return
	}
	res, err := h.repo().Reservation(id)
	if err != nil {
		writeDomainError(w, "Failed to get reservation", err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationDTO(res))
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// RoomStatusReport returns the census after reconciliation.
func (h *Handler) RoomStatusReport(w http.ResponseWriter, r *http.Request) {
	census, err := h.Engine.StatusCensus(r.Context(), h.now())
	if err != nil {
		writeDomainError(w, "Failed to build census", err)
		return
	}
	writeJSON(w, http.StatusOK, CensusDTO{
		Vacant:   census.Vacant,
		Reserved: census.Reserved,
		Occupied: census.Occupied,
	})
}

// ReservationsByDate returns active reservations covering ?date=.
func (h *Handler) ReservationsByDate(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	reservations, err := h.Engine.ReservationsOn(r.Context(), date, h.now())
	if err != nil {
		writeDomainError(w, "Failed to report reservations", err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationDTOs(reservations))
}

// IncomeReport sums settled income over ?start=..&end=.. (inclusive).
// Malformed bounds or an inverted range report zero.
func (h *Handler) IncomeReport(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	income := h.Engine.Income(start, end)
	writeJSON(w, http.StatusOK, IncomeDTO{
		Start:  start,
		End:    end,
		Income: income.String(),
	})
}

// Dashboard returns the operator landing view.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Engine.Dashboard(r.Context(), h.now())
	if err != nil {
		writeDomainError(w, "Failed to build dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, DashboardDTO{
		Census: CensusDTO{
			Vacant:   summary.Census.Vacant,
			Reserved: summary.Census.Reserved,
			Occupied: summary.Census.Occupied,
		},
		ActiveReservations: summary.ActiveReservations,
		TodayIncome:        summary.TodayIncome.String(),
	})
}

// TriggerSweep runs the housekeeping sweep immediately.
func (h *Handler) TriggerSweep(w http.ResponseWriter, r *http.Request) {
	report, err := h.Engine.Sweep(r.Context(), h.now())
	if err != nil {
		writeDomainError(w, "Failed to run sweep", err)
		return
	}
	writeJSON(w, http.StatusOK, toSweepReportDTO(report))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps booking errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case booking.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, booking.ErrRoomUnavailable),
		errors.Is(err, booking.ErrOverlappingReservation),
		errors.Is(err, booking.ErrReservationNotActive),
		errors.Is(err, booking.ErrActiveReservationExists):
		writeError(w, http.StatusConflict, message, err)
	case booking.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
