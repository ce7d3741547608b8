/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Prices and costs travel as decimal strings (e.g. "1000000"), never as
  JSON floats, so no precision is lost at the boundary.

SEE ALSO:
  - handlers.go: Uses these types
  - booking/types.go: The domain model these mirror
*/
package api

import (
	"github.com/warp/lodging-engine/booking"
)

// =============================================================================
// ROOM TYPES
// =============================================================================

// RoomDTO represents a room in API responses.
type RoomDTO struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	Price          string  `json:"price"`
	Status         string  `json:"status"`
	CurrentGuestID *string `json:"current_guest_id,omitempty"`
}

// CreateRoomRequest is the request to register a room. Price is a
// decimal string; when omitted the default nightly price applies.
type CreateRoomRequest struct {
	Type  string `json:"type"`
	Price string `json:"price,omitempty"`
}

// UpdateRoomRequest carries optional room edits. Omitted fields are left
// unchanged. Status may be "vacant" or "reserved"; occupancy is owned by
// check-in.
type UpdateRoomRequest struct {
	Type   *string `json:"type,omitempty"`
	Price  *string `json:"price,omitempty"`
	Status *string `json:"status,omitempty"`
}

// =============================================================================
// GUEST TYPES
// =============================================================================

// GuestDTO represents a guest in API responses.
type GuestDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Family     string `json:"family"`
	NationalID string `json:"national_id"`
	Phone      string `json:"phone"`
	Address    string `json:"address,omitempty"`
}

// CreateGuestRequest is the request to register a guest.
type CreateGuestRequest struct {
	Name       string `json:"name"`
	Family     string `json:"family"`
	NationalID string `json:"national_id"`
	Phone      string `json:"phone"`
	Address    string `json:"address,omitempty"`
}

// UpdateGuestRequest carries optional guest edits. Omitted fields are
// left unchanged; supplied fields are re-validated.
type UpdateGuestRequest struct {
	Name       *string `json:"name,omitempty"`
	Family     *string `json:"family,omitempty"`
	NationalID *string `json:"national_id,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
}

// =============================================================================
// RESERVATION TYPES
// =============================================================================

// ReservationDTO represents a reservation in API responses.
type ReservationDTO struct {
	ID           string `json:"id"`
	GuestID      string `json:"guest_id"`
	RoomID       string `json:"room_id"`
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
	Status       string `json:"status"`
	TotalCost    string `json:"total_cost"`
}

// CreateReservationRequest books a room for a guest over [check_in,
// check_out). Dates are YYYY-MM-DD.
type CreateReservationRequest struct {
	GuestID      string `json:"guest_id"`
	RoomID       string `json:"room_id"`
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
}

// CheckOutResponse reports the settled cost.
type CheckOutResponse struct {
	ReservationID string `json:"reservation_id"`
	FinalCost     string `json:"final_cost"`
}

// =============================================================================
// REPORT TYPES
// =============================================================================

// CensusDTO is the room status census.
type CensusDTO struct {
	Vacant   int `json:"vacant"`
	Reserved int `json:"reserved"`
	Occupied int `json:"occupied"`
}

// IncomeDTO reports income over an inclusive date window.
type IncomeDTO struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Income string `json:"income"`
}

// DashboardDTO is the operator landing view.
type DashboardDTO struct {
	Census             CensusDTO `json:"census"`
	ActiveReservations int       `json:"active_reservations"`
	TodayIncome        string    `json:"today_income"`
}

// SweepReportDTO reports what a housekeeping run changed.
type SweepReportDTO struct {
	ReleasedRooms       []string `json:"released_rooms"`
	ExpiredReservations []string `json:"expired_reservations"`
	Warnings            []string `json:"warnings"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toRoomDTO(room booking.Room) RoomDTO {
	dto := RoomDTO{
		ID:     string(room.ID),
		Type:   room.Type,
		Price:  room.Price.String(),
		Status: string(room.Status),
	}
	if room.CurrentGuestID != nil {
		id := string(*room.CurrentGuestID)
		dto.CurrentGuestID = &id
	}
	return dto
}

func toRoomDTOs(rooms []booking.Room) []RoomDTO {
	dtos := make([]RoomDTO, len(rooms))
	for i, room := range rooms {
		dtos[i] = toRoomDTO(room)
	}
	return dtos
}

func toGuestDTO(g booking.Guest) GuestDTO {
	return GuestDTO{
		ID:         string(g.ID),
		Name:       g.Name,
		Family:     g.Family,
		NationalID: g.NationalID,
		Phone:      g.Phone,
		Address:    g.Address,
	}
}

func toGuestDTOs(guests []booking.Guest) []GuestDTO {
	dtos := make([]GuestDTO, len(guests))
	for i, g := range guests {
		dtos[i] = toGuestDTO(g)
	}
	return dtos
}

func toReservationDTO(res booking.Reservation) ReservationDTO {
	return ReservationDTO{
		ID:           string(res.ID),
		GuestID:      string(res.GuestID),
		RoomID:       string(res.RoomID),
		CheckInDate:  res.CheckInDate,
		CheckOutDate: res.CheckOutDate,
		Status:       string(res.Status),
		TotalCost:    res.TotalCost.String(),
	}
}

func toReservationDTOs(reservations []booking.Reservation) []ReservationDTO {
	dtos := make([]ReservationDTO, len(reservations))
	for i, res := range reservations {
		dtos[i] = toReservationDTO(res)
	}
	return dtos
}

func toSweepReportDTO(report booking.SweepReport) SweepReportDTO {
	dto := SweepReportDTO{
		ReleasedRooms:       []string{},
		ExpiredReservations: []string{},
		Warnings:            []string{},
	}
	for _, id := range report.ReleasedRooms {
		dto.ReleasedRooms = append(dto.ReleasedRooms, string(id))
	}
	for _, id := range report.ExpiredReservations {
		dto.ExpiredReservations = append(dto.ExpiredReservations, string(id))
	}
	dto.Warnings = append(dto.Warnings, report.Warnings...)
	return dto
}
