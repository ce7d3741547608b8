/*
report.go - Read-only derived reporting

PURPOSE:
  Aggregations over the entity store: room status census, reservations
  active on a given date, and income over a settled-reservation window.
  Reports that depend on current availability reconcile first.

SEE ALSO:
  - lifecycle.go: The sweep these reports run behind
*/
package booking

import (
	"context"

	"github.com/shopspring/decimal"
)

// =============================================================================
// STATUS CENSUS
// =============================================================================

// Census counts rooms per status after a sweep.
type Census struct {
	Vacant   int `json:"vacant"`
	Reserved int `json:"reserved"`
	Occupied int `json:"occupied"`
}

// StatusCensus counts rooms by status after reconciliation.
func (e *Engine) StatusCensus(ctx context.Context, today Date) (Census, error) {
	if _, err := e.Sweep(ctx, today); err != nil {
		return Census{}, err
	}
	var census Census
	for _, room := range e.repo.rooms {
		switch room.Status {
		case RoomVacant:
			census.Vacant++
		case RoomReserved:
			census.Reserved++
		case RoomOccupied:
			census.Occupied++
		}
	}
	return census, nil
}

// =============================================================================
// RESERVATIONS ON A DATE
// =============================================================================

// ReservationsOn returns the active reservations whose half-open range
// covers the given date: checkIn <= date < checkOut. Reservations with
// unparsable dates are skipped.
func (e *Engine) ReservationsOn(ctx context.Context, date string, today Date) ([]Reservation, error) {
	on, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	if _, err := e.Sweep(ctx, today); err != nil {
		return nil, err
	}

	var result []Reservation
	for _, res := range e.repo.reservations {
		if res.Status != ReservationActive {
			continue
		}
		in, err := ParseDate(res.CheckInDate)
		if err != nil {
			continue
		}
		out, err := ParseDate(res.CheckOutDate)
		if err != nil {
			continue
		}
		if in.BeforeOrEqual(on) && on.Before(out) {
			result = append(result, res)
		}
	}
	return result, nil
}

// =============================================================================
// INCOME
// =============================================================================

// Income sums the total cost of settled reservations whose check-out
// date falls within the inclusive [start, end] range. Malformed bounds
// or end < start yield zero, not an error.
func (e *Engine) Income(start, end string) decimal.Decimal {
	from, err := ParseDate(start)
	if err != nil {
		return decimal.Zero
	}
	to, err := ParseDate(end)
	if err != nil {
		return decimal.Zero
	}
	if to.Before(from) {
		return decimal.Zero
	}

	total := decimal.Zero
	for _, res := range e.repo.reservations {
		if res.Status != ReservationSettled {
			continue
		}
		out, err := ParseDate(res.CheckOutDate)
		if err != nil {
			continue
		}
		if from.BeforeOrEqual(out) && out.BeforeOrEqual(to) {
			total = total.Add(res.TotalCost)
		}
	}
	return total
}

// TodayIncome is the income settled today.
func (e *Engine) TodayIncome(today Date) decimal.Decimal {
	day := today.String()
	return e.Income(day, day)
}

// =============================================================================
// DASHBOARD
// =============================================================================

// DashboardSummary aggregates the operator's landing-view numbers.
type DashboardSummary struct {
	Census             Census          `json:"census"`
	ActiveReservations int             `json:"active_reservations"`
	TodayIncome        decimal.Decimal `json:"today_income"`
}

// Dashboard builds the summary after reconciliation.
func (e *Engine) Dashboard(ctx context.Context, today Date) (DashboardSummary, error) {
	census, err := e.StatusCensus(ctx, today)
	if err != nil {
		return DashboardSummary{}, err
	}
	active := 0
	for _, res := range e.repo.reservations {
		if res.Status == ReservationActive {
			active++
		}
	}
	return DashboardSummary{
		Census:             census,
		ActiveReservations: active,
		TodayIncome:        e.TodayIncome(today),
	}, nil
}
