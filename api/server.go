/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend clients

ROUTE GROUPS:
  /api/rooms/*         Room management
  /api/guests/*        Guest management
  /api/reservations/*  Reservation lifecycle
  /api/reports/*       Read-only reporting
  /api/admin/*         Housekeeping

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Room routes
		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", h.ListRooms)
			r.Post("/", h.CreateRoom)
			r.Get("/available", h.ListAvailableRooms)
			r.Get("/{id}", h.GetRoom)
			r.Put("/{id}", h.UpdateRoom)
			r.Delete("/{id}", h.DeleteRoom)
			r.Get("/{id}/reservations", h.ListRoomReservations)
		})

		// Guest routes
		r.Route("/guests", func(r chi.Router) {
			r.Get("/", h.ListGuests)
			r.Post("/", h.CreateGuest)
			r.Get("/search", h.SearchGuests)
			r.Get("/{id}", h.GetGuest)
			r.Put("/{id}", h.UpdateGuest)
			r.Delete("/{id}", h.DeleteGuest)
			r.Get("/{id}/reservations", h.ListGuestReservations)
		})

		// Reservation routes
		r.Route("/reservations", func(r chi.Router) {
			r.Get("/", h.ListReservations)
			r.Post("/", h.CreateReservation)
			r.Get("/active", h.ListActiveReservations)
			r.Get("/{id}", h.GetReservation)
			r.Post("/{id}/checkin", h.CheckIn)
			r.Post("/{id}/checkout", h.CheckOut)
			r.Post("/{id}/cancel", h.CancelReservation)
		})

		// Report routes
		r.Route("/reports", func(r chi.Router) {
			r.Get("/status", h.RoomStatusReport)
			r.Get("/reservations", h.ReservationsByDate)
			r.Get("/income", h.IncomeReport)
			r.Get("/dashboard", h.Dashboard)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/sweep", h.TriggerSweep)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Lodging Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Lodging Engine API</h1>
<ul>
<li><a href="/api/rooms">/api/rooms</a> - List rooms</li>
<li><a href="/api/guests">/api/guests</a> - List guests</li>
<li><a href="/api/reservations">/api/reservations</a> - List reservations</li>
<li><a href="/api/reports/dashboard">/api/reports/dashboard</a> - Dashboard</li>
</ul>
</body>
</html>`))
	})

	return r
}
