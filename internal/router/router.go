package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/skyvoyage-seatmap/internal/handler"
	"github.com/iliyamo/skyvoyage-seatmap/internal/middleware"
)

// Handlers groups everything the router wires.
type Handlers struct {
	Health   *handler.HealthHandler
	Session  *handler.SessionHandler
	Seats    *handler.SeatHandler
	Bookings *handler.BookingHandler
}

// RegisterRoutes registers the public and session-scoped routes.  limiter
// guards the mutating routes; pass nil to leave them unlimited.
func RegisterRoutes(e *echo.Echo, h Handlers, jwtSecret string, limiter echo.MiddlewareFunc) {
	e.GET("/healthz", h.Health.Health)
	// A session token is the only thing a visitor needs; no account.
	e.POST("/v1/session", h.Session.Create)

	g := e.Group("/v1", middleware.SessionAuth(jwtSecret))

	mutating := []echo.MiddlewareFunc{}
	if limiter != nil {
		mutating = append(mutating, limiter)
	}

	g.GET("/seatmap", h.Seats.GetSeatMap)
	g.POST("/seats/:id/toggle", h.Seats.ToggleSeat, mutating...)
	g.DELETE("/seats", h.Seats.ClearSeats, mutating...)

	g.POST("/bookings", h.Bookings.CreateBooking, mutating...)
	g.GET("/bookings", h.Bookings.ListBookings)
	g.GET("/bookings/current", h.Bookings.GetCurrent)
	g.DELETE("/bookings/:id", h.Bookings.DeleteBooking, mutating...)
}
