package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/skyvoyage-seatmap/internal/booking"
    "github.com/iliyamo/skyvoyage-seatmap/internal/model"
    "github.com/iliyamo/skyvoyage-seatmap/internal/session"
    "github.com/iliyamo/skyvoyage-seatmap/internal/storage"
)

// BookingHandler turns the session's selection into booking records and
// manages the current booking.
type BookingHandler struct {
    Sessions *session.Registry
}

// CreateBooking handles POST /v1/bookings.  The body is the flight
// descriptor; the seats come from the session's selection.  Returns 201
// with the record, 409 when no seat is selected.  A record that could not
// be stored is still returned, flagged persisted=false.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
    var flight model.Flight
    if err := c.Bind(&flight); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&flight); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "flight is required"})
    }

    s, ok, err := openSession(c, h.Sessions)
    if !ok {
        return err
    }
    rec, err := s.Recorder.Save(c.Request().Context(), flight)
    switch {
    case err == nil:
        return c.JSON(http.StatusCreated, echo.Map{"booking": rec, "persisted": true})
    case errors.Is(err, booking.ErrNoSeatsSelected):
        return c.JSON(http.StatusConflict, echo.Map{"error": "no seats selected"})
    case errors.Is(err, storage.ErrPersist):
        return c.JSON(http.StatusCreated, echo.Map{
            "booking":   rec,
            "persisted": false,
            "warning":   "your booking could not be saved and may be lost on reload",
        })
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save booking"})
    }
}

// GetCurrent handles GET /v1/bookings/current.
func (h *BookingHandler) GetCurrent(c echo.Context) error {
    s, ok, err := openSession(c, h.Sessions)
    if !ok {
        return err
    }
    rec, ok, err := s.Recorder.LoadCurrent(c.Request().Context())
    if err != nil {
        return storageUnavailable(c)
    }
    if !ok {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no current booking"})
    }
    return c.JSON(http.StatusOK, rec)
}

// ListBookings handles GET /v1/bookings and returns the session's trips,
// oldest first.
func (h *BookingHandler) ListBookings(c echo.Context) error {
    s, ok, err := openSession(c, h.Sessions)
    if !ok {
        return err
    }
    history, err := s.Recorder.History(c.Request().Context())
    if err != nil {
        return storageUnavailable(c)
    }
    if history == nil {
        history = []model.Reservation{}
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": history})
}

// DeleteBooking handles DELETE /v1/bookings/:id.  It drops the booking from
// the history, empties the current slot and clears the seat selection.
func (h *BookingHandler) DeleteBooking(c echo.Context) error {
    id := c.Param("id")
    if id == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    s, ok, err := openSession(c, h.Sessions)
    if !ok {
        return err
    }
    if err := s.Recorder.DeleteCurrent(c.Request().Context(), id); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking deletion not persisted"})
    }
    return c.NoContent(http.StatusNoContent)
}
