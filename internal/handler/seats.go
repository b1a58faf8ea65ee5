package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/skyvoyage-seatmap/internal/middleware"
    "github.com/iliyamo/skyvoyage-seatmap/internal/model"
    "github.com/iliyamo/skyvoyage-seatmap/internal/seatmap"
    "github.com/iliyamo/skyvoyage-seatmap/internal/session"
    "github.com/iliyamo/skyvoyage-seatmap/internal/storage"
)

const persistWarning = "your selection could not be saved and may be lost on reload"

// openSession loads the caller's session.  When its storage cannot be read
// it answers 503 itself and returns ok=false.
func openSession(c echo.Context, reg *session.Registry) (*session.Session, bool, error) {
    s, err := reg.Get(c.Request().Context(), middleware.SessionID(c))
    if err != nil {
        return nil, false, storageUnavailable(c)
    }
    return s, true, nil
}

func storageUnavailable(c echo.Context) error {
    return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "session storage unavailable, try again"})
}

// SeatHandler serves the cabin seat map of the current session and the
// toggles coming from clicks on it.  Routes are registered behind
// SessionAuth.
type SeatHandler struct {
    Sessions *session.Registry
}

// SeatMapResponse is everything the client needs to draw the cabin.
type SeatMapResponse struct {
    Rows       int            `json:"rows"`
    Columns    []string       `json:"columns"`
    AisleAfter int            `json:"aisle_after"`
    Layout     []seatmap.Row  `json:"layout"`
    Selected   []model.SeatID `json:"selected"`
    Count      int            `json:"count"`
}

// GetSeatMap handles GET /v1/seatmap.
func (h *SeatHandler) GetSeatMap(c echo.Context) error {
    s, ok, err := openSession(c, h.Sessions)
    if !ok {
        return err
    }
    sel := s.Selection
    grid := sel.Grid()
    rows, cols := grid.Dimensions()
    selected := sel.Seats()
    return c.JSON(http.StatusOK, SeatMapResponse{
        Rows:       rows,
        Columns:    cols,
        AisleAfter: grid.AisleAfter(),
        Layout:     grid.Layout(sel.Reserved(), seatmap.NewSeatSet(selected...)),
        Selected:   selected,
        Count:      len(selected),
    })
}

// ToggleSeat handles POST /v1/seats/:id/toggle.  Reserved seats answer 200
// with changed=false.  When the selection could not be stored the toggle
// still applies and the response carries persisted=false.
func (h *SeatHandler) ToggleSeat(c echo.Context) error {
    id := model.SeatID(strings.ToUpper(strings.TrimSpace(c.Param("id"))))
    s, ok, err := openSession(c, h.Sessions)
    if !ok {
        return err
    }

    res, err := s.Selection.Toggle(c.Request().Context(), id)
    switch {
    case err == nil:
        return c.JSON(http.StatusOK, echo.Map{"result": res, "persisted": true})
    case errors.Is(err, seatmap.ErrInvalidSeat):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
    case errors.Is(err, storage.ErrPersist):
        return c.JSON(http.StatusOK, echo.Map{"result": res, "persisted": false, "warning": persistWarning})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to toggle seat"})
    }
}

// ClearSeats handles DELETE /v1/seats.
func (h *SeatHandler) ClearSeats(c echo.Context) error {
    s, ok, err := openSession(c, h.Sessions)
    if !ok {
        return err
    }
    if err := s.Selection.Clear(c.Request().Context()); err != nil {
        return c.JSON(http.StatusOK, echo.Map{"count": 0, "persisted": false, "warning": persistWarning})
    }
    return c.JSON(http.StatusOK, echo.Map{"count": 0, "persisted": true})
}
