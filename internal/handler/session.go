package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/skyvoyage-seatmap/internal/utils"
)

// SessionHandler starts browsing sessions.
type SessionHandler struct {
    Secret string        // signs session tokens
    TTL    time.Duration // token lifetime
}

// Create handles POST /v1/session.  It returns 201 with a fresh session
// token; the client sends it back as a Bearer token on every seat map and
// booking call, much like the browser keeps its local storage.
func (h *SessionHandler) Create(c echo.Context) error {
    tok, err := utils.NewSessionToken(h.Secret, h.TTL)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue session token"})
    }
    return c.JSON(http.StatusCreated, tok)
}
