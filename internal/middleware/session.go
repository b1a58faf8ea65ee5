package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/skyvoyage-seatmap/internal/utils"
)

// SessionIDKey is the echo context key holding the authenticated session id.
const SessionIDKey = "session_id"

// SessionAuth returns an Echo middleware that validates a Bearer session
// token and stores its session id in the context under SessionIDKey.
// Handlers read it with SessionID(c).
func SessionAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            id, err := utils.ParseSessionToken(secret, strings.TrimPrefix(auth, "Bearer "))
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }
            c.Set(SessionIDKey, id)
            return next(c)
        }
    }
}

// SessionID returns the session id stored by SessionAuth, or "" when the
// request did not pass through it.
func SessionID(c echo.Context) string {
    if v, ok := c.Get(SessionIDKey).(string); ok {
        return v
    }
    return ""
}
