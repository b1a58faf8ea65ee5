package handler // declare the package name; contains HTTP handlers

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
)

// HealthCheck probes one dependency, e.g. the Redis or Postgres store.
type HealthCheck func(ctx context.Context) error

// HealthHandler reports liveness for load balancers and monitoring.
type HealthHandler struct {
    Checks map[string]HealthCheck // optional dependency probes by name
}

// Health returns 200 {"status":"ok"} when every check passes and 503 with
// the failing checks otherwise.  Checks share a two second budget.
func (h *HealthHandler) Health(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
    defer cancel()

    failed := map[string]string{}
    for name, check := range h.Checks {
        if err := check(ctx); err != nil {
            failed[name] = err.Error()
        }
    }
    if len(failed) > 0 {
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded", "failed": failed})
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
