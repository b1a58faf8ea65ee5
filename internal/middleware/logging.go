package middleware

import (
    "log/slog"

    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"

    "github.com/iliyamo/skyvoyage-seatmap/internal/logger"
)

// RequestLogger logs one line per request through slog.
func RequestLogger(log *logger.Logger) echo.MiddlewareFunc {
    return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
        LogMethod:   true,
        LogURI:      true,
        LogStatus:   true,
        LogLatency:  true,
        LogError:    true,
        HandleError: true,
        LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
            level := slog.LevelInfo
            if v.Status >= 500 || v.Error != nil {
                level = slog.LevelError
            }
            attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
            if sid := SessionID(c); sid != "" {
                attrs = append(attrs, "session_id", sid)
            }
            if v.Error != nil {
                attrs = append(attrs, "error", v.Error)
            }
            log.Log(c.Request().Context(), level, "request", attrs...)
            return nil
        },
    })
}
