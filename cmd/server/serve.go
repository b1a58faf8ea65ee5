package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/iliyamo/skyvoyage-seatmap/internal/booking"
	"github.com/iliyamo/skyvoyage-seatmap/internal/config"
	"github.com/iliyamo/skyvoyage-seatmap/internal/database"
	"github.com/iliyamo/skyvoyage-seatmap/internal/handler"
	"github.com/iliyamo/skyvoyage-seatmap/internal/logger"
	"github.com/iliyamo/skyvoyage-seatmap/internal/middleware"
	"github.com/iliyamo/skyvoyage-seatmap/internal/repository"
	"github.com/iliyamo/skyvoyage-seatmap/internal/router"
	"github.com/iliyamo/skyvoyage-seatmap/internal/seatmap"
	queue_publisher "github.com/iliyamo/skyvoyage-seatmap/internal/service"
	"github.com/iliyamo/skyvoyage-seatmap/internal/session"
	"github.com/iliyamo/skyvoyage-seatmap/internal/storage"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the seat map and booking HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New(cfg.LogLevel, cfg.LogFormat)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg config.Config, log *logger.Logger) error {
	grid, err := seatmap.New(cfg.Grid.Rows, cfg.Grid.Columns, cfg.Grid.AisleAfter)
	if err != nil {
		return fmt.Errorf("cabin layout: %w", err)
	}

	checks := map[string]handler.HealthCheck{}

	// Redis is optional for the memory and postgres drivers; it only backs
	// the rate limiter there.
	var rdb *redis.Client
	rlCfg := config.LoadRateLimitConfig()
	if cfg.Storage.Driver == "redis" || rlCfg.Enabled {
		rdb, err = config.NewRedisClient(ctx, config.LoadRedisConfig())
		switch {
		case err == nil:
			defer rdb.Close()
			checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		case cfg.Storage.Driver == "redis":
			return err
		default:
			log.Warn("redis unavailable, rate limiting disabled", "error", err)
		}
	}

	var kv storage.Store
	switch cfg.Storage.Driver {
	case "redis":
		kv = storage.NewRedisStore(rdb, log)
	case "postgres":
		pool, err := database.OpenPostgres(ctx, cfg.Storage.PostgresURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		pg := storage.NewPostgresStore(pool)
		if err := pg.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate kv_store: %w", err)
		}
		checks["postgres"] = pool.Ping
		kv = pg
	default:
		kv = storage.NewMemoryStore()
	}

	reserved, err := loadReserved(ctx, cfg, grid, log)
	if err != nil {
		return err
	}

	var notifier booking.Notifier
	if cfg.RabbitMQ != "" {
		pub := queue_publisher.NewPublisher(cfg.RabbitMQ, log)
		defer pub.Close()
		notifier = pub
	}

	sessions := session.NewRegistry(session.Config{
		Store:     kv,
		KeyPrefix: cfg.Storage.KeyPrefix,
		Grid:      grid,
		Reserved:  reserved,
		Notifier:  notifier,
		Logger:    log,

		MaxSessions: cfg.SessionCacheSize,
		IdleTTL:     cfg.SessionIdleTTL,
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))

	var limiter echo.MiddlewareFunc
	if rdb != nil && rlCfg.Enabled {
		limiter = middleware.NewTokenBucket(rlCfg, rdb, log)
	}

	router.RegisterRoutes(e, router.Handlers{
		Health:   &handler.HealthHandler{Checks: checks},
		Session:  &handler.SessionHandler{Secret: cfg.JWTSecret, TTL: cfg.SessionTTL},
		Seats:    &handler.SeatHandler{Sessions: sessions},
		Bookings: &handler.BookingHandler{Sessions: sessions},
	}, cfg.JWTSecret, limiter)

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr, "env", cfg.Env, "storage", cfg.Storage.Driver,
			"reserved", reserved.Len(), "capacity", grid.Capacity())
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// loadReserved reads the flight's booked seats from MySQL when a flight
// database is configured, falling back to RESERVED_SEATS.  Ids outside the
// grid are logged and ignored.
func loadReserved(ctx context.Context, cfg config.Config, grid seatmap.Grid, log *logger.Logger) (seatmap.SeatSet, error) {
	raw := cfg.Flight.ReservedSeats
	if cfg.MySQL.Enabled() {
		db, err := database.OpenMySQL(ctx, cfg.MySQL)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		raw, err = repository.NewReservedSeatRepo(db).ListByFlight(ctx, cfg.Flight.Number)
		if err != nil {
			return nil, fmt.Errorf("reserved seats for %s: %w", cfg.Flight.Number, err)
		}
	}
	reserved, rejected := seatmap.ParseSeatSet(grid, raw)
	if len(rejected) > 0 {
		log.Warn("ignoring reserved seats outside the cabin", "flight", cfg.Flight.Number, "seats", rejected)
	}
	return reserved, nil
}
