package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iliyamo/skyvoyage-seatmap/internal/config"
	"github.com/iliyamo/skyvoyage-seatmap/internal/logger"
	"github.com/iliyamo/skyvoyage-seatmap/internal/queue"
)

func newConsumeCmd() *cobra.Command {
	var dir string

	c := &cobra.Command{
		Use:   "consume",
		Short: "Append booking.confirmed events to booking.log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.RabbitMQ == "" {
				return errors.New("RABBITMQ_URL is not set")
			}
			if dir == "" {
				dir = cfg.LogDir
			}
			log := logger.New(cfg.LogLevel, cfg.LogFormat)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			log.Info("booking consumer started", "queue", queue.BookingQueueName, "dir", dir)
			err = queue.StartBookingConsumer(ctx, cfg.RabbitMQ, dir, log)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	c.Flags().StringVar(&dir, "dir", "", "directory for booking.log (default LOG_DIR)")
	return c
}
