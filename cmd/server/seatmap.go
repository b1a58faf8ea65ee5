package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/skyvoyage-seatmap/internal/config"
	"github.com/iliyamo/skyvoyage-seatmap/internal/logger"
	"github.com/iliyamo/skyvoyage-seatmap/internal/seatmap"
)

func newSeatMapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seatmap",
		Short: "Print the cabin map of the configured flight",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			grid, err := seatmap.New(cfg.Grid.Rows, cfg.Grid.Columns, cfg.Grid.AisleAfter)
			if err != nil {
				return fmt.Errorf("cabin layout: %w", err)
			}
			reserved, err := loadReserved(cmd.Context(), cfg, grid, logger.New(cfg.LogLevel, cfg.LogFormat))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "flight %s: %d seats, %d reserved\n\n", cfg.Flight.Number, grid.Capacity(), reserved.Len())
			return grid.Render(out, reserved, nil)
		},
	}
}
