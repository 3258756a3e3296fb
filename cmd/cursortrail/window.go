package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vedantwpatil/presentation-cursor/internal/config"
	"github.com/vedantwpatil/presentation-cursor/internal/launcher"
	"github.com/vedantwpatil/presentation-cursor/internal/overlay"
	"github.com/vedantwpatil/presentation-cursor/internal/tracking"
	"github.com/vedantwpatil/presentation-cursor/internal/window"
)

func newWindowCmd(cfg *config.Config) *cobra.Command {
	var monitor int

	cmd := &cobra.Command{
		Use:    "window",
		Short:  "Show the overlay on a single monitor.",
		Long:   "Show the overlay on a single monitor until \"q\" is read from stdin. Started once per monitor by the interactive menu.",
		Hidden: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWindow(cmd.Context(), cfg, monitor)
		},
	}

	cmd.Flags().IntVar(&monitor, "monitor", 0, "Index of the monitor to cover")

	return cmd
}

func runWindow(ctx context.Context, cfg *config.Config, index int) error {
	locator := tracking.NewSystem()

	monitors, err := locator.Monitors()
	if err != nil {
		return fmt.Errorf("failed to list monitors: %w", err)
	}
	if index < 0 || index >= len(monitors) {
		return fmt.Errorf("monitor %d not found, %d active", index, len(monitors))
	}

	spec := overlay.SpecForMonitor(locator, index, monitors[index])
	w := window.New(spec)
	ov := overlay.New(w, locator, overlay.OptionsFromConfig(cfg))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		select {
		case <-launcher.WaitForStop(os.Stdin):
			stop()
		case <-ctx.Done():
		}
	}()

	return window.Run(ctx, w, ov, cfg.Overlay.TargetFPS)
}
