package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vedantwpatil/presentation-cursor/internal/config"
	"github.com/vedantwpatil/presentation-cursor/internal/recording"
	"github.com/vedantwpatil/presentation-cursor/internal/tracking"
)

func newRecordCmd(cfg *config.Config) *cobra.Command {
	var (
		name     string
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:     "record",
		Short:   "Record the overlay to one video per monitor.",
		Long:    "Record what the overlay draws, without showing any windows, to <output dir>/<name>-<monitor>.mp4. Stops after --duration, or on Ctrl+C.",
		Example: "cursortrail record --name demo --duration 10s",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecord(cmd.Context(), cfg, name, duration)
		},
	}

	cmd.Flags().StringVar(&name, "name", "capture", "Base name of the output files")
	cmd.Flags().DurationVar(&duration, "duration", 0, "Stop after this long, 0 records until interrupted")

	return cmd
}

func runRecord(ctx context.Context, cfg *config.Config, name string, duration time.Duration) error {
	recorder := recording.NewRecorder(cfg, tracking.NewSystem())
	recorder.Duration = duration
	if duration > 0 {
		recorder.Progress = recording.NewProgressBar("Recording")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := recorder.Start(name); err != nil {
		return err
	}
	if duration <= 0 {
		fmt.Println("Recording overlay capture... Press Ctrl+C to stop recording.")
	}

	select {
	case <-recorder.Done():
	case <-ctx.Done():
	}

	if err := recorder.Stop(); err != nil && !errors.Is(err, recording.ErrNotRecording) {
		return err
	}
	if err := recorder.Err(); err != nil {
		return err
	}

	printSaved(recorder.Frames(), recorder.OutputPaths())
	return nil
}
