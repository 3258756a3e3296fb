package overlay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vedantwpatil/presentation-cursor/internal/tracking"
)

// Session owns one overlay per monitor and tears them down together.
//
// Activate, Deactivate, Tick and Run must be called from the same goroutine.
type Session struct {
	locator  tracking.Locator
	windows  WindowFactory
	options  Options
	overlays []*Overlay
}

func NewSession(locator tracking.Locator, windows WindowFactory, opts Options) *Session {
	return &Session{
		locator: locator,
		windows: windows,
		options: opts,
	}
}

// Activate closes any existing overlays and opens a fresh one on every
// monitor. If a window cannot be created the windows opened so far are torn
// down again.
func (s *Session) Activate() error {
	if err := s.Deactivate(); err != nil {
		log.Warn().Err(err).Msg("failed to tear down previous overlays")
	}

	monitors, err := s.locator.Monitors()
	if err != nil {
		return fmt.Errorf("failed to list monitors: %w", err)
	}
	if len(monitors) == 0 {
		return tracking.ErrNoDisplays
	}

	for i, monitor := range monitors {
		spec := SpecForMonitor(s.locator, i, monitor)

		log.Debug().
			Int("monitor", i).
			Float64("left", spec.Bounds.Min.X).
			Float64("top", spec.Bounds.Min.Y).
			Float64("width", spec.Bounds.Width).
			Float64("height", spec.Bounds.Height).
			Float64("scale", spec.Scale.X).
			Msg("creating overlay window")

		w, err := s.windows.CreateWindow(spec)
		if err != nil {
			teardownErr := s.Deactivate()
			return errors.Join(fmt.Errorf("failed to create window for monitor %d: %w", i, err), teardownErr)
		}
		s.overlays = append(s.overlays, New(w, s.locator, s.options))
	}

	log.Info().Int("monitors", len(s.overlays)).Msg("overlay activated")
	return nil
}

// Deactivate closes every overlay and disposes its window. It is safe to
// call when nothing is active.
func (s *Session) Deactivate() error {
	if len(s.overlays) == 0 {
		return nil
	}

	var errs []error
	for _, o := range s.overlays {
		if err := o.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close overlay %d: %w", o.Window().Spec().Index, err))
		}
		if err := s.windows.DisposeWindow(o.Window()); err != nil {
			errs = append(errs, fmt.Errorf("failed to dispose window %d: %w", o.Window().Spec().Index, err))
		}
	}
	log.Info().Int("monitors", len(s.overlays)).Msg("overlay deactivated")
	s.overlays = nil
	return errors.Join(errs...)
}

func (s *Session) Active() bool {
	return len(s.overlays) > 0
}

// Overlays returns the live overlays in monitor order.
func (s *Session) Overlays() []*Overlay {
	out := make([]*Overlay, len(s.overlays))
	copy(out, s.overlays)
	return out
}

// Tick advances every overlay by one frame, one after another.
func (s *Session) Tick() {
	for _, o := range s.overlays {
		o.Tick()
	}
}

// Run ticks the session fps times per second until ctx is done. onFrame, if
// set, is called after every tick; an error from it stops the loop.
func (s *Session) Run(ctx context.Context, fps int, onFrame func() error) error {
	if fps <= 0 {
		return fmt.Errorf("invalid frame rate: %d", fps)
	}

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Tick()
			if onFrame != nil {
				if err := onFrame(); err != nil {
					return err
				}
			}
		}
	}
}

// SpecForMonitor places a window over a monitor given in physical pixels.
// The window takes the scale found at the monitor's center; when that lookup
// fails the monitor is treated as unscaled.
func SpecForMonitor(scales tracking.ScaleSource, index int, monitor tracking.Rect) WindowSpec {
	scale, err := scales.MonitorScale(monitor.Center())
	if err != nil || !scale.Valid() {
		log.Debug().Err(err).Int("monitor", index).Msg("monitor scale unavailable, assuming 1.0")
		scale = tracking.Identity
	}
	return WindowSpec{
		Index:  index,
		Bounds: monitor.Div(scale),
		Scale:  scale,
	}
}
