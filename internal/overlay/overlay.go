package overlay

import (
	"image/color"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/vedantwpatil/presentation-cursor/internal/config"
	"github.com/vedantwpatil/presentation-cursor/internal/render"
	"github.com/vedantwpatil/presentation-cursor/internal/tracking"
	"github.com/vedantwpatil/presentation-cursor/internal/trail"
)

// highlightID never collides with trail segment ids, which count up from 1.
const highlightID = render.ID(math.MaxUint64)

// Highlight configures the ring drawn around the cursor.
type Highlight struct {
	Radius    float64
	Thickness float64
	Opacity   float64
	Color     color.RGBA
}

// DefaultHighlight is a translucent yellow ring sized by config.NewConfig.
func DefaultHighlight() Highlight {
	cfg := config.NewConfig()
	return Highlight{
		Radius:    cfg.Overlay.HighlightRadius,
		Thickness: cfg.Overlay.HighlightThickness,
		Opacity:   0.8,
		Color:     trail.Yellow,
	}
}

type Options struct {
	Trail     trail.Config
	Highlight Highlight
}

func DefaultOptions() Options {
	return Options{Trail: trail.DefaultConfig(), Highlight: DefaultHighlight()}
}

// OptionsFromConfig maps the application configuration onto overlay options.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	opts.Trail = trail.Config{
		MaxSegments:   cfg.Trail.MaxSegments,
		FadeRate:      cfg.Trail.FadeRate,
		MinMovement:   cfg.Trail.MinMovement,
		BaseThickness: cfg.Trail.BaseThickness,
		MinThickness:  cfg.Trail.MinThickness,
	}
	opts.Highlight.Radius = cfg.Overlay.HighlightRadius
	opts.Highlight.Thickness = cfg.Overlay.HighlightThickness
	return opts
}

// Overlay ties one window to its coordinate mapper and trail engine.
type Overlay struct {
	window    Window
	locator   tracking.Locator
	mapper    *tracking.Mapper
	engine    *trail.Engine
	highlight Highlight
	shown     bool
	closed    bool
}

func New(window Window, locator tracking.Locator, opts Options) *Overlay {
	return &Overlay{
		window:    window,
		locator:   locator,
		mapper:    tracking.NewMapper(locator),
		engine:    trail.NewEngine(opts.Trail, window.Surface()),
		highlight: opts.Highlight,
	}
}

func (o *Overlay) Window() Window {
	return o.window
}

func (o *Overlay) Engine() *trail.Engine {
	return o.engine
}

func (o *Overlay) Closed() bool {
	return o.closed
}

// Tick samples the cursor and advances the trail by one frame. It does
// nothing once the overlay is closed.
func (o *Overlay) Tick() {
	if o.closed {
		return
	}

	var local tracking.Point
	onWindow := false

	global, err := o.locator.CursorPosition()
	if err != nil {
		log.Debug().Err(err).Int("monitor", o.window.Spec().Index).Msg("cursor position unavailable")
	} else {
		spec := o.window.Spec()
		local, onWindow = o.mapper.Map(global, spec.Bounds, spec.Scale)
	}

	o.moveHighlight(local, onWindow)
	o.engine.Tick(local, onWindow)
}

// Reset drops the trail, e.g. when the overlay is activated again.
func (o *Overlay) Reset() {
	o.engine.Clear()
	o.hideHighlight()
}

// Close removes everything the overlay drew and closes its window.
// Calling Close more than once is safe.
func (o *Overlay) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true
	o.Reset()
	return o.window.Close()
}

func (o *Overlay) moveHighlight(p tracking.Point, onWindow bool) {
	if !onWindow {
		o.hideHighlight()
		return
	}

	ring := render.Primitive{
		ID:        highlightID,
		Kind:      render.Ring,
		From:      p,
		Radius:    o.highlight.Radius,
		Thickness: o.highlight.Thickness,
		Opacity:   o.highlight.Opacity,
		Color:     o.highlight.Color,
	}
	if o.shown {
		o.window.Surface().Update(ring)
		return
	}
	o.window.Surface().Add(ring)
	o.shown = true
}

func (o *Overlay) hideHighlight() {
	if !o.shown {
		return
	}
	o.window.Surface().Remove(highlightID)
	o.shown = false
}
