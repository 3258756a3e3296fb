package trail

import (
	"math"

	"github.com/vedantwpatil/presentation-cursor/internal/render"
	"github.com/vedantwpatil/presentation-cursor/internal/tracking"
)

const (
	DefaultMaxSegments   = 50
	DefaultFadeRate      = 0.025
	DefaultMinMovement   = 3.0
	DefaultBaseThickness = 10.0
	DefaultMinThickness  = 1.0
)

// Config tunes the trail. Zero fields fall back to the defaults.
type Config struct {
	MaxSegments   int
	FadeRate      float64
	MinMovement   float64
	BaseThickness float64
	MinThickness  float64
}

func DefaultConfig() Config {
	return Config{
		MaxSegments:   DefaultMaxSegments,
		FadeRate:      DefaultFadeRate,
		MinMovement:   DefaultMinMovement,
		BaseThickness: DefaultBaseThickness,
		MinThickness:  DefaultMinThickness,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxSegments <= 0 {
		c.MaxSegments = d.MaxSegments
	}
	if c.FadeRate <= 0 {
		c.FadeRate = d.FadeRate
	}
	if c.MinMovement <= 0 || math.IsNaN(c.MinMovement) {
		c.MinMovement = d.MinMovement
	}
	if c.BaseThickness <= 0 {
		c.BaseThickness = d.BaseThickness
	}
	if c.MinThickness <= 0 {
		c.MinThickness = d.MinThickness
	}
	return c
}

// Engine keeps the trail of one overlay window. It is driven by Tick once
// per frame and reports every change to its Surface.
//
// An Engine is owned by a single goroutine.
type Engine struct {
	config   Config
	surface  render.Surface
	segments []Segment // oldest first
	last     tracking.Point
	hasLast  bool
	nextID   render.ID
}

// NewEngine returns an empty trail drawing onto surface. A nil surface
// discards drawing operations.
func NewEngine(config Config, surface render.Surface) *Engine {
	if surface == nil {
		surface = render.Discard
	}
	config = config.withDefaults()
	return &Engine{
		config:   config,
		surface:  surface,
		segments: make([]Segment, 0, config.MaxSegments+1),
		nextID:   1,
	}
}

func (e *Engine) Config() Config {
	return e.config
}

// Tick advances the trail by one frame. onWindow is false when the cursor is
// not over this engine's window; p is ignored in that case.
func (e *Engine) Tick(p tracking.Point, onWindow bool) {
	if onWindow && !p.Finite() {
		onWindow = false
	}

	if onWindow && e.hasLast && e.moved(p) {
		e.append(e.last, p)
	}

	// Forgetting the last point while off window keeps a segment from
	// bridging two monitors.
	if onWindow {
		e.last, e.hasLast = p, true
	} else {
		e.last, e.hasLast = tracking.Point{}, false
	}

	e.ageAll()
	e.removeFaded()
}

// Clear drops every segment and forgets the last point.
func (e *Engine) Clear() {
	for _, s := range e.segments {
		e.surface.Remove(s.ID)
	}
	e.segments = e.segments[:0]
	e.last, e.hasLast = tracking.Point{}, false
}

// Segments returns a copy of the trail, oldest first.
func (e *Engine) Segments() []Segment {
	out := make([]Segment, len(e.segments))
	copy(out, e.segments)
	return out
}

func (e *Engine) Len() int {
	return len(e.segments)
}

// LastPoint returns the most recent on-window cursor sample, if any.
func (e *Engine) LastPoint() (tracking.Point, bool) {
	return e.last, e.hasLast
}

func (e *Engine) moved(p tracking.Point) bool {
	return math.Abs(p.X-e.last.X) > e.config.MinMovement ||
		math.Abs(p.Y-e.last.Y) > e.config.MinMovement
}

func (e *Engine) append(from, to tracking.Point) {
	s := newSegment(e.nextID, from, to, e.config)
	e.nextID++
	e.segments = append(e.segments, s)
	e.surface.Add(s.primitive())

	for len(e.segments) > e.config.MaxSegments {
		e.surface.Remove(e.segments[0].ID)
		e.segments = e.segments[1:]
	}
}

func (e *Engine) ageAll() {
	for i := range e.segments {
		e.segments[i].age(e.config)
		e.surface.Update(e.segments[i].primitive())
	}
}

func (e *Engine) removeFaded() {
	kept := e.segments[:0]
	for _, s := range e.segments {
		if s.Opacity <= 0 {
			e.surface.Remove(s.ID)
			continue
		}
		kept = append(kept, s)
	}
	e.segments = kept
}
