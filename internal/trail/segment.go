package trail

import (
	"image/color"
	"math"

	"github.com/vedantwpatil/presentation-cursor/internal/render"
	"github.com/vedantwpatil/presentation-cursor/internal/tracking"
)

// Yellow is the color of a freshly created segment.
var Yellow = color.RGBA{R: 255, G: 255, B: 0, A: 255}

// Segment is one aging piece of the trail between two consecutive cursor
// samples, in window local DIP coordinates.
type Segment struct {
	ID        render.ID
	Start     tracking.Point
	End       tracking.Point
	Age       int
	Opacity   float64
	Thickness float64
	Color     color.RGBA
}

func newSegment(id render.ID, start, end tracking.Point, cfg Config) Segment {
	return Segment{
		ID:        id,
		Start:     start,
		End:       end,
		Opacity:   1,
		Thickness: cfg.BaseThickness,
		Color:     Yellow,
	}
}

// age advances the segment by one tick and recomputes its derived fields.
func (s *Segment) age(cfg Config) {
	s.Age++
	ratio := AgeRatio(s.Age, cfg.FadeRate)

	s.Opacity = Opacity(s.Age, cfg.FadeRate)
	// The color only moves while ratio < 0.5 and holds its last value after.
	if ratio < 0.5 {
		s.Color = FadeColor(ratio)
	}
	s.Thickness = Thickness(ratio, cfg.BaseThickness, cfg.MinThickness)
}

func (s Segment) primitive() render.Primitive {
	return render.Primitive{
		ID:        s.ID,
		Kind:      render.Line,
		From:      s.Start,
		To:        s.End,
		Thickness: s.Thickness,
		Opacity:   s.Opacity,
		Color:     s.Color,
	}
}

// AgeRatio is age * fadeRate; it drives color and thickness.
func AgeRatio(age int, fadeRate float64) float64 {
	return float64(age) * fadeRate
}

// Opacity is max(0, 1 - age*fadeRate).
func Opacity(age int, fadeRate float64) float64 {
	return math.Max(0, 1-AgeRatio(age, fadeRate))
}

// Thickness is max(minThickness, base * (1 - ratio/2)).
func Thickness(ratio, base, minThickness float64) float64 {
	return math.Max(minThickness, base*(1-ratio*0.5))
}

// FadeColor moves from yellow toward red as ratio goes from 0 to 0.5. The
// green channel is clamped to [0, 255].
func FadeColor(ratio float64) color.RGBA {
	g := 255 * (1 - ratio*2)
	if g < 0 || math.IsNaN(g) {
		g = 0
	} else if g > 255 {
		g = 255
	}
	return color.RGBA{R: 255, G: uint8(g), B: 0, A: 255}
}
