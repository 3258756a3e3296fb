package render

import (
	"image/color"

	"github.com/vedantwpatil/presentation-cursor/internal/tracking"
)

// ID identifies a primitive on one surface.
type ID uint64

type Kind uint8

const (
	// Line is a round capped stroke from From to To.
	Line Kind = iota
	// Ring is a stroked circle centred on From.
	Ring
)

func (k Kind) String() string {
	switch k {
	case Line:
		return "line"
	case Ring:
		return "ring"
	default:
		return "unknown"
	}
}

// Primitive is one drawable element in window local DIP coordinates.
type Primitive struct {
	ID        ID
	Kind      Kind
	From      tracking.Point
	To        tracking.Point
	Radius    float64
	Thickness float64
	Opacity   float64
	Color     color.RGBA
}

// Paint returns the primitive's color with its opacity applied as alpha.
func (p Primitive) Paint() color.NRGBA {
	a := p.Opacity
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	return color.NRGBA{R: p.Color.R, G: p.Color.G, B: p.Color.B, A: uint8(a*255 + 0.5)}
}

// Surface receives drawing operations from the trail engine and the cursor
// highlight. A surface renders whatever set of primitives it currently holds.
type Surface interface {
	Add(p Primitive)
	Update(p Primitive)
	Remove(id ID)
}

// Discard is a Surface that drops every operation.
var Discard Surface = discard{}

type discard struct{}

func (discard) Add(Primitive)    {}
func (discard) Update(Primitive) {}
func (discard) Remove(ID)        {}
