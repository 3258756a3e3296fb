package tracking

import (
	"image"
	"math"
)

// Point is a 2D position. Depending on where it came from it is either in
// physical pixels (raw cursor queries) or device independent pixels (window
// local coordinates).
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add adds two Points.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub subtracts q from p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Div divides each axis by the matching scale factor.
func (p Point) Div(s Scale) Point {
	return Point{X: p.X / s.X, Y: p.Y / s.Y}
}

// Mul multiplies each axis by the matching scale factor.
func (p Point) Mul(s Scale) Point {
	return Point{X: p.X * s.X, Y: p.Y * s.Y}
}

// Finite reports whether both coordinates are neither NaN nor infinite.
func (p Point) Finite() bool {
	return finite(p.X) && finite(p.Y)
}

// Rect is an axis aligned rectangle anchored at Min.
type Rect struct {
	Min    Point
	Width  float64
	Height float64
}

// RectFromImage converts an integer display rectangle.
func RectFromImage(r image.Rectangle) Rect {
	return Rect{
		Min:    Point{X: float64(r.Min.X), Y: float64(r.Min.Y)},
		Width:  float64(r.Dx()),
		Height: float64(r.Dy()),
	}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Min.X+r.Width &&
		p.Y >= r.Min.Y && p.Y <= r.Min.Y+r.Height
}

// owns reports whether p lies inside r with the right and bottom edges
// excluded, so a point on the seam between two adjacent monitors belongs to
// exactly one of them.
func (r Rect) owns(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Min.X+r.Width &&
		p.Y >= r.Min.Y && p.Y < r.Min.Y+r.Height
}

// Center returns the middle of r.
func (r Rect) Center() Point {
	return Point{X: r.Min.X + r.Width/2, Y: r.Min.Y + r.Height/2}
}

// Div converts a physical pixel rectangle to device independent pixels.
func (r Rect) Div(s Scale) Rect {
	return Rect{
		Min:    r.Min.Div(s),
		Width:  r.Width / s.X,
		Height: r.Height / s.Y,
	}
}

// distance returns how far p lies outside r. Zero when r contains p.
func (r Rect) distance(p Point) float64 {
	dx := math.Max(0, math.Max(r.Min.X-p.X, p.X-(r.Min.X+r.Width)))
	dy := math.Max(0, math.Max(r.Min.Y-p.Y, p.Y-(r.Min.Y+r.Height)))
	return math.Hypot(dx, dy)
}

// Scale is a per axis DPI scale factor: physical pixels = DIP * Scale.
type Scale struct {
	X float64
	Y float64
}

// Identity is the scale of a 96 DPI monitor.
var Identity = Scale{X: 1, Y: 1}

// Uniform returns a Scale with the same factor on both axes.
func Uniform(f float64) Scale {
	return Scale{X: f, Y: f}
}

// Valid reports whether both factors are finite and strictly positive.
func (s Scale) Valid() bool {
	return finite(s.X) && finite(s.Y) && s.X > 0 && s.Y > 0
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
