package render

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/vedantwpatil/presentation-cursor/internal/tracking"
)

// Rasterize paints prims onto dst in order using source-over compositing.
// Coordinates are relative to dst.Bounds().Min.
func Rasterize(dst *image.RGBA, prims []Primitive) {
	b := dst.Bounds()
	if b.Empty() {
		return
	}
	z := vector.NewRasterizer(b.Dx(), b.Dy())

	for _, p := range prims {
		if p.Opacity <= 0 || p.Thickness <= 0 {
			continue
		}
		z.Reset(b.Dx(), b.Dy())

		switch p.Kind {
		case Line:
			strokeLine(z, p.From, p.To, p.Thickness)
		case Ring:
			strokeRing(z, p.From, p.Radius, p.Thickness)
		default:
			continue
		}
		z.DrawOp = draw.Over
		z.Draw(dst, b, image.NewUniform(p.Paint()), image.Point{})
	}
}

// Clear makes every pixel of dst fully transparent.
func Clear(dst *image.RGBA) {
	draw.Draw(dst, dst.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

func strokeLine(z *vector.Rasterizer, from, to tracking.Point, thickness float64) {
	half := thickness / 2
	dx, dy := to.X-from.X, to.Y-from.Y
	length := math.Hypot(dx, dy)

	// Round caps; a zero length line is a dot.
	polygon(z, circle(from, half), true)
	if length == 0 {
		return
	}
	polygon(z, circle(to, half), true)

	nx, ny := -dy/length*half, dx/length*half
	polygon(z, []tracking.Point{
		{X: from.X + nx, Y: from.Y + ny},
		{X: to.X + nx, Y: to.Y + ny},
		{X: to.X - nx, Y: to.Y - ny},
		{X: from.X - nx, Y: from.Y - ny},
	}, true)
}

func strokeRing(z *vector.Rasterizer, center tracking.Point, radius, thickness float64) {
	outer := radius + thickness/2
	inner := radius - thickness/2
	polygon(z, circle(center, outer), true)
	if inner > 0 {
		polygon(z, circle(center, inner), false)
	}
}

// polygon adds a closed path. Filled shapes are wound so their signed area is
// positive; holes are wound the other way so their coverage cancels.
func polygon(z *vector.Rasterizer, pts []tracking.Point, filled bool) {
	if len(pts) < 3 {
		return
	}
	if (signedArea(pts) > 0) != filled {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.X), float32(p.Y))
	}
	z.ClosePath()
}

func circle(c tracking.Point, r float64) []tracking.Point {
	n := int(math.Ceil(2 * math.Pi * r / 2))
	if n < 12 {
		n = 12
	} else if n > 128 {
		n = 128
	}
	pts := make([]tracking.Point, n)
	for i := range pts {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = tracking.Point{X: c.X + r*math.Cos(theta), Y: c.Y + r*math.Sin(theta)}
	}
	return pts
}

func signedArea(pts []tracking.Point) float64 {
	var sum float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}
