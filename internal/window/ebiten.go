//go:build !headless

package window

import (
	"context"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog/log"

	"github.com/vedantwpatil/presentation-cursor/internal/overlay"
	"github.com/vedantwpatil/presentation-cursor/internal/render"
	"github.com/vedantwpatil/presentation-cursor/internal/tracking"
)

type game struct {
	window  *Window
	overlay *overlay.Overlay
	ctx     context.Context
}

func (g *game) Update() error {
	if g.ctx.Err() != nil || g.window.closing.Load() {
		if err := g.overlay.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close overlay")
		}
		return ebiten.Termination
	}
	g.overlay.Tick()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	for _, p := range g.window.canvas.Primitives() {
		drawPrimitive(screen, p)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// Run opens a transparent, undecorated, click-through, always-on-top window
// covering w's bounds and ticks ov at fps until ctx is cancelled or the
// window is closed. It must be called from the main goroutine.
func Run(ctx context.Context, w *Window, ov *overlay.Overlay, fps int) error {
	b := w.spec.Bounds

	ebiten.SetWindowDecorated(false)
	ebiten.SetWindowFloating(true)
	ebiten.SetWindowMousePassthrough(true)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	ebiten.SetWindowTitle("cursortrail")
	ebiten.SetWindowSize(int(math.Ceil(b.Width)), int(math.Ceil(b.Height)))
	ebiten.SetWindowPosition(int(math.Round(b.Min.X)), int(math.Round(b.Min.Y)))
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetScreenClearedEveryFrame(true)
	ebiten.SetTPS(fps)

	log.Info().
		Int("monitor", w.spec.Index).
		Float64("left", b.Min.X).
		Float64("top", b.Min.Y).
		Float64("width", b.Width).
		Float64("height", b.Height).
		Int("fps", fps).
		Msg("overlay window starting")

	g := &game{window: w, overlay: ov, ctx: ctx}
	err := ebiten.RunGameWithOptions(g, &ebiten.RunGameOptions{
		ScreenTransparent: true,
		InitUnfocused:     true,
		SkipTaskbar:       true,
	})
	log.Info().Int("monitor", w.spec.Index).Msg("overlay window stopped")
	return err
}

func drawPrimitive(dst *ebiten.Image, p render.Primitive) {
	if p.Opacity <= 0 || p.Thickness <= 0 {
		return
	}
	clr := p.Paint()

	switch p.Kind {
	case render.Line:
		x0, y0 := point(p.From)
		x1, y1 := point(p.To)

		// Body and caps in one path so translucent joints are not painted twice.
		var path vector.Path
		path.MoveTo(x0, y0)
		path.LineTo(x1, y1)

		op := &vector.DrawPathOptions{AntiAlias: true}
		op.ColorScale.ScaleWithColor(clr)
		vector.StrokePath(dst, &path, &vector.StrokeOptions{
			Width:   float32(p.Thickness),
			LineCap: vector.LineCapRound,
		}, op)
	case render.Ring:
		x, y := point(p.From)
		vector.StrokeCircle(dst, x, y, float32(p.Radius), float32(p.Thickness), clr, true)
	}
}

func point(p tracking.Point) (float32, float32) {
	return float32(p.X), float32(p.Y)
}
