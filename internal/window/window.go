package window

import (
	"errors"
	"sync/atomic"

	"github.com/vedantwpatil/presentation-cursor/internal/overlay"
	"github.com/vedantwpatil/presentation-cursor/internal/render"
)

// ErrHeadless is returned by Run in builds without a window backend.
var ErrHeadless = errors.New("built without window support (headless)")

// Window is the overlay.Window shown by Run. ebiten drives a single window
// per process, so each monitor gets its own process.
type Window struct {
	spec    overlay.WindowSpec
	canvas  *render.Canvas
	closing atomic.Bool
}

func New(spec overlay.WindowSpec) *Window {
	return &Window{spec: spec, canvas: render.NewCanvas()}
}

func (w *Window) Spec() overlay.WindowSpec {
	return w.spec
}

func (w *Window) Surface() render.Surface {
	return w.canvas
}

// Close asks the game loop to end after the current frame.
func (w *Window) Close() error {
	w.closing.Store(true)
	return nil
}

