package overlay

import (
	"fmt"
	"sync"

	"github.com/vedantwpatil/presentation-cursor/internal/render"
	"github.com/vedantwpatil/presentation-cursor/internal/tracking"
)

// WindowSpec describes where an overlay window goes.
type WindowSpec struct {
	Index  int
	Bounds tracking.Rect // DIP
	Scale  tracking.Scale
}

// Window is a transparent, click-through, always-on-top drawing area.
type Window interface {
	Spec() WindowSpec
	Surface() render.Surface
	Close() error
}

// WindowFactory creates and disposes overlay windows.
type WindowFactory interface {
	CreateWindow(spec WindowSpec) (Window, error)
	DisposeWindow(w Window) error
}

// CanvasWindow is a headless Window that keeps its primitives in memory.
type CanvasWindow struct {
	spec   WindowSpec
	canvas *render.Canvas
	closed bool
}

func NewCanvasWindow(spec WindowSpec) *CanvasWindow {
	return &CanvasWindow{spec: spec, canvas: render.NewCanvas()}
}

func (w *CanvasWindow) Spec() WindowSpec {
	return w.spec
}

func (w *CanvasWindow) Surface() render.Surface {
	return w.canvas
}

func (w *CanvasWindow) Canvas() *render.Canvas {
	return w.canvas
}

func (w *CanvasWindow) Closed() bool {
	return w.closed
}

func (w *CanvasWindow) Close() error {
	w.closed = true
	return nil
}

// CanvasWindows is a WindowFactory producing CanvasWindows.
type CanvasWindows struct {
	mu      sync.Mutex
	windows []*CanvasWindow
}

func NewCanvasWindows() *CanvasWindows {
	return &CanvasWindows{}
}

func (f *CanvasWindows) CreateWindow(spec WindowSpec) (Window, error) {
	w := NewCanvasWindow(spec)
	f.mu.Lock()
	f.windows = append(f.windows, w)
	f.mu.Unlock()
	return w, nil
}

func (f *CanvasWindows) DisposeWindow(w Window) error {
	cw, ok := w.(*CanvasWindow)
	if !ok {
		return fmt.Errorf("not a canvas window: %T", w)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, v := range f.windows {
		if v == cw {
			f.windows = append(f.windows[:i], f.windows[i+1:]...)
			break
		}
	}
	cw.canvas.Reset()
	cw.closed = true
	return nil
}

// Windows returns the windows that have not been disposed yet.
func (f *CanvasWindows) Windows() []*CanvasWindow {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*CanvasWindow, len(f.windows))
	copy(out, f.windows)
	return out
}
