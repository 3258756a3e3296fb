package overlay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedantwpatil/presentation-cursor/internal/config"
	"github.com/vedantwpatil/presentation-cursor/internal/render"
	"github.com/vedantwpatil/presentation-cursor/internal/tracking"
)

// fakeDesktop is a scripted Locator: two 1080p monitors side by side, the
// second one at 2x.
type fakeDesktop struct {
	cursor    tracking.Point
	cursorErr error
	monitors  []tracking.Rect
	listErr   error
}

func newFakeDesktop() *fakeDesktop {
	return &fakeDesktop{
		monitors: []tracking.Rect{
			{Min: tracking.Pt(0, 0), Width: 1920, Height: 1080},
			{Min: tracking.Pt(1920, 0), Width: 3840, Height: 2160},
		},
	}
}

func (d *fakeDesktop) CursorPosition() (tracking.Point, error) {
	return d.cursor, d.cursorErr
}

func (d *fakeDesktop) Monitors() ([]tracking.Rect, error) {
	return d.monitors, d.listErr
}

func (d *fakeDesktop) MonitorScale(p tracking.Point) (tracking.Scale, error) {
	if tracking.MonitorAt(d.monitors, p) == 1 {
		return tracking.Uniform(2), nil
	}
	return tracking.Identity, nil
}

func (d *fakeDesktop) moveTo(x, y float64) {
	d.cursor = tracking.Pt(x, y)
}

func newSingle(t *testing.T, d *fakeDesktop) (*Overlay, *CanvasWindow) {
	t.Helper()
	w := NewCanvasWindow(SpecForMonitor(d, 0, d.monitors[0]))
	return New(w, d, DefaultOptions()), w
}

func TestOverlayDrawsHighlightAndTrail(t *testing.T) {
	d := newFakeDesktop()
	o, w := newSingle(t, d)

	d.moveTo(100, 100)
	o.Tick()
	ring, ok := w.Canvas().Get(highlightID)
	require.True(t, ok)
	assert.Equal(t, render.Ring, ring.Kind)
	assert.Equal(t, tracking.Pt(100, 100), ring.From)
	assert.Equal(t, 0, o.Engine().Len())

	d.moveTo(150, 120)
	o.Tick()
	assert.Equal(t, 1, o.Engine().Len())
	ring, _ = w.Canvas().Get(highlightID)
	assert.Equal(t, tracking.Pt(150, 120), ring.From)
	assert.Equal(t, 2, w.Canvas().Len())
}

func TestOverlayHidesHighlightOffWindow(t *testing.T) {
	d := newFakeDesktop()
	o, w := newSingle(t, d)

	d.moveTo(100, 100)
	o.Tick()
	d.moveTo(200, 100)
	o.Tick()

	// Cursor moves to the second monitor.
	d.moveTo(4000, 500)
	o.Tick()

	_, ok := w.Canvas().Get(highlightID)
	assert.False(t, ok)
	assert.Equal(t, 1, o.Engine().Len(), "existing trail keeps fading")
	_, ok = o.Engine().LastPoint()
	assert.False(t, ok)
}

func TestOverlayCursorFailureOnlyAges(t *testing.T) {
	d := newFakeDesktop()
	o, _ := newSingle(t, d)

	d.moveTo(100, 100)
	o.Tick()
	d.moveTo(200, 100)
	o.Tick()

	d.cursorErr = errors.New("cursor query failed")
	o.Tick()
	o.Tick()

	segs := o.Engine().Segments()
	require.Len(t, segs, 1)
	assert.Equal(t, 3, segs[0].Age)
}

func TestOverlayCloseRemovesEverything(t *testing.T) {
	d := newFakeDesktop()
	o, w := newSingle(t, d)

	for x := 0.0; x < 200; x += 20 {
		d.moveTo(x, 50)
		o.Tick()
	}
	require.NotZero(t, w.Canvas().Len())

	require.NoError(t, o.Close())
	assert.True(t, o.Closed())
	assert.True(t, w.Closed())
	assert.Equal(t, 0, w.Canvas().Len())

	// Stale ticks after teardown are ignored.
	d.moveTo(500, 500)
	o.Tick()
	o.Tick()
	assert.Equal(t, 0, w.Canvas().Len())
	assert.Equal(t, 0, o.Engine().Len())

	require.NoError(t, o.Close())
}

func TestSessionActivateCreatesWindowPerMonitor(t *testing.T) {
	d := newFakeDesktop()
	windows := NewCanvasWindows()
	s := NewSession(d, windows, DefaultOptions())

	require.NoError(t, s.Activate())
	require.True(t, s.Active())

	created := windows.Windows()
	require.Len(t, created, 2)
	assert.Equal(t, tracking.Rect{Min: tracking.Pt(0, 0), Width: 1920, Height: 1080}, created[0].Spec().Bounds)
	assert.Equal(t, tracking.Identity, created[0].Spec().Scale)
	assert.Equal(t, tracking.Rect{Min: tracking.Pt(960, 0), Width: 1920, Height: 1080}, created[1].Spec().Bounds)
	assert.Equal(t, tracking.Uniform(2), created[1].Spec().Scale)
}

func TestSpecForMonitorTouchingNeighbour(t *testing.T) {
	d := newFakeDesktop()

	scale, err := d.MonitorScale(d.monitors[1].Min)
	require.NoError(t, err)
	assert.Equal(t, tracking.Uniform(2), scale, "a monitor's origin belongs to that monitor")

	spec := SpecForMonitor(d, 1, d.monitors[1])
	assert.Equal(t, 1, spec.Index)
	assert.Equal(t, tracking.Uniform(2), spec.Scale)
	assert.Equal(t, tracking.Rect{Min: tracking.Pt(960, 0), Width: 1920, Height: 1080}, spec.Bounds)

	// A monitor stacked below the first touches it along the bottom edge.
	d.monitors = append(d.monitors, tracking.Rect{Min: tracking.Pt(0, 1080), Width: 1920, Height: 1080})
	spec = SpecForMonitor(d, 2, d.monitors[2])
	assert.Equal(t, tracking.Identity, spec.Scale)
	assert.Equal(t, tracking.Rect{Min: tracking.Pt(0, 1080), Width: 1920, Height: 1080}, spec.Bounds)
}

func TestSessionTickDrawsOnlyOnCursorMonitor(t *testing.T) {
	d := newFakeDesktop()
	windows := NewCanvasWindows()
	s := NewSession(d, windows, DefaultOptions())
	require.NoError(t, s.Activate())

	// 2x monitor: physical 4120 -> DIP 2060, local 1100. That is past the
	// right edge of the first window too.
	d.moveTo(4120, 400)
	s.Tick()

	created := windows.Windows()
	_, onFirst := created[0].Canvas().Get(highlightID)
	ring, onSecond := created[1].Canvas().Get(highlightID)
	assert.False(t, onFirst)
	require.True(t, onSecond)
	assert.InDelta(t, 1100, ring.From.X, 1e-9)
	assert.InDelta(t, 200, ring.From.Y, 1e-9)
}

func TestSessionDeactivateTearsDownAll(t *testing.T) {
	d := newFakeDesktop()
	windows := NewCanvasWindows()
	s := NewSession(d, windows, DefaultOptions())
	require.NoError(t, s.Activate())

	d.moveTo(10, 10)
	s.Tick()
	d.moveTo(60, 10)
	s.Tick()
	overlays := s.Overlays()

	require.NoError(t, s.Deactivate())
	assert.False(t, s.Active())
	assert.Empty(t, windows.Windows())
	for _, o := range overlays {
		assert.True(t, o.Closed())
		assert.Equal(t, 0, o.Engine().Len())
	}

	require.NoError(t, s.Deactivate())
}

func TestSessionReactivateReplacesWindows(t *testing.T) {
	d := newFakeDesktop()
	windows := NewCanvasWindows()
	s := NewSession(d, windows, DefaultOptions())

	require.NoError(t, s.Activate())
	first := windows.Windows()
	require.NoError(t, s.Activate())

	assert.Len(t, windows.Windows(), 2)
	for _, w := range first {
		assert.True(t, w.Closed())
	}
}

type failingWindows struct {
	*CanvasWindows
	failAt int
	calls  int
}

func (f *failingWindows) CreateWindow(spec WindowSpec) (Window, error) {
	f.calls++
	if f.calls == f.failAt {
		return nil, errors.New("no compositor")
	}
	return f.CanvasWindows.CreateWindow(spec)
}

func TestSessionActivateRollsBackOnFailure(t *testing.T) {
	d := newFakeDesktop()
	windows := &failingWindows{CanvasWindows: NewCanvasWindows(), failAt: 2}
	s := NewSession(d, windows, DefaultOptions())

	err := s.Activate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monitor 1")
	assert.False(t, s.Active())
	assert.Empty(t, windows.Windows())
}

func TestSessionActivateWithoutMonitors(t *testing.T) {
	d := newFakeDesktop()
	d.monitors = nil
	s := NewSession(d, NewCanvasWindows(), DefaultOptions())

	err := s.Activate()
	assert.ErrorIs(t, err, tracking.ErrNoDisplays)

	d.listErr = errors.New("display server gone")
	err = s.Activate()
	assert.ErrorContains(t, err, "display server gone")
}

func TestSessionRun(t *testing.T) {
	d := newFakeDesktop()
	s := NewSession(d, NewCanvasWindows(), DefaultOptions())
	require.NoError(t, s.Activate())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	frames := 0
	stop := errors.New("enough")
	err := s.Run(ctx, 200, func() error {
		frames++
		d.moveTo(float64(frames*10), 10)
		if frames == 5 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 5, frames)
	// The first tick only records the starting point.
	assert.Equal(t, 4, s.Overlays()[0].Engine().Len())

	assert.Error(t, s.Run(ctx, 0, nil))
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Trail.MaxSegments = 7
	cfg.Overlay.HighlightRadius = 30

	opts := OptionsFromConfig(cfg)
	assert.Equal(t, 7, opts.Trail.MaxSegments)
	assert.Equal(t, cfg.Trail.FadeRate, opts.Trail.FadeRate)
	assert.Equal(t, 30.0, opts.Highlight.Radius)

	defaults := DefaultOptions()
	assert.Equal(t, OptionsFromConfig(config.NewConfig()), defaults)
}
