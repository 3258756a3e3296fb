package tracking

import (
	"errors"
	"fmt"

	"github.com/go-vgo/robotgo"
	"github.com/kbinani/screenshot"
)

var ErrNoDisplays = errors.New("no active displays")

// Locator is the read only view of the desktop an overlay needs: where the
// cursor is, which monitors exist, and how each one is scaled. All
// coordinates are physical pixels.
type Locator interface {
	ScaleSource
	CursorPosition() (Point, error)
	Monitors() ([]Rect, error)
}

// System is the Locator backed by the real desktop.
type System struct{}

func NewSystem() *System {
	return &System{}
}

func (s *System) CursorPosition() (Point, error) {
	x, y := robotgo.Location()
	return Point{X: float64(x), Y: float64(y)}, nil
}

func (s *System) Monitors() ([]Rect, error) {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		return nil, ErrNoDisplays
	}

	monitors := make([]Rect, 0, n)
	for i := 0; i < n; i++ {
		monitors = append(monitors, RectFromImage(screenshot.GetDisplayBounds(i)))
	}
	return monitors, nil
}

func (s *System) MonitorScale(p Point) (Scale, error) {
	monitors, err := s.Monitors()
	if err != nil {
		return Scale{}, fmt.Errorf("failed to list monitors: %w", err)
	}

	index := MonitorAt(monitors, p)
	f := robotgo.ScaleF(index)
	if !finite(f) || f <= 0 {
		return Identity, nil
	}
	return Uniform(f), nil
}

// MonitorAt returns the index of the monitor containing p, or of the nearest
// monitor when none contains it. A point on the seam between two monitors
// belongs to the one whose left or top edge it lies on. It returns -1 for an
// empty list.
func MonitorAt(monitors []Rect, p Point) int {
	for i, m := range monitors {
		if m.owns(p) {
			return i
		}
	}

	best := -1
	bestDist := 0.0
	for i, m := range monitors {
		d := m.distance(p)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
