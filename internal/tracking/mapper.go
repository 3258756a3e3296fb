package tracking

import (
	"github.com/rs/zerolog/log"
)

// ScaleSource resolves the DPI scale of the monitor under a physical point.
type ScaleSource interface {
	MonitorScale(p Point) (Scale, error)
}

// Mapper converts global physical cursor positions into window local
// device independent coordinates.
type Mapper struct {
	scales ScaleSource
}

func NewMapper(scales ScaleSource) *Mapper {
	return &Mapper{scales: scales}
}

// Map translates a raw cursor position into the local space of a window
// whose bounds are given in DIP and whose own DPI scale is windowScale.
//
// The scale used to normalize the cursor is the one of the monitor under the
// cursor, not the one under the window. Near a boundary between monitors with
// different scale factors this can place the cursor one frame off.
//
// The second result is false when the cursor is not on the window, when the
// scale lookup fails, or when the inputs are not finite.
func (m *Mapper) Map(global Point, window Rect, windowScale Scale) (Point, bool) {
	if !global.Finite() || !window.Min.Finite() || !windowScale.Valid() {
		return Point{}, false
	}

	monitorScale, err := m.scales.MonitorScale(global)
	if err != nil {
		log.Debug().Err(err).Msg("monitor scale unavailable")
		return Point{}, false
	}
	if !monitorScale.Valid() {
		return Point{}, false
	}

	globalDIP := global.Div(monitorScale)
	originPhysical := window.Min.Mul(windowScale)
	local := globalDIP.Sub(originPhysical.Div(monitorScale))

	if local.X < 0 || local.X > window.Width || local.Y < 0 || local.Y > window.Height {
		return Point{}, false
	}
	return local, true
}
