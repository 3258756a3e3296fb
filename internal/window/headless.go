//go:build headless

package window

import (
	"context"

	"github.com/vedantwpatil/presentation-cursor/internal/overlay"
)

func Run(ctx context.Context, w *Window, ov *overlay.Overlay, fps int) error {
	return ErrHeadless
}
