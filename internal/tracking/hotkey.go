package tracking

import (
	"context"

	hook "github.com/robotn/gohook"
	"github.com/rs/zerolog/log"
)

// DefaultHotkey stops the overlay from anywhere on the desktop.
var DefaultHotkey = []string{"q", "ctrl", "shift"}

// WatchHotkey calls fn every time the key combination is pressed. It blocks
// until ctx is cancelled, which also ends the global hook.
func WatchHotkey(ctx context.Context, keys []string, fn func()) {
	if len(keys) == 0 {
		keys = DefaultHotkey
	}

	hook.Register(hook.KeyDown, keys, func(e hook.Event) {
		log.Info().Strs("keys", keys).Msg("hotkey pressed")
		fn()
	})

	evChan := hook.Start()

	go func() {
		<-ctx.Done()
		hook.End()
	}()

	log.Debug().Strs("keys", keys).Msg("hotkey listener started")
	// Blocks until hook.End() is called.
	<-hook.Process(evChan)
	log.Debug().Msg("hotkey listener stopped")
}
