package playback

import (
	"time"

	"github.com/llehouerou/gallery/internal/media"
)

// StateChange is emitted when the session state changes.
type StateChange struct {
	Previous State
	Current  State
}

// Tick is emitted for every accepted periodic observation while Active.
type Tick struct {
	Position time.Duration
	Duration time.Duration
	Playing  bool
}

// Ended is emitted when the current item reaches its end.
//
// The host uses it to advance a slideshow or to call NotifyLoopRestart when
// looping a single item.
type Ended struct {
	MediaID media.ID
}

// ManualPlay is emitted when ManualPlayToggle starts playback.
type ManualPlay struct {
	Restarted bool
}

// ErrorEvent is emitted when an asynchronous operation fails.
type ErrorEvent struct {
	Operation string // e.g., "seek", "duration", "metadata"
	MediaID   media.ID
	Err       error
}
