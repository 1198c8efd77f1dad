// internal/player/interface.go
package player

import (
	"errors"
	"time"

	"github.com/llehouerou/gallery/internal/media"
)

// ErrNotLoaded is returned when an operation needs loaded media.
var ErrNotLoaded = errors.New("no media loaded")

// Token identifies an installed observer.
type Token uint64

// Interface is the transport capability the playback core drives. It is
// not owned by the core; sessions compare players by identity, so
// implementations must be pointer types.
//
// Observer callbacks are invoked from the player's own timing source and
// may run on any goroutine.
type Interface interface {
	Play()
	Pause()
	// Seek moves to an absolute position. done, if non-nil, is called once
	// with the outcome; it may never be called if the transport stalls.
	Seek(to time.Duration, done func(ok bool))
	State() State
	Position() time.Duration
	// Duration returns 0 while the duration is unknown.
	Duration() time.Duration
	Rate() float64
	SetRate(rate float64)
	Volume() float64
	SetVolume(level float64)
	Muted() bool
	SetMuted(muted bool)
	// CurrentItem identifies the media the transport currently holds.
	CurrentItem() media.ID

	AddPeriodicObserver(interval time.Duration, fn func(pos time.Duration)) Token
	AddEndObserver(fn func(item media.ID)) Token
	RemoveObserver(token Token)
}

// Verify AudioPlayer implements Interface at compile time.
var _ Interface = (*AudioPlayer)(nil)
