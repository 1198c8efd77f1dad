// Package media describes gallery items and the capabilities the playback
// core needs from them.
package media

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnknownDuration is returned when a duration cannot be determined
	// (not loaded yet, unbounded stream, or no decoder for the container).
	ErrUnknownDuration = errors.New("duration unknown")
	// ErrNotPlayable is returned for media no transport can play.
	ErrNotPlayable = errors.New("media not playable")
)

// ID is the stable identifier of a media item.
type ID string

// Kind classifies a media item.
type Kind int

const (
	KindImage Kind = iota
	KindAnimatedImage
	KindVideo
	KindAudio
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindImage:
		return "Image"
	case KindAnimatedImage:
		return "AnimatedImage"
	case KindVideo:
		return "Video"
	case KindAudio:
		return "Audio"
	default:
		return "Unknown"
	}
}

// IsTimed returns true for kinds that have a playback timeline.
func (k Kind) IsTimed() bool {
	return k == KindVideo || k == KindAudio
}

// Metadata is the "now playing" description of an item.
type Metadata struct {
	Title       string
	Artist      string
	Album       string
	Artwork     []byte // embedded artwork, if any
	ArtworkMIME string
	ArtworkPath string // artwork file next to the media, if any
	Duration    time.Duration
	IsVideo     bool
}

// Item is the capability the playback core consumes for one media item.
// Duration and Metadata may block and may fail.
type Item interface {
	ID() ID
	Kind() Kind
	Source() string
	Duration(ctx context.Context) (time.Duration, error)
	Metadata(ctx context.Context) (Metadata, error)
}

// CacheChecker reports whether an item's data is available locally, which
// makes it eligible for background playback.
type CacheChecker interface {
	IsCached(item Item) bool
}

// CacheFunc adapts a function to CacheChecker.
type CacheFunc func(item Item) bool

func (f CacheFunc) IsCached(item Item) bool { return f(item) }
