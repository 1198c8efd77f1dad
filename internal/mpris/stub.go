//go:build !linux

package mpris

import "github.com/llehouerou/gallery/internal/bridge"

// Remote is the part of the bridge the adapter drives.
type Remote interface {
	Dispatch(cmd bridge.Command) bool
	Enabled() bool
	NowPlaying() (bridge.NowPlaying, bool)
	Position() bridge.PositionInfo
}

// Navigator moves to the neighbouring gallery item. Optional.
type Navigator interface {
	Next() error
	Previous() error
	HasNext() bool
	HasPrevious() bool
}

// Adapter is a no-op on non-Linux platforms.
type Adapter struct{}

// New returns a no-op adapter on non-Linux platforms.
func New(_ Remote, _ Navigator) (*Adapter, error) {
	return &Adapter{}, nil
}

// Close is a no-op on non-Linux platforms.
func (a *Adapter) Close() error {
	return nil
}
