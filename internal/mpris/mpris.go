//go:build linux

// Package mpris exposes the external playback bridge on the session bus.
package mpris

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/gallery/internal/bridge"
	"github.com/llehouerou/gallery/internal/log"
)

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

// Adapter connects the bridge to MPRIS over D-Bus.
type Adapter struct {
	server *server.Server
}

// New creates and starts a new MPRIS adapter. nav may be nil.
func New(remote Remote, nav Navigator) (*Adapter, error) {
	a := &Adapter{
		server: server.NewServer("gallery", &rootAdapter{}, newPlayerAdapter(remote, nav)),
	}

	// Start the server in background
	go func() {
		if err := a.server.Listen(); err != nil {
			l := log.WithComponent("mpris")
			l.Warn().Err(err).Msg("mpris server stopped")
		}
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Gallery", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/ogg", "audio/wav", "video/mp4"}, nil
}

func formatTrackID(id string) string {
	h := fnv.New64a()
	h.Write([]byte(id))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}

func micros(d time.Duration) types.Microseconds {
	return types.Microseconds(d.Microseconds())
}

func trackPath(id string) dbus.ObjectPath {
	return dbus.ObjectPath(formatTrackID(id))
}
