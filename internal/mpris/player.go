//go:build linux

package mpris

import (
	"errors"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/gallery/internal/bridge"
)

// ErrNoPlayer is returned when no player is registered with the bridge.
var ErrNoPlayer = errors.New("no player registered")

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	remote Remote
	nav    Navigator
	now    func() time.Time
}

func newPlayerAdapter(remote Remote, nav Navigator) *playerAdapter {
	return &playerAdapter{remote: remote, nav: nav, now: time.Now}
}

func (p *playerAdapter) send(cmd bridge.Command) error {
	if !p.remote.Dispatch(cmd) {
		return ErrNoPlayer
	}
	return nil
}

func (p *playerAdapter) Next() error {
	if p.nav == nil {
		return nil
	}
	return p.nav.Next()
}

func (p *playerAdapter) Previous() error {
	if p.nav == nil {
		return nil
	}
	return p.nav.Previous()
}

func (p *playerAdapter) Pause() error {
	return p.send(bridge.Command{Type: bridge.CmdPause})
}

func (p *playerAdapter) PlayPause() error {
	return p.send(bridge.Command{Type: bridge.CmdToggle})
}

func (p *playerAdapter) Stop() error {
	return p.send(bridge.Command{Type: bridge.CmdPause})
}

func (p *playerAdapter) Play() error {
	return p.send(bridge.Command{Type: bridge.CmdPlay})
}

// Seek is relative to the current position.
func (p *playerAdapter) Seek(offset types.Microseconds) error {
	info := p.remote.Position()
	to := info.Estimate(p.now()) + time.Duration(offset)*time.Microsecond
	return p.send(bridge.Command{Type: bridge.CmdSeek, Position: max(to, 0)})
}

func (p *playerAdapter) SetPosition(trackID string, position types.Microseconds) error {
	np, ok := p.remote.NowPlaying()
	if !ok {
		return ErrNoPlayer
	}
	// Stale track ids are ignored per the MPRIS contract.
	if dbus.ObjectPath(trackID) != trackPath(string(np.MediaID)) {
		return nil
	}
	return p.send(bridge.Command{Type: bridge.CmdSeek, Position: time.Duration(position) * time.Microsecond})
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	if _, ok := p.remote.NowPlaying(); !ok {
		return types.PlaybackStatusStopped, nil
	}
	if p.remote.Position().Playing {
		return types.PlaybackStatusPlaying, nil
	}
	return types.PlaybackStatusPaused, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	np, ok := p.remote.NowPlaying()
	if !ok {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId: trackPath(string(np.MediaID)),
		Length:  micros(np.Duration),
		Title:   np.Title,
		Album:   np.Album,
	}
	if np.Artist != "" {
		meta.Artist = []string{np.Artist}
	}
	if np.ArtworkPath != "" {
		meta.ArtUrl = "file://" + np.ArtworkPath
	}
	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetVolume(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Position() (int64, error) {
	return p.remote.Position().Estimate(p.now()).Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.nav != nil && p.nav.HasNext(), nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.nav != nil && p.nav.HasPrevious(), nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.remote.Enabled(), nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return p.remote.Enabled(), nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.remote.Enabled(), nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return p.remote.Enabled(), nil
}
