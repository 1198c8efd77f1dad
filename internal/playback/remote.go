package playback

import (
	"time"

	"github.com/llehouerou/gallery/internal/bridge"
	"github.com/llehouerou/gallery/internal/log"
	"github.com/llehouerou/gallery/internal/metrics"
	"github.com/llehouerou/gallery/internal/player"
)

var _ bridge.Target = (*Session)(nil)

// HandleRemote receives a command from the bridge. It may be called from
// any goroutine; the command is validated and applied on the dispatcher.
func (s *Session) HandleRemote(cmd bridge.Command) {
	s.disp.Post(func() { s.handleRemote(cmd) })
}

func (s *Session) RemotePlay() {
	s.HandleRemote(bridge.Command{Type: bridge.CmdPlay})
}

func (s *Session) RemotePause() {
	s.HandleRemote(bridge.Command{Type: bridge.CmdPause})
}

func (s *Session) RemoteSeek(to time.Duration) {
	s.HandleRemote(bridge.Command{Type: bridge.CmdSeek, Position: to})
}

func (s *Session) handleRemote(cmd bridge.Command) {
	if !s.acceptsRemote(cmd) {
		metrics.StaleEventsTotal.WithLabelValues("command").Inc()
		s.log.Debug().
			Stringer(log.FieldCommand, cmd.Type).
			Stringer(log.FieldState, s.state).
			Msg("remote command ignored")
		return
	}

	s.log.Debug().Stringer(log.FieldCommand, cmd.Type).Msg("remote command")
	switch cmd.Type {
	case bridge.CmdPlay:
		if !s.isPlaying() {
			s.remotePlay()
		}
	case bridge.CmdPause:
		if s.isPlaying() {
			s.pause()
		}
	case bridge.CmdToggle:
		if s.isPlaying() {
			s.pause()
		} else {
			s.remotePlay()
		}
	case bridge.CmdSeek:
		_ = s.Seek(cmd.Position)
	}
}

func (s *Session) remotePlay() {
	s.activate()
	if s.nearEnd() {
		s.restart()
		return
	}
	s.startPlayback()
}

// acceptsRemote revalidates that this session is still the command's
// intended target: its player is the registered one, it holds the visible
// slot, or the player's state is consistent with the command.
func (s *Session) acceptsRemote(cmd bridge.Command) bool {
	if s.state == StateTornDown || s.player == nil {
		return false
	}
	if s.registered && s.external.IsCurrent(s.kind, s.player) {
		return true
	}
	if s.state == StateActive {
		return true
	}
	switch cmd.Type {
	case bridge.CmdPause:
		return s.player.State() == player.Playing
	case bridge.CmdPlay:
		return s.player.State() == player.Paused
	}
	return false
}
