package bridge

import (
	"time"

	"github.com/llehouerou/gallery/internal/log"
	"github.com/llehouerou/gallery/internal/media"
	"github.com/llehouerou/gallery/internal/metrics"
	"github.com/llehouerou/gallery/internal/player"
)

// Send routes cmd to the player registered for kind. With a target the
// command goes to the owning session; without one it drives the player
// directly. Returns false if no player is registered.
func (b *Bridge) Send(kind media.Kind, cmd Command) bool {
	b.mu.RLock()
	s, ok := b.slots[kind]
	enabled := b.enabled
	b.mu.RUnlock()

	if !ok || !enabled {
		metrics.BridgeCommandsTotal.WithLabelValues(cmd.Type.String(), "dropped").Inc()
		b.log.Debug().
			Str(log.FieldCommand, cmd.Type.String()).
			Str(log.FieldKind, kind.String()).
			Msg("command dropped: no registered player")
		b.publishDropped(CommandDropped{Command: cmd, Kind: kind.String()})
		return false
	}

	if s.target != nil {
		metrics.BridgeCommandsTotal.WithLabelValues(cmd.Type.String(), "delivered").Inc()
		s.target.HandleRemote(cmd)
		return true
	}

	metrics.BridgeCommandsTotal.WithLabelValues(cmd.Type.String(), "direct").Inc()
	applyDirect(s.player, cmd)
	return true
}

// Dispatch routes cmd to the most recently active kind.
func (b *Bridge) Dispatch(cmd Command) bool {
	b.mu.RLock()
	kind, ok := b.activeKind, b.hasActive
	b.mu.RUnlock()
	if !ok {
		metrics.BridgeCommandsTotal.WithLabelValues(cmd.Type.String(), "dropped").Inc()
		b.publishDropped(CommandDropped{Command: cmd})
		return false
	}
	return b.Send(kind, cmd)
}

func (b *Bridge) Play(kind media.Kind) bool {
	return b.Send(kind, Command{Type: CmdPlay})
}

func (b *Bridge) Pause(kind media.Kind) bool {
	return b.Send(kind, Command{Type: CmdPause})
}

func (b *Bridge) Toggle(kind media.Kind) bool {
	return b.Send(kind, Command{Type: CmdToggle})
}

func (b *Bridge) Seek(kind media.Kind, to time.Duration) bool {
	return b.Send(kind, Command{Type: CmdSeek, Position: to})
}

func applyDirect(p player.Interface, cmd Command) {
	switch cmd.Type {
	case CmdPlay:
		p.Play()
	case CmdPause:
		p.Pause()
	case CmdToggle:
		if p.State() == player.Playing {
			p.Pause()
		} else {
			p.Play()
		}
	case CmdSeek:
		p.Seek(max(cmd.Position, 0), nil)
	}
}
