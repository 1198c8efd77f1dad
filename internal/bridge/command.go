package bridge

import "time"

// CommandType is a remote transport command.
type CommandType int

const (
	CmdPlay CommandType = iota
	CmdPause
	CmdToggle
	CmdSeek
)

// String returns the command name.
func (c CommandType) String() string {
	switch c {
	case CmdPlay:
		return "play"
	case CmdPause:
		return "pause"
	case CmdToggle:
		return "toggle"
	case CmdSeek:
		return "seek"
	default:
		return "unknown"
	}
}

// Command is a transport command from an external control surface.
type Command struct {
	Type     CommandType
	Position time.Duration // CmdSeek only
}

// Target receives commands routed to a registered player. The session that
// registered the player validates the command itself, so a target must
// tolerate commands arriving after it stopped caring. Targets are
// compared by identity and must be pointer types.
type Target interface {
	HandleRemote(cmd Command)
}
