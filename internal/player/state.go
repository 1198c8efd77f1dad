package player

// State represents the transport state machine.
//
//	┌──────────┐      play       ┌──────────┐
//	│  Stopped │ ───────────────▶│  Playing │
//	└──────────┘                 └──────────┘
//	     ▲                          │    ▲
//	     │ stop          pause, end │    │ play
//	     │                          ▼    │
//	     │                       ┌──────────┐
//	     └───────────────────────│  Paused  │◀── load
//	                  stop       └──────────┘
//
// Reaching the end of the media moves Playing to Paused with the position
// left at the end.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// Transition is an input to the transport state machine.
type Transition int

const (
	OnLoad Transition = iota
	OnPlay
	OnPause
	OnEnd
	OnStop
)

// Next returns the state after t. Transitions that do not apply leave the
// state unchanged.
func (s State) Next(t Transition) State {
	switch t {
	case OnLoad:
		return Paused
	case OnPlay:
		return Playing
	case OnPause, OnEnd:
		if s == Playing {
			return Paused
		}
	case OnStop:
		return Stopped
	}
	return s
}
