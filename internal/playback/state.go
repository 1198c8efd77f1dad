// internal/playback/state.go
package playback

// State is the lifecycle state of a Session.
//
//	Idle ──Load──▶ Loaded ──Activate──▶ Active ◀──Activate── Suspended
//	                                      │                      ▲
//	                                      └──────Deactivate──────┘
//	any ──Teardown──▶ TornDown
//
// TornDown is terminal.
type State int

const (
	StateIdle State = iota
	StateLoaded
	StateActive
	StateSuspended
	StateTornDown
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateLoaded:
		return "Loaded"
	case StateActive:
		return "Active"
	case StateSuspended:
		return "Suspended"
	case StateTornDown:
		return "TornDown"
	default:
		return "Unknown"
	}
}

// HasPlayer returns true if a session in this state holds a player.
func (s State) HasPlayer() bool {
	return s == StateLoaded || s == StateActive || s == StateSuspended
}

// ToggleResult reports what ManualPlayToggle did.
type ToggleResult int

const (
	TogglePaused ToggleResult = iota
	TogglePlayed
	ToggleRestarted
)

// String returns the result name.
func (r ToggleResult) String() string {
	switch r {
	case TogglePaused:
		return "Paused"
	case TogglePlayed:
		return "Played"
	case ToggleRestarted:
		return "Restarted"
	default:
		return "Unknown"
	}
}

// ManuallyStarted returns true if the toggle started playback, which the
// host uses to stop auto-advance.
func (r ToggleResult) ManuallyStarted() bool {
	return r == TogglePlayed || r == ToggleRestarted
}
