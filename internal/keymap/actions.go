// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	// Gallery navigation
	ActionNextItem  Action = "next_item"
	ActionPrevItem  Action = "prev_item"
	ActionFirstItem Action = "first_item"
	ActionLastItem  Action = "last_item"
	ActionRescan    Action = "rescan"

	// Playback actions
	ActionPlayPause       Action = "play_pause"
	ActionSeekForward     Action = "seek_forward"
	ActionSeekBack        Action = "seek_back"
	ActionSeekForwardLong Action = "seek_forward_long"
	ActionSeekBackLong    Action = "seek_back_long"
	ActionVolumeUp        Action = "volume_up"
	ActionVolumeDown      Action = "volume_down"
	ActionToggleMute      Action = "toggle_mute"
	ActionSlideshow       Action = "slideshow"

	// Zoom actions
	ActionZoomIn    Action = "zoom_in"
	ActionZoomOut   Action = "zoom_out"
	ActionZoomReset Action = "zoom_reset"
	ActionZoomTap   Action = "zoom_tap"
	ActionPanLeft   Action = "pan_left"
	ActionPanRight  Action = "pan_right"
	ActionPanUp     Action = "pan_up"
	ActionPanDown   Action = "pan_down"
)
