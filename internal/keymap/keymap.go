// Package keymap defines key bindings for the application.
package keymap

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "gallery", "playback", "zoom"
}

// All contains all key bindings for help generation.
var All = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit application", "global"},
	{ActionHelp, []string{"?"}, "Show help", "global"},

	// Gallery
	{ActionNextItem, []string{"right", "l", "n"}, "Next item", "gallery"},
	{ActionPrevItem, []string{"left", "h", "p"}, "Previous item", "gallery"},
	{ActionFirstItem, []string{"home", "g"}, "First item", "gallery"},
	{ActionLastItem, []string{"end", "G"}, "Last item", "gallery"},
	{ActionRescan, []string{"ctrl+r"}, "Rescan folder", "gallery"},

	// Playback
	{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
	{ActionSeekForward, []string{"shift+right", "."}, "Seek +5s", "playback"},
	{ActionSeekBack, []string{"shift+left", ","}, "Seek -5s", "playback"},
	{ActionSeekForwardLong, []string{">"}, "Seek +30s", "playback"},
	{ActionSeekBackLong, []string{"<"}, "Seek -30s", "playback"},
	{ActionVolumeUp, []string{"="}, "Volume up", "playback"},
	{ActionVolumeDown, []string{"_"}, "Volume down", "playback"},
	{ActionToggleMute, []string{"m"}, "Mute", "playback"},
	{ActionSlideshow, []string{"s"}, "Start/stop slideshow", "playback"},

	// Zoom
	{ActionZoomIn, []string{"+"}, "Zoom in", "zoom"},
	{ActionZoomOut, []string{"-"}, "Zoom out", "zoom"},
	{ActionZoomReset, []string{"0"}, "Reset zoom", "zoom"},
	{ActionZoomTap, []string{"z"}, "Toggle zoom", "zoom"},
	{ActionPanLeft, []string{"H"}, "Pan left", "zoom"},
	{ActionPanRight, []string{"L"}, "Pan right", "zoom"},
	{ActionPanUp, []string{"K"}, "Pan up", "zoom"},
	{ActionPanDown, []string{"J"}, "Pan down", "zoom"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}
