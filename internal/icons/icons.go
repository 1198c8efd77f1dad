// Package icons provides the glyphs used to mark gallery items.
package icons

import "github.com/llehouerou/gallery/internal/media"

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the icon characters for the current style.
type Icons struct {
	Image     string
	Animated  string
	Video     string
	Audio     string
	Play      string
	Pause     string
	Slideshow string
	Zoom      string
	Muted     string // prefix, empty when the label suffices
}

var (
	nerdIcons = Icons{
		Image:     " ", // nf-fa-image
		Animated:  "󰵸 ",      // nf-md-gif
		Video:     " ", // nf-fa-video_camera
		Audio:     " ", // nf-fa-music
		Play:      "",  // nf-fa-play
		Pause:     "",  // nf-fa-pause
		Slideshow: "󰐑",       // nf-md-play_box_multiple
		Zoom:      "",  // nf-fa-search_plus
	}

	unicodeIcons = Icons{
		Image:     "🖼 ",
		Animated:  "🎞 ",
		Video:     "🎬 ",
		Audio:     "🎵 ",
		Play:      "▶",
		Pause:     "⏸",
		Slideshow: "⟳",
		Zoom:      "🔍",
		Muted:     "🔇 ",
	}

	noneIcons = Icons{
		Play:      ">",
		Pause:     "||",
		Slideshow: "[S]",
		Zoom:      "[Z]",
	}

	// current holds the active icon set
	current = noneIcons
)

// Init initializes the icons based on the style.
// Call this once at startup with the config value.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleUnicode:
		current = unicodeIcons
	case StyleNone:
		current = noneIcons
	default:
		current = noneIcons
	}
}

// ForKind returns the prefix icon of a media kind, empty for "none".
func ForKind(k media.Kind) string {
	switch k {
	case media.KindImage:
		return current.Image
	case media.KindAnimatedImage:
		return current.Animated
	case media.KindVideo:
		return current.Video
	case media.KindAudio:
		return current.Audio
	}
	return ""
}

// FormatItem prefixes name with the icon of its kind.
func FormatItem(k media.Kind, name string) string {
	return ForKind(k) + name
}

// Play returns the playing indicator.
func Play() string {
	return current.Play
}

// Pause returns the paused indicator.
func Pause() string {
	return current.Pause
}

// Slideshow returns the slideshow indicator.
func Slideshow() string {
	return current.Slideshow
}

// Zoom returns the zoomed-in indicator.
func Zoom() string {
	return current.Zoom
}

// Muted returns the muted prefix.
func Muted() string {
	return current.Muted
}
