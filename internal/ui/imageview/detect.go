package imageview

import (
	"os"
	"strings"
)

// Supported reports whether the terminal speaks the Kitty graphics
// protocol. GALLERY_IMAGE_PROTOCOL=kitty or =none overrides detection.
func Supported() bool {
	switch os.Getenv("GALLERY_IMAGE_PROTOCOL") {
	case "kitty":
		return true
	case "none":
		return false
	}

	// Contour leaks parent terminal variables but has no Kitty support.
	if os.Getenv("CONTOUR_PROFILE") != "" {
		return false
	}
	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	if os.Getenv("TERM_PROGRAM") == "WezTerm" {
		return true
	}
	if os.Getenv("GHOSTTY_RESOURCES_DIR") != "" {
		return true
	}
	if version := os.Getenv("KONSOLE_VERSION"); len(version) >= 4 && version[:4] >= "2204" {
		return true
	}
	return strings.Contains(os.Getenv("TERM"), "kitty")
}
