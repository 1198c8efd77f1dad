package media

import (
	"os"
	"path/filepath"
)

// artworkNames lists common cover filenames in priority order.
var artworkNames = []string{
	"cover.jpg", "cover.png", "cover.jpeg",
	"folder.jpg", "folder.png", "folder.jpeg",
	"album.jpg", "album.png", "album.jpeg",
	"front.jpg", "front.png", "front.jpeg",
}

// FindArtwork looks for cover art in the same directory as the media file.
// Returns the path to the art file, or empty string if not found.
func FindArtwork(mediaPath string) string {
	dir := filepath.Dir(mediaPath)
	for _, name := range artworkNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
