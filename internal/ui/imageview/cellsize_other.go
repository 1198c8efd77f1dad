//go:build !unix

package imageview

func cellSize() (w, h int) {
	return 8, 16
}
