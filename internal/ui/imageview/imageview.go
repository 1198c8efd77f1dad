// Package imageview draws a still image in the terminal with the Kitty
// graphics protocol, showing the part selected by a zoom transform.
package imageview

import (
	"errors"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"
	"sync"
	"sync/atomic"

	"github.com/nfnt/resize"

	"github.com/llehouerou/gallery/internal/zoom"
)

// ErrNoImage is returned by Render before an image is loaded.
var ErrNoImage = errors.New("no image loaded")

var nextImageID uint32

// Crop returns the pixel rectangle of bounds covered by r, a region in
// normalized content coordinates. The result stays inside bounds and is
// never empty for a non-empty bounds.
func Crop(bounds image.Rectangle, r zoom.Rect) image.Rectangle {
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())
	x0 := bounds.Min.X + int(r.X*w)
	y0 := bounds.Min.Y + int(r.Y*h)
	x1 := bounds.Min.X + int((r.X+r.W)*w+0.5)
	y1 := bounds.Min.Y + int((r.Y+r.H)*h+0.5)

	out := image.Rect(x0, y0, x1, y1).Intersect(bounds)
	if out.Empty() && !bounds.Empty() {
		return image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Min.X+1, bounds.Min.Y+1)
	}
	return out
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

type frameKey struct {
	t          zoom.Transform
	cols, rows int
}

// Renderer keeps one decoded image and the last frame sent for it.
type Renderer struct {
	mu sync.Mutex

	path string
	img  image.Image

	id      uint32
	last    frameKey
	hasLast bool
}

// New creates an empty renderer.
func New() *Renderer {
	return &Renderer{}
}

// Load decodes the image at path. Loading the current path again is a no-op.
func (r *Renderer) Load(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if path == r.path && r.img != nil {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return err
	}
	r.path = path
	r.img = img
	r.hasLast = false
	return nil
}

// Path returns the loaded image path.
func (r *Renderer) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

// Render returns the escape sequences drawing the part of the image
// selected by t into a cols x rows cell area at the 1-based (row, col).
// The offset of t is measured in cells.
// An unchanged frame is only placed again, not retransmitted.
func (r *Renderer) Render(t zoom.Transform, cols, rows, row, col int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.img == nil {
		return "", ErrNoImage
	}
	if cols <= 0 || rows <= 0 {
		return "", nil
	}

	key := frameKey{t: t, cols: cols, rows: rows}
	if r.hasLast && r.last == key {
		return place(r.id, row, col, cols, rows), nil
	}

	cw, ch := cellSize()
	vp := zoom.Size{W: float64(cols * cw), H: float64(rows * ch)}
	src := r.img
	if s, ok := r.img.(subImager); ok {
		src = s.SubImage(Crop(r.img.Bounds(), t.Visible(zoom.Size{W: float64(cols), H: float64(rows)})))
	}
	//nolint:gosec // cell areas are small
	frame := resize.Thumbnail(uint(vp.W), uint(vp.H), src, resize.Bilinear)

	var out string
	if r.id != 0 {
		out = remove(r.id)
	}
	r.id = atomic.AddUint32(&nextImageID, 1)
	cmd, err := transmit(frame, r.id)
	if err != nil {
		r.id = 0
		r.hasLast = false
		return out, err
	}
	r.last = key
	r.hasLast = true
	return out + cmd + place(r.id, row, col, cols, rows), nil
}

// Clear forgets the image and returns the sequence removing it from the
// terminal.
func (r *Renderer) Clear() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var cmd string
	if r.id != 0 {
		cmd = remove(r.id)
	}
	r.path = ""
	r.img = nil
	r.id = 0
	r.hasLast = false
	return cmd
}

// Hide removes the image from the terminal but keeps it loaded; the next
// Render transmits it again.
func (r *Renderer) Hide() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.id == 0 {
		return ""
	}
	cmd := remove(r.id)
	r.id = 0
	r.hasLast = false
	return cmd
}
