package zoom

// Vec is a 2D offset in viewport units.
type Vec struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// IsZero reports whether v is the zero vector.
func (v Vec) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Size is a viewport size.
type Size struct {
	W, H float64
}

// Transform is the scale and offset a host applies to the content.
type Transform struct {
	Scale  float64
	Offset Vec
}

// Rect is a region of the content in normalized coordinates, where the
// whole content spans [0,1] on each axis.
type Rect struct {
	X, Y, W, H float64
}

// Visible returns the part of the content shown through a viewport of
// size vp under t. The content is assumed to fill the viewport at scale 1.
func (t Transform) Visible(vp Size) Rect {
	if t.Scale <= 0 || vp.W <= 0 || vp.H <= 0 {
		return Rect{W: 1, H: 1}
	}
	w := 1 / t.Scale
	h := 1 / t.Scale
	// A positive offset moves the content right, revealing its left side.
	cx := 0.5 - t.Offset.X/(vp.W*t.Scale)
	cy := 0.5 - t.Offset.Y/(vp.H*t.Scale)
	return Rect{X: cx - w/2, Y: cy - h/2, W: w, H: h}
}
