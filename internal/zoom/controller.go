// Package zoom implements the zoom and pan transform of an image view.
//
// The controller holds the target transform and applies gesture deltas to
// it; an optional Animator eases the displayed transform toward that
// target when a gesture settles.
package zoom

import (
	"github.com/samber/lo"
)

// Config bounds the transform.
type Config struct {
	MinScale       float64
	MaxScale       float64
	DoubleTapScale float64
	// Epsilon is the scale slack under which double tap treats the view as
	// not zoomed.
	Epsilon float64
}

// DefaultConfig returns the default bounds.
func DefaultConfig() Config {
	return Config{MinScale: 1, MaxScale: 5, DoubleTapScale: 2, Epsilon: 0.01}
}

// Controller is the zoom/pan state of one view. It is not safe for
// concurrent use.
type Controller struct {
	cfg      Config
	viewport Size

	scale  float64
	offset Vec

	lastGesture float64
	dragging    bool
	dragStart   Vec

	anim *Animator
}

// New creates a controller at the minimum scale. Invalid bounds fall back
// to the defaults.
func New(cfg Config) *Controller {
	def := DefaultConfig()
	if cfg.MinScale <= 0 {
		cfg.MinScale = def.MinScale
	}
	if cfg.MaxScale < cfg.MinScale {
		cfg.MaxScale = max(def.MaxScale, cfg.MinScale)
	}
	if cfg.DoubleTapScale <= cfg.MinScale {
		cfg.DoubleTapScale = min(max(def.DoubleTapScale, cfg.MinScale), cfg.MaxScale)
	}
	if cfg.Epsilon <= 0 {
		cfg.Epsilon = def.Epsilon
	}
	return &Controller{
		cfg:         cfg,
		scale:       cfg.MinScale,
		lastGesture: 1,
	}
}

// WithAnimator attaches an animator that follows the controller's target.
func (c *Controller) WithAnimator(a *Animator) *Controller {
	c.anim = a
	if a != nil {
		a.Snap(c.Transform())
	}
	return c
}

// Animator returns the attached animator, or nil.
func (c *Controller) Animator() *Animator { return c.anim }

// SetViewport sets the view size and re-clamps the offset.
func (c *Controller) SetViewport(vp Size) {
	c.viewport = vp
	c.offset = c.ClampOffset(c.offset)
	c.snap()
}

func (c *Controller) Viewport() Size   { return c.viewport }
func (c *Controller) Scale() float64   { return c.scale }
func (c *Controller) Offset() Vec      { return c.offset }
func (c *Controller) Config() Config   { return c.cfg }
func (c *Controller) IsDragging() bool { return c.dragging }

// Transform returns the target transform.
func (c *Controller) Transform() Transform {
	return Transform{Scale: c.scale, Offset: c.offset}
}

// IsZoomed reports whether the content is magnified. The host suppresses
// outer swipe navigation while it is.
func (c *Controller) IsZoomed() bool {
	return c.scale > c.cfg.MinScale
}

// AcceptsPan reports whether drag gestures belong to the controller.
// When false they pass through to outer navigation.
func (c *Controller) AcceptsPan() bool {
	return c.IsZoomed()
}

// PinchChanged applies a pinch gesture value, the cumulative magnification
// since the gesture began.
func (c *Controller) PinchChanged(value float64) {
	if value <= 0 {
		return
	}
	c.scale = lo.Clamp(c.scale*(value/c.lastGesture), c.cfg.MinScale, c.cfg.MaxScale)
	c.lastGesture = value
	c.snap()
}

// PinchEnded settles a pinch: below the minimum the view resets, otherwise
// the offset is clamped to the new scale.
func (c *Controller) PinchEnded() {
	c.lastGesture = 1
	if c.scale < c.cfg.MinScale {
		c.scale = c.cfg.MinScale
		c.offset = Vec{}
	} else {
		c.offset = c.ClampOffset(c.offset)
	}
	c.animate()
}

// DragChanged applies a drag translation measured from the start of the
// gesture. It reports whether the drag was consumed; when not zoomed it is
// left to outer navigation.
func (c *Controller) DragChanged(translation Vec) bool {
	if !c.AcceptsPan() {
		return false
	}
	if !c.dragging {
		c.dragging = true
		c.dragStart = c.offset
	}
	c.offset = c.dragStart.Add(translation)
	c.snap()
	return true
}

// DragEnded settles a drag by clamping the offset.
func (c *Controller) DragEnded() {
	c.dragging = false
	c.offset = c.ClampOffset(c.offset)
	c.animate()
}

// DoubleTap toggles between the minimum scale and the double tap scale.
func (c *Controller) DoubleTap() {
	if c.scale > c.cfg.MinScale+c.cfg.Epsilon {
		c.Reset()
		return
	}
	c.scale = c.cfg.DoubleTapScale
	c.offset = c.ClampOffset(c.offset)
	c.animate()
}

// Reset returns to the minimum scale with no offset.
func (c *Controller) Reset() {
	c.scale = c.cfg.MinScale
	c.offset = Vec{}
	c.dragging = false
	c.lastGesture = 1
	c.animate()
}

// ClampOffset bounds o to the pannable area at the current scale.
func (c *Controller) ClampOffset(o Vec) Vec {
	extraW := max(0, c.viewport.W*c.scale-c.viewport.W) / 2
	extraH := max(0, c.viewport.H*c.scale-c.viewport.H) / 2
	return Vec{
		X: lo.Clamp(o.X, -extraW, extraW),
		Y: lo.Clamp(o.Y, -extraH, extraH),
	}
}

func (c *Controller) snap() {
	if c.anim != nil {
		c.anim.Snap(c.Transform())
	}
}

func (c *Controller) animate() {
	if c.anim != nil {
		c.anim.AnimateTo(c.Transform())
	}
}
