package zoom

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// Animator defaults.
const (
	DefaultFPS       = 60
	defaultFrequency = 8.0
	defaultDamping   = 1.0
	settleThreshold  = 1e-3
)

// Animator eases a displayed transform toward a target with a critically
// damped spring, one Step per frame.
type Animator struct {
	spring  harmonica.Spring
	current Transform
	target  Transform
	vScale  float64
	vX, vY  float64
}

// NewAnimator creates an animator stepping at fps frames per second.
func NewAnimator(fps int) *Animator {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Animator{
		spring:  harmonica.NewSpring(harmonica.FPS(fps), defaultFrequency, defaultDamping),
		current: Transform{Scale: 1},
		target:  Transform{Scale: 1},
	}
}

// Snap jumps to t without animating. Used while a gesture is in progress.
func (a *Animator) Snap(t Transform) {
	a.current = t
	a.target = t
	a.vScale, a.vX, a.vY = 0, 0, 0
}

// AnimateTo sets a new target.
func (a *Animator) AnimateTo(t Transform) {
	a.target = t
}

// Current returns the displayed transform.
func (a *Animator) Current() Transform { return a.current }

// Target returns the transform being approached.
func (a *Animator) Target() Transform { return a.target }

// Settled reports whether the displayed transform has reached the target.
func (a *Animator) Settled() bool {
	return near(a.current.Scale, a.target.Scale) &&
		near(a.current.Offset.X, a.target.Offset.X) &&
		near(a.current.Offset.Y, a.target.Offset.Y) &&
		near(a.vScale, 0) && near(a.vX, 0) && near(a.vY, 0)
}

// Step advances one frame and reports whether the animation has settled.
// A settled animator lands exactly on the target.
func (a *Animator) Step() (Transform, bool) {
	if a.Settled() {
		a.Snap(a.target)
		return a.current, true
	}
	a.current.Scale, a.vScale = a.spring.Update(a.current.Scale, a.vScale, a.target.Scale)
	a.current.Offset.X, a.vX = a.spring.Update(a.current.Offset.X, a.vX, a.target.Offset.X)
	a.current.Offset.Y, a.vY = a.spring.Update(a.current.Offset.Y, a.vY, a.target.Offset.Y)
	if a.Settled() {
		a.Snap(a.target)
		return a.current, true
	}
	return a.current, false
}

func near(a, b float64) bool {
	return math.Abs(a-b) < settleThreshold
}
