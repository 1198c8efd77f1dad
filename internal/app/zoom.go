package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/gallery/internal/zoom"
)

// zoomStep is the magnification of one zoom key press.
const zoomStep = 1.25

// panFraction is the share of the viewport one pan key press moves.
const panFraction = 0.125

// zoomable reports whether the focused item is an image.
func (m *Model) zoomable() bool {
	item := m.current()
	return item != nil && isImage(item)
}

// pinch applies one pinch gesture of the given magnification.
func (m *Model) pinch(value float64) tea.Cmd {
	if !m.zoomable() {
		return nil
	}
	m.zoom.PinchChanged(value)
	m.zoom.PinchEnded()
	return m.startAnimation()
}

// pan drags the content by one step in direction (dx, dy). Keys move the
// view, so the content moves the other way.
func (m *Model) pan(dx, dy float64) tea.Cmd {
	if !m.zoomable() {
		return nil
	}
	vp := m.zoom.Viewport()
	step := zoom.Vec{X: -dx * vp.W * panFraction, Y: -dy * vp.H * panFraction}
	if !m.zoom.DragChanged(step) {
		return nil
	}
	m.zoom.DragEnded()
	return m.startAnimation()
}

func (m *Model) doubleTap() tea.Cmd {
	if !m.zoomable() {
		return nil
	}
	m.zoom.DoubleTap()
	return m.startAnimation()
}

func (m *Model) resetZoomAnimated() tea.Cmd {
	m.zoom.Reset()
	return m.startAnimation()
}

// startAnimation schedules animation frames until the animator settles.
func (m *Model) startAnimation() tea.Cmd {
	a := m.zoom.Animator()
	if a == nil || m.animating || a.Settled() {
		return nil
	}
	m.animating = true
	return AnimTickCmd()
}

func (m *Model) stepAnimation() tea.Cmd {
	a := m.zoom.Animator()
	if a == nil || !m.animating {
		return nil
	}
	if _, settled := a.Step(); settled {
		m.animating = false
		return nil
	}
	return AnimTickCmd()
}

// displayed returns the transform to draw this frame.
func (m *Model) displayed() zoom.Transform {
	if a := m.zoom.Animator(); a != nil {
		return a.Current()
	}
	return m.zoom.Transform()
}
