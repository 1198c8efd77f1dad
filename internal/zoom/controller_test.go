package zoom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newController(w, h float64) *Controller {
	c := New(DefaultConfig())
	c.SetViewport(Size{W: w, H: h})
	return c
}

func TestPinch_ReturnsToOriginalScale(t *testing.T) {
	c := newController(300, 600)

	c.PinchChanged(1.5)
	assert.InDelta(t, 1.5, c.Scale(), 1e-9)
	c.PinchChanged(1.0)
	c.PinchEnded()

	assert.InDelta(t, 1.0, c.Scale(), 1e-9)
	assert.Equal(t, Vec{}, c.Offset())
	assert.False(t, c.IsZoomed())
}

func TestPinch_ClampsToBounds(t *testing.T) {
	c := newController(300, 600)

	c.PinchChanged(10)
	assert.InDelta(t, 5.0, c.Scale(), 1e-9)
	c.PinchEnded()

	c.PinchChanged(0.01)
	assert.InDelta(t, 1.0, c.Scale(), 1e-9)
	c.PinchEnded()
	assert.Equal(t, Vec{}, c.Offset())
}

func TestPinch_GesturesCompose(t *testing.T) {
	c := newController(300, 600)

	c.PinchChanged(2)
	c.PinchEnded()
	c.PinchChanged(1.5)
	c.PinchEnded()

	assert.InDelta(t, 3.0, c.Scale(), 1e-9)
}

func TestPinch_IgnoresNonPositiveValues(t *testing.T) {
	c := newController(300, 600)
	c.PinchChanged(2)
	c.PinchChanged(0)
	c.PinchChanged(-1)
	assert.InDelta(t, 2.0, c.Scale(), 1e-9)
}

func TestPinchEnded_ClampsOffsetToNewScale(t *testing.T) {
	c := newController(300, 600)
	c.PinchChanged(3)
	c.PinchEnded()
	require.True(t, c.DragChanged(Vec{X: 300, Y: 600}))
	c.DragEnded()
	require.Equal(t, Vec{X: 300, Y: 600}, c.Offset())

	c.PinchChanged(2.0 / 3.0)
	c.PinchEnded()

	assert.InDelta(t, 2.0, c.Scale(), 1e-9)
	assert.InDelta(t, 150, c.Offset().X, 1e-9)
	assert.InDelta(t, 300, c.Offset().Y, 1e-9)
}

func TestClampOffset_Bounds(t *testing.T) {
	c := newController(300, 600)
	c.PinchChanged(3)
	c.PinchEnded()

	for _, o := range []Vec{
		{X: 1e6, Y: 1e6},
		{X: -1e6, Y: -1e6},
		{X: 299, Y: -599},
		{X: 0, Y: 0},
		{X: -450, Y: 10},
	} {
		got := c.ClampOffset(o)
		assert.LessOrEqual(t, math.Abs(got.X), 300.0, "x for %v", o)
		assert.LessOrEqual(t, math.Abs(got.Y), 600.0, "y for %v", o)
	}

	assert.Equal(t, Vec{X: 300, Y: -600}, c.ClampOffset(Vec{X: 1000, Y: -1000}))
	assert.Equal(t, Vec{X: 299, Y: -599}, c.ClampOffset(Vec{X: 299, Y: -599}))
}

func TestClampOffset_NoPanAtMinScale(t *testing.T) {
	c := newController(300, 600)
	assert.Equal(t, Vec{}, c.ClampOffset(Vec{X: 50, Y: -50}))
}

func TestDoubleTap_Toggles(t *testing.T) {
	c := newController(300, 600)

	c.DoubleTap()
	assert.InDelta(t, 2.0, c.Scale(), 1e-9)
	assert.True(t, c.IsZoomed())

	require.True(t, c.DragChanged(Vec{X: 100, Y: 100}))
	c.DragEnded()

	c.DoubleTap()
	assert.InDelta(t, 1.0, c.Scale(), 1e-9)
	assert.Equal(t, Vec{}, c.Offset())
}

func TestDoubleTap_WithinEpsilonZoomsIn(t *testing.T) {
	c := newController(300, 600)
	c.PinchChanged(1.005)
	c.PinchEnded()

	c.DoubleTap()
	assert.InDelta(t, 2.0, c.Scale(), 1e-9)
}

func TestDrag_PassesThroughWhenNotZoomed(t *testing.T) {
	c := newController(300, 600)

	assert.False(t, c.AcceptsPan())
	assert.False(t, c.DragChanged(Vec{X: 40}))
	assert.Equal(t, Vec{}, c.Offset())
	assert.False(t, c.IsDragging())
}

func TestDrag_IsRelativeToGestureStart(t *testing.T) {
	c := newController(300, 600)
	c.PinchChanged(3)
	c.PinchEnded()

	c.DragChanged(Vec{X: 10, Y: 5})
	c.DragChanged(Vec{X: 20, Y: 10})
	assert.Equal(t, Vec{X: 20, Y: 10}, c.Offset())
	c.DragEnded()

	c.DragChanged(Vec{X: 5})
	assert.Equal(t, Vec{X: 25, Y: 10}, c.Offset())
	c.DragEnded()
}

func TestDrag_UnclampedUntilEnded(t *testing.T) {
	c := newController(300, 600)
	c.PinchChanged(2)
	c.PinchEnded()

	c.DragChanged(Vec{X: 1000})
	assert.InDelta(t, 1000, c.Offset().X, 1e-9)

	c.DragEnded()
	assert.InDelta(t, 150, c.Offset().X, 1e-9)
}

func TestNew_FixesInvalidConfig(t *testing.T) {
	c := New(Config{MinScale: -1, MaxScale: 0, DoubleTapScale: 0})
	cfg := c.Config()
	assert.InDelta(t, 1.0, cfg.MinScale, 1e-9)
	assert.InDelta(t, 5.0, cfg.MaxScale, 1e-9)
	assert.InDelta(t, 2.0, cfg.DoubleTapScale, 1e-9)
}

func TestSetViewport_ReclampsOffset(t *testing.T) {
	c := newController(300, 600)
	c.DoubleTap()
	c.DragChanged(Vec{X: 150})
	c.DragEnded()

	c.SetViewport(Size{W: 100, H: 600})
	assert.InDelta(t, 50, c.Offset().X, 1e-9)
}

func TestTransform_Visible(t *testing.T) {
	vp := Size{W: 300, H: 600}
	tests := []struct {
		name string
		tr   Transform
		want Rect
	}{
		{"identity", Transform{Scale: 1}, Rect{X: 0, Y: 0, W: 1, H: 1}},
		{"centered 2x", Transform{Scale: 2}, Rect{X: 0.25, Y: 0.25, W: 0.5, H: 0.5}},
		{"panned to left edge", Transform{Scale: 2, Offset: Vec{X: 150}}, Rect{X: 0, Y: 0.25, W: 0.5, H: 0.5}},
		{"invalid", Transform{}, Rect{W: 1, H: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.tr.Visible(vp)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
			assert.InDelta(t, tt.want.W, got.W, 1e-9)
			assert.InDelta(t, tt.want.H, got.H, 1e-9)
		})
	}
}
