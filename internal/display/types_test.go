package display

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonitor_Scale(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{2, 2},
		{1.5, 1.5},
		{1, 1},
		{0.5, 1},
		{0, 1},
		{-2, 1},
		{math.NaN(), 1},
		{math.Inf(1), 1},
	}

	for _, tt := range tests {
		m := Monitor{ScaleFactor: tt.in}
		assert.Equal(t, tt.want, m.Scale(), "scale %v", tt.in)
	}
}

func TestNewMonitor_DerivesLogicalGeometry(t *testing.T) {
	m := NewMonitor(1, "retina", image.Rect(2880, 0, 5760, 1800), 2, false)

	assert.Equal(t, LogicalPoint{X: 1440, Y: 0}, m.Origin)
	assert.Equal(t, LogicalSize{Width: 1440, Height: 900}, m.Size)

	w, h := m.PhysicalSize()
	assert.Equal(t, 2880, w)
	assert.Equal(t, 1800, h)
}

func TestMonitor_PhysicalSizeWithoutBounds(t *testing.T) {
	m := Monitor{Size: LogicalSize{Width: 1280, Height: 800}, ScaleFactor: 1.5}

	w, h := m.PhysicalSize()
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1200, h)
}

func TestMonitor_ToLocal(t *testing.T) {
	m := NewMonitor(1, "right", image.Rect(3840, 0, 6400, 1600), 2, false)

	assert.Equal(t, LogicalPoint{X: 10, Y: 20}, m.ToLocal(Point{3860, 40}))
}

func TestMonitor_ClampRect(t *testing.T) {
	m := NewMonitor(0, "m", image.Rect(0, 0, 100, 50), 1, true)

	tests := []struct {
		name string
		in   PixelRect
		want PixelRect
	}{
		{"inside", PixelRect{10, 10, 5, 5}, PixelRect{10, 10, 5, 5}},
		{"left and top edges", PixelRect{-3, -2, 6, 6}, PixelRect{0, 0, 3, 4}},
		{"right and bottom edges", PixelRect{97, 48, 6, 6}, PixelRect{97, 48, 3, 2}},
		{"entirely outside", PixelRect{200, 200, 5, 5}, PixelRect{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.ClampRect(tt.in)
			assert.Equal(t, tt.want, got)
			if !got.Empty() {
				assert.GreaterOrEqual(t, got.X, 0)
				assert.GreaterOrEqual(t, got.Y, 0)
				assert.LessOrEqual(t, got.X+got.Width, 100)
				assert.LessOrEqual(t, got.Y+got.Height, 50)
			}
		})
	}
}

func TestImageMonitor(t *testing.T) {
	m := ImageMonitor(image.Rect(5, 5, 405, 205), 2)

	assert.True(t, m.Primary)
	assert.Equal(t, image.Rect(0, 0, 400, 200), m.Bounds)
	assert.Equal(t, LogicalSize{Width: 200, Height: 100}, m.Size)
	assert.True(t, m.Contains(Point{399, 199}))
	assert.False(t, m.Contains(Point{400, 0}))
}
