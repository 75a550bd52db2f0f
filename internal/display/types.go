package display

import (
	"fmt"
	"image"
	"math"
)

// Point is a position on the virtual desktop in physical pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LogicalPoint is a DPI-independent position, usually relative to a
// monitor's logical origin.
type LogicalPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LogicalSize is a DPI-independent extent.
type LogicalSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PixelRect is a capture target in physical pixels, relative to the top-left
// corner of its monitor.
type PixelRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty reports whether the rectangle covers no pixels.
func (r PixelRect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Rectangle converts r to an image.Rectangle in the same space.
func (r PixelRect) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

func (r PixelRect) String() string {
	return fmt.Sprintf("%dx%d@(%d,%d)", r.Width, r.Height, r.X, r.Y)
}

// Monitor is a snapshot of one attached display.
type Monitor struct {
	// Index is the enumeration position reported by the provider.
	Index int `json:"index"`

	// Name is a human readable identifier.
	Name string `json:"name"`

	// Origin is the top-left corner in logical units.
	Origin LogicalPoint `json:"origin"`

	// Size is the extent in logical units.
	Size LogicalSize `json:"size"`

	// ScaleFactor is the number of physical pixels per logical pixel.
	ScaleFactor float64 `json:"scale_factor"`

	// Primary marks the system's main display.
	Primary bool `json:"primary"`

	// Bounds is the physical rectangle on the virtual desktop. Capture
	// backends translate monitor-relative rectangles with it.
	Bounds image.Rectangle `json:"bounds"`
}

// Scale returns the effective scale factor, never below 1.
func (m Monitor) Scale() float64 {
	s := m.ScaleFactor
	if math.IsNaN(s) || math.IsInf(s, 0) || s < 1 {
		return 1
	}
	return s
}

// PhysicalSize returns the monitor's width and height in physical pixels.
func (m Monitor) PhysicalSize() (int, int) {
	if !m.Bounds.Empty() {
		return m.Bounds.Dx(), m.Bounds.Dy()
	}
	s := m.Scale()
	w := int(math.Round(m.Size.Width * s))
	h := int(math.Round(m.Size.Height * s))
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return w, h
}

// Contains reports whether the desktop position p falls inside the monitor,
// measured in the monitor's own logical space.
func (m Monitor) Contains(p Point) bool {
	s := m.Scale()
	lx := p.X / s
	ly := p.Y / s
	return lx >= m.Origin.X && lx < m.Origin.X+m.Size.Width &&
		ly >= m.Origin.Y && ly < m.Origin.Y+m.Size.Height
}

// ToLocal converts a desktop position into a logical point relative to the
// monitor's origin.
func (m Monitor) ToLocal(p Point) LogicalPoint {
	s := m.Scale()
	return LogicalPoint{X: p.X/s - m.Origin.X, Y: p.Y/s - m.Origin.Y}
}

// ClampRect intersects r with the monitor's physical extent.
func (m Monitor) ClampRect(r PixelRect) PixelRect {
	w, h := m.PhysicalSize()
	c := r.Rectangle().Intersect(image.Rect(0, 0, w, h))
	return PixelRect{X: c.Min.X, Y: c.Min.Y, Width: c.Dx(), Height: c.Dy()}
}

func (m Monitor) String() string {
	return fmt.Sprintf("%s (%gx%g @ %g,%g, scale %g)", m.Name, m.Size.Width, m.Size.Height, m.Origin.X, m.Origin.Y, m.Scale())
}

// NewMonitor builds a Monitor from its physical desktop bounds and scale
// factor, deriving the logical origin and size.
func NewMonitor(index int, name string, bounds image.Rectangle, scale float64, primary bool) Monitor {
	m := Monitor{
		Index:       index,
		Name:        name,
		ScaleFactor: scale,
		Primary:     primary,
		Bounds:      bounds,
	}
	s := m.Scale()
	m.Origin = LogicalPoint{X: float64(bounds.Min.X) / s, Y: float64(bounds.Min.Y) / s}
	m.Size = LogicalSize{Width: float64(bounds.Dx()) / s, Height: float64(bounds.Dy()) / s}
	return m
}
