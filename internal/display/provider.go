package display

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// Provider enumerates the currently attached monitors.
type Provider interface {
	Monitors() ([]Monitor, error)
}

// CursorSource reports the pointer position on the virtual desktop.
type CursorSource interface {
	Cursor() (Point, error)
}

// FixedCursor is a CursorSource that always reports the same position.
type FixedCursor Point

// Cursor implements CursorSource.
func (c FixedCursor) Cursor() (Point, error) {
	return Point(c), nil
}

// PrimaryCursor is a CursorSource for callers that have no pointer position.
// It reports a point inside the first logical pixel of the primary monitor
// (or the first monitor when none is primary), so monitor-relative
// coordinates are resolved against that monitor.
type PrimaryCursor struct {
	Provider Provider
}

// Cursor implements CursorSource.
func (c PrimaryCursor) Cursor() (Point, error) {
	monitors, err := c.Provider.Monitors()
	if err != nil {
		return Point{}, err
	}
	m, ok := primaryOf(monitors)
	if !ok {
		return Point{}, ErrMonitorNotFound
	}
	s := m.Scale()
	return Point{X: (m.Origin.X + 0.5) * s, Y: (m.Origin.Y + 0.5) * s}, nil
}

// StaticProvider returns a fixed monitor list. Each call returns a fresh
// copy so callers cannot mutate the list between requests.
type StaticProvider []Monitor

// Monitors implements Provider.
func (p StaticProvider) Monitors() ([]Monitor, error) {
	out := make([]Monitor, len(p))
	copy(out, p)
	return out, nil
}

// ImageMonitor describes a decoded image as a single primary monitor whose
// physical pixels are the image pixels.
func ImageMonitor(bounds image.Rectangle, scale float64) Monitor {
	return NewMonitor(0, "image", image.Rect(0, 0, bounds.Dx(), bounds.Dy()), scale, true)
}

// ScreenProvider enumerates live displays through kbinani/screenshot.
//
// The screenshot backend reports physical bounds only, so scale factors come
// from Scales (keyed by display index), defaulting to 1. Display 0 is the
// primary display on every backend the library supports.
type ScreenProvider struct {
	Scales map[int]float64
}

// NewScreenProvider returns a ScreenProvider using the given per-display
// scale factors.
func NewScreenProvider(scales map[int]float64) *ScreenProvider {
	return &ScreenProvider{Scales: scales}
}

// Monitors implements Provider. No active displays yields an empty list,
// which Locate turns into ErrMonitorNotFound.
func (p *ScreenProvider) Monitors() ([]Monitor, error) {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		return nil, nil
	}
	monitors := make([]Monitor, 0, n)
	for i := 0; i < n; i++ {
		bounds := screenshot.GetDisplayBounds(i)
		monitors = append(monitors, NewMonitor(i, fmt.Sprintf("display-%d", i), bounds, p.scale(i), i == 0))
	}
	return monitors, nil
}

func (p *ScreenProvider) scale(i int) float64 {
	if s, ok := p.Scales[i]; ok && s > 0 {
		return s
	}
	return 1
}
