package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/eyedropper-mcp/internal/capture"
	"github.com/ironsheep/eyedropper-mcp/internal/display"
)

// GridRequest describes which logical pixels to resample around a pointer.
type GridRequest struct {
	// Radius is the grid half-width in logical pixels.
	Radius int

	// Anchor is the logical pixel containing the pointer, relative to the
	// monitor's origin.
	Anchor image.Point

	// ScaleX and ScaleY are physical pixels per logical pixel on each axis.
	ScaleX float64
	ScaleY float64

	// MonitorWidth and MonitorHeight are the monitor's physical extent.
	MonitorWidth  int
	MonitorHeight int
}

// NewGridRequest builds the request for pt on monitor m.
//
// The pointer is floored to the logical pixel containing it. A pointer past
// the monitor's physical extent is clamped to the last physical pixel, and
// one before its origin to the first.
func NewGridRequest(m display.Monitor, pt display.LogicalPoint, radius int) GridRequest {
	s := m.Scale()
	w, h := m.PhysicalSize()
	return GridRequest{
		Radius:        max(radius, 0),
		Anchor:        image.Pt(anchorAxis(pt.X, s, w), anchorAxis(pt.Y, s, h)),
		ScaleX:        s,
		ScaleY:        s,
		MonitorWidth:  w,
		MonitorHeight: h,
	}
}

func anchorAxis(v, scale float64, physical int) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	a := math.Floor(v)
	last := math.Floor(float64(physical-1) / scale)
	if last < 0 {
		last = 0
	}
	if a > last {
		a = last
	}
	return int(a)
}

// Dim returns the grid dimension, always 2*Radius+1.
func (r GridRequest) Dim() int {
	return 2*r.Radius + 1
}

// CaptureRect returns the physical rectangle that covers every grid cell
// plus one pixel of padding on each side, clamped to the monitor.
func (r GridRequest) CaptureRect() display.PixelRect {
	x0 := int(math.Floor(float64(r.Anchor.X-r.Radius)*r.ScaleX)) - 1
	y0 := int(math.Floor(float64(r.Anchor.Y-r.Radius)*r.ScaleY)) - 1
	x1 := int(math.Ceil(float64(r.Anchor.X+r.Radius+1)*r.ScaleX)) + 1
	y1 := int(math.Ceil(float64(r.Anchor.Y+r.Radius+1)*r.ScaleY)) + 1

	c := image.Rect(x0, y0, x1, y1).Intersect(image.Rect(0, 0, r.MonitorWidth, r.MonitorHeight))
	return display.PixelRect{X: c.Min.X, Y: c.Min.Y, Width: c.Dx(), Height: c.Dy()}
}

// Grid is a square block of resampled logical pixels, row-major.
type Grid struct {
	Dim   int         `json:"dim"`
	Cells []RGBAColor `json:"cells"`
}

// At returns the cell at column gx, row gy.
func (g *Grid) At(gx, gy int) RGBAColor {
	return g.Cells[gy*g.Dim+gx]
}

// Center returns the cell at the queried point.
func (g *Grid) Center() RGBAColor {
	c := g.Dim / 2
	return g.At(c, c)
}

// Image returns the grid as a Dim x Dim image, one pixel per cell.
func (g *Grid) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.Dim, g.Dim))
	for i, c := range g.Cells {
		o := i * 4
		img.Pix[o] = c.R
		img.Pix[o+1] = c.G
		img.Pix[o+2] = c.B
		img.Pix[o+3] = c.A
	}
	return img
}

// Resample maps the logical grid described by req onto frame using
// area-weighted averaging.
//
// Each cell covers ScaleX x ScaleY physical pixels. Every frame pixel whose
// unit square intersects the cell contributes in proportion to the overlap
// area. A cell that does not intersect the frame at all takes the nearest
// frame pixel. The frame is validated before any pixel is read.
func Resample(frame *capture.Frame, req GridRequest, norm Normalizer) (*Grid, error) {
	if frame == nil {
		return nil, fmt.Errorf("%w: no frame", capture.ErrEmptyFrame)
	}
	if err := frame.Validate(); err != nil {
		return nil, err
	}
	if norm == nil {
		norm = NormalizerFor(frame.Encoding)
	}

	dim := req.Dim()
	grid := &Grid{Dim: dim, Cells: make([]RGBAColor, dim*dim)}

	for gy := 0; gy < dim; gy++ {
		ly := float64(req.Anchor.Y + gy - req.Radius)
		y0 := ly*req.ScaleY - float64(frame.Rect.Y)
		y1 := y0 + req.ScaleY
		for gx := 0; gx < dim; gx++ {
			lx := float64(req.Anchor.X + gx - req.Radius)
			x0 := lx*req.ScaleX - float64(frame.Rect.X)
			x1 := x0 + req.ScaleX

			var acc [3]float64
			var sum float64
			coverCell(x0, x1, y0, y1, frame.Width, frame.Height, func(px, py int, w float64) {
				v := norm.Decode(frame.At(px, py))
				acc[0] += v[0] * w
				acc[1] += v[1] * w
				acc[2] += v[2] * w
				sum += w
			})

			var c RGBColor
			if sum > 0 {
				c = norm.Encode([3]float64{acc[0] / sum, acc[1] / sum, acc[2] / sum})
			} else {
				px, py := nearestPixel(x0, x1, y0, y1, frame.Width, frame.Height)
				c = norm.Encode(norm.Decode(frame.At(px, py)))
			}
			grid.Cells[gy*dim+gx] = c.Opaque()
		}
	}
	return grid, nil
}

// coverCell calls fn for every pixel of a w x h frame whose unit square
// overlaps [x0,x1) x [y0,y1), passing the overlap area.
func coverCell(x0, x1, y0, y1 float64, w, h int, fn func(px, py int, weight float64)) {
	pxStart := max(int(math.Floor(x0)), 0)
	pxEnd := min(int(math.Ceil(x1)), w)
	pyStart := max(int(math.Floor(y0)), 0)
	pyEnd := min(int(math.Ceil(y1)), h)

	for py := pyStart; py < pyEnd; py++ {
		oy := overlap(y0, y1, float64(py), float64(py+1))
		if oy <= 0 {
			continue
		}
		for px := pxStart; px < pxEnd; px++ {
			ox := overlap(x0, x1, float64(px), float64(px+1))
			if ox <= 0 {
				continue
			}
			fn(px, py, ox*oy)
		}
	}
}

// overlap returns the length of the intersection of [a0,a1) and [b0,b1).
func overlap(a0, a1, b0, b1 float64) float64 {
	return math.Max(0, math.Min(a1, b1)-math.Max(a0, b0))
}

// nearestPixel returns the frame pixel closest to the cell's center.
func nearestPixel(x0, x1, y0, y1 float64, w, h int) (int, int) {
	cx := int(math.Floor((x0 + x1) / 2))
	cy := int(math.Floor((y0 + y1) / 2))
	return min(max(cx, 0), w-1), min(max(cy, 0), h-1)
}
