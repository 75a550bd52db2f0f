package capture

import (
	"errors"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"

	"github.com/ironsheep/eyedropper-mcp/internal/display"
)

// ScreenAdapter captures the live desktop.
type ScreenAdapter struct {
	// Encoding is stamped on every frame.
	Encoding Encoding
}

// NewScreenAdapter returns a ScreenAdapter using the platform's default
// encoding.
func NewScreenAdapter() *ScreenAdapter {
	return &ScreenAdapter{Encoding: DefaultEncoding()}
}

// Capture implements Adapter. rect is translated to desktop coordinates
// using the monitor's physical bounds.
func (s *ScreenAdapter) Capture(m display.Monitor, rect display.PixelRect) (*Frame, error) {
	desk := rect.Rectangle().Add(m.Bounds.Min)
	img, err := screenshot.CaptureRect(desk)
	if err != nil {
		return nil, fmt.Errorf("capturing %v on %s: %w", desk, m.Name, err)
	}
	return frameFromRGBA(img, rect, s.Encoding)
}

// frameFromRGBA wraps an RGBA image as a frame without copying.
func frameFromRGBA(img *image.RGBA, rect display.PixelRect, enc Encoding) (*Frame, error) {
	if img == nil {
		return nil, errors.New("backend returned no image")
	}
	b := img.Bounds()
	if b.Dx() != rect.Width || b.Dy() != rect.Height {
		return nil, fmt.Errorf("%w: backend returned %dx%d for %s", ErrBadFrameSize, b.Dx(), b.Dy(), rect)
	}
	off := img.PixOffset(b.Min.X, b.Min.Y)
	return &Frame{
		Pix:      img.Pix[off:],
		Width:    b.Dx(),
		Height:   b.Dy(),
		Stride:   img.Stride,
		Order:    OrderRGBA,
		Encoding: enc,
		Rect:     rect,
	}, nil
}
