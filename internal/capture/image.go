package capture

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/eyedropper-mcp/internal/display"
)

// ImageAdapter serves captures from a decoded image, treating it as the
// full content of a single monitor.
type ImageAdapter struct {
	img image.Image
	enc Encoding
}

// NewImageAdapter returns an adapter over img. Pixels are stamped with enc;
// PNG and JPEG files are normally EncodingSRGB.
func NewImageAdapter(img image.Image, enc Encoding) *ImageAdapter {
	return &ImageAdapter{img: img, enc: enc}
}

// Monitor describes the image as a monitor with the given scale factor.
func (a *ImageAdapter) Monitor(scale float64) display.Monitor {
	return display.ImageMonitor(a.img.Bounds(), scale)
}

// Capture implements Adapter. The monitor argument is ignored beyond error
// messages; rect is relative to the image's top-left corner.
func (a *ImageAdapter) Capture(m display.Monitor, rect display.PixelRect) (*Frame, error) {
	if a.img == nil {
		return nil, fmt.Errorf("no image loaded for %s", m.Name)
	}
	b := a.img.Bounds()
	src := rect.Rectangle().Add(b.Min)
	if !src.In(b) {
		return nil, fmt.Errorf("region %s outside image bounds %dx%d", rect, b.Dx(), b.Dy())
	}

	cropped := imaging.Crop(a.img, src)

	cb := cropped.Bounds()
	return &Frame{
		Pix:      cropped.Pix,
		Width:    cb.Dx(),
		Height:   cb.Dy(),
		Stride:   cropped.Stride,
		Order:    OrderRGBA,
		Encoding: a.enc,
		Rect:     rect,
	}, nil
}
