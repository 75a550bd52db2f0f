package capture

import (
	"errors"
	"fmt"

	"github.com/ironsheep/eyedropper-mcp/internal/display"
)

var (
	// ErrCaptureFailed is returned when the backend could not produce pixels.
	ErrCaptureFailed = errors.New("screen capture failed")

	// ErrEmptyFrame is returned when a frame has zero width or height.
	ErrEmptyFrame = errors.New("captured frame is empty")

	// ErrBadFrameSize is returned when a frame's buffer does not match its
	// declared geometry.
	ErrBadFrameSize = errors.New("captured frame has inconsistent size")
)

// ChannelOrder is the byte order of one 4-byte pixel.
type ChannelOrder int

const (
	// OrderRGBA stores red, green, blue, alpha.
	OrderRGBA ChannelOrder = iota
	// OrderBGRA stores blue, green, red, alpha.
	OrderBGRA
)

func (o ChannelOrder) String() string {
	switch o {
	case OrderRGBA:
		return "rgba"
	case OrderBGRA:
		return "bgra"
	default:
		return fmt.Sprintf("order(%d)", int(o))
	}
}

// Encoding tells the normalizer how to interpret channel values.
type Encoding int

const (
	// EncodingSRGB means the values are already sRGB-encoded.
	EncodingSRGB Encoding = iota
	// EncodingNative means the values are in the display's native space and
	// need gamma correction before being reported as sRGB.
	EncodingNative
)

func (e Encoding) String() string {
	switch e {
	case EncodingSRGB:
		return "srgb"
	case EncodingNative:
		return "native"
	default:
		return fmt.Sprintf("encoding(%d)", int(e))
	}
}

// Frame is a captured block of physical pixels.
type Frame struct {
	// Pix holds the pixel bytes, row-major, top to bottom.
	Pix []byte

	// Width and Height are the frame extent in pixels.
	Width  int
	Height int

	// Stride is the number of bytes between the starts of two rows.
	Stride int

	// Order is the channel layout of each pixel.
	Order ChannelOrder

	// Encoding describes the color space of the channel values.
	Encoding Encoding

	// Rect is the monitor-relative region the frame covers. Its size must
	// equal Width x Height.
	Rect display.PixelRect
}

// Validate checks that the buffer is large enough for the declared geometry.
func (f *Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrEmptyFrame, f.Width, f.Height)
	}
	row := f.Width * 4
	if f.Stride < row {
		return fmt.Errorf("%w: stride %d shorter than row of %d bytes", ErrBadFrameSize, f.Stride, row)
	}
	need := (f.Height-1)*f.Stride + row
	if len(f.Pix) < need {
		return fmt.Errorf("%w: buffer holds %d bytes, need %d", ErrBadFrameSize, len(f.Pix), need)
	}
	if f.Rect.Width != f.Width || f.Rect.Height != f.Height {
		return fmt.Errorf("%w: region %s does not match %dx%d", ErrBadFrameSize, f.Rect, f.Width, f.Height)
	}
	return nil
}

// At returns the channels of the pixel at frame-relative (x, y) in RGB order.
// Alpha is ignored. The caller must keep x and y within the frame.
func (f *Frame) At(x, y int) (r, g, b uint8) {
	i := y*f.Stride + x*4
	p := f.Pix[i : i+4 : i+4]
	if f.Order == OrderBGRA {
		return p[2], p[1], p[0]
	}
	return p[0], p[1], p[2]
}

// NewFrame allocates a zeroed RGBA frame covering rect.
func NewFrame(rect display.PixelRect, enc Encoding) *Frame {
	return &Frame{
		Pix:      make([]byte, rect.Width*rect.Height*4),
		Width:    rect.Width,
		Height:   rect.Height,
		Stride:   rect.Width * 4,
		Order:    OrderRGBA,
		Encoding: enc,
		Rect:     rect,
	}
}
