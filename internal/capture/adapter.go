package capture

import (
	"fmt"
	"runtime"

	"github.com/ironsheep/eyedropper-mcp/internal/display"
)

// Adapter captures a rectangle of physical pixels from a monitor.
//
// rect is relative to the monitor's top-left corner. Implementations return
// a frame covering exactly rect, or an error.
type Adapter interface {
	Capture(m display.Monitor, rect display.PixelRect) (*Frame, error)
}

// AdapterFunc adapts a function to the Adapter interface.
type AdapterFunc func(m display.Monitor, rect display.PixelRect) (*Frame, error)

// Capture implements Adapter.
func (f AdapterFunc) Capture(m display.Monitor, rect display.PixelRect) (*Frame, error) {
	return f(m, rect)
}

// Grab calls a and validates what it returns. Backend errors and nil frames
// are reported as ErrCaptureFailed; a frame covering any region other than
// rect is ErrBadFrameSize.
func Grab(a Adapter, m display.Monitor, rect display.PixelRect) (*Frame, error) {
	if rect.Empty() {
		return nil, fmt.Errorf("%w: region %s", ErrEmptyFrame, rect)
	}
	f, err := a.Capture(m, rect)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCaptureFailed, err)
	}
	if f == nil {
		return nil, fmt.Errorf("%w: backend returned no frame", ErrCaptureFailed)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if f.Rect != rect {
		return nil, fmt.Errorf("%w: backend returned region %s for %s", ErrBadFrameSize, f.Rect, rect)
	}
	return f, nil
}

// DefaultEncoding returns the encoding live captures use on this platform.
// macOS returns pixels in the display's native color space.
func DefaultEncoding() Encoding {
	if runtime.GOOS == "darwin" {
		return EncodingNative
	}
	return EncodingSRGB
}
