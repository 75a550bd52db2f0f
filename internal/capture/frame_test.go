package capture

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/eyedropper-mcp/internal/display"
)

func TestFrame_Validate(t *testing.T) {
	rect := display.PixelRect{Width: 2, Height: 2}

	tests := []struct {
		name    string
		frame   Frame
		wantErr error
	}{
		{
			name:  "tight buffer",
			frame: Frame{Pix: make([]byte, 16), Width: 2, Height: 2, Stride: 8, Rect: rect},
		},
		{
			name:  "padded rows without trailing padding",
			frame: Frame{Pix: make([]byte, 16+8), Width: 2, Height: 2, Stride: 16, Rect: rect},
		},
		{
			name:    "zero width",
			frame:   Frame{Width: 0, Height: 2, Stride: 8, Rect: rect},
			wantErr: ErrEmptyFrame,
		},
		{
			name:    "stride shorter than row",
			frame:   Frame{Pix: make([]byte, 16), Width: 2, Height: 2, Stride: 4, Rect: rect},
			wantErr: ErrBadFrameSize,
		},
		{
			name:    "truncated buffer",
			frame:   Frame{Pix: make([]byte, 15), Width: 2, Height: 2, Stride: 8, Rect: rect},
			wantErr: ErrBadFrameSize,
		},
		{
			name:    "region mismatch",
			frame:   Frame{Pix: make([]byte, 16), Width: 2, Height: 2, Stride: 8, Rect: display.PixelRect{Width: 3, Height: 2}},
			wantErr: ErrBadFrameSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.frame.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFrame_AtChannelOrder(t *testing.T) {
	pix := []byte{10, 20, 30, 255}

	rgba := Frame{Pix: pix, Width: 1, Height: 1, Stride: 4, Order: OrderRGBA}
	r, g, b := rgba.At(0, 0)
	assert.Equal(t, [3]uint8{10, 20, 30}, [3]uint8{r, g, b})

	bgra := Frame{Pix: pix, Width: 1, Height: 1, Stride: 4, Order: OrderBGRA}
	r, g, b = bgra.At(0, 0)
	assert.Equal(t, [3]uint8{30, 20, 10}, [3]uint8{r, g, b})
}

func TestGrab(t *testing.T) {
	mon := display.NewMonitor(0, "m", image.Rect(0, 0, 10, 10), 1, true)
	rect := display.PixelRect{X: 1, Y: 1, Width: 2, Height: 2}

	t.Run("passes valid frame through", func(t *testing.T) {
		a := AdapterFunc(func(_ display.Monitor, r display.PixelRect) (*Frame, error) {
			return NewFrame(r, EncodingSRGB), nil
		})
		f, err := Grab(a, mon, rect)
		require.NoError(t, err)
		assert.Equal(t, 2, f.Width)
	})

	t.Run("wraps backend error", func(t *testing.T) {
		cause := errors.New("permission denied")
		a := AdapterFunc(func(display.Monitor, display.PixelRect) (*Frame, error) {
			return nil, cause
		})
		_, err := Grab(a, mon, rect)
		assert.ErrorIs(t, err, ErrCaptureFailed)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("nil frame", func(t *testing.T) {
		a := AdapterFunc(func(display.Monitor, display.PixelRect) (*Frame, error) {
			return nil, nil
		})
		_, err := Grab(a, mon, rect)
		assert.ErrorIs(t, err, ErrCaptureFailed)
	})

	t.Run("short buffer", func(t *testing.T) {
		a := AdapterFunc(func(_ display.Monitor, r display.PixelRect) (*Frame, error) {
			f := NewFrame(r, EncodingSRGB)
			f.Pix = f.Pix[:3]
			return f, nil
		})
		_, err := Grab(a, mon, rect)
		assert.ErrorIs(t, err, ErrBadFrameSize)
	})

	t.Run("region differs from request", func(t *testing.T) {
		for _, got := range []display.PixelRect{
			{X: 1, Y: 1, Width: 1, Height: 2},
			{X: 2, Y: 1, Width: 2, Height: 2},
		} {
			a := AdapterFunc(func(display.Monitor, display.PixelRect) (*Frame, error) {
				return NewFrame(got, EncodingSRGB), nil
			})
			_, err := Grab(a, mon, rect)
			assert.ErrorIs(t, err, ErrBadFrameSize, got.String())
		}
	})

	t.Run("empty region", func(t *testing.T) {
		called := false
		a := AdapterFunc(func(display.Monitor, display.PixelRect) (*Frame, error) {
			called = true
			return nil, nil
		})
		_, err := Grab(a, mon, display.PixelRect{})
		assert.ErrorIs(t, err, ErrEmptyFrame)
		assert.False(t, called)
	})
}

func TestImageAdapter_Capture(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 10), B: 7, A: 255})
		}
	}
	a := NewImageAdapter(img, EncodingSRGB)
	mon := a.Monitor(1)

	f, err := Grab(a, mon, display.PixelRect{X: 1, Y: 1, Width: 2, Height: 2})
	require.NoError(t, err)

	r, g, b := f.At(1, 1)
	assert.Equal(t, [3]uint8{20, 20, 7}, [3]uint8{r, g, b})

	_, err = Grab(a, mon, display.PixelRect{X: 3, Y: 0, Width: 2, Height: 1})
	assert.ErrorIs(t, err, ErrCaptureFailed)
}

func TestImageAdapter_OffsetOrigin(t *testing.T) {
	img := image.NewRGBA(image.Rect(100, 50, 102, 52))
	img.Set(101, 51, color.RGBA{R: 200, A: 255})
	a := NewImageAdapter(img, EncodingSRGB)

	f, err := Grab(a, a.Monitor(1), display.PixelRect{X: 1, Y: 1, Width: 1, Height: 1})
	require.NoError(t, err)

	r, _, _ := f.At(0, 0)
	assert.Equal(t, uint8(200), r)
}
