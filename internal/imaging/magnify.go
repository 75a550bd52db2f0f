package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// MagnifyOptions controls optional decoration of a magnified grid.
type MagnifyOptions struct {
	// GridLines draws 1-pixel separators between blocks.
	GridLines bool

	// GridColor is the separator color as "#RRGGBB" or "#RRGGBBAA".
	// Empty or invalid values fall back to semi-transparent black.
	GridColor string
}

// MagnifyResult contains a rendered magnified grid.
type MagnifyResult struct {
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	GridDim     int       `json:"grid_dim"`
	Ratio       int       `json:"ratio"`
	Center      RGBAColor `json:"center"`
	ImageBase64 string    `json:"image_base64"`
	MimeType    string    `json:"mime_type"`
}

// Magnify expands every cell of grid into a ratio x ratio block of identical
// pixels. The output is exactly (Dim*ratio) x (Dim*ratio).
//
// Expansion is nearest-neighbor: block k on either axis takes its color from
// cell k only, with no interpolation between neighbors.
func Magnify(grid *Grid, ratio int, opts MagnifyOptions) (*image.NRGBA, error) {
	if grid == nil || grid.Dim <= 0 || len(grid.Cells) != grid.Dim*grid.Dim {
		return nil, fmt.Errorf("invalid grid")
	}
	if ratio < 1 {
		return nil, fmt.Errorf("magnify ratio must be at least 1, got %d", ratio)
	}

	size := grid.Dim * ratio
	out := imaging.Resize(grid.Image(), size, size, imaging.NearestNeighbor)

	if opts.GridLines && ratio > 2 {
		drawGridLines(out, ratio, opts.GridColor)
	}
	return out, nil
}

// EncodePNG encodes img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// NewMagnifyResult encodes a magnified image for transport.
func NewMagnifyResult(img image.Image, grid *Grid, ratio int) (*MagnifyResult, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &MagnifyResult{
		Width:       b.Dx(),
		Height:      b.Dy(),
		GridDim:     grid.Dim,
		Ratio:       ratio,
		Center:      grid.Center(),
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
	}, nil
}
