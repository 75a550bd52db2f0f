package imaging

import (
	"image"
	"image/color"
	"image/draw"
)

var defaultGridColor = color.NRGBA{0, 0, 0, 96}

// drawGridLines draws separators on the last row and column of every block
// except the final ones, so block interiors keep their cell color.
func drawGridLines(img *image.NRGBA, spacing int, colorHex string) {
	gridColor, err := ParseHexColor(colorHex)
	if err != nil {
		gridColor = defaultGridColor
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	src := image.NewUniform(gridColor)

	// Vertical lines
	for x := spacing - 1; x < width-1; x += spacing {
		draw.Draw(img, image.Rect(x, 0, x+1, height), src, image.Point{}, draw.Over)
	}

	// Horizontal lines
	for y := spacing - 1; y < height-1; y += spacing {
		draw.Draw(img, image.Rect(0, y, width, y+1), src, image.Point{}, draw.Over)
	}
}
