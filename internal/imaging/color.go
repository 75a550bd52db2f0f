package imaging

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
//
// Each component ranges from 0 to 255, where:
//   - 0 represents no intensity (black for all components)
//   - 255 represents full intensity (white for all components)
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
//
// Sampled screen colors are always opaque, so A is 255 for every value the
// sampler produces.
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// Opaque returns c with full alpha.
func (c RGBColor) Opaque() RGBAColor {
	return RGBAColor{R: c.R, G: c.G, B: c.B, A: 255}
}

// RGB drops the alpha component.
func (c RGBAColor) RGB() RGBColor {
	return RGBColor{R: c.R, G: c.G, B: c.B}
}

// Hex returns the color as "#RRGGBB" with uppercase digits. Alpha is omitted.
func (c RGBAColor) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// NRGBA converts c to the standard library color type.
func (c RGBAColor) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func (c RGBAColor) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-359 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// OKLCHColor represents a color in the perceptual OKLCH space.
type OKLCHColor struct {
	L float64 `json:"l"` // Lightness: 0-100 percent, two decimals
	C float64 `json:"c"` // Chroma: 0 to about 0.37, two decimals
	H float64 `json:"h"` // Hue: 0-360 degrees, one decimal
}

// ColorResult contains a color value in multiple representations.
//
// This struct provides the same color in several formats to suit different use cases:
//   - Hex: Compact string format for CSS/web usage
//   - RGB: Standard 8-bit components without alpha
//   - RGBA: 8-bit components with alpha
//   - HSL: Intuitive hue/saturation/lightness
//   - OKLCH: Perceptually uniform lightness/chroma/hue
type ColorResult struct {
	Hex   string     `json:"hex"`   // Hex format "#RRGGBB" (no alpha)
	RGB   RGBColor   `json:"rgb"`   // RGB components
	RGBA  RGBAColor  `json:"rgba"`  // RGBA components with alpha
	HSL   HSLColor   `json:"hsl"`   // HSL representation
	OKLCH OKLCHColor `json:"oklch"` // OKLCH representation
}

// NewColorResult expands a sampled color into all supported representations.
func NewColorResult(c RGBAColor) *ColorResult {
	return &ColorResult{
		Hex:   c.Hex(),
		RGB:   c.RGB(),
		RGBA:  c,
		HSL:   toHSL(c),
		OKLCH: toOKLCH(c),
	}
}

// Supported output formats for FormatColor.
const (
	FormatHex   = "hex"
	FormatRGB   = "rgb"
	FormatHSL   = "hsl"
	FormatOKLCH = "oklch"
)

// FormatColor renders c as a CSS color string in the named format.
//
//   - "hex":   #FF0000
//   - "rgb":   rgb(255, 0, 0)
//   - "hsl":   hsl(0, 100%, 50%)
//   - "oklch": oklch(62.8% 0.26 29.2)
//
// An empty format selects hex. Format names are case-insensitive.
func FormatColor(c RGBAColor, format string) (string, error) {
	switch strings.ToLower(format) {
	case "", FormatHex:
		return c.Hex(), nil
	case FormatRGB:
		return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B), nil
	case FormatHSL:
		h := toHSL(c)
		return fmt.Sprintf("hsl(%d, %d%%, %d%%)", h.H, h.S, h.L), nil
	case FormatOKLCH:
		o := toOKLCH(c)
		return fmt.Sprintf("oklch(%s%% %s %s)",
			strconv.FormatFloat(o.L, 'f', -1, 64),
			strconv.FormatFloat(o.C, 'f', -1, 64),
			strconv.FormatFloat(o.H, 'f', -1, 64)), nil
	default:
		return "", fmt.Errorf("unknown color format %q (want hex, rgb, hsl or oklch)", format)
	}
}

// toHSL converts c to HSL with integer components. Hue is rounded and wrapped
// into 0-359; saturation and lightness are rounded percentages.
func toHSL(c RGBAColor) HSLColor {
	h, s, l := c.colorful().Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	hue := int(math.Round(h)) % 360
	if hue < 0 {
		hue += 360
	}
	return HSLColor{
		H: hue,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}

// toOKLCH converts c to OKLCH. Achromatic colors report a hue of 0.
func toOKLCH(c RGBAColor) OKLCHColor {
	l, ch, h := c.colorful().OkLch()
	if ch < 1e-4 || math.IsNaN(h) {
		ch, h = 0, 0
	}
	hue := roundTo(h, 1)
	if hue >= 360 {
		hue -= 360
	}
	return OKLCHColor{
		L: roundTo(l*100, 2),
		C: roundTo(ch, 2),
		H: hue,
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// ParseHexColor parses a hex color string like "#FF0000" or "#FF000080".
// The leading '#' is optional. Six-digit colors are fully opaque.
func ParseHexColor(hex string) (color.NRGBA, error) {
	if len(hex) == 0 {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}
