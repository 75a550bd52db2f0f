package imaging

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/eyedropper-mcp/internal/capture"
)

// Normalizer converts raw frame samples into canonical sRGB.
//
// Decode maps one sample into the space in which the resampler averages;
// Encode maps an average in that space back to 8-bit sRGB. Both are pure
// arithmetic and never fail.
type Normalizer interface {
	Decode(r, g, b uint8) [3]float64
	Encode(v [3]float64) RGBColor
}

// Passthrough treats samples as already sRGB-encoded. Averaging happens on
// the encoded byte values.
type Passthrough struct{}

// Decode implements Normalizer.
func (Passthrough) Decode(r, g, b uint8) [3]float64 {
	return [3]float64{float64(r), float64(g), float64(b)}
}

// Encode implements Normalizer.
func (Passthrough) Encode(v [3]float64) RGBColor {
	return RGBColor{R: clampByte(v[0]), G: clampByte(v[1]), B: clampByte(v[2])}
}

// GammaCorrect treats samples as gamma-encoded native values. Each sample is
// decoded to linear light, averages are taken in linear light, and the
// result is re-encoded with the sRGB transfer curve.
type GammaCorrect struct{}

// Decode implements Normalizer.
func (GammaCorrect) Decode(r, g, b uint8) [3]float64 {
	lr, lg, lb := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.LinearRgb()
	return [3]float64{lr, lg, lb}
}

// Encode implements Normalizer.
func (GammaCorrect) Encode(v [3]float64) RGBColor {
	c := colorful.LinearRgb(clampUnit(v[0]), clampUnit(v[1]), clampUnit(v[2]))
	return RGBColor{R: clampByte(c.R * 255), G: clampByte(c.G * 255), B: clampByte(c.B * 255)}
}

// NormalizerFor returns the normalizer matching a frame's declared encoding.
func NormalizerFor(enc capture.Encoding) Normalizer {
	if enc == capture.EncodingNative {
		return GammaCorrect{}
	}
	return Passthrough{}
}

// SrgbToLinear decodes one sRGB channel value in [0,1] to linear light.
func SrgbToLinear(v float64) float64 {
	l, _, _ := colorful.Color{R: v}.LinearRgb()
	return l
}

// LinearToSrgb encodes one linear channel value in [0,1] with the sRGB curve.
func LinearToSrgb(v float64) float64 {
	return colorful.LinearRgb(v, 0, 0).R
}

// clampByte rounds v to the nearest integer and clamps it to [0,255].
func clampByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
