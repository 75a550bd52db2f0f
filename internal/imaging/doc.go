// Package imaging provides the pixel pipeline behind the eyedropper: color
// normalization, area-weighted grid resampling, and magnified rendering.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based with the origin at the
// top-left corner, X increasing rightward and Y increasing downward. Three
// spaces are involved:
//   - Logical pixels: DPI-independent units relative to a monitor's origin.
//   - Monitor physical pixels: device pixels, logical * scale factor.
//   - Frame pixels: monitor physical pixels offset by the captured region.
//
// # Resampling
//
// Resample maps each logical pixel of a (2*radius+1)^2 grid onto the
// physical pixels it covers. A pixel's contribution is the area of overlap
// between its unit square and the logical pixel's footprint, so at a scale
// factor of 1 each cell is an exact single-pixel lookup and at fractional
// scale factors partially covered pixels contribute proportionally. Cells
// that fall outside the captured frame take the nearest frame pixel.
//
// # Color Representation
//
// A Normalizer decodes raw samples into the space in which averaging
// happens and encodes the average back to 8-bit sRGB. Passthrough averages
// encoded bytes; GammaCorrect averages in linear light.
//
// Colors are returned in multiple formats for flexibility:
//   - Hex: 6-character format "#RRGGBB" (alpha excluded)
//   - RGB: 8-bit components (0-255)
//   - RGBA: 8-bit components with alpha (0-255)
//   - HSL: Hue (0-359), Saturation (0-100), Lightness (0-100)
//   - OKLCH: Lightness (percent), Chroma, Hue (degrees)
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless and allocate their own outputs, so concurrent calls never share
// buffers.
package imaging
