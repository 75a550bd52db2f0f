// Package capture defines the frame contract between a screen capture
// backend and the resampling pipeline.
//
// A capture backend receives a monitor and a rectangle in that monitor's
// physical pixel space and returns a Frame: a row-major buffer of 4-byte
// pixels with an explicit stride, channel order, and color encoding. The
// buffer is owned by the caller once returned.
//
// Two backends are provided:
//
//   - ScreenAdapter captures the live desktop through kbinani/screenshot.
//   - ImageAdapter crops a decoded image, so recorded screenshots can be
//     sampled with the same pipeline.
//
// Backends must report failure through an error. Grab wraps the adapter call
// and validates the result so that a missing, empty, or truncated buffer is
// never passed on.
package capture
