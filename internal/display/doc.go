// Package display describes attached monitors and resolves which one sits
// under the pointer.
//
// # Coordinate Spaces
//
// Three spaces are involved:
//   - Desktop physical (Point): the virtual desktop in device pixels, the unit
//     pointer APIs report. May be negative for monitors left of or above the
//     primary.
//   - Logical (LogicalPoint): DPI-independent units. A monitor's Origin and
//     Size are logical; sampling requests use logical points relative to the
//     monitor's logical origin.
//   - Monitor physical (PixelRect): device pixels relative to the monitor's
//     top-left corner, the unit capture backends work in.
//
// A monitor with scale factor s maps one logical pixel onto s×s physical
// pixels. Scale factors below 1 (or not finite) are treated as 1.
//
// # Monitor Resolution
//
// Locate tests the pointer against every monitor in that monitor's own
// logical space. Containment is half-open, [origin, origin+size), so a pointer
// exactly on the edge shared by two monitors belongs to the right or bottom
// one. When no monitor contains the pointer the primary monitor is used, then
// the first enumerated one; only an empty list yields ErrMonitorNotFound.
//
// Monitor lists are never cached: providers enumerate fresh on every call
// because displays can be attached or removed between requests.
package display
