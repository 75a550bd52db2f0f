package display

import (
	"errors"
	"fmt"
)

// ErrMonitorNotFound is returned when no monitor contains the pointer and no
// fallback monitor exists.
var ErrMonitorNotFound = errors.New("monitor not found under cursor")

// Locate returns the monitor containing the desktop position cursor.
//
// Every candidate is tested in its own logical space, so monitors with
// different scale factors are compared correctly. When none matches, the
// primary monitor is returned, then the first enumerated one. An empty list
// yields ErrMonitorNotFound.
func Locate(cursor Point, monitors []Monitor) (Monitor, error) {
	for _, m := range monitors {
		if m.Contains(cursor) {
			return m, nil
		}
	}
	if m, ok := primaryOf(monitors); ok {
		return m, nil
	}
	return Monitor{}, ErrMonitorNotFound
}

// primaryOf returns the primary monitor, or the first one when none is
// flagged primary.
func primaryOf(monitors []Monitor) (Monitor, bool) {
	for _, m := range monitors {
		if m.Primary {
			return m, true
		}
	}
	if len(monitors) > 0 {
		return monitors[0], true
	}
	return Monitor{}, false
}

// Resolve enumerates monitors from p and locates the one under cursor.
// Enumeration failures are reported as ErrMonitorNotFound.
func Resolve(p Provider, cursor Point) (Monitor, error) {
	monitors, err := p.Monitors()
	if err != nil {
		return Monitor{}, fmt.Errorf("%w: enumerating monitors: %w", ErrMonitorNotFound, err)
	}
	return Locate(cursor, monitors)
}
