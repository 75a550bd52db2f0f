// Package sampler samples the color under the pointer and renders magnified
// previews of the surrounding pixels.
//
// A Sampler combines a monitor provider, a capture backend, and the imaging
// pipeline. Each call resolves the monitor fresh, captures one region, and
// allocates its own frame, grid, and output image; nothing is shared between
// calls, so a Sampler is safe for concurrent use.
package sampler

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/eyedropper-mcp/internal/capture"
	"github.com/ironsheep/eyedropper-mcp/internal/display"
	"github.com/ironsheep/eyedropper-mcp/internal/imaging"
	"github.com/ironsheep/eyedropper-mcp/internal/logging"
)

// Errors returned by Sampler. They are the originating package sentinels, so
// errors.Is works against either name.
var (
	ErrMonitorNotFound = display.ErrMonitorNotFound
	ErrCaptureFailed   = capture.ErrCaptureFailed
	ErrEmptyFrame      = capture.ErrEmptyFrame
	ErrBadFrameSize    = capture.ErrBadFrameSize
)

// ErrInvalidConfig is returned by New for a zero or negative ratio or a
// negative radius.
var ErrInvalidConfig = errors.New("invalid sampler configuration")

// Config holds the sampling parameters.
type Config struct {
	// Radius is the grid half-width in logical pixels. The grid is
	// (2*Radius+1) cells on each side.
	Radius int

	// Ratio is the size in output pixels of one magnified cell.
	Ratio int

	// Normalizer overrides the normalizer chosen from the frame's encoding.
	Normalizer imaging.Normalizer

	// Magnify decorates magnified output.
	Magnify imaging.MagnifyOptions
}

// Sampler runs the sampling pipeline.
type Sampler struct {
	monitors display.Provider
	capturer capture.Adapter
	cursor   display.CursorSource
	cfg      Config
	log      logrus.FieldLogger
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithLogger sets the logger used for per-request debug output.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Sampler) {
		if l != nil {
			s.log = l
		}
	}
}

// WithCursor sets the source of the desktop pointer position used to pick a
// monitor. Without it the monitor containing the desktop origin is used.
func WithCursor(c display.CursorSource) Option {
	return func(s *Sampler) {
		if c != nil {
			s.cursor = c
		}
	}
}

// New returns a Sampler reading monitors from monitors and pixels from
// capturer.
func New(monitors display.Provider, capturer capture.Adapter, cfg Config, opts ...Option) (*Sampler, error) {
	if monitors == nil || capturer == nil {
		return nil, fmt.Errorf("%w: monitor provider and capture adapter are required", ErrInvalidConfig)
	}
	if cfg.Radius < 0 {
		return nil, fmt.Errorf("%w: radius %d", ErrInvalidConfig, cfg.Radius)
	}
	if cfg.Ratio < 1 {
		return nil, fmt.Errorf("%w: ratio %d", ErrInvalidConfig, cfg.Ratio)
	}

	s := &Sampler{
		monitors: monitors,
		capturer: capturer,
		cursor:   display.FixedCursor{},
		cfg:      cfg,
		log:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Config returns the sampler's configuration.
func (s *Sampler) Config() Config {
	return s.cfg
}

// Magnified is the result of SampleMagnified.
type Magnified struct {
	// Grid holds the resampled logical pixels.
	Grid *imaging.Grid

	// Image is the block-expanded grid.
	Image *image.NRGBA

	// Ratio is the block size used.
	Ratio int

	// Monitor is the monitor that was sampled.
	Monitor display.Monitor
}

// Center returns the color at the sampled point.
func (m *Magnified) Center() imaging.RGBAColor {
	return m.Grid.Center()
}

// SampleColor returns the color of the logical pixel at pt, relative to the
// origin of the monitor under the pointer.
func (s *Sampler) SampleColor(pt display.LogicalPoint) (imaging.RGBAColor, error) {
	grid, _, err := s.sampleGrid("sample_color", pt)
	if err != nil {
		return imaging.RGBAColor{}, err
	}
	return grid.Center(), nil
}

// SampleMagnified resamples the grid around pt and renders it magnified.
// The grid's center cell equals what SampleColor returns for the same
// point and screen content.
func (s *Sampler) SampleMagnified(pt display.LogicalPoint) (*Magnified, error) {
	grid, mon, err := s.sampleGrid("sample_magnified", pt)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Magnify(grid, s.cfg.Ratio, s.cfg.Magnify)
	if err != nil {
		return nil, fmt.Errorf("rendering magnified grid: %w", err)
	}
	return &Magnified{Grid: grid, Image: img, Ratio: s.cfg.Ratio, Monitor: mon}, nil
}

// Grid resamples the grid around pt without rendering it.
func (s *Sampler) Grid(pt display.LogicalPoint) (*imaging.Grid, error) {
	grid, _, err := s.sampleGrid("grid", pt)
	return grid, err
}

func (s *Sampler) sampleGrid(op string, pt display.LogicalPoint) (*imaging.Grid, display.Monitor, error) {
	start := time.Now()

	cursor, err := s.cursor.Cursor()
	if err != nil {
		return nil, display.Monitor{}, fmt.Errorf("%w: reading pointer: %w", ErrMonitorNotFound, err)
	}
	mon, err := display.Resolve(s.monitors, cursor)
	if err != nil {
		return nil, display.Monitor{}, err
	}

	req := imaging.NewGridRequest(mon, pt, s.cfg.Radius)
	rect := req.CaptureRect()

	frame, err := capture.Grab(s.capturer, mon, rect)
	if err != nil {
		return nil, mon, err
	}

	norm := s.cfg.Normalizer
	if norm == nil {
		norm = imaging.NormalizerFor(frame.Encoding)
	}

	grid, err := imaging.Resample(frame, req, norm)
	if err != nil {
		return nil, mon, err
	}

	s.log.WithFields(logrus.Fields{
		"op":       op,
		"monitor":  mon.Name,
		"rect":     rect.String(),
		"scale":    mon.Scale(),
		"encoding": frame.Encoding.String(),
		"elapsed":  time.Since(start),
	}).Debug("sampled grid")

	return grid, mon, nil
}
