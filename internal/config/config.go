// Package config loads eyedropper settings from an INI file with
// environment overrides.
//
// The file is optional. Lookup order for its location is the explicit path
// given to Load, then $EYEDROPPER_CONFIG, then ~/.eyedropper/settings.ini.
//
//	[color_dropper]
//	magnify_radius = 5
//	magnify_ratio  = 20
//	color_mode     = auto   ; auto, srgb or gamma
//
//	[display.1]
//	scale_factor = 2
//
//	[server]
//	log_level    = info
//	preview_addr = 127.0.0.1:7331
//	cache_size   = 8
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"

	"github.com/ironsheep/eyedropper-mcp/internal/capture"
)

// Environment variables read by Load.
const (
	EnvConfig        = "EYEDROPPER_CONFIG"
	EnvMagnifyRadius = "EYEDROPPER_MAGNIFY_RADIUS"
	EnvMagnifyRatio  = "EYEDROPPER_MAGNIFY_RATIO"
	EnvColorMode     = "EYEDROPPER_COLOR_MODE"
	EnvLogLevel      = "EYEDROPPER_LOG_LEVEL"
)

// Limits on the sampling parameters.
const (
	MaxRadius = 32
	MaxRatio  = 64
)

// ErrInvalidSettings is returned when a setting is out of range or malformed.
var ErrInvalidSettings = errors.New("invalid settings")

// ColorMode selects how captured pixels are normalized.
type ColorMode string

const (
	// ColorModeAuto picks gamma correction on macOS and sRGB elsewhere.
	ColorModeAuto ColorMode = "auto"
	// ColorModeSRGB treats captured pixels as sRGB.
	ColorModeSRGB ColorMode = "srgb"
	// ColorModeGamma treats captured pixels as native and gamma-corrects them.
	ColorModeGamma ColorMode = "gamma"
)

// Settings holds every configurable value.
type Settings struct {
	MagnifyRadius int             `json:"magnify_radius"`
	MagnifyRatio  int             `json:"magnify_ratio"`
	ColorMode     ColorMode       `json:"color_mode"`
	DisplayScale  map[int]float64 `json:"display_scale,omitempty"`
	LogLevel      string          `json:"log_level"`
	PreviewAddr   string          `json:"preview_addr"`
	CacheSize     int             `json:"cache_size"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		MagnifyRadius: 5,
		MagnifyRatio:  20,
		ColorMode:     ColorModeAuto,
		DisplayScale:  map[int]float64{},
		LogLevel:      "info",
		PreviewAddr:   "127.0.0.1:7331",
		CacheSize:     8,
	}
}

// DefaultPath returns the settings file location when none is given.
func DefaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".eyedropper", "settings.ini")
}

// Load reads settings from path, or from DefaultPath when path is empty.
// A missing file yields the defaults. Environment overrides are applied last
// and the result is validated.
func Load(path string) (Settings, error) {
	if path == "" {
		path = DefaultPath()
	}

	s := Default()
	if path != "" {
		f, err := ini.LooseLoad(path)
		if err != nil {
			return Settings{}, fmt.Errorf("failed to read settings %s: %w", path, err)
		}
		if err := s.apply(f); err != nil {
			return Settings{}, fmt.Errorf("%s: %w", path, err)
		}
	}

	if err := s.applyEnv(); err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s *Settings) apply(f *ini.File) error {
	cd := f.Section("color_dropper")
	if err := intKey(cd, "magnify_radius", &s.MagnifyRadius); err != nil {
		return err
	}
	if err := intKey(cd, "magnify_ratio", &s.MagnifyRatio); err != nil {
		return err
	}
	if cd.HasKey("color_mode") {
		s.ColorMode = ColorMode(strings.ToLower(cd.Key("color_mode").String()))
	}

	srv := f.Section("server")
	if srv.HasKey("log_level") {
		s.LogLevel = srv.Key("log_level").String()
	}
	if srv.HasKey("preview_addr") {
		s.PreviewAddr = srv.Key("preview_addr").String()
	}
	if err := intKey(srv, "cache_size", &s.CacheSize); err != nil {
		return err
	}

	for _, sec := range f.Sections() {
		name := sec.Name()
		if !strings.HasPrefix(name, "display.") {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimPrefix(name, "display."))
		if err != nil {
			return fmt.Errorf("%w: section [%s]: display index must be an integer", ErrInvalidSettings, name)
		}
		if !sec.HasKey("scale_factor") {
			continue
		}
		scale, err := sec.Key("scale_factor").Float64()
		if err != nil {
			return fmt.Errorf("%w: [%s] scale_factor: %v", ErrInvalidSettings, name, err)
		}
		s.DisplayScale[idx] = scale
	}
	return nil
}

func intKey(sec *ini.Section, name string, dst *int) error {
	if !sec.HasKey(name) {
		return nil
	}
	v, err := sec.Key(name).Int()
	if err != nil {
		return fmt.Errorf("%w: [%s] %s: %v", ErrInvalidSettings, sec.Name(), name, err)
	}
	*dst = v
	return nil
}

func (s *Settings) applyEnv() error {
	if v, ok := os.LookupEnv(EnvMagnifyRadius); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidSettings, EnvMagnifyRadius, err)
		}
		s.MagnifyRadius = n
	}
	if v, ok := os.LookupEnv(EnvMagnifyRatio); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidSettings, EnvMagnifyRatio, err)
		}
		s.MagnifyRatio = n
	}
	if v, ok := os.LookupEnv(EnvColorMode); ok {
		s.ColorMode = ColorMode(strings.ToLower(v))
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		s.LogLevel = v
	}
	return nil
}

// Validate checks every setting.
func (s Settings) Validate() error {
	if s.MagnifyRadius < 0 || s.MagnifyRadius > MaxRadius {
		return fmt.Errorf("%w: magnify_radius %d not in [0, %d]", ErrInvalidSettings, s.MagnifyRadius, MaxRadius)
	}
	if s.MagnifyRatio < 1 || s.MagnifyRatio > MaxRatio {
		return fmt.Errorf("%w: magnify_ratio %d not in [1, %d]", ErrInvalidSettings, s.MagnifyRatio, MaxRatio)
	}
	switch s.ColorMode {
	case ColorModeAuto, ColorModeSRGB, ColorModeGamma:
	default:
		return fmt.Errorf("%w: color_mode %q (want auto, srgb or gamma)", ErrInvalidSettings, s.ColorMode)
	}
	if _, err := logrus.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalidSettings, err)
	}
	if s.CacheSize < 1 {
		return fmt.Errorf("%w: cache_size %d must be positive", ErrInvalidSettings, s.CacheSize)
	}
	for idx, scale := range s.DisplayScale {
		if scale <= 0 {
			return fmt.Errorf("%w: display %d scale_factor %g must be positive", ErrInvalidSettings, idx, scale)
		}
	}
	return nil
}

// Encoding returns the capture encoding implied by ColorMode.
func (s Settings) Encoding() capture.Encoding {
	switch s.ColorMode {
	case ColorModeSRGB:
		return capture.EncodingSRGB
	case ColorModeGamma:
		return capture.EncodingNative
	default:
		return capture.DefaultEncoding()
	}
}

// Level returns the parsed log level, defaulting to info.
func (s Settings) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(s.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// DisplayIndexes returns the display indexes that have a configured scale,
// in ascending order.
func (s Settings) DisplayIndexes() []int {
	idx := make([]int, 0, len(s.DisplayScale))
	for i := range s.DisplayScale {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}
