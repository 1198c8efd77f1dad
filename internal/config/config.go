package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "gallery"

type Config struct {
	DefaultFolder    string `koanf:"default_folder"`
	PersistPositions *bool  `koanf:"persist_positions"` // store playback positions across restarts (default: true)
	Icons            string `koanf:"icons"`             // "nerd", "unicode" or "none" (default: none)

	Playback  PlaybackConfig  `koanf:"playback"`
	Zoom      ZoomConfig      `koanf:"zoom"`
	Slideshow SlideshowConfig `koanf:"slideshow"`
	Log       LogConfig       `koanf:"log"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

// PlaybackConfig holds the tunables of the playback lifecycle.
// Durations are written as strings, e.g. "420s" or "500ms".
type PlaybackConfig struct {
	ResumeThreshold     time.Duration `koanf:"resume_threshold"`      // long-form boundary (default: 420s)
	TickInterval        time.Duration `koanf:"tick_interval"`         // progress observer cadence (default: 500ms)
	VideoEndTolerance   time.Duration `koanf:"video_end_tolerance"`   // end signal accepted within this of duration (default: 1s)
	ManualRestartWindow time.Duration `koanf:"manual_restart_window"` // manual play this close to the end restarts (default: 1s)
	SeekTimeout         time.Duration `koanf:"seek_timeout"`          // play waits at most this for a seek (default: 2s)
	PositionEpsilon     time.Duration `koanf:"position_epsilon"`      // positions below this count as zero (default: 100ms)
}

// ZoomConfig holds image zoom bounds.
type ZoomConfig struct {
	MinScale       float64 `koanf:"min_scale"`        // default: 1
	MaxScale       float64 `koanf:"max_scale"`        // default: 5
	DoubleTapScale float64 `koanf:"double_tap_scale"` // default: 2
}

// SlideshowConfig holds slideshow settings.
type SlideshowConfig struct {
	Interval time.Duration `koanf:"interval"` // time per still image (default: 5s)
	Loop     *bool         `koanf:"loop"`     // wrap around at the end (default: true)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `koanf:"level"` // "debug", "info", "warn", "error"
	File  string `koanf:"file"`  // empty means the XDG state dir
}

// MetricsConfig holds the optional Prometheus listener.
type MetricsConfig struct {
	Listen string `koanf:"listen"` // e.g. "127.0.0.1:9464", empty disables
}

func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom loads the given files in order; later files override earlier
// ones. Missing files are skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		DefaultFolder: "", // empty means use cwd
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.DefaultFolder != "" {
		cfg.DefaultFolder = expandPath(cfg.DefaultFolder)
	}
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/gallery/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// ShouldPersistPositions reports whether positions are stored on disk.
func (c *Config) ShouldPersistPositions() bool {
	return c.PersistPositions == nil || *c.PersistPositions
}

// HasMetricsListener returns true if the Prometheus listener is configured.
func (c *Config) HasMetricsListener() bool {
	return c.Metrics.Listen != ""
}

// GetPlaybackConfig returns the playback configuration with defaults applied.
func (c *Config) GetPlaybackConfig() PlaybackConfig {
	cfg := c.Playback

	if cfg.ResumeThreshold <= 0 {
		cfg.ResumeThreshold = 420 * time.Second
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 500 * time.Millisecond
	}
	if cfg.VideoEndTolerance <= 0 {
		cfg.VideoEndTolerance = time.Second
	}
	if cfg.ManualRestartWindow <= 0 {
		cfg.ManualRestartWindow = time.Second
	}
	if cfg.SeekTimeout <= 0 {
		cfg.SeekTimeout = 2 * time.Second
	}
	if cfg.PositionEpsilon <= 0 {
		cfg.PositionEpsilon = 100 * time.Millisecond
	}

	return cfg
}

// GetZoomConfig returns the zoom configuration with defaults applied.
func (c *Config) GetZoomConfig() ZoomConfig {
	cfg := c.Zoom

	if cfg.MinScale <= 0 {
		cfg.MinScale = 1
	}
	if cfg.MaxScale < cfg.MinScale {
		cfg.MaxScale = 5 * cfg.MinScale
	}
	if cfg.DoubleTapScale <= cfg.MinScale || cfg.DoubleTapScale > cfg.MaxScale {
		cfg.DoubleTapScale = min(2*cfg.MinScale, cfg.MaxScale)
	}

	return cfg
}

// GetSlideshowConfig returns the slideshow configuration with defaults applied.
func (c *Config) GetSlideshowConfig() SlideshowConfig {
	cfg := c.Slideshow

	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.Loop == nil {
		loop := true
		cfg.Loop = &loop
	}

	return cfg
}
