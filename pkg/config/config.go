// Package config loads infinicanvas settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/infinicanvas/config.toml (falling back
// to ~/.config/infinicanvas/config.toml) unless a path is given explicitly.
// A missing default file is not an error: every field has a default, and a
// file only needs the keys it overrides.
//
//	[canvas]
//	width = 1024
//	height = 768
//	background = "#fafafa"
//
//	[view]
//	scale = 1.5
//	anchor = "RB"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
// Unknown keys are rejected so that typos do not silently fall back to
// defaults.
package config

import (
	"errors"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	ierrors "github.com/matzehuels/infinicanvas/pkg/errors"
	"github.com/matzehuels/infinicanvas/pkg/frame"
	"github.com/matzehuels/infinicanvas/pkg/geom"
	"github.com/matzehuels/infinicanvas/pkg/surface"
	"github.com/matzehuels/infinicanvas/pkg/view"
)

const (
	appName  = "infinicanvas"
	fileName = "config.toml"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the full configuration file.
type Config struct {
	Canvas CanvasConfig `toml:"canvas"`
	View   ViewConfig   `toml:"view"`
	Grid   GridConfig   `toml:"grid"`
	Ruler  RulerConfig  `toml:"ruler"`
	Scene  SceneConfig  `toml:"scene"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CanvasConfig sets the frame size and background.
type CanvasConfig struct {
	Width      int      `toml:"width"`
	Height     int      `toml:"height"`
	Background string   `toml:"background"` // colour or "none" for transparent
	Formats    []string `toml:"formats"`
}

// ViewConfig is the view a canvas starts with.
type ViewConfig struct {
	Scale   float64 `toml:"scale"`
	OffsetX float64 `toml:"offset_x"`
	OffsetY float64 `toml:"offset_y"`
	Ratio   float64 `toml:"ratio"`
	Anchor  string  `toml:"anchor"`
}

type GridConfig struct {
	Step  float64 `toml:"step"`
	Color string  `toml:"color"`
}

type RulerConfig struct {
	Color       string  `toml:"color"`
	FontSize    float64 `toml:"font_size"`
	BaseStep    float64 `toml:"base_step"`
	MinSpacing  float64 `toml:"min_spacing"`
	TickLength  float64 `toml:"tick_length"`
	LabelOffset float64 `toml:"label_offset"`
}

type SceneConfig struct {
	Avatar  string `toml:"avatar"`
	Overlay bool   `toml:"overlay"`
}

// CacheConfig selects where frames and sessions are cached.
type CacheConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"` // file backend; empty uses the XDG cache dir
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
}

type ServerConfig struct {
	Addr            string   `toml:"addr"`
	SessionTTL      Duration `toml:"session_ttl"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// Duration is a time.Duration written as a Go duration string ("90s").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Canvas: CanvasConfig{Width: 800, Height: 600, Background: "#fff", Formats: []string{"png"}},
		View:   ViewConfig{Scale: 1, Ratio: 1, Anchor: string(geom.DefaultAnchor)},
		Grid:   GridConfig{Step: 25, Color: "#ddd"},
		Ruler: RulerConfig{
			Color:       "#000",
			FontSize:    12,
			BaseStep:    10,
			MinSpacing:  50,
			TickLength:  10,
			LabelOffset: 20,
		},
		Cache: CacheConfig{Backend: CacheFile, Prefix: appName + ":"},
		Server: ServerConfig{
			Addr:            ":8080",
			SessionTTL:      Duration{time.Hour},
			ShutdownTimeout: Duration{10 * time.Second},
		},
	}
}

// DefaultPath returns the config file location following XDG conventions.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Load reads the config at path over the defaults. An empty path reads the
// default location, where a missing file yields the defaults; an explicit
// path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if explicit {
			return nil, ierrors.Wrap(ierrors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return Default(), nil
	}
	if err != nil {
		return nil, ierrors.Wrap(ierrors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	cfg, err := Parse(string(data))
	if err != nil {
		return nil, ierrors.Wrap(ierrors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults and validates the result.
func Parse(text string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return nil, ierrors.Wrap(ierrors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, ierrors.New(ierrors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field that has a restricted range.
func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return ierrors.New(ierrors.ErrCodeInvalidConfig, "canvas size must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	floats := map[string][]float64{
		"view":  {c.View.Scale, c.View.OffsetX, c.View.OffsetY, c.View.Ratio},
		"grid":  {c.Grid.Step},
		"ruler": {c.Ruler.FontSize, c.Ruler.BaseStep, c.Ruler.MinSpacing, c.Ruler.TickLength, c.Ruler.LabelOffset},
	}
	for section, vs := range floats {
		if err := ierrors.ValidateFinite(section, vs...); err != nil {
			return ierrors.Wrap(ierrors.ErrCodeInvalidConfig, err, "%s values must be finite", section)
		}
	}
	if c.View.Scale < 0 || c.View.Ratio < 0 {
		return ierrors.New(ierrors.ErrCodeInvalidConfig, "view scale and ratio cannot be negative")
	}
	if _, err := geom.ParseAnchor(c.View.Anchor); err != nil {
		return ierrors.Wrap(ierrors.ErrCodeInvalidConfig, err, "view.anchor")
	}
	if c.Grid.Step < 0 {
		return ierrors.New(ierrors.ErrCodeInvalidConfig, "grid.step cannot be negative")
	}
	for name, v := range map[string]string{
		"canvas.background": c.Canvas.Background,
		"grid.color":        c.Grid.Color,
		"ruler.color":       c.Ruler.Color,
	} {
		if _, err := surface.ParseColor(v); err != nil {
			return ierrors.Wrap(ierrors.ErrCodeInvalidConfig, err, "%s", name)
		}
	}
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return ierrors.New(ierrors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Server.SessionTTL.Duration < 0 || c.Server.ShutdownTimeout.Duration < 0 {
		return ierrors.New(ierrors.ErrCodeInvalidConfig, "server durations cannot be negative")
	}
	return nil
}

// Snapshot returns the configured starting view.
func (c *Config) Snapshot() view.Snapshot {
	a, _ := geom.ParseAnchor(c.View.Anchor)
	return view.Snapshot{
		State:  view.State{Scale: c.View.Scale, OffsetX: c.View.OffsetX, OffsetY: c.View.OffsetY},
		Ratio:  c.View.Ratio,
		Anchor: a,
	}.Normalized()
}

// FrameOptions converts the appearance sections to renderer options.
func (c *Config) FrameOptions() frame.Options {
	return frame.Options{
		Background:      parseColor(c.Canvas.Background),
		GridStep:        c.Grid.Step,
		GridColor:       parseColor(c.Grid.Color),
		RulerColor:      parseColor(c.Ruler.Color),
		RulerFontSize:   c.Ruler.FontSize,
		RulerBaseStep:   c.Ruler.BaseStep,
		RulerMinSpacing: c.Ruler.MinSpacing,
		TickLength:      c.Ruler.TickLength,
		LabelOffset:     c.Ruler.LabelOffset,
		Overlay:         c.Scene.Overlay,
	}
}

// parseColor returns nil for "none" and for values Validate would reject.
func parseColor(s string) color.Color {
	c, err := surface.ParseColor(s)
	if err != nil || c == nil {
		return nil
	}
	return c
}
