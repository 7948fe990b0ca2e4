// Package config loads the visualizer settings file.
//
// Config file locations (priority order):
//  1. $GUNGNIR_CONFIG
//  2. ./gungnir.yaml
//  3. $XDG_CONFIG_HOME/gungnir/config.yaml
//  4. ~/.config/gungnir/config.yaml
//
// Missing keys fall back to defaults, command-line flags override file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lixenwraith/gungnir/audio"
	"github.com/lixenwraith/gungnir/feed"
	"github.com/lixenwraith/gungnir/network"
	"github.com/lixenwraith/gungnir/render"
	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigPath is the environment variable for explicit config path
	EnvConfigPath = "GUNGNIR_CONFIG"
	// ConfigFileName is the default config file name
	ConfigFileName = "gungnir.yaml"
	// ConfigDirName is the config directory name under XDG
	ConfigDirName = "gungnir"
)

// Config is the on-disk settings schema
type Config struct {
	Version int           `yaml:"version"`
	Network NetworkConfig `yaml:"network"`
	Render  RenderConfig  `yaml:"render"`
	Audio   AudioConfig   `yaml:"audio"`
	Feed    FeedConfig    `yaml:"feed"`
}

// NetworkConfig mirrors network.Config with file-friendly types
// Pointer fields distinguish an explicit zero from a missing key
type NetworkConfig struct {
	NodeCount            int           `yaml:"node_count"`
	ConnectionDistance   float64       `yaml:"connection_distance"`
	VelocityRange        *float64      `yaml:"velocity_range,omitempty"`
	RadiusMin            float64       `yaml:"radius_min"`
	RadiusMax            float64       `yaml:"radius_max"`
	TrailFade            *float64      `yaml:"trail_fade,omitempty"`
	EdgeOpacity          float64       `yaml:"edge_opacity"`
	OpacityNormalization float64       `yaml:"opacity_normalization,omitempty"`
	Background           string        `yaml:"background"`
	EdgeColor            string        `yaml:"edge_color"`
	Palette              PaletteConfig `yaml:"palette"`
	Seed                 uint64        `yaml:"seed,omitempty"`
	FPS                  int           `yaml:"fps"`
}

// PaletteConfig selects node colors, explicit hex list or random hue
type PaletteConfig struct {
	Colors     []string `yaml:"colors,omitempty"`
	Saturation float64  `yaml:"saturation"`
	Lightness  float64  `yaml:"lightness"`
}

// RenderConfig sets terminal rasterization
type RenderConfig struct {
	CellWidth  int `yaml:"cell_width"`  // Virtual pixels per terminal column
	CellHeight int `yaml:"cell_height"` // Virtual pixels per terminal row
}

// AudioConfig controls the link blip
type AudioConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Frequency float64       `yaml:"frequency"`
	Duration  time.Duration `yaml:"duration"`
	MinGap    time.Duration `yaml:"min_gap"`
	Volume    float64       `yaml:"volume"`
}

// FeedConfig seeds the status line feed
type FeedConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	Initial      feed.Sample   `yaml:"initial"`
}

// Default returns the stock configuration
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads path, or searches the standard locations when path is empty
// Returns defaults and an empty path when no file exists
func Load(path string) (*Config, string, error) {
	if path == "" {
		path = FindConfigPath()
	}
	if path == "" {
		return Default(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

func ptr(f float64) *float64 { return &f }

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}

	n := &c.Network
	if n.NodeCount == 0 {
		n.NodeCount = network.DefaultNodeCount
	}
	if n.ConnectionDistance == 0 {
		n.ConnectionDistance = network.DefaultConnectionDistance
	}
	if n.VelocityRange == nil {
		n.VelocityRange = ptr(network.DefaultVelocityRange)
	}
	if n.RadiusMin == 0 {
		n.RadiusMin = network.DefaultRadiusMin
	}
	if n.RadiusMax == 0 {
		n.RadiusMax = max(network.DefaultRadiusMax, n.RadiusMin)
	}
	if n.TrailFade == nil {
		n.TrailFade = ptr(network.DefaultTrailFade)
	}
	if n.EdgeOpacity == 0 {
		n.EdgeOpacity = network.DefaultEdgeOpacity
	}
	if n.Background == "" {
		n.Background = render.RGBSlate.Hex()
	}
	if n.EdgeColor == "" {
		n.EdgeColor = render.RGBCyan.Hex()
	}
	if len(n.Palette.Colors) == 0 {
		def := network.DefaultPalette()
		if n.Palette.Saturation == 0 {
			n.Palette.Saturation = def.Saturation
		}
		if n.Palette.Lightness == 0 {
			n.Palette.Lightness = def.Lightness
		}
	}
	if n.FPS == 0 {
		n.FPS = 60
	}

	if c.Render.CellWidth == 0 {
		c.Render.CellWidth = 8
	}
	if c.Render.CellHeight == 0 {
		c.Render.CellHeight = 16
	}

	def := audio.DefaultPulseConfig()
	if c.Audio.Frequency == 0 {
		c.Audio.Frequency = def.Frequency
	}
	if c.Audio.Duration == 0 {
		c.Audio.Duration = def.Duration
	}
	if c.Audio.MinGap == 0 {
		c.Audio.MinGap = def.MinGap
	}
	if c.Audio.Volume == 0 {
		c.Audio.Volume = def.Volume
	}

	if c.Feed.PollInterval == 0 {
		c.Feed.PollInterval = 5 * time.Second
	}
	if c.Feed.Initial == (feed.Sample{}) {
		c.Feed.Initial = feed.Sample{ThreatsDetected: 127, ZeroDays: 3, ActiveSessions: 1247, SystemHealth: 98.7}
	}
}

// Validate checks every section, errors wrap network.ErrInvalidConfiguration
func (c *Config) Validate() error {
	if _, err := c.NetworkConfig(); err != nil {
		return err
	}

	invalid := network.ErrInvalidConfiguration
	switch {
	case c.Render.CellWidth <= 0 || c.Render.CellHeight <= 0:
		return fmt.Errorf("%w: cell size %dx%d must be positive", invalid, c.Render.CellWidth, c.Render.CellHeight)
	case c.Audio.Frequency <= 0:
		return fmt.Errorf("%w: audio frequency %v must be positive", invalid, c.Audio.Frequency)
	case c.Audio.Duration <= 0:
		return fmt.Errorf("%w: audio duration %v must be positive", invalid, c.Audio.Duration)
	case c.Audio.MinGap < 0:
		return fmt.Errorf("%w: audio min gap %v must be non-negative", invalid, c.Audio.MinGap)
	case c.Feed.PollInterval <= 0:
		return fmt.Errorf("%w: feed poll interval %v must be positive", invalid, c.Feed.PollInterval)
	}
	if err := c.Feed.Initial.Validate(); err != nil {
		return fmt.Errorf("%w: feed initial sample: %v", invalid, err)
	}
	return nil
}

// NetworkConfig converts to a validated network.Config
func (c *Config) NetworkConfig() (network.Config, error) {
	n := c.Network
	if n.FPS <= 0 {
		return network.Config{}, fmt.Errorf("%w: fps %d must be positive", network.ErrInvalidConfiguration, n.FPS)
	}

	bg, err := render.ParseHex(n.Background)
	if err != nil {
		return network.Config{}, fmt.Errorf("%w: background: %v", network.ErrInvalidConfiguration, err)
	}
	edge, err := render.ParseHex(n.EdgeColor)
	if err != nil {
		return network.Config{}, fmt.Errorf("%w: edge color: %v", network.ErrInvalidConfiguration, err)
	}

	palette := network.Palette{Saturation: n.Palette.Saturation, Lightness: n.Palette.Lightness}
	for _, hex := range n.Palette.Colors {
		rgb, err := render.ParseHex(hex)
		if err != nil {
			return network.Config{}, fmt.Errorf("%w: palette color %q: %v", network.ErrInvalidConfiguration, hex, err)
		}
		palette.Colors = append(palette.Colors, rgb)
	}

	out := network.Config{
		NodeCount:            n.NodeCount,
		ConnectionDistance:   n.ConnectionDistance,
		VelocityRange:        *n.VelocityRange,
		RadiusMin:            n.RadiusMin,
		RadiusMax:            n.RadiusMax,
		TrailFade:            *n.TrailFade,
		EdgeOpacity:          n.EdgeOpacity,
		OpacityNormalization: n.OpacityNormalization,
		Background:           bg,
		EdgeColor:            edge,
		Palette:              palette,
		Seed:                 n.Seed,
		FrameInterval:        time.Second / time.Duration(n.FPS),
	}
	return out, out.Validate()
}

// PulseConfig converts the audio section
func (c *Config) PulseConfig() audio.PulseConfig {
	return audio.PulseConfig{
		Frequency: c.Audio.Frequency,
		Duration:  c.Audio.Duration,
		MinGap:    c.Audio.MinGap,
		Volume:    c.Audio.Volume,
	}
}

// FindConfigPath searches the standard locations, empty string if none exists
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" && fileExists(path) {
		return path
	}

	if fileExists(ConfigFileName) {
		if abs, err := filepath.Abs(ConfigFileName); err == nil {
			return abs
		}
		return ConfigFileName
	}

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		path := filepath.Join(xdgHome, ConfigDirName, "config.yaml")
		if fileExists(path) {
			return path
		}
	}

	if home := os.Getenv("HOME"); home != "" {
		path := filepath.Join(home, ".config", ConfigDirName, "config.yaml")
		if fileExists(path) {
			return path
		}
	}

	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
