package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth         = 1024
	DefaultHeight        = 1024
	DefaultBackground    = 255
	DefaultInk           = 0
	DefaultMaxIterations = 20
	DefaultMaxSymbols    = 1 << 24
	DefaultCacheSize     = 64
	DefaultFormat        = "png"
	DefaultGIFDelay      = 50
)

// ErrInvalidConfig indicates settings that cannot drive a render.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config holds render settings and optional user presets.
type Config struct {
	Width         int               `yaml:"width"`
	Height        int               `yaml:"height"`
	Background    uint8             `yaml:"background"`
	Ink           uint8             `yaml:"ink"`
	MaxIterations int               `yaml:"max_iterations"`
	MaxSymbols    int               `yaml:"max_symbols"`
	CacheSize     int               `yaml:"cache_size"`
	Format        string            `yaml:"format"`
	Frames        bool              `yaml:"frames"`
	GIF           bool              `yaml:"gif"`
	GIFDelay      int               `yaml:"gif_delay"`
	Presets       map[string]Preset `yaml:"presets,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		Background:    DefaultBackground,
		Ink:           DefaultInk,
		MaxIterations: DefaultMaxIterations,
		MaxSymbols:    DefaultMaxSymbols,
		CacheSize:     DefaultCacheSize,
		Format:        DefaultFormat,
		GIFDelay:      DefaultGIFDelay,
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for name, p := range cfg.Presets {
		if p.Name == "" {
			p.Name = name
			cfg.Presets[name] = p
		}
	}
	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks sizes, limits and every user preset.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("%w: max_iterations %d", ErrInvalidConfig, c.MaxIterations)
	}
	if c.GIFDelay < 0 {
		return fmt.Errorf("%w: gif_delay %d", ErrInvalidConfig, c.GIFDelay)
	}
	switch c.Format {
	case "png", "bmp", "tif", "tiff":
	default:
		return fmt.Errorf("%w: format %q", ErrInvalidConfig, c.Format)
	}
	for name, p := range c.Presets {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("preset %s: %w", name, err)
		}
	}
	return nil
}

// Preset resolves a user preset first, then a built-in one.
func (c *Config) Preset(name string) (Preset, bool) {
	if p, ok := c.Presets[name]; ok {
		return p.Clone(), true
	}
	return GetPreset(name)
}

// PresetNames lists built-in and user presets, sorted and deduplicated.
func (c *Config) PresetNames() []string {
	seen := make(map[string]bool)
	names := ListPresets()
	for _, n := range names {
		seen[n] = true
	}
	for n := range c.Presets {
		if !seen[n] {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}
