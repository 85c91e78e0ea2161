package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBus          = "1"
	DefaultAddress      = 0x3C
	DefaultWidth        = 128
	DefaultHeight       = 64
	DefaultColumnOffset = 2
	DefaultChunkSize    = 32

	DefaultMargin     = 256
	DefaultMarkerHalf = 1

	DefaultPixelsPerMeter = 1.5
	DefaultMinDistance    = 1.0
	DefaultMaxDistance    = 18.0
	DefaultMinPause       = 0.2
	DefaultMaxPause       = 3.0
	DefaultSpeed          = 1.4
	DefaultCycles         = 50
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the immutable run configuration handed to each component at
// construction.
type Config struct {
	Display DisplayConfig `yaml:"display"`
	World   WorldConfig   `yaml:"world"`
	Walk    WalkConfig    `yaml:"walk"`
}

type DisplayConfig struct {
	Bus          string `yaml:"bus"`
	Address      uint16 `yaml:"address"`
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	ColumnOffset int    `yaml:"column_offset"`
	ChunkSize    int    `yaml:"chunk_size"`
}

type WorldConfig struct {
	Margin     int `yaml:"margin"`
	MarkerHalf int `yaml:"marker_half"`
}

// WalkConfig holds the walk physics. Distances are meters, pauses seconds.
type WalkConfig struct {
	PixelsPerMeter float64 `yaml:"pixels_per_meter"`
	MinDistance    float64 `yaml:"min_distance"`
	MaxDistance    float64 `yaml:"max_distance"`
	MinPause       float64 `yaml:"min_pause"`
	MaxPause       float64 `yaml:"max_pause"`
	Speed          float64 `yaml:"speed"`
	Cycles         int     `yaml:"cycles"`
	Seed           int64   `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		Display: DisplayConfig{
			Bus:          DefaultBus,
			Address:      DefaultAddress,
			Width:        DefaultWidth,
			Height:       DefaultHeight,
			ColumnOffset: DefaultColumnOffset,
			ChunkSize:    DefaultChunkSize,
		},
		World: WorldConfig{
			Margin:     DefaultMargin,
			MarkerHalf: DefaultMarkerHalf,
		},
		Walk: WalkConfig{
			PixelsPerMeter: DefaultPixelsPerMeter,
			MinDistance:    DefaultMinDistance,
			MaxDistance:    DefaultMaxDistance,
			MinPause:       DefaultMinPause,
			MaxPause:       DefaultMaxPause,
			Speed:          DefaultSpeed,
			Cycles:         DefaultCycles,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of base; keys missing from the file keep the
// base values. base itself is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects geometry and physics the core cannot run with. The
// cycle count is not checked here; the prompt layer corrects it.
func (c *Config) Validate() error {
	d, w, k := c.Display, c.World, c.Walk
	switch {
	case d.Width <= 0 || d.Height <= 0:
		return fmt.Errorf("%w: display size %dx%d", ErrInvalid, d.Width, d.Height)
	case d.Height > 64 || d.Width+d.ColumnOffset > 132:
		return fmt.Errorf("%w: display %dx%d (offset %d) exceeds controller RAM", ErrInvalid, d.Width, d.Height, d.ColumnOffset)
	case d.ColumnOffset < 0:
		return fmt.Errorf("%w: column offset %d", ErrInvalid, d.ColumnOffset)
	case d.ChunkSize < 1 || d.ChunkSize > 32:
		return fmt.Errorf("%w: chunk size %d outside [1,32]", ErrInvalid, d.ChunkSize)
	case w.Margin < 0:
		return fmt.Errorf("%w: negative margin %d", ErrInvalid, w.Margin)
	case w.MarkerHalf < 0:
		return fmt.Errorf("%w: negative marker size %d", ErrInvalid, w.MarkerHalf)
	case k.PixelsPerMeter <= 0:
		return fmt.Errorf("%w: pixels per meter must be positive, got %f", ErrInvalid, k.PixelsPerMeter)
	case k.MinDistance <= 0 || k.MaxDistance < k.MinDistance:
		return fmt.Errorf("%w: distance range [%f,%f]", ErrInvalid, k.MinDistance, k.MaxDistance)
	case k.MinPause < 0 || k.MaxPause < k.MinPause:
		return fmt.Errorf("%w: pause range [%f,%f]", ErrInvalid, k.MinPause, k.MaxPause)
	case k.Speed <= 0:
		return fmt.Errorf("%w: speed must be positive, got %f", ErrInvalid, k.Speed)
	}
	return nil
}

// CanvasSize is the world canvas geometry implied by the display and margin.
func (c *Config) CanvasSize() (w, h int) {
	return c.Display.Width + 2*c.World.Margin, c.Display.Height + 2*c.World.Margin
}
