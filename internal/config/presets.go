package config

import "sort"

var Presets = map[string]*Config{
	"stroll": DefaultConfig(),
	"hike": preset(func(c *Config) {
		c.World.Margin = 512
		c.Walk.MaxDistance = 30.0
		c.Walk.Cycles = 200
	}),
	"sprint": preset(func(c *Config) {
		c.Walk.Speed = 5.0
		c.Walk.MinPause = 0.05
		c.Walk.MaxPause = 0.5
		c.Walk.Cycles = 100
	}),
	"dawdle": preset(func(c *Config) {
		c.Walk.MaxDistance = 4.0
		c.Walk.Speed = 0.8
		c.World.MarkerHalf = 2
	}),
}

func preset(apply func(*Config)) *Config {
	c := DefaultConfig()
	apply(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
