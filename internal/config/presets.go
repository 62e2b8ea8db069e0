package config

import "sort"

// ClassicScene is the six-ball scene.
func ClassicScene() []BodyConfig {
	return []BodyConfig{
		{X: 100, Y: 20, Radius: 10, Mass: 0.1, Color: "pink2"},
		{X: 200, Y: 20, Radius: 10, Mass: 120, Color: "pink2"},
		{X: 300, Y: 20, Radius: 20, Mass: 3, Color: "pink2"},
		{X: 350, Y: 20, Radius: 10, Mass: 100, Color: "pink2"},
		{X: 100, Y: 20, Radius: 30, Mass: 10, Color: "pink2"},
		{X: 370, Y: 10, Radius: 50, Mass: 10, Color: "pink2"},
	}
}

var Presets = map[string]func() *Config{
	"classic": DefaultConfig,
	"pair": func() *Config {
		cfg := DefaultConfig()
		cfg.Bodies = []BodyConfig{
			{X: 100, Y: 20, Radius: 40, Mass: 10, Color: "pink2"},
			{X: 200, Y: 20, Radius: 40, Mass: 12, Color: "pink1"},
		}
		return cfg
	},
	"single": func() *Config {
		cfg := DefaultConfig()
		cfg.Width, cfg.Height = 400, 400
		cfg.Behavior.BounceHeight = 10
		cfg.Bodies = []BodyConfig{{X: 100, Y: 20, Radius: 10, Mass: 0.1, Color: "pink2"}}
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
