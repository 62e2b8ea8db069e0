package config

import (
	"fmt"
	"sort"
)

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Bodies = append([]BodyConfig(nil), c.Bodies...)
	return &out
}

var tunable = map[string]func(c *Config, v float64){
	"gravity":          func(c *Config, v float64) { c.Speeds.Gravity = v },
	"time_step":        func(c *Config, v float64) { c.Speeds.TimeStep = v },
	"initial_velocity": func(c *Config, v float64) { c.Speeds.InitialVelocity = v },
	"water_resistance": func(c *Config, v float64) { c.Behavior.WaterResistance = v },
	"bounce_height":    func(c *Config, v float64) { c.Behavior.BounceHeight = v },
	"bounce_coef":      func(c *Config, v float64) { c.Behavior.BounceCoef = v },
	"ground_margin":    func(c *Config, v float64) { c.Behavior.GroundMargin = int(v) },
}

// SetParam sets a numeric scene parameter by its yaml key. The result is
// not validated; NewSimulator does that.
func (c *Config) SetParam(name string, value float64) error {
	set, ok := tunable[name]
	if !ok {
		return fmt.Errorf("%w: unknown param %q", ErrInvalidConfig, name)
	}
	set(c, value)
	return nil
}

// GetParams returns every tunable value keyed like SetParam.
func (c *Config) GetParams() map[string]float64 {
	return map[string]float64{
		"gravity":          c.Speeds.Gravity,
		"time_step":        c.Speeds.TimeStep,
		"initial_velocity": c.Speeds.InitialVelocity,
		"water_resistance": c.Behavior.WaterResistance,
		"bounce_height":    c.Behavior.BounceHeight,
		"bounce_coef":      c.Behavior.BounceCoef,
		"ground_margin":    float64(c.Behavior.GroundMargin),
	}
}

func TunableParams() []string {
	names := make([]string, 0, len(tunable))
	for name := range tunable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
