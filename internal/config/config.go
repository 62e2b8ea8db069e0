package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ballsim/internal/physics"
)

const (
	DefaultAnimation = 60
	DefaultBg        = "#ffffff"
	DefaultWater     = "#87ceeb"
	DefaultOutline   = "#8b4789"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Width    int            `yaml:"width"`
	Height   int            `yaml:"height"`
	Speeds   SpeedsConfig   `yaml:"speeds"`
	Behavior BehaviorConfig `yaml:"behavior"`
	Colors   ColorsConfig   `yaml:"colors"`
	Bodies   []BodyConfig   `yaml:"bodies"`
}

type SpeedsConfig struct {
	Gravity         float64 `yaml:"gravity"`
	TimeStep        float64 `yaml:"time_step"`
	InitialVelocity float64 `yaml:"initial_velocity"`
	Animation       int     `yaml:"animation"` // frames per second
}

type BehaviorConfig struct {
	WaterResistance float64 `yaml:"water_resistance"`
	BounceHeight    float64 `yaml:"bounce_height"`
	BounceCoef      float64 `yaml:"bounce_coef"`
	GroundMargin    int     `yaml:"ground_margin"`
}

type ColorsConfig struct {
	Bg          string `yaml:"bg"`
	Water       string `yaml:"water"`
	OvalOutline string `yaml:"oval_outline"`
}

type BodyConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
	Mass   float64 `yaml:"mass"`
	Color  string  `yaml:"color"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:  physics.DefaultWidth,
		Height: physics.DefaultHeight,
		Speeds: SpeedsConfig{
			Gravity:   physics.DefaultGravity,
			TimeStep:  physics.DefaultTimeStep,
			Animation: DefaultAnimation,
		},
		Behavior: BehaviorConfig{
			WaterResistance: physics.DefaultWaterResistance,
			BounceHeight:    physics.DefaultBounceHeight,
			BounceCoef:      physics.DefaultBounceCoef,
			GroundMargin:    physics.DefaultGroundMargin,
		},
		Colors: ColorsConfig{
			Bg:          DefaultBg,
			Water:       DefaultWater,
			OvalOutline: DefaultOutline,
		},
		Bodies: ClassicScene(),
	}
}

// Load overlays the file at path onto DefaultConfig. Unknown keys and
// invalid values are errors. JSON files load as well.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Speeds.Animation <= 0 {
		return fmt.Errorf("%w: speeds.animation must be positive, got %d", ErrInvalidConfig, c.Speeds.Animation)
	}
	for i, b := range c.Bodies {
		if b.Radius <= 0 || b.Mass <= 0 {
			return fmt.Errorf("%w: bodies[%d]: radius and mass must be positive", ErrInvalidConfig, i)
		}
		if _, err := ParseColor(b.Color); err != nil {
			return fmt.Errorf("%w: bodies[%d]: %v", ErrInvalidConfig, i, err)
		}
	}
	for name, col := range map[string]string{"bg": c.Colors.Bg, "water": c.Colors.Water, "oval_outline": c.Colors.OvalOutline} {
		if _, err := ParseColor(col); err != nil {
			return fmt.Errorf("%w: colors.%s: %v", ErrInvalidConfig, name, err)
		}
	}
	return nil
}

// Params returns a fresh physics snapshot of the configuration.
func (c *Config) Params() *physics.Params {
	return &physics.Params{
		Width:           c.Width,
		Height:          c.Height,
		Gravity:         c.Speeds.Gravity,
		TimeStep:        c.Speeds.TimeStep,
		InitialVelocity: c.Speeds.InitialVelocity,
		WaterResistance: c.Behavior.WaterResistance,
		BounceHeight:    c.Behavior.BounceHeight,
		BounceCoef:      c.Behavior.BounceCoef,
		GroundMargin:    c.Behavior.GroundMargin,
	}
}

// NewSimulator builds a simulator and adds the configured bodies in order.
func (c *Config) NewSimulator() (*physics.Simulator, error) {
	s, err := physics.NewSimulator(c.Params())
	if err != nil {
		return nil, err
	}
	for i, b := range c.Bodies {
		if _, err := s.AddBody(b.X, b.Y, b.Radius, b.Mass, b.Color); err != nil {
			return nil, fmt.Errorf("bodies[%d]: %w", i, err)
		}
	}
	return s, nil
}
