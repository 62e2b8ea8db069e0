package sim

import (
	"errors"

	"github.com/san-kum/ballsim/internal/physics"
)

var ErrInvalidRunConfig = errors.New("sim: invalid run configuration")

const (
	DefaultMaxTicks    = 20000
	DefaultSampleEvery = 1
)

// Observer is notified after every tick with a copy of all bodies.
type Observer interface {
	OnTick(tick int, bodies []physics.Body)
}

// TransitionObserver is notified for each phase change.
type TransitionObserver interface {
	OnTransition(tr physics.Transition)
}

// DensityChange sets the water density before the given tick is stepped.
type DensityChange struct {
	Tick    int
	Density float64
}

type Config struct {
	MaxTicks    int
	SampleEvery int
	Schedule    []DensityChange
}

func DefaultConfig() Config {
	return Config{
		MaxTicks:    DefaultMaxTicks,
		SampleEvery: DefaultSampleEvery,
	}
}

// Sample is one body at one tick.
type Sample struct {
	Tick     int     `csv:"tick" json:"tick"`
	Body     int     `csv:"body" json:"body"`
	X        float64 `csv:"x" json:"x"`
	Y        float64 `csv:"y" json:"y"`
	Radius   float64 `csv:"radius" json:"radius"`
	Velocity float64 `csv:"velocity" json:"velocity"`
	Phase    string  `csv:"phase" json:"phase"`
	Moving   bool    `csv:"moving" json:"moving"`
	Color    string  `csv:"color" json:"color"`
}

type Result struct {
	Ticks        int
	Settled      bool
	WaterDensity float64
	Samples      []Sample
	Transitions  []physics.Transition
}
