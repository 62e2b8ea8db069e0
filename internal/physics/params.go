package physics

import "fmt"

const (
	DefaultWidth           = 600
	DefaultHeight          = 600
	DefaultGravity         = 0.5
	DefaultTimeStep        = 1.0
	DefaultWaterResistance = 0.1
	DefaultBounceHeight    = 5.0
	DefaultBounceCoef      = 0.8
	DefaultGroundMargin    = 2
)

// Params is the environment a Simulator is built from. The simulator keeps
// the pointer; BounceHeight and BounceCoef change through Simulator.SetParam.
type Params struct {
	Width           int
	Height          int
	Gravity         float64
	TimeStep        float64
	InitialVelocity float64
	WaterResistance float64
	BounceHeight    float64
	BounceCoef      float64
	GroundMargin    int
}

func DefaultParams() *Params {
	return &Params{
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		Gravity:         DefaultGravity,
		TimeStep:        DefaultTimeStep,
		WaterResistance: DefaultWaterResistance,
		BounceHeight:    DefaultBounceHeight,
		BounceCoef:      DefaultBounceCoef,
		GroundMargin:    DefaultGroundMargin,
	}
}

// WaterLevel is the y of the water surface.
func (p *Params) WaterLevel() float64 {
	return float64(p.Height / 2)
}

// GroundLevel is the y of the floor.
func (p *Params) GroundLevel() float64 {
	return float64(p.Height - p.GroundMargin)
}

// Validate reports the first value that would make the phase rules meaningless.
func (p *Params) Validate() error {
	switch {
	case p == nil:
		return fmt.Errorf("%w: nil params", ErrInvalidParams)
	case p.Width <= 0 || p.Height <= 0:
		return fmt.Errorf("%w: viewport must be positive, got %dx%d", ErrInvalidParams, p.Width, p.Height)
	case p.TimeStep <= 0:
		return fmt.Errorf("%w: time step must be positive, got %f", ErrInvalidParams, p.TimeStep)
	case p.Gravity <= 0:
		return fmt.Errorf("%w: gravity must be positive, got %f", ErrInvalidParams, p.Gravity)
	case p.WaterResistance < 0:
		return fmt.Errorf("%w: water resistance must not be negative, got %f", ErrInvalidParams, p.WaterResistance)
	case p.BounceHeight < 0:
		return fmt.Errorf("%w: bounce height must not be negative, got %f", ErrInvalidParams, p.BounceHeight)
	case p.BounceCoef <= 0:
		return fmt.Errorf("%w: bounce coefficient must be positive, got %f", ErrInvalidParams, p.BounceCoef)
	case p.GroundMargin < 0 || p.GroundMargin >= p.Height/2:
		return fmt.Errorf("%w: ground margin %d must lie below the water line", ErrInvalidParams, p.GroundMargin)
	}
	return nil
}
