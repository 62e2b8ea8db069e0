package physics

import (
	"fmt"
	"math"
)

const (
	DensityLow    = 0.5
	DensityNormal = 1.0
	DensityHigh   = 3.0
)

var densityPresets = map[string]float64{
	"low":    DensityLow,
	"normal": DensityNormal,
	"high":   DensityHigh,
}

// DensityPreset maps "low", "normal" and "high" to their densities.
func DensityPreset(name string) (float64, bool) {
	d, ok := densityPresets[name]
	return d, ok
}

const (
	waterGravityScale   = 0.1
	largeBodyRadius     = 20.0
	largeBodyDragScale  = 0.5
	sinkingDragScale    = 0.001
	risingDragScale     = 0.005
	bounceHeightScale   = 0.003
	bounceDamping       = 0.5
	reboundGravityScale = 0.05
	settleStep          = 0.1
)

// Transition records a body leaving one phase during a tick. Stopped is set
// when the body left Stopping and became terminal; To is then Stopping too.
type Transition struct {
	Tick    int
	Body    int
	From    Phase
	To      Phase
	Stopped bool
}

// Simulator owns all bodies and the environment they move through.
type Simulator struct {
	params       *Params
	waterLevel   float64
	groundLevel  float64
	waterDensity float64
	bodies       []*Body
	initial      []Body
	tick         int
}

func NewSimulator(p *Params) (*Simulator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{
		params:       p,
		waterLevel:   p.WaterLevel(),
		groundLevel:  p.GroundLevel(),
		waterDensity: DensityNormal,
		bodies:       make([]*Body, 0),
	}, nil
}

// AddBody appends a body in the Falling phase and returns its index.
func (s *Simulator) AddBody(x, y, radius, mass float64, color string) (int, error) {
	if !(radius > 0) || !(mass > 0) {
		return 0, fmt.Errorf("%w: radius and mass must be positive, got r=%f m=%f", ErrInvalidBody, radius, mass)
	}
	b := newBody(s.params, x, y, radius, mass, color)
	s.bodies = append(s.bodies, b)
	s.initial = append(s.initial, *b)
	return len(s.bodies) - 1, nil
}

func (s *Simulator) Params() *Params       { return s.params }
func (s *Simulator) WaterLevel() float64   { return s.waterLevel }
func (s *Simulator) GroundLevel() float64  { return s.groundLevel }
func (s *Simulator) WaterDensity() float64 { return s.waterDensity }
func (s *Simulator) Tick() int             { return s.tick }
func (s *Simulator) Len() int              { return len(s.bodies) }

// Body returns a copy of the i-th body.
func (s *Simulator) Body(i int) Body { return *s.bodies[i] }

// Bodies returns copies of all bodies in insertion (render) order.
func (s *Simulator) Bodies() []Body {
	out := make([]Body, len(s.bodies))
	for i, b := range s.bodies {
		out[i] = *b
	}
	return out
}

// SetWaterDensity changes the drag multiplier. It is read by the next Step.
func (s *Simulator) SetWaterDensity(d float64) error {
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return fmt.Errorf("%w: water density must be a non-negative number, got %f", ErrInvalidParams, d)
	}
	s.waterDensity = d
	return nil
}

// AllStopped is true when no body moves any more, including when there are no bodies.
func (s *Simulator) AllStopped() bool {
	for _, b := range s.bodies {
		if b.Moving {
			return false
		}
	}
	return true
}

// Moving counts bodies that are still updated by Step.
func (s *Simulator) Moving() int {
	n := 0
	for _, b := range s.bodies {
		if b.Moving {
			n++
		}
	}
	return n
}

// Step advances every moving body by one tick and returns the phase
// transitions that happened.
func (s *Simulator) Step() []Transition {
	s.tick++
	var transitions []Transition
	for i, b := range s.bodies {
		if !b.Moving {
			continue
		}
		from := b.Phase
		switch b.Phase {
		case Falling:
			s.stepFalling(b)
		case Water:
			s.stepWater(b)
		case Bounce1:
			s.stepBounce1(b)
		case Bounce2:
			s.stepBounce2(b)
		case Stopping:
			s.stepStopping(b)
		}
		if b.Phase != from || !b.Moving {
			transitions = append(transitions, Transition{
				Tick:    s.tick,
				Body:    i,
				From:    from,
				To:      b.Phase,
				Stopped: !b.Moving,
			})
		}
	}
	return transitions
}

func (s *Simulator) stepFalling(b *Body) {
	if b.Bottom() < s.waterLevel {
		b.Acceleration = b.gravity
		b.Velocity += b.Acceleration * s.params.TimeStep
		b.Y += b.Velocity
		return
	}
	b.Phase = Water
}

func (s *Simulator) stepWater(b *Body) {
	if b.Bottom() < s.groundLevel {
		b.Velocity += b.gravity * waterGravityScale
		drag := s.drag(b)
		if b.Velocity > 0 {
			b.Velocity -= drag * sinkingDragScale
		} else {
			b.Velocity += drag * risingDragScale
		}
		b.Y += b.Velocity
		return
	}
	b.Y = s.groundLevel - b.Radius
	b.Phase = Bounce1
}

// drag is the resistance magnitude in water; large bodies get half.
func (s *Simulator) drag(b *Body) float64 {
	d := b.waterResistance * b.Mass * b.Radius * s.waterDensity
	if b.Radius >= largeBodyRadius {
		d *= largeBodyDragScale
	}
	return d
}

// BounceHeight is how far above the floor a body rebounds before Bounce2.
func (s *Simulator) BounceHeight(b Body) float64 {
	return b.Mass * bounceHeightScale * s.params.BounceHeight
}

// stepBounce1 reflects and damps the velocity on every tick until the body
// has risen BounceHeight, so the rebound oscillates while it climbs.
func (s *Simulator) stepBounce1(b *Body) {
	if b.Y > s.groundLevel-b.Radius-s.BounceHeight(*b) {
		b.Velocity = -b.Velocity * s.params.BounceCoef * bounceDamping
		b.Y += b.Velocity
		return
	}
	b.Phase = Bounce2
}

func (s *Simulator) stepBounce2(b *Body) {
	if b.Bottom() < s.groundLevel {
		b.Velocity += b.gravity * reboundGravityScale
		b.Y += b.Velocity
		return
	}
	b.Y = s.groundLevel - b.Radius
	b.Phase = Stopping
}

func (s *Simulator) stepStopping(b *Body) {
	rest := s.groundLevel - b.Radius
	if b.Y < rest {
		b.Y += settleStep
		return
	}
	b.Y = rest
	b.Moving = false
}

// Reset puts every body back where it was added and rewinds the tick
// counter. Water density is left as it is.
func (s *Simulator) Reset() {
	s.tick = 0
	for i := range s.initial {
		b := s.initial[i]
		s.bodies[i] = &b
	}
}

// GetParams lists the values that may be tuned while the simulation runs.
func (s *Simulator) GetParams() map[string]float64 {
	return map[string]float64{
		"water_density": s.waterDensity,
		"bounce_height": s.params.BounceHeight,
		"bounce_coef":   s.params.BounceCoef,
	}
}

// SetParam changes a tunable value. Bounce values are written through to
// the shared Params.
func (s *Simulator) SetParam(name string, value float64) error {
	switch name {
	case "water_density":
		return s.SetWaterDensity(value)
	case "bounce_height":
		if value < 0 {
			return fmt.Errorf("%w: bounce height must not be negative, got %f", ErrInvalidParams, value)
		}
		s.params.BounceHeight = value
	case "bounce_coef":
		if value <= 0 {
			return fmt.Errorf("%w: bounce coefficient must be positive, got %f", ErrInvalidParams, value)
		}
		s.params.BounceCoef = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
