package metrics

import "github.com/san-kum/ballsim/internal/physics"

// KineticEnergy is the mean over ticks of the total 1/2 m v^2 of bodies in
// free motion. Stopping and stopped bodies keep a stale velocity and are
// left out.
type KineticEnergy struct {
	name    string
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "mean_kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(_ int, bodies []physics.Body) {
	e.total += kinetic(bodies)
	e.samples++
}

func kinetic(bodies []physics.Body) float64 {
	sum := 0.0
	for _, b := range bodies {
		if !b.Moving || b.Phase == physics.Stopping {
			continue
		}
		sum += 0.5 * b.Mass * b.Velocity * b.Velocity
	}
	return sum
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.samples = 0
}

// PeakImpact is the largest speed any body had when it reached the floor,
// taken on the tick it entered Bounce1.
type PeakImpact struct {
	name string
	prev map[int]physics.Phase
	peak float64
}

func NewPeakImpact() *PeakImpact {
	return &PeakImpact{name: "peak_impact_velocity", prev: make(map[int]physics.Phase)}
}

func (p *PeakImpact) Name() string { return p.name }

func (p *PeakImpact) Observe(_ int, bodies []physics.Body) {
	for i, b := range bodies {
		if prev, ok := p.prev[i]; ok && prev == physics.Water && b.Phase == physics.Bounce1 {
			speed := b.Velocity
			if speed < 0 {
				speed = -speed
			}
			p.peak = max(p.peak, speed)
		}
		p.prev[i] = b.Phase
	}
}

func (p *PeakImpact) Value() float64 { return p.peak }

func (p *PeakImpact) Reset() {
	p.peak = 0
	clear(p.prev)
}
