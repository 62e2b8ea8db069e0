package physics

// Phase is a body's stage in the fall, sink, bounce and settle sequence.
type Phase int

const (
	Falling Phase = iota
	Water
	Bounce1
	Bounce2
	Stopping
)

var phaseNames = [...]string{
	Falling:  "falling",
	Water:    "water",
	Bounce1:  "bounce1",
	Bounce2:  "bounce2",
	Stopping: "stopping",
}

func (p Phase) String() string {
	if p < Falling || p > Stopping {
		return "unknown"
	}
	return phaseNames[p]
}

// ParsePhase is the inverse of Phase.String.
func ParsePhase(s string) (Phase, bool) {
	for i, name := range phaseNames {
		if name == s {
			return Phase(i), true
		}
	}
	return Falling, false
}

// Body is one circular object. Y grows downward and X never changes.
type Body struct {
	X, Y         float64
	Radius       float64
	Mass         float64
	Velocity     float64
	Acceleration float64
	Phase        Phase
	Moving       bool
	Color        string

	// copied from Params when the body is created
	gravity         float64
	waterResistance float64
}

func newBody(p *Params, x, y, radius, mass float64, color string) *Body {
	return &Body{
		X:               x,
		Y:               y,
		Radius:          radius,
		Mass:            mass,
		Velocity:        p.InitialVelocity,
		Phase:           Falling,
		Moving:          true,
		Color:           color,
		gravity:         p.Gravity,
		waterResistance: p.WaterResistance,
	}
}

// Bottom is the y of the lowest point of the body.
func (b Body) Bottom() float64 { return b.Y + b.Radius }

func (b Body) Gravity() float64         { return b.gravity }
func (b Body) WaterResistance() float64 { return b.waterResistance }
