package metrics

import "github.com/san-kum/ballsim/internal/physics"

// RestFraction is the share of observed body-ticks spent at rest. A scene
// that settles early scores close to 1 over a long run.
type RestFraction struct {
	name    string
	resting int
	samples int
}

func NewRestFraction() *RestFraction {
	return &RestFraction{name: "rest_fraction"}
}

func (s *RestFraction) Name() string { return s.name }

func (s *RestFraction) Observe(_ int, bodies []physics.Body) {
	for _, b := range bodies {
		s.samples++
		if !b.Moving {
			s.resting++
		}
	}
}

func (s *RestFraction) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.resting) / float64(s.samples)
}

func (s *RestFraction) Reset() {
	s.resting = 0
	s.samples = 0
}
